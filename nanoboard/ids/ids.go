// Package ids generates entity identifiers.
//
// Identifiers keep the readable "<prefix>-" form used by the stored data
// ("item-…", "group-…") but the suffix is a random UUID instead of a
// millisecond timestamp, so two entities created in the same millisecond
// can no longer collide.
package ids

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Prefixes used for each entity kind
const (
	PrefixWorkspace = "ws"
	PrefixBoard     = "board"
	PrefixGroup     = "group"
	PrefixItem      = "item"
	PrefixComment   = "comment"
	PrefixSubtask   = "sub"
	PrefixFlow      = "flow"
	PrefixNode      = "node"
	PrefixMaterial  = "mat"
)

// Generator produces a fresh identifier for the given prefix
type Generator interface {
	New(prefix string) string
}

// UUIDGenerator is the default generator
type UUIDGenerator struct{}

// New returns "<prefix>-<uuid v4>"
func (UUIDGenerator) New(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Default is the process-wide generator used when none is injected
var Default Generator = UUIDGenerator{}

// New generates an id with the default generator
func New(prefix string) string {
	return Default.New(prefix)
}

// Sequence yields "<prefix>-<n>" with a process-monotonic counter. It is
// deterministic and meant for tests and fixtures.
type Sequence struct {
	n atomic.Uint64
}

// New returns the next id in the sequence
func (s *Sequence) New(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, s.n.Add(1))
}

// Valid reports whether id carries the given prefix and a UUID suffix
func Valid(prefix, id string) bool {
	if len(id) <= len(prefix)+1 || id[:len(prefix)+1] != prefix+"-" {
		return false
	}
	_, err := uuid.Parse(id[len(prefix)+1:])
	return err == nil
}
