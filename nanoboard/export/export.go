// Package export dumps stored collections into a single portable snapshot
// and loads such a snapshot back into a store.
//
// A snapshot is a plain document keyed by storage key. It can be written
// as JSON or YAML, so a board can be reviewed or hand-edited before being
// imported elsewhere.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/nanoboard/nanoboard/storage"
)

// SnapshotVersion is written into every snapshot
const SnapshotVersion = 1

// Format selects the snapshot encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml in any case
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want json or yaml)", s)
	}
}

// Snapshot holds the decoded value of every exported key
type Snapshot struct {
	Version     int            `json:"version" yaml:"version"`
	ExportedAt  time.Time      `json:"exported_at" yaml:"exported_at"`
	Collections map[string]any `json:"collections" yaml:"collections"`
}

// Keys returns the snapshot's storage keys in order
func (s *Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.Collections))
	for k := range s.Collections {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Options configures Export
type Options struct {
	// Keys limits the export. Empty means every registered collection.
	Keys []storage.Key
	// Now stamps the snapshot; defaults to time.Now
	Now func() time.Time
}

// Export reads the selected keys from kv. Keys with nothing stored are
// left out of the snapshot.
func Export(ctx context.Context, kv storage.KV, opts Options) (*Snapshot, error) {
	keys := opts.Keys
	if len(keys) == 0 {
		keys = storage.RegisteredKeys()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	snap := &Snapshot{
		Version:     SnapshotVersion,
		ExportedAt:  now().UTC(),
		Collections: make(map[string]any, len(keys)),
	}
	for _, key := range keys {
		raw, ok, err := kv.Get(ctx, key.String())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("stored value for %s does not parse: %w", key, err)
		}
		snap.Collections[key.String()] = v
	}
	return snap, nil
}

// Encode writes the snapshot to w
func Encode(w io.Writer, snap *Snapshot, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// Decode reads a snapshot written by Encode
func Decode(r io.Reader, format Format) (*Snapshot, error) {
	var snap Snapshot
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&snap); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&snap); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	return &snap, nil
}

// ImportOptions configures Import
type ImportOptions struct {
	// DryRun reports what would be written without touching the store
	DryRun bool
	// Overwrite replaces keys that already hold a value
	Overwrite bool
}

// ImportResult lists the keys written and the keys left alone
type ImportResult struct {
	Written []string
	Skipped []string
}

// Import stores every collection in the snapshot. Keys are validated before
// anything is written.
func Import(ctx context.Context, kv storage.KV, snap *Snapshot, opts ImportOptions) (*ImportResult, error) {
	if snap == nil {
		return nil, fmt.Errorf("no snapshot to import")
	}
	keys := snap.Keys()
	for _, k := range keys {
		if _, err := storage.ParseKey(k); err != nil {
			return nil, fmt.Errorf("invalid snapshot: %w", err)
		}
	}

	result := &ImportResult{Written: []string{}, Skipped: []string{}}
	for _, k := range keys {
		if !opts.Overwrite {
			_, exists, err := kv.Get(ctx, k)
			if err != nil {
				return result, fmt.Errorf("failed to read %s: %w", k, err)
			}
			if exists {
				result.Skipped = append(result.Skipped, k)
				continue
			}
		}
		raw, err := json.Marshal(normalize(snap.Collections[k]))
		if err != nil {
			return result, fmt.Errorf("failed to encode %s: %w", k, err)
		}
		if !opts.DryRun {
			if err := kv.Put(ctx, k, raw); err != nil {
				return result, fmt.Errorf("failed to write %s: %w", k, err)
			}
		}
		result.Written = append(result.Written, k)
	}
	return result, nil
}

// normalize turns the map[any]any values yaml can produce into maps JSON
// can encode
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}
