package storage

import (
	"fmt"
	"strconv"
	"strings"
)

const keyPrefix = "nanoboard_"

// Key names one persisted collection at one schema version
type Key struct {
	Name    string
	Version int
}

// String renders the stored key, e.g. "nanoboard_workspaces_v2"
func (k Key) String() string {
	return fmt.Sprintf("%s%s_v%d", keyPrefix, k.Name, k.Version)
}

// AtVersion returns the same collection at another version
func (k Key) AtVersion(v int) Key {
	return Key{Name: k.Name, Version: v}
}

// ParseKey reverses Key.String
func ParseKey(s string) (Key, error) {
	if !strings.HasPrefix(s, keyPrefix) {
		return Key{}, fmt.Errorf("key %q does not start with %q", s, keyPrefix)
	}
	rest := strings.TrimPrefix(s, keyPrefix)
	i := strings.LastIndex(rest, "_v")
	if i <= 0 {
		return Key{}, fmt.Errorf("key %q has no version suffix", s)
	}
	v, err := strconv.Atoi(rest[i+2:])
	if err != nil || v < 1 {
		return Key{}, fmt.Errorf("key %q has an invalid version", s)
	}
	return Key{Name: rest[:i], Version: v}, nil
}

// Registered collections at their current schema versions
var (
	WorkspacesKey = Key{Name: "workspaces", Version: 2}
	ContactsKey   = Key{Name: "contacts", Version: 1}
	CampaignsKey  = Key{Name: "campaigns", Version: 1}
	WorkflowsKey  = Key{Name: "workflows", Version: 1}
	FlowsKey      = Key{Name: "automation_flows", Version: 2}
	BrandVoiceKey = Key{Name: "brand_voice", Version: 1}
)

// RegisteredKeys lists every collection the application persists
func RegisteredKeys() []Key {
	return []Key{WorkspacesKey, ContactsKey, CampaignsKey, WorkflowsKey, FlowsKey, BrandVoiceKey}
}

// LookupKey finds a registered key by collection name
func LookupKey(name string) (Key, bool) {
	for _, k := range RegisteredKeys() {
		if k.Name == name {
			return k, true
		}
	}
	return Key{}, false
}
