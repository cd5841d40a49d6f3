package migration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/arthur-debert/nanoboard/nanoboard/storage"
)

// Migrator runs plans against a store
type Migrator struct {
	plans  map[string]Plan
	logger *slog.Logger
}

// NewMigrator creates a Migrator over the given plans. With no plans it
// uses BuiltinPlans.
func NewMigrator(plans ...Plan) *Migrator {
	if len(plans) == 0 {
		plans = BuiltinPlans()
	}
	m := &Migrator{plans: make(map[string]Plan, len(plans)), logger: slog.Default()}
	for _, p := range plans {
		m.plans[p.Name] = p
	}
	return m
}

// WithLogger sets the logger used for migration progress
func (m *Migrator) WithLogger(logger *slog.Logger) *Migrator {
	m.logger = logger
	return m
}

// KeyStatus describes where one collection stands
type KeyStatus struct {
	Key     storage.Key
	Current bool // the current-version key holds a value
	Stored  int  // newest older version holding a value, 0 if none
}

// Pending reports whether Run would write anything
func (s KeyStatus) Pending() bool {
	return !s.Current && s.Stored > 0
}

// Status inspects every key in keys
func (m *Migrator) Status(ctx context.Context, kv storage.KV, keys []storage.Key) ([]KeyStatus, error) {
	out := make([]KeyStatus, 0, len(keys))
	for _, key := range keys {
		st := KeyStatus{Key: key}
		_, ok, err := kv.Get(ctx, key.String())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		st.Current = ok
		v, _, err := newestOlder(ctx, kv, key)
		if err != nil {
			return nil, err
		}
		st.Stored = v
		out = append(out, st)
	}
	return out, nil
}

// Run upgrades the newest older version of key to key.Version. A store
// that already holds the current key, or holds no older one, is left alone
// and reported with CodeNothingToDo. The old key is never deleted.
func (m *Migrator) Run(ctx context.Context, kv storage.KV, key storage.Key, opts Options) (*Result, error) {
	start := time.Now()
	result := &Result{
		Key:       key.String(),
		ToVersion: key.Version,
		Success:   true,
		Code:      CodeSuccess,
		Messages:  []Message{},
	}
	defer func() { result.Stats.Duration = time.Since(start) }()

	if _, ok, err := kv.Get(ctx, key.String()); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	} else if ok {
		result.Code = CodeNothingToDo
		result.addf(LevelInfo, "%s is already at v%d", key.Name, key.Version)
		return result, nil
	}

	from, raw, err := newestOlder(ctx, kv, key)
	if err != nil {
		return nil, err
	}
	result.FromVersion = from
	if from == 0 {
		result.Code = CodeNothingToDo
		result.addf(LevelInfo, "No older version of %s found", key.Name)
		return result, nil
	}

	plan, ok := m.plans[key.Name]
	if !ok {
		return m.fail(result, CodeValidationError, "No migration plan for %s", key.Name), nil
	}
	result.Messages = append(result.Messages, plan.Validate(key.Version)...)
	if result.HasErrors() {
		result.Success = false
		result.Code = CodeValidationError
		return result, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return m.fail(result, CodeExecutionError, "Stored %s v%d is not valid JSON: %v", key.Name, from, err), nil
	}

	for v := from; v < key.Version; v++ {
		step, _ := plan.step(v)
		if opts.Verbose {
			result.addf(LevelDebug, "Applying %s v%d -> v%d", key.Name, v, v+1)
		}
		for _, cmd := range step.Commands {
			targets := cmd.Target().Resolve(doc)
			result.Stats.Objects += len(targets)
			if opts.Verbose {
				result.addf(LevelDebug, "%s (%d objects)", cmd.Description(), len(targets))
			}
			if err := cmd.Apply(targets, result); err != nil {
				return m.fail(result, CodeExecutionError, "%s failed: %v", cmd.Description(), err), nil
			}
		}
	}

	if opts.DryRun {
		result.addf(LevelInfo, "(DRY RUN - no changes applied)")
		return result, nil
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return m.fail(result, CodeExecutionError, "Failed to encode migrated %s: %v", key.Name, err), nil
	}
	if err := kv.Put(ctx, key.String(), out); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", key, err)
	}
	m.logger.Info("migrated collection", "key", key.String(), "from", from, "to", key.Version,
		"modified", result.Stats.Modified)
	result.addf(LevelInfo, "Migrated %s from v%d to v%d", key.Name, from, key.Version)
	return result, nil
}

// RunAll migrates every key, stopping at the first storage error
func (m *Migrator) RunAll(ctx context.Context, kv storage.KV, keys []storage.Key, opts Options) ([]*Result, error) {
	results := make([]*Result, 0, len(keys))
	for _, key := range keys {
		r, err := m.Run(ctx, kv, key, opts)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (m *Migrator) fail(r *Result, code int, format string, args ...interface{}) *Result {
	r.Success = false
	r.Code = code
	r.addf(LevelError, format, args...)
	m.logger.Warn("migration failed", "key", r.Key, "message", r.Messages[len(r.Messages)-1].Text)
	return r
}

// newestOlder finds the highest version below key.Version that holds a value
func newestOlder(ctx context.Context, kv storage.KV, key storage.Key) (int, []byte, error) {
	for v := key.Version - 1; v >= 1; v-- {
		raw, ok, err := kv.Get(ctx, key.AtVersion(v).String())
		if err != nil {
			return 0, nil, fmt.Errorf("failed to read %s: %w", key.AtVersion(v), err)
		}
		if ok {
			return v, raw, nil
		}
	}
	return 0, nil, nil
}
