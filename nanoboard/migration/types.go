// Package migration upgrades stored collections from one schema version to
// the next.
//
// Collections are stored under versioned keys (see storage.Key). A Plan for
// a collection lists one Step per version bump; each Step is a list of
// commands that rewrite the decoded JSON document in place. The Migrator
// reads the newest older version present in a store, runs the steps that
// lead to the current version and writes the result under the current key.
// Older keys are left untouched so a migration can always be redone.
package migration

import (
	"errors"
	"fmt"
	"time"
)

// MessageLevel represents the severity of a message
type MessageLevel int

const (
	LevelDebug MessageLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

func (l MessageLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Message represents a single output message from a migration
type Message struct {
	Level   MessageLevel
	Text    string
	Details map[string]interface{}
}

// Result encapsulates the outcome of a migration operation
type Result struct {
	Key         string // key written (or that would be written)
	FromVersion int
	ToVersion   int
	Success     bool
	Code        int // 0 = success, >0 = specific error codes
	Messages    []Message
	Stats       Stats
}

// Stats provides migration statistics
type Stats struct {
	Objects  int // objects reached by command paths
	Modified int // objects a command changed
	Skipped  int // objects left alone because of a conflict
	Duration time.Duration
}

// Options configures migration behavior
type Options struct {
	DryRun  bool
	Verbose bool
}

// Error codes
const (
	CodeSuccess = iota
	CodeValidationError
	CodeExecutionError
	CodeNothingToDo
)

func (r *Result) addf(level MessageLevel, format string, args ...interface{}) {
	r.Messages = append(r.Messages, Message{Level: level, Text: fmt.Sprintf(format, args...)})
}

// Err returns the first error message of a failed result, or nil
func (r *Result) Err() error {
	if r.Success {
		return nil
	}
	for _, m := range r.Messages {
		if m.Level == LevelError {
			return errors.New(m.Text)
		}
	}
	return fmt.Errorf("migration of %s failed with code %d", r.Key, r.Code)
}

// HasErrors reports whether any message is an error
func (r *Result) HasErrors() bool {
	for _, m := range r.Messages {
		if m.Level == LevelError {
			return true
		}
	}
	return false
}
