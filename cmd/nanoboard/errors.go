package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arthur-debert/nanoboard/nanoboard/workspace"
)

// CLIError represents a user-friendly CLI error with context and suggestions
type CLIError struct {
	Operation   string   // The operation that failed (e.g., "add item", "move item")
	Cause       string   // The underlying cause (e.g., "item not found")
	Details     string   // Additional technical details
	Suggestions []string // Helpful suggestions for the user
	Underlying  error    // Original error for debugging
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var msg strings.Builder

	if e.Operation != "" {
		msg.WriteString(fmt.Sprintf("Failed to %s", e.Operation))
	} else {
		msg.WriteString("Operation failed")
	}

	if e.Cause != "" {
		msg.WriteString(fmt.Sprintf(": %s", e.Cause))
	}

	if e.Details != "" {
		msg.WriteString(fmt.Sprintf(" (%s)", e.Details))
	}

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			msg.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return msg.String()
}

// Unwrap returns the underlying error for error chain compatibility
func (e *CLIError) Unwrap() error {
	return e.Underlying
}

// NewValidationError creates an error for validation failures
func NewValidationError(operation, field, value string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("invalid %s: %q", field, value),
		Suggestions: suggestions,
	}
}

// NewNotFoundError creates an error for missing resources
func NewNotFoundError(operation, resource, id string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("%s with ID %q not found", resource, id),
		Suggestions: suggestions,
		Underlying:  workspace.ErrNotFound,
	}
}

// NewConfigError creates an error for configuration issues
func NewConfigError(operation, issue string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("configuration error: %s", issue),
		Suggestions: suggestions,
	}
}

// NewStoreError creates an error for store-related issues
func NewStoreError(operation string, underlying error, suggestions ...string) *CLIError {
	cause := "store operation failed"
	details := ""

	if underlying != nil {
		details = underlying.Error()

		errStr := strings.ToLower(underlying.Error())
		switch {
		case errors.Is(underlying, workspace.ErrNotFound):
			cause = "resource not found"
		case strings.Contains(errStr, "no such file"):
			cause = "store file not found"
		case strings.Contains(errStr, "permission denied"):
			cause = "insufficient permissions to access the store"
		case strings.Contains(errStr, "lock"):
			cause = "store is currently locked by another process"
		case strings.Contains(errStr, "connection refused"):
			cause = "store server is not reachable"
		case strings.Contains(errStr, "invalid") || strings.Contains(errStr, "unknown"):
			cause = "invalid data provided"
		}
	}

	return &CLIError{
		Operation:   operation,
		Cause:       cause,
		Details:     details,
		Suggestions: suggestions,
		Underlying:  underlying,
	}
}

// WrapError wraps an existing error with CLI-friendly context
func WrapError(operation string, err error, suggestions ...string) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		if cliErr.Operation == "" {
			cliErr.Operation = operation
		}
		return cliErr
	}

	if errors.Is(err, workspace.ErrNotFound) && len(suggestions) == 0 {
		suggestions = []string{CommonSuggestions.CheckID}
	}
	return NewStoreError(operation, err, suggestions...)
}

// Common error messages and suggestions
var CommonSuggestions = struct {
	CheckID     string
	CheckConfig string
	CheckFlags  string
	CheckPath   string
	CheckPerms  string
	RunHelp     string
	TryDryRun   string
}{
	CheckID:     "Verify the ID exists (try a 'list' command first)",
	CheckConfig: "Check your configuration file or NANOBOARD_* environment variables",
	CheckFlags:  "Check command line flags and their values",
	CheckPath:   "Verify --path points to a writable location",
	CheckPerms:  "Check file permissions and directory access",
	RunHelp:     "Run command with --help for usage information",
	TryDryRun:   "Use --dry-run to preview the operation",
}
