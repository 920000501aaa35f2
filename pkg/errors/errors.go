// Package errors provides structured error handling for durapool.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes.
const (
	ExitSuccess  = 0 // Successful execution
	ExitGeneral  = 1 // General/unknown error
	ExitInput    = 2 // Invalid input or configuration
	ExitNotFound = 3 // Resource not found
	ExitCapacity = 4 // Pool exhausted or degraded capacity
)

// DuraError is the structured error type for durapool.
type DuraError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for the operator
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *DuraError) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *DuraError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for DuraError.
// Two DuraErrors match when their codes match.
func (e *DuraError) Is(target error) bool {
	var t *DuraError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &DuraError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	// Pool and lease errors.
	ErrPoolExhausted = &DuraError{
		Code:       "POOL_EXHAUSTED",
		Message:    "no free nonce account available",
		Suggestion: "retry with backoff or increase the nonce account pool size",
		ExitCode:   ExitCapacity,
	}

	ErrLeaseExpired = &DuraError{
		Code:     "LEASE_EXPIRED",
		Message:  "lease was reclaimed by the watchdog",
		ExitCode: ExitGeneral,
	}

	ErrLeaseReleased = &DuraError{
		Code:     "LEASE_RELEASED",
		Message:  "lease has already been released",
		ExitCode: ExitGeneral,
	}

	ErrRefreshFailed = &DuraError{
		Code:     "REFRESH_FAILED",
		Message:  "nonce refresh failed",
		ExitCode: ExitGeneral,
	}

	ErrPoolDegraded = &DuraError{
		Code:       "POOL_DEGRADED",
		Message:    "every nonce refresh in the batch failed",
		Suggestion: "check RPC endpoint connectivity",
		ExitCode:   ExitCapacity,
	}

	// Build errors.
	ErrMissingLease = &DuraError{
		Code:     "MISSING_LEASE",
		Message:  "transaction build requires a live nonce lease",
		ExitCode: ExitGeneral,
	}

	ErrBuildOrdering = &DuraError{
		Code:     "BUILD_ORDERING",
		Message:  "instruction set violates build ordering rules",
		ExitCode: ExitGeneral,
	}

	// Network errors.
	ErrNetworkError = &DuraError{
		Code:     "NETWORK_ERROR",
		Message:  "network communication failed",
		ExitCode: ExitGeneral,
	}

	ErrRPCURLRequired = &DuraError{
		Code:     "RPC_URL_REQUIRED",
		Message:  "RPC URL is required",
		ExitCode: ExitInput,
	}

	ErrInvalidAddress = &DuraError{
		Code:     "INVALID_ADDRESS",
		Message:  "invalid account address",
		ExitCode: ExitInput,
	}

	// Config errors.
	ErrConfigNotFound = &DuraError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &DuraError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}
)

// Wrap returns a copy of the sentinel with the given cause attached.
func Wrap(sentinel *DuraError, cause error) *DuraError {
	e := *sentinel
	e.Cause = cause
	return &e
}

// WithDetails returns a copy of the sentinel with detail key/value pairs attached.
func WithDetails(sentinel *DuraError, details map[string]string) *DuraError {
	e := *sentinel
	e.Details = details
	return &e
}

// WithSuggestion returns a copy of the sentinel with a suggestion attached.
func WithSuggestion(sentinel *DuraError, suggestion string) *DuraError {
	e := *sentinel
	e.Suggestion = suggestion
	return &e
}

// Suggestion returns the recovery hint attached to an error, or ""
// when there is none.
func Suggestion(err error) string {
	var de *DuraError
	if errors.As(err, &de) {
		return de.Suggestion
	}
	return ""
}

// ExitCode returns the CLI exit code for an error.
// Unknown error types map to ExitGeneral; nil maps to ExitSuccess.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var de *DuraError
	if errors.As(err, &de) {
		return de.ExitCode
	}
	return ExitGeneral
}
