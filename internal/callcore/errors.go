package callcore

import "errors"

// Sentinel errors surfaced by Init, for use with errors.Is.
var (
	// ErrRegexCompile indicates the configured match expression is invalid.
	ErrRegexCompile = errors.New("invalid match expression")

	// ErrResourceAllocation indicates the call table's underlying
	// containers could not be constructed from the given capture options.
	ErrResourceAllocation = errors.New("call store resource allocation failed")
)
