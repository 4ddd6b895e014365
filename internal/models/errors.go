// Package models defines data structures for Advisor
package models

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Callers match with errors.Is.
var (
	// ErrInsufficientData indicates a price series is too short for a
	// requested window. Localized to a single indicator — never aborts a
	// whole analysis run.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrMissingInput indicates a required scalar input is absent (e.g. no
	// ESG score from the provider). Propagated as "unknown", not a crash.
	ErrMissingInput = errors.New("missing input")

	// ErrUpstreamUnavailable indicates an external provider failed or timed
	// out. Triggers fallback paths, never surfaced raw to the end caller.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrContractViolation indicates the caller supplied mutually exclusive
	// inputs. This one IS surfaced — it is a programming error.
	ErrContractViolation = errors.New("contract violation")
)

// InsufficientDataError carries the window that could not be satisfied.
type InsufficientDataError struct {
	Ticker   string
	Required int
	Actual   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: need %d points, have %d", e.Ticker, e.Required, e.Actual)
}

func (e *InsufficientDataError) Unwrap() error { return ErrInsufficientData }

// UpstreamError wraps a provider failure with the provider name.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() []error { return []error{ErrUpstreamUnavailable, e.Err} }

// ContractError describes which caller contract was violated.
type ContractError struct {
	Reason string
}

func (e *ContractError) Error() string {
	return "contract violation: " + e.Reason
}

func (e *ContractError) Unwrap() error { return ErrContractViolation }
