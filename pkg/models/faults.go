package models

import (
	"errors"
	"fmt"
)

// FailureKind classifies the structural failures a valuation request can
// surface. Extraction-level misses (individual line items) are recovered by
// zero-filling and never become failures; these kinds cover the cases where
// a silently wrong number would otherwise be produced.
type FailureKind string

const (
	// KindDataUnavailable: the data collaborator could not supply
	// statements or market data (network failure, unknown ticker,
	// malformed or empty response). Not retried automatically.
	KindDataUnavailable FailureKind = "DATA_UNAVAILABLE"

	// KindInsufficientHistory: fewer than two usable historical periods.
	// Normally recovered by assumption fallbacks; surfaced only where even
	// defaults cannot produce a denominator-safe computation.
	KindInsufficientHistory FailureKind = "INSUFFICIENT_HISTORY"

	// KindInvalidDiscountSpread: WACC <= terminal growth rate, so the
	// perpetuity formula diverges. Fatal to the request.
	KindInvalidDiscountSpread FailureKind = "INVALID_DISCOUNT_SPREAD"

	// KindInvalidParameters: out-of-range or non-numeric request inputs,
	// rejected before any computation begins.
	KindInvalidParameters FailureKind = "INVALID_PARAMETERS"
)

// Failure is a typed valuation failure. The message is diagnostic, not
// user-facing copy; the caller owns user-visible wording.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
	Err     error       `json:"-"`
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error { return f.Err }

// NewFailure builds a Failure with a formatted message.
func NewFailure(kind FailureKind, format string, args ...interface{}) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapFailure builds a Failure around an underlying error.
func WrapFailure(kind FailureKind, err error, format string, args ...interface{}) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the failure kind from err, or "" when err carries no
// Failure in its chain.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}
