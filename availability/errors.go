package availability

import (
	"fmt"
	"time"
)

// InvalidRangeError reports a policy window whose end precedes its start.
type InvalidRangeError struct {
	From time.Time
	To   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("availability: invalid policy window: availableTo %s is before availableFrom %s",
		e.To.Format(dateLayout), e.From.Format(dateLayout))
}

// InvalidIntervalError reports a zero-length or inverted booking interval.
// Callers get this instead of a silent "not available" so bad input stays
// distinguishable from genuine unavailability.
type InvalidIntervalError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("availability: invalid interval: end %s must be after start %s",
		e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
}

// OutOfWindowError reports a requested interval that extends beyond the
// policy window. The interval is reported, never silently clipped.
type OutOfWindowError struct {
	Start time.Time
	End   time.Time
	From  time.Time
	To    time.Time
}

func (e *OutOfWindowError) Error() string {
	return fmt.Sprintf("availability: interval [%s, %s) is outside the rentable window [%s, %s]",
		e.Start.Format(dateLayout), e.End.Format(dateLayout),
		e.From.Format(dateLayout), e.To.Format(dateLayout))
}

// ConstructionError reports malformed raw fields handed to ParsePolicy or
// ParseLedger. Network-layer failures are the caller's problem; by the time
// data reaches this package it is either well-formed or a ConstructionError.
type ConstructionError struct {
	Field string
	Err   error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("availability: cannot construct from field %q: %v", e.Field, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }
