package availability

import (
	"math"
	"time"
)

// Evaluator is the single source of truth for "can this date or interval be
// booked". It is a pure view over an immutable policy + ledger snapshot;
// callers rebuild it after any write instead of mutating it. It is an
// advisory pre-check only; the database remains the authority that
// prevents double-booking.
type Evaluator struct {
	Policy      Policy
	Ledger      Ledger
	PricePerDay float64
}

// Quote is the priced result of a requested interval.
type Quote struct {
	Days       int     `json:"dayCount"`
	TotalPrice float64 `json:"totalPrice"`
}

func NewEvaluator(policy Policy, ledger Ledger, pricePerDay float64) Evaluator {
	return Evaluator{Policy: policy, Ledger: ledger, PricePerDay: pricePerDay}
}

// IsDateAvailable reports whether a single calendar day can be booked: it
// must pass the window and recurrence rule, not be owner-blocked, and not be
// covered by a blocking booking.
func (e Evaluator) IsDateAvailable(t time.Time) bool {
	d := Day(t)
	return e.Policy.IsDayCandidate(d) &&
		!e.Policy.IsBlocked(d) &&
		!e.Ledger.CoveringDay(d)
}

// IsIntervalAvailable reports whether every calendar day in the half-open
// interval [start, end) is bookable and no blocking booking overlaps it.
// An end carrying a time of day still occupies its final partial day, so
// that day is checked too (matching CoveringDay and the window check).
// Inverted or empty intervals return *InvalidIntervalError; intervals that
// leave the policy window return *OutOfWindowError.
func (e Evaluator) IsIntervalAvailable(start, end time.Time) (bool, error) {
	if !start.Before(end) {
		return false, &InvalidIntervalError{Start: start, End: end}
	}
	if err := e.checkWindow(start, end); err != nil {
		return false, err
	}
	for d := Day(start); d.Before(dayCeil(end)); d = d.AddDate(0, 0, 1) {
		if !e.IsDateAvailable(d) {
			return false, nil
		}
	}
	if e.Ledger.Overlaps(start, end) {
		return false, nil
	}
	return true, nil
}

// QuoteForInterval prices the interval. Midnight-aligned inputs are a
// whole-day flow and quote the exact calendar-day difference; inputs with a
// time of day quote ceil(duration/24h). The mode is derived from the inputs,
// so one quote never mixes the two granularities.
func (e Evaluator) QuoteForInterval(start, end time.Time) (Quote, error) {
	if !start.Before(end) {
		return Quote{}, &InvalidIntervalError{Start: start, End: end}
	}
	if err := e.checkWindow(start, end); err != nil {
		return Quote{}, err
	}

	var days int
	if start.Equal(Day(start)) && end.Equal(Day(end)) {
		days = int(end.Sub(start).Hours() / 24)
	} else {
		days = int(math.Ceil(end.Sub(start).Hours() / 24))
	}
	return Quote{Days: days, TotalPrice: float64(days) * e.PricePerDay}, nil
}

func (e Evaluator) checkWindow(start, end time.Time) error {
	from, to := e.Policy.AvailableFrom, e.Policy.AvailableTo
	if !from.IsZero() && Day(start).Before(from) {
		return &OutOfWindowError{Start: Day(start), End: Day(end), From: from, To: to}
	}
	// The last occupied day is the day before the half-open end.
	if !to.IsZero() && dayCeil(end).AddDate(0, 0, -1).After(to) {
		return &OutOfWindowError{Start: Day(start), End: Day(end), From: from, To: to}
	}
	return nil
}
