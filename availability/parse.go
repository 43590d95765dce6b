package availability

import (
	"fmt"
	"time"

	"golang.org/x/exp/slices"
)

var validRules = []Rule{AllDays, WeekdaysOnly, WeekendsOnly}

var validStatuses = []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

// BookingRecord is a raw booking row as it arrives from the API or the
// database: ISO calendar dates or date-times plus a status string.
type BookingRecord struct {
	ID        uint   `json:"id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

// ParsePolicy builds a Policy from raw wire fields. Empty from/to leave
// that side of the window open; an empty rule means all days. Malformed
// input fails with *ConstructionError, a malformed window with
// *InvalidRangeError.
func ParsePolicy(availableFrom, availableTo, rule string, disabledDates []string) (Policy, error) {
	from, err := parseOptionalDate(availableFrom)
	if err != nil {
		return Policy{}, &ConstructionError{Field: "available_from", Err: err}
	}
	to, err := parseOptionalDate(availableTo)
	if err != nil {
		return Policy{}, &ConstructionError{Field: "available_to", Err: err}
	}

	r := Rule(rule)
	if rule == "" {
		r = AllDays
	} else if !slices.Contains(validRules, r) {
		return Policy{}, &ConstructionError{Field: "availability_rule", Err: fmt.Errorf("unknown rule %q", rule)}
	}

	blocked := make([]time.Time, 0, len(disabledDates))
	for _, s := range disabledDates {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return Policy{}, &ConstructionError{Field: "disabled_dates", Err: err}
		}
		blocked = append(blocked, d)
	}

	return NewPolicy(from, to, r, blocked)
}

// ParseLedger builds a Ledger from raw booking records. Records whose
// status does not block are dropped, but every record must still parse:
// malformed dates, unknown statuses or inverted intervals fail with
// *ConstructionError.
func ParseLedger(records []BookingRecord) (Ledger, error) {
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		status := Status(rec.Status)
		if !slices.Contains(validStatuses, status) {
			return Ledger{}, &ConstructionError{Field: "status", Err: fmt.Errorf("unknown status %q", rec.Status)}
		}
		start, err := ParseDateTime(rec.StartDate)
		if err != nil {
			return Ledger{}, &ConstructionError{Field: "start_date", Err: err}
		}
		end, err := ParseDateTime(rec.EndDate)
		if err != nil {
			return Ledger{}, &ConstructionError{Field: "end_date", Err: err}
		}
		if !start.Before(end) {
			return Ledger{}, &ConstructionError{
				Field: "end_date",
				Err:   fmt.Errorf("booking %d: end %s not after start %s", rec.ID, rec.EndDate, rec.StartDate),
			}
		}
		entries = append(entries, Entry{ID: rec.ID, Start: start, End: end, Status: status})
	}
	return NewLedger(entries), nil
}

func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

// ParseDateTime reads the wire formats this package accepts for booking
// bounds: an ISO calendar date or an RFC 3339 date-time.
func ParseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
