package availability

import (
	"sort"
	"time"
)

// Status is a booking's lifecycle state. Transitions (pending -> confirmed
// or cancelled, confirmed -> completed) are owned by the backend; this
// package only consumes the state to decide blocking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Blocks reports whether a booking in this state counts toward
// unavailability. Pending blocks: a not-yet-decided request holds its dates
// so two renters cannot race for the same span.
func (s Status) Blocks() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Entry is one booking interval as the ledger sees it. The interval is
// half-open [Start, End).
type Entry struct {
	ID     uint
	Start  time.Time
	End    time.Time
	Status Status
}

// Ledger holds the blocking bookings of a single item, ordered by start.
// It reports overlaps; rejecting them is the backend's job.
type Ledger struct {
	entries []Entry
}

// NewLedger keeps only blocking entries and orders them. Input order does
// not matter and the input slice is not retained.
func NewLedger(entries []Entry) Ledger {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Status.Blocks() {
			kept = append(kept, e)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Start.Before(kept[j].Start) })
	return Ledger{entries: kept}
}

// Entries returns the blocking entries in start order.
func (l Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Overlaps reports whether any blocking booking intersects the half-open
// candidate interval [start, end). A booking ending exactly when the
// candidate starts does not conflict.
func (l Ledger) Overlaps(start, end time.Time) bool {
	for _, e := range l.entries {
		if e.Start.Before(end) && e.End.After(start) {
			return true
		}
	}
	return false
}

// CoveringDay reports whether the date (truncated to a calendar day) falls
// inside any blocking booking's day span. The span is half-open on day
// boundaries; an end carrying a time of day still occupies its final
// partial day.
func (l Ledger) CoveringDay(t time.Time) bool {
	d := Day(t)
	for _, e := range l.entries {
		if !d.Before(dayFloor(e.Start)) && d.Before(dayCeil(e.End)) {
			return true
		}
	}
	return false
}

func dayFloor(t time.Time) time.Time { return Day(t) }

func dayCeil(t time.Time) time.Time {
	d := Day(t)
	if t.After(d) {
		return d.AddDate(0, 0, 1)
	}
	return d
}
