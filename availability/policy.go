package availability

import (
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// Rule is the owner's day-of-week filter, applied independently of explicit
// blocked dates and bookings.
type Rule string

const (
	AllDays      Rule = "all_days"
	WeekdaysOnly Rule = "weekdays_only"
	WeekendsOnly Rule = "weekends_only"
)

// Day truncates t to midnight UTC. All calendar-day comparisons in this
// package happen on Day-normalized values.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Policy is an item's static availability configuration: the overall
// rentable window, a recurring day-of-week rule and explicitly blocked
// dates. A zero AvailableFrom or AvailableTo leaves that side of the window
// open (items created without dates are rentable until the owner says
// otherwise). Policies are immutable; owners replace them wholesale.
type Policy struct {
	AvailableFrom time.Time
	AvailableTo   time.Time
	Rule          Rule

	blocked map[time.Time]struct{}
}

// NewPolicy validates and builds a policy. Blocked dates are normalized to
// midnight UTC. Returns *InvalidRangeError when both bounds are set and the
// window is inverted.
func NewPolicy(from, to time.Time, rule Rule, blockedDates []time.Time) (Policy, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return Policy{}, &InvalidRangeError{From: from, To: to}
	}
	if rule == "" {
		rule = AllDays
	}

	p := Policy{
		AvailableFrom: from,
		AvailableTo:   to,
		Rule:          rule,
		blocked:       make(map[time.Time]struct{}, len(blockedDates)),
	}
	if !from.IsZero() {
		p.AvailableFrom = Day(from)
	}
	if !to.IsZero() {
		p.AvailableTo = Day(to)
	}
	for _, d := range blockedDates {
		p.blocked[Day(d)] = struct{}{}
	}
	return p, nil
}

// WithBlockedDatesPruned returns a copy whose blocked dates all lie inside
// the window. Pruning is lossy: widening the window afterwards does not
// resurrect dates dropped here.
func (p Policy) WithBlockedDatesPruned() Policy {
	pruned := Policy{
		AvailableFrom: p.AvailableFrom,
		AvailableTo:   p.AvailableTo,
		Rule:          p.Rule,
		blocked:       make(map[time.Time]struct{}, len(p.blocked)),
	}
	for d := range p.blocked {
		if p.inWindow(d) {
			pruned.blocked[d] = struct{}{}
		}
	}
	return pruned
}

// IsDayCandidate reports whether the date passes the window bounds and the
// recurrence rule alone. Blocked dates and bookings are not consulted.
func (p Policy) IsDayCandidate(t time.Time) bool {
	d := Day(t)
	if !p.inWindow(d) {
		return false
	}
	switch p.Rule {
	case WeekdaysOnly:
		wd := d.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	case WeekendsOnly:
		wd := d.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	default:
		return true
	}
}

// IsBlocked reports whether the owner explicitly disabled the date.
func (p Policy) IsBlocked(t time.Time) bool {
	_, ok := p.blocked[Day(t)]
	return ok
}

// BlockedDates returns the blocked dates in ascending order.
func (p Policy) BlockedDates() []time.Time {
	out := make([]time.Time, 0, len(p.blocked))
	for d := range p.blocked {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (p Policy) inWindow(d time.Time) bool {
	if !p.AvailableFrom.IsZero() && d.Before(p.AvailableFrom) {
		return false
	}
	if !p.AvailableTo.IsZero() && d.After(p.AvailableTo) {
		return false
	}
	return true
}
