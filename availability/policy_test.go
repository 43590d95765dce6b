package availability

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewPolicyInvertedWindow(t *testing.T) {
	_, err := NewPolicy(date(2024, 12, 31), date(2024, 6, 1), AllDays, nil)
	var rangeErr *InvalidRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected InvalidRangeError, got %v", err)
	}
}

func TestNewPolicyOpenBounds(t *testing.T) {
	p, err := NewPolicy(time.Time{}, time.Time{}, "", nil)
	if err != nil {
		t.Fatalf("open-ended policy should be valid, got %v", err)
	}
	if p.Rule != AllDays {
		t.Errorf("empty rule should default to all_days, got %q", p.Rule)
	}
	if !p.IsDayCandidate(date(1999, 1, 1)) || !p.IsDayCandidate(date(2099, 1, 1)) {
		t.Error("open-ended window should accept any date")
	}
}

func TestIsDayCandidateRules(t *testing.T) {
	from, to := date(2024, 6, 1), date(2024, 6, 30)

	cases := []struct {
		rule Rule
		day  time.Time
		want bool
	}{
		{AllDays, date(2024, 6, 3), true},     // Monday
		{AllDays, date(2024, 6, 8), true},     // Saturday
		{WeekdaysOnly, date(2024, 6, 3), true},
		{WeekdaysOnly, date(2024, 6, 8), false},
		{WeekdaysOnly, date(2024, 6, 9), false}, // Sunday
		{WeekendsOnly, date(2024, 6, 3), false},
		{WeekendsOnly, date(2024, 6, 8), true},
		{WeekendsOnly, date(2024, 6, 9), true},
		{AllDays, date(2024, 5, 31), false}, // before window
		{AllDays, date(2024, 7, 1), false},  // after window
	}
	for _, c := range cases {
		p, err := NewPolicy(from, to, c.rule, nil)
		if err != nil {
			t.Fatalf("NewPolicy(%s): %v", c.rule, err)
		}
		if got := p.IsDayCandidate(c.day); got != c.want {
			t.Errorf("rule %s day %s: got %v, want %v", c.rule, c.day.Format("2006-01-02"), got, c.want)
		}
	}
}

func TestPruningIsLossy(t *testing.T) {
	blocked := []time.Time{date(2024, 6, 15), date(2024, 8, 15)}
	p, err := NewPolicy(date(2024, 6, 1), date(2024, 12, 31), AllDays, blocked)
	if err != nil {
		t.Fatal(err)
	}

	// Narrow the window, prune, then widen back: the pruned date stays gone.
	narrowed, err := NewPolicy(date(2024, 6, 1), date(2024, 6, 30), AllDays, p.BlockedDates())
	if err != nil {
		t.Fatal(err)
	}
	narrowed = narrowed.WithBlockedDatesPruned()
	if narrowed.IsBlocked(date(2024, 8, 15)) {
		t.Error("date outside the narrowed window should be pruned")
	}
	if !narrowed.IsBlocked(date(2024, 6, 15)) {
		t.Error("date inside the narrowed window should survive pruning")
	}

	widened, err := NewPolicy(date(2024, 6, 1), date(2024, 12, 31), AllDays, narrowed.BlockedDates())
	if err != nil {
		t.Fatal(err)
	}
	if widened.IsBlocked(date(2024, 8, 15)) {
		t.Error("widening the window must not resurrect a pruned date")
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("2024-06-01", "2024-12-31", "weekdays_only", []string{"2024-07-04"})
	if err != nil {
		t.Fatalf("ParsePolicy: %v", err)
	}
	if !p.IsBlocked(date(2024, 7, 4)) {
		t.Error("disabled date should be blocked")
	}
	if p.Rule != WeekdaysOnly {
		t.Errorf("rule: got %q, want weekdays_only", p.Rule)
	}
}

func TestParsePolicyConstructionErrors(t *testing.T) {
	var consErr *ConstructionError

	if _, err := ParsePolicy("junk", "", "all_days", nil); !errors.As(err, &consErr) {
		t.Errorf("bad available_from: expected ConstructionError, got %v", err)
	}
	if _, err := ParsePolicy("", "", "every_other_tuesday", nil); !errors.As(err, &consErr) {
		t.Errorf("bad rule: expected ConstructionError, got %v", err)
	}
	if _, err := ParsePolicy("", "", "", []string{"07/04/2024"}); !errors.As(err, &consErr) {
		t.Errorf("bad disabled date: expected ConstructionError, got %v", err)
	}

	var rangeErr *InvalidRangeError
	if _, err := ParsePolicy("2024-12-31", "2024-06-01", "", nil); !errors.As(err, &rangeErr) {
		t.Errorf("inverted window: expected InvalidRangeError, got %v", err)
	}
}
