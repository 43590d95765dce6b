package availability

import (
	"errors"
	"testing"
	"time"
)

func mustPolicy(t *testing.T, from, to time.Time, rule Rule, blocked []time.Time) Policy {
	t.Helper()
	p, err := NewPolicy(from, to, rule, blocked)
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}
	return p
}

func TestIsDateAvailableOpenCalendar(t *testing.T) {
	p := mustPolicy(t, date(2024, 6, 1), date(2024, 12, 31), AllDays, nil)
	e := NewEvaluator(p, NewLedger(nil), 25)

	if !e.IsDateAvailable(date(2024, 7, 4)) {
		t.Error("2024-07-04 should be available on an open calendar")
	}
	for _, outside := range []time.Time{date(2024, 5, 31), date(2025, 1, 1)} {
		if e.IsDateAvailable(outside) {
			t.Errorf("%s is outside the window and must be unavailable", outside.Format("2006-01-02"))
		}
	}
}

func TestIsDateAvailableBlockedDate(t *testing.T) {
	p := mustPolicy(t, date(2024, 6, 1), date(2024, 12, 31), AllDays, []time.Time{date(2024, 7, 4)})
	e := NewEvaluator(p, NewLedger(nil), 25)

	if e.IsDateAvailable(date(2024, 7, 4)) {
		t.Error("owner-blocked date must be unavailable")
	}
	if !e.IsDateAvailable(date(2024, 7, 5)) {
		t.Error("the day after a blocked date is unaffected")
	}
}

func TestIsDateAvailableWeekendsOnly(t *testing.T) {
	p := mustPolicy(t, date(2024, 6, 1), date(2024, 6, 30), WeekendsOnly, nil)
	e := NewEvaluator(p, NewLedger(nil), 25)

	if e.IsDateAvailable(date(2024, 6, 3)) {
		t.Error("Monday must be unavailable under weekends_only")
	}
	if !e.IsDateAvailable(date(2024, 6, 8)) {
		t.Error("Saturday must be available under weekends_only")
	}
}

func TestIsDateAvailableWeekdaysOnlyAcrossWindow(t *testing.T) {
	p := mustPolicy(t, date(2024, 6, 1), date(2024, 6, 14), WeekdaysOnly, nil)
	e := NewEvaluator(p, NewLedger(nil), 25)

	for d := date(2024, 6, 1); !d.After(date(2024, 6, 14)); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		isWeekend := wd == time.Saturday || wd == time.Sunday
		if got := e.IsDateAvailable(d); got == isWeekend {
			t.Errorf("%s (%s): got %v", d.Format("2006-01-02"), wd, got)
		}
	}
}

func TestIsIntervalAvailableAgainstBooking(t *testing.T) {
	p := mustPolicy(t, date(2024, 6, 1), date(2024, 12, 31), AllDays, nil)
	l := NewLedger([]Entry{{ID: 1, Start: date(2024, 7, 10), End: date(2024, 7, 15), Status: StatusConfirmed}})
	e := NewEvaluator(p, l, 25)

	ok, err := e.IsIntervalAvailable(date(2024, 7, 12), date(2024, 7, 13))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("interval inside a confirmed booking must be unavailable")
	}

	ok, err = e.IsIntervalAvailable(date(2024, 7, 16), date(2024, 7, 18))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("interval after the booking must be available")
	}
}

func TestIsIntervalAvailablePartialEndDay(t *testing.T) {
	p := mustPolicy(t, date(2024, 6, 1), date(2024, 12, 31), AllDays, []time.Time{date(2024, 7, 2)})
	e := NewEvaluator(p, NewLedger(nil), 25)

	// The interval ends 09:00 on the blocked day, so it still occupies it.
	start := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2024, 7, 2, 9, 0, 0, 0, time.UTC)
	ok, err := e.IsIntervalAvailable(start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("interval ending on a blocked partial day must be unavailable")
	}

	// A midnight end stays exclusive: ending exactly when the blocked day
	// begins does not touch it.
	ok, err = e.IsIntervalAvailable(date(2024, 7, 1), date(2024, 7, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("interval ending at midnight before the blocked day must be available")
	}
}

func TestIsIntervalAvailableInvertedInput(t *testing.T) {
	p := mustPolicy(t, date(2024, 6, 1), date(2024, 12, 31), AllDays, nil)
	e := NewEvaluator(p, NewLedger(nil), 25)

	var invErr *InvalidIntervalError
	if _, err := e.IsIntervalAvailable(date(2024, 7, 18), date(2024, 7, 16)); !errors.As(err, &invErr) {
		t.Fatalf("inverted interval: expected InvalidIntervalError, got %v", err)
	}
	if _, err := e.IsIntervalAvailable(date(2024, 7, 16), date(2024, 7, 16)); !errors.As(err, &invErr) {
		t.Fatalf("zero-length interval: expected InvalidIntervalError, got %v", err)
	}
}

func TestIsIntervalAvailableOutOfWindow(t *testing.T) {
	p := mustPolicy(t, date(2024, 6, 1), date(2024, 6, 30), AllDays, nil)
	e := NewEvaluator(p, NewLedger(nil), 25)

	var winErr *OutOfWindowError
	if _, err := e.IsIntervalAvailable(date(2024, 6, 28), date(2024, 7, 3)); !errors.As(err, &winErr) {
		t.Fatalf("interval past the window: expected OutOfWindowError, got %v", err)
	}
	if _, err := e.IsIntervalAvailable(date(2024, 5, 30), date(2024, 6, 2)); !errors.As(err, &winErr) {
		t.Fatalf("interval before the window: expected OutOfWindowError, got %v", err)
	}

	// Ending exactly at the window's last day + 1 (half-open) is in bounds.
	if ok, err := e.IsIntervalAvailable(date(2024, 6, 28), date(2024, 7, 1)); err != nil || !ok {
		t.Fatalf("interval occupying through June 30 should be fine, got ok=%v err=%v", ok, err)
	}
}

func TestQuoteWholeDayFlow(t *testing.T) {
	p := mustPolicy(t, date(2024, 6, 1), date(2024, 12, 31), AllDays, nil)
	e := NewEvaluator(p, NewLedger(nil), 50)

	q, err := e.QuoteForInterval(date(2024, 7, 1), date(2024, 7, 4))
	if err != nil {
		t.Fatalf("QuoteForInterval: %v", err)
	}
	if q.Days != 3 {
		t.Errorf("dayCount: got %d, want 3", q.Days)
	}
	if q.TotalPrice != 150 {
		t.Errorf("totalPrice: got %.2f, want 150", q.TotalPrice)
	}
}

func TestQuoteSubDayFlowRoundsUp(t *testing.T) {
	p := mustPolicy(t, date(2024, 6, 1), date(2024, 12, 31), AllDays, nil)
	e := NewEvaluator(p, NewLedger(nil), 50)

	start := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2024, 7, 2, 9, 0, 0, 0, time.UTC)
	q, err := e.QuoteForInterval(start, end)
	if err != nil {
		t.Fatalf("QuoteForInterval: %v", err)
	}
	if q.Days != 1 {
		t.Errorf("23 hours should round up to 1 day, got %d", q.Days)
	}
	if q.TotalPrice != 50 {
		t.Errorf("totalPrice: got %.2f, want 50", q.TotalPrice)
	}

	// 25 hours rounds up to 2 days.
	q, err = e.QuoteForInterval(start, end.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("QuoteForInterval: %v", err)
	}
	if q.Days != 2 {
		t.Errorf("25 hours should round up to 2 days, got %d", q.Days)
	}
}

func TestQuoteInvertedInterval(t *testing.T) {
	e := NewEvaluator(mustPolicy(t, time.Time{}, time.Time{}, AllDays, nil), NewLedger(nil), 50)

	var invErr *InvalidIntervalError
	if _, err := e.QuoteForInterval(date(2024, 7, 4), date(2024, 7, 1)); !errors.As(err, &invErr) {
		t.Fatalf("expected InvalidIntervalError, got %v", err)
	}
}

func TestEvaluatorIsPure(t *testing.T) {
	p := mustPolicy(t, date(2024, 6, 1), date(2024, 12, 31), WeekdaysOnly, []time.Time{date(2024, 7, 4)})
	l := NewLedger([]Entry{{ID: 1, Start: date(2024, 7, 10), End: date(2024, 7, 15), Status: StatusPending}})

	a := NewEvaluator(p, l, 40)
	b := NewEvaluator(p, l, 40)
	for d := date(2024, 7, 1); !d.After(date(2024, 7, 20)); d = d.AddDate(0, 0, 1) {
		if a.IsDateAvailable(d) != b.IsDateAvailable(d) || a.IsDateAvailable(d) != a.IsDateAvailable(d) {
			t.Fatalf("evaluation of %s is not deterministic", d.Format("2006-01-02"))
		}
	}
}
