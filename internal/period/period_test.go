package period

import (
	"testing"
	"time"

	"fintrack/internal/testutil"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad time %q: %v", s, err)
	}
	return v
}

func TestResolve(t *testing.T) {
	r := NewResolver(time.Sunday, time.UTC)
	// Friday
	now := mustTime(t, "2024-03-15T10:00:00Z")

	tests := []struct {
		name     string
		sel      Selector
		wantFrom string
	}{
		{"today", Today, "2024-03-15T00:00:00Z"},
		{"week starts sunday", Week, "2024-03-10T00:00:00Z"},
		{"month", Month, "2024-03-01T00:00:00Z"},
		{"year", Year, "2024-01-01T00:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := r.Resolve(tt.sel, now, nil, nil)
			testutil.AssertNoError(t, err)
			if w.From == nil {
				t.Fatal("expected lower bound")
			}
			if got := w.From.Format(time.RFC3339); got != tt.wantFrom {
				t.Errorf("expected from %s, got %s", tt.wantFrom, got)
			}
			if !w.To.Equal(now) {
				t.Errorf("expected to == now, got %s", w.To)
			}
			if w.Period != tt.sel {
				t.Errorf("expected period %s, got %s", tt.sel, w.Period)
			}
		})
	}

	t.Run("all has no lower bound", func(t *testing.T) {
		w, err := r.Resolve(All, now, nil, nil)
		testutil.AssertNoError(t, err)
		if w.From != nil {
			t.Errorf("expected nil from, got %s", w.From)
		}
		if !w.To.Equal(now) {
			t.Errorf("expected to == now, got %s", w.To)
		}
		if w.DateRange() != "All time" {
			t.Errorf("expected All time, got %s", w.DateRange())
		}
	})
}

func TestResolve_WeekStartIsConfigurable(t *testing.T) {
	// Friday 2024-03-15
	now := mustTime(t, "2024-03-15T10:00:00Z")

	tests := []struct {
		start time.Weekday
		want  string
	}{
		{time.Sunday, "2024-03-10"},
		{time.Monday, "2024-03-11"},
		{time.Saturday, "2024-03-09"},
		{time.Friday, "2024-03-15"},
	}
	for _, tt := range tests {
		t.Run(tt.start.String(), func(t *testing.T) {
			w, err := NewResolver(tt.start, nil).Resolve(Week, now, nil, nil)
			testutil.AssertNoError(t, err)
			if got := w.From.Format(DateLayout); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestResolve_UsesResolverLocation(t *testing.T) {
	loc := time.FixedZone("UTC+6", 6*60*60)
	r := NewResolver(time.Sunday, loc)
	// 20:00 UTC on the 31st is already the 1st of April at UTC+6.
	now := mustTime(t, "2024-03-31T20:00:00Z")

	w, err := r.Resolve(Month, now, nil, nil)
	testutil.AssertNoError(t, err)
	want := time.Date(2024, time.April, 1, 0, 0, 0, 0, loc)
	if !w.From.Equal(want) {
		t.Errorf("expected %s, got %s", want, w.From)
	}

	utc, err := NewResolver(time.Sunday, time.UTC).Resolve(Month, now, nil, nil)
	testutil.AssertNoError(t, err)
	if got := utc.From.Format(DateLayout); got != "2024-03-01" {
		t.Errorf("expected 2024-03-01 in UTC, got %s", got)
	}
}

func TestResolve_Custom(t *testing.T) {
	r := NewResolver(time.Sunday, time.UTC)
	now := mustTime(t, "2024-03-15T10:00:00Z")

	t.Run("explicit dates win over selector", func(t *testing.T) {
		from, _ := r.ParseDate("2024-01-05")
		end, _ := r.ParseDate("2024-01-10")
		w, err := r.Resolve(Month, now, &from, &end)
		testutil.AssertNoError(t, err)
		if w.Period != Custom {
			t.Errorf("expected custom, got %s", w.Period)
		}
		if got := w.From.Format(time.RFC3339Nano); got != "2024-01-05T00:00:00Z" {
			t.Errorf("unexpected from %s", got)
		}
		if got := w.To.Format(time.RFC3339Nano); got != "2024-01-10T23:59:59.999Z" {
			t.Errorf("unexpected to %s", got)
		}
		if w.DateRange() != "2024-01-05 to 2024-01-10" {
			t.Errorf("unexpected date range %s", w.DateRange())
		}
	})

	t.Run("single day", func(t *testing.T) {
		day, _ := r.ParseDate("2024-02-29")
		w, err := r.Resolve(Custom, now, &day, &day)
		testutil.AssertNoError(t, err)
		if !w.Contains(mustTime(t, "2024-02-29T23:59:59Z")) {
			t.Error("expected end of day to be inside the window")
		}
		if w.Contains(mustTime(t, "2024-03-01T00:00:00Z")) {
			t.Error("expected next day to be outside the window")
		}
	})

	t.Run("missing dates", func(t *testing.T) {
		from, _ := r.ParseDate("2024-01-05")
		_, err := r.Resolve(Custom, now, &from, nil)
		testutil.AssertAppError(t, err, "MISSING_RANGE")

		_, err = r.Resolve(Custom, now, nil, nil)
		testutil.AssertAppError(t, err, "MISSING_RANGE")
	})

	t.Run("inverted range", func(t *testing.T) {
		from, _ := r.ParseDate("2024-01-10")
		end, _ := r.ParseDate("2024-01-05")
		_, err := r.Resolve(Custom, now, &from, &end)
		testutil.AssertAppError(t, err, "INVALID_RANGE")
	})

	t.Run("one explicit date is ignored for presets", func(t *testing.T) {
		from, _ := r.ParseDate("2020-01-01")
		w, err := r.Resolve(Year, now, &from, nil)
		testutil.AssertNoError(t, err)
		if w.Period != Year {
			t.Errorf("expected year, got %s", w.Period)
		}
	})
}

func TestResolve_UnknownSelector(t *testing.T) {
	_, err := NewResolver(time.Sunday, nil).Resolve(Selector("fortnight"), time.Now(), nil, nil)
	testutil.AssertAppError(t, err, "INVALID_PERIOD")
}

func TestResolve_Properties(t *testing.T) {
	start := mustTime(t, "2023-12-25T00:00:00Z")
	selectors := []Selector{All, Today, Week, Month, Year}

	for _, ws := range []time.Weekday{time.Sunday, time.Monday, time.Saturday} {
		r := NewResolver(ws, time.UTC)
		// Walk every 7 hours across ~100 days, crossing month and year edges.
		for i := 0; i < 350; i++ {
			now := start.Add(time.Duration(i) * 7 * time.Hour)
			for _, sel := range selectors {
				first, err := r.Resolve(sel, now, nil, nil)
				if err != nil {
					t.Fatalf("%s at %s: %v", sel, now, err)
				}
				if first.From != nil && first.From.After(first.To) {
					t.Fatalf("%s at %s: from %s after to %s", sel, now, first.From, first.To)
				}
				second, _ := r.Resolve(sel, now, nil, nil)
				if !sameWindow(first, second) {
					t.Fatalf("%s at %s: resolve is not deterministic", sel, now)
				}
				if !first.Contains(now) {
					t.Fatalf("%s at %s: window does not contain now", sel, now)
				}
			}
		}
	}
}

func TestResolve_WeekBoundsAcrossZones(t *testing.T) {
	start := mustTime(t, "2023-12-25T00:00:00Z")
	zones := []*time.Location{time.UTC, time.FixedZone("UTC+6", 6*60*60), time.FixedZone("UTC-5", -5*60*60)}

	for _, loc := range zones {
		for _, ws := range []time.Weekday{time.Sunday, time.Monday, time.Saturday} {
			r := NewResolver(ws, loc)
			for i := 0; i < 400; i++ {
				now := start.Add(time.Duration(i) * 5 * time.Hour)
				w, err := r.Resolve(Week, now, nil, nil)
				testutil.AssertNoError(t, err)

				from := w.From.In(loc)
				if from.Hour() != 0 || from.Minute() != 0 || from.Second() != 0 || from.Nanosecond() != 0 {
					t.Fatalf("%s/%s at %s: week does not start at local midnight: %s", loc, ws, now, from)
				}
				if from.Weekday() != ws {
					t.Fatalf("%s/%s at %s: week starts on %s", loc, ws, now, from.Weekday())
				}
				if now.Sub(from) >= 7*24*time.Hour {
					t.Fatalf("%s/%s at %s: week start %s is more than a week back", loc, ws, now, from)
				}
				if !r.StartOfWeek(now).Equal(*w.From) {
					t.Fatalf("%s/%s at %s: StartOfWeek disagrees with Resolve", loc, ws, now)
				}
			}
		}
	}
}

func sameWindow(a, b Window) bool {
	if (a.From == nil) != (b.From == nil) {
		return false
	}
	if a.From != nil && !a.From.Equal(*b.From) {
		return false
	}
	return a.To.Equal(b.To) && a.Period == b.Period
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		raw     string
		want    Selector
		wantErr bool
	}{
		{"", All, false},
		{" Month ", Month, false},
		{"CUSTOM", Custom, false},
		{"daily", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSelector(tt.raw)
		if tt.wantErr {
			testutil.AssertAppError(t, err, "INVALID_PERIOD")
			continue
		}
		testutil.AssertNoError(t, err)
		if got != tt.want {
			t.Errorf("ParseSelector(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestForBudget(t *testing.T) {
	for raw, want := range map[string]Selector{"weekly": Week, "monthly": Month, "yearly": Year} {
		got, err := ForBudget(raw)
		testutil.AssertNoError(t, err)
		if got != want {
			t.Errorf("ForBudget(%s) = %s, want %s", raw, got, want)
		}
	}
	_, err := ForBudget("daily")
	testutil.AssertAppError(t, err, "INVALID_PERIOD")
}

func TestParseDate(t *testing.T) {
	r := NewResolver(time.Sunday, time.UTC)
	if _, err := r.ParseDate("15/03/2024"); err == nil {
		t.Fatal("expected error for bad format")
	} else {
		testutil.AssertAppError(t, err, "INVALID_DATE")
	}
	d, err := r.ParseDate("2024-03-15")
	testutil.AssertNoError(t, err)
	if d.Location() != time.UTC || d.Hour() != 0 {
		t.Errorf("expected UTC midnight, got %s", d)
	}
}

func TestParseWeekday(t *testing.T) {
	for raw, want := range map[string]time.Weekday{"sunday": time.Sunday, "Mon": time.Monday, "SATURDAY": time.Saturday} {
		got, ok := ParseWeekday(raw)
		if !ok || got != want {
			t.Errorf("ParseWeekday(%q) = %s, %v", raw, got, ok)
		}
	}
	if _, ok := ParseWeekday("someday"); ok {
		t.Error("expected unknown weekday to fail")
	}
}
