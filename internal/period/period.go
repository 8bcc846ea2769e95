// Package period turns a user-supplied period selector into a concrete date
// window. Every window is computed in one fixed location with one week-start
// day, both chosen when the Resolver is built; the current time is always
// passed in by the caller.
package period

import (
	"strings"
	"time"

	"github.com/jinzhu/now"

	apperrors "fintrack/internal/errors"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Selector names a period.
type Selector string

const (
	All    Selector = "all"
	Today  Selector = "today"
	Week   Selector = "week"
	Month  Selector = "month"
	Year   Selector = "year"
	Custom Selector = "custom"
)

// ParseSelector normalises a raw query value. An empty value selects All;
// anything unknown is rejected rather than widened to all time.
func ParseSelector(raw string) (Selector, error) {
	s := Selector(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case "":
		return All, nil
	case All, Today, Week, Month, Year, Custom:
		return s, nil
	}
	return "", apperrors.ErrInvalidPeriod
}

// ForBudget maps a budget period (weekly, monthly, yearly) to the selector
// whose current window measures that budget's consumption.
func ForBudget(budgetPeriod string) (Selector, error) {
	switch budgetPeriod {
	case "weekly":
		return Week, nil
	case "monthly":
		return Month, nil
	case "yearly":
		return Year, nil
	}
	return "", apperrors.WithMessage(apperrors.ErrInvalidPeriod, "budget period must be weekly, monthly or yearly")
}

// Window is a resolved date interval. From is nil when there is no lower
// bound. To is inclusive.
type Window struct {
	From   *time.Time
	To     time.Time
	Period Selector
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if w.From != nil && t.Before(*w.From) {
		return false
	}
	return !t.After(w.To)
}

// StartDate returns the lower bound as YYYY-MM-DD, or nil when unbounded.
func (w Window) StartDate() *string {
	if w.From == nil {
		return nil
	}
	s := w.From.Format(DateLayout)
	return &s
}

// EndDate returns the upper bound as YYYY-MM-DD.
func (w Window) EndDate() string {
	return w.To.Format(DateLayout)
}

// DateRange renders the window for display.
func (w Window) DateRange() string {
	start := w.StartDate()
	if start == nil {
		return "All time"
	}
	return *start + " to " + w.EndDate()
}

// Resolver computes windows in a fixed location and week convention.
type Resolver struct {
	cfg *now.Config
}

// NewResolver creates a Resolver. A nil location means UTC.
func NewResolver(weekStart time.Weekday, loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{cfg: &now.Config{WeekStartDay: weekStart, TimeLocation: loc}}
}

// WeekStart returns the configured first day of the week.
func (r *Resolver) WeekStart() time.Weekday { return r.cfg.WeekStartDay }

// Location returns the configured time reference.
func (r *Resolver) Location() *time.Location { return r.cfg.TimeLocation }

// ParseDate parses a YYYY-MM-DD value as midnight in the resolver location.
func (r *Resolver) ParseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), r.cfg.TimeLocation)
	if err != nil {
		return time.Time{}, apperrors.ErrInvalidDate
	}
	return t, nil
}

// Resolve turns a selector into a window relative to at. When both explicit
// dates are given the result is a custom window whatever the selector says.
func (r *Resolver) Resolve(sel Selector, at time.Time, explicitFrom, explicitEnd *time.Time) (Window, error) {
	cur := r.at(at)
	if explicitFrom != nil && explicitEnd != nil {
		sel = Custom
	}

	var w Window
	switch sel {
	case All, "":
		w = Window{To: cur.Time, Period: All}
	case Today:
		w = since(cur.BeginningOfDay(), cur.Time, Today)
	case Week:
		w = since(cur.BeginningOfWeek(), cur.Time, Week)
	case Month:
		w = since(cur.BeginningOfMonth(), cur.Time, Month)
	case Year:
		w = since(cur.BeginningOfYear(), cur.Time, Year)
	case Custom:
		if explicitFrom == nil || explicitEnd == nil {
			return Window{}, apperrors.ErrMissingRange
		}
		from := r.at(*explicitFrom).BeginningOfDay()
		end := r.endOfDay(*explicitEnd)
		if end.Before(from) {
			return Window{}, apperrors.ErrInvalidRange
		}
		w = Window{From: &from, To: end, Period: Custom}
	default:
		return Window{}, apperrors.ErrInvalidPeriod
	}

	if w.From != nil && w.From.After(w.To) {
		return Window{}, apperrors.ErrInvalidRange
	}
	return w, nil
}

// StartOfWeek returns midnight of the most recent configured week-start day.
func (r *Resolver) StartOfWeek(t time.Time) time.Time {
	return r.at(t).BeginningOfWeek()
}

func (r *Resolver) at(t time.Time) *now.Now {
	return r.cfg.With(t.In(r.cfg.TimeLocation))
}

// endOfDay is the last millisecond of t's day; stored timestamps carry no
// finer precision.
func (r *Resolver) endOfDay(t time.Time) time.Time {
	return r.at(t).EndOfDay().Truncate(time.Millisecond)
}

func since(from, to time.Time, sel Selector) Window {
	return Window{From: &from, To: to, Period: sel}
}

// ParseWeekday parses a day name such as "sunday" or "Mon".
func ParseWeekday(raw string) (time.Weekday, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return d, true
		}
	}
	return time.Sunday, false
}
