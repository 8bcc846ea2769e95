package savings

import (
	"time"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
)

// DueChecker decides whether a recurring contribution is due.
type DueChecker interface {
	// NextDue returns the earliest instant after last at which the next
	// contribution becomes due.
	NextDue(last time.Time) time.Time
}

// WeeklyChecker is due seven days after the last contribution.
type WeeklyChecker struct{}

func (WeeklyChecker) NextDue(last time.Time) time.Time { return last.AddDate(0, 0, 7) }

// MonthlyChecker is due one calendar month later, clamped to the last day
// of a shorter month.
type MonthlyChecker struct{}

func (MonthlyChecker) NextDue(last time.Time) time.Time { return addMonths(last, 1) }

// YearlyChecker is due one calendar year later; 29 February falls back to
// 28 February.
type YearlyChecker struct{}

func (YearlyChecker) NextDue(last time.Time) time.Time { return addMonths(last, 12) }

var checkers = map[models.Frequency]DueChecker{
	models.FrequencyWeekly:  WeeklyChecker{},
	models.FrequencyMonthly: MonthlyChecker{},
	models.FrequencyYearly:  YearlyChecker{},
}

// CheckerFor returns the checker for a goal frequency.
func CheckerFor(f models.Frequency) (DueChecker, bool) {
	c, ok := checkers[f]
	return c, ok
}

// Due reports whether a recurring goal should receive its auto-save amount
// at now. Achieved goals are never due; a recurring goal that was never
// anchored is due immediately.
func Due(g models.SavingsGoal, now time.Time) bool {
	if !g.Recurring || !g.RecurringAmount.IsPositive() || Achieved(g) {
		return false
	}
	checker, ok := CheckerFor(g.RecurringFrequency)
	if !ok {
		return false
	}
	if g.LastContributed == nil {
		return true
	}
	return !checker.NextDue(*g.LastContributed).After(now)
}

// AutoSaveAmount is the recurring amount, reduced so the goal lands exactly
// on its target.
func AutoSaveAmount(g models.SavingsGoal) decimal.Decimal {
	return decimal.Min(g.RecurringAmount, Remaining(g))
}

func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
