// Package savings implements the balance rules of savings goals: creation
// checks, capped contributions, partial updates and recurring auto-save.
// Functions mutate the goal passed in and never read the clock.
package savings

import (
	"strings"
	"time"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ValidateNew checks a goal about to be created and normalises its
// recurring fields and display defaults.
func ValidateNew(g *models.SavingsGoal, now time.Time) error {
	g.Title = strings.TrimSpace(g.Title)
	if g.Title == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Title is required")
	}
	if !g.TargetAmount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidAmount, "Target amount must be greater than 0")
	}
	if g.CurrentAmount.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidAmount, "Current amount cannot be negative")
	}
	if err := checkScale(g.TargetAmount, g.CurrentAmount); err != nil {
		return err
	}
	if g.CurrentAmount.GreaterThan(g.TargetAmount) {
		return apperrors.ErrTargetBelowCurrent
	}
	if g.Deadline != nil && !g.Deadline.After(now) {
		return apperrors.ErrInvalidDeadline
	}
	if g.Icon == "" {
		g.Icon = models.DefaultGoalIcon
	}
	if g.Color == "" {
		g.Color = models.DefaultGoalColor
	}

	if !g.Recurring {
		clearRecurring(g)
		return nil
	}
	if err := validateRecurring(g); err != nil {
		return err
	}
	anchored := now
	g.LastContributed = &anchored
	return nil
}

// Contribute adds amount to the goal. The balance never passes the target
// and an achieved goal accepts nothing more.
func Contribute(g *models.SavingsGoal, amount decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	if err := checkScale(amount); err != nil {
		return err
	}
	remaining := Remaining(*g)
	if Achieved(*g) || amount.GreaterThan(remaining) {
		return apperrors.WithMessage(apperrors.ErrContributionExceedsTarget,
			"Contribution exceeds goal target. Maximum allowed: "+remaining.String())
	}
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	at := now
	g.LastContributed = &at
	return nil
}

// Patch is a partial goal update. Nil fields are left untouched.
type Patch struct {
	Title              *string
	TargetAmount       *decimal.Decimal
	CurrentAmount      *decimal.Decimal
	Deadline           *time.Time
	ClearDeadline      bool
	Icon               *string
	Color              *string
	Recurring          *bool
	RecurringAmount    *decimal.Decimal
	RecurringFrequency *models.Frequency
}

// ApplyPatch validates p against the goal's effective state and applies it.
// On error g is left unchanged.
func ApplyPatch(g *models.SavingsGoal, p Patch, now time.Time) error {
	next := *g

	if p.Title != nil {
		next.Title = strings.TrimSpace(*p.Title)
		if next.Title == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "Title is required")
		}
	}
	if p.TargetAmount != nil {
		if !p.TargetAmount.IsPositive() {
			return apperrors.WithMessage(apperrors.ErrInvalidAmount, "Target amount must be greater than 0")
		}
		next.TargetAmount = *p.TargetAmount
	}
	if p.CurrentAmount != nil {
		if p.CurrentAmount.IsNegative() {
			return apperrors.WithMessage(apperrors.ErrInvalidAmount, "Current amount cannot be negative")
		}
		next.CurrentAmount = *p.CurrentAmount
	}
	if err := checkScale(next.TargetAmount, next.CurrentAmount); err != nil {
		return err
	}
	if next.CurrentAmount.GreaterThan(next.TargetAmount) {
		return apperrors.ErrTargetBelowCurrent
	}

	switch {
	case p.ClearDeadline:
		next.Deadline = nil
	case p.Deadline != nil:
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if p.Deadline.Before(today) {
			return apperrors.WithMessage(apperrors.ErrInvalidDeadline, "Deadline cannot be in the past")
		}
		d := *p.Deadline
		next.Deadline = &d
	}

	if p.Icon != nil {
		next.Icon = *p.Icon
	}
	if p.Color != nil {
		next.Color = *p.Color
	}
	if p.RecurringAmount != nil {
		next.RecurringAmount = *p.RecurringAmount
	}
	if p.RecurringFrequency != nil {
		next.RecurringFrequency = *p.RecurringFrequency
	}
	if p.Recurring != nil {
		next.Recurring = *p.Recurring
	}

	if !next.Recurring {
		clearRecurring(&next)
	} else {
		if err := validateRecurring(&next); err != nil {
			return err
		}
		if next.LastContributed == nil {
			anchored := now
			next.LastContributed = &anchored
		}
	}

	*g = next
	return nil
}

// Remaining is the amount still needed to reach the target, never negative.
func Remaining(g models.SavingsGoal) decimal.Decimal {
	r := g.TargetAmount.Sub(g.CurrentAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// Achieved reports whether the goal has reached its target.
func Achieved(g models.SavingsGoal) bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// Progress is the completed percentage, rounded to two places, capped at 100.
func Progress(g models.SavingsGoal) decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	p := g.CurrentAmount.Div(g.TargetAmount).Mul(hundred).Round(2)
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

func validateRecurring(g *models.SavingsGoal) error {
	if !g.RecurringAmount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidRecurring, "Recurring amount must be greater than 0")
	}
	if err := checkScale(g.RecurringAmount); err != nil {
		return err
	}
	if g.RecurringFrequency == "" {
		g.RecurringFrequency = models.FrequencyMonthly
	}
	if _, ok := CheckerFor(g.RecurringFrequency); !ok {
		return apperrors.WithMessage(apperrors.ErrInvalidRecurring, "Recurring frequency must be weekly, monthly or yearly")
	}
	return nil
}

func checkScale(amounts ...decimal.Decimal) error {
	for _, a := range amounts {
		if !models.FitsMoneyScale(a) {
			return apperrors.ErrAmountScale
		}
	}
	return nil
}

func clearRecurring(g *models.SavingsGoal) {
	g.RecurringAmount = decimal.Zero
	g.LastContributed = nil
	if g.RecurringFrequency == "" {
		g.RecurringFrequency = models.FrequencyMonthly
	}
}
