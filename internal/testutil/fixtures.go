package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewUserID returns a unique opaque owner id.
func NewUserID() string {
	return fmt.Sprintf("user-%d", nextID())
}

// CreateTestIncome creates an income entry from source on date.
func CreateTestIncome(t *testing.T, db *gorm.DB, userID, source, amount string, date time.Time) *models.LedgerEntry {
	t.Helper()
	return createEntry(t, db, &models.LedgerEntry{
		UserID:   userID,
		Kind:     models.EntryKindIncome,
		Category: source,
		Amount:   decimal.RequireFromString(amount),
		Date:     date,
	})
}

// CreateTestExpense creates a non-recurring expense in category on date.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, category, amount string, date time.Time) *models.LedgerEntry {
	t.Helper()
	return createEntry(t, db, &models.LedgerEntry{
		UserID:   userID,
		Kind:     models.EntryKindExpense,
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Date:     date,
	})
}

// CreateTestRecurringExpense creates a monthly recurring expense.
func CreateTestRecurringExpense(t *testing.T, db *gorm.DB, userID, category, amount string, date time.Time) *models.LedgerEntry {
	t.Helper()
	freq := models.FrequencyMonthly
	return createEntry(t, db, &models.LedgerEntry{
		UserID:             userID,
		Kind:               models.EntryKindExpense,
		Category:           category,
		Amount:             decimal.RequireFromString(amount),
		Date:               date,
		Recurring:          true,
		RecurringFrequency: &freq,
	})
}

func createEntry(t *testing.T, db *gorm.DB, e *models.LedgerEntry) *models.LedgerEntry {
	t.Helper()
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("failed to create test %s: %v", e.Kind, err)
	}
	return e
}

// CreateTestBudget creates a budget for category over period.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, category string, period models.BudgetPeriod, amount string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:   userID,
		Category: category,
		Period:   period,
		Amount:   decimal.RequireFromString(amount),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestGoal creates a non-recurring savings goal.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID, target, current string) *models.SavingsGoal {
	t.Helper()

	goal := &models.SavingsGoal{
		UserID:             userID,
		Title:              fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:       decimal.RequireFromString(target),
		CurrentAmount:      decimal.RequireFromString(current),
		Icon:               models.DefaultGoalIcon,
		Color:              models.DefaultGoalColor,
		RecurringFrequency: models.FrequencyMonthly,
		Version:            1,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestRecurringGoal creates a goal that auto-saves amount every freq,
// last contributed at last.
func CreateTestRecurringGoal(t *testing.T, db *gorm.DB, userID, target, current, amount string, freq models.Frequency, last time.Time) *models.SavingsGoal {
	t.Helper()

	goal := &models.SavingsGoal{
		UserID:             userID,
		Title:              fmt.Sprintf("Test Recurring Goal %d", nextID()),
		TargetAmount:       decimal.RequireFromString(target),
		CurrentAmount:      decimal.RequireFromString(current),
		Icon:               models.DefaultGoalIcon,
		Color:              models.DefaultGoalColor,
		Recurring:          true,
		RecurringAmount:    decimal.RequireFromString(amount),
		RecurringFrequency: freq,
		LastContributed:    &last,
		Version:            1,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test recurring goal: %v", err)
	}
	return goal
}

// CreateTestProfile creates a profile with the given monthly income.
func CreateTestProfile(t *testing.T, db *gorm.DB, userID, monthlyIncome string) *models.Profile {
	t.Helper()

	profile := &models.Profile{
		UserID:        userID,
		Email:         fmt.Sprintf("%s@test.com", userID),
		Name:          "Test User",
		Currency:      "USD",
		MonthlyIncome: decimal.RequireFromString(monthlyIncome),
		Theme:         "system",
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	return profile
}
