package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/ledger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/period"
	"fintrack/internal/savings"
)

// Clock returns the current time. Services take one so windows and
// contribution stamps can be pinned in tests.
type Clock func() time.Time

// EntryInput holds the fields of a new income or expense.
type EntryInput struct {
	Category           string
	Amount             decimal.Decimal
	Date               *time.Time
	Recurring          bool
	RecurringFrequency *models.Frequency
	Description        string
	Icon               string
	Color              string
}

// EntryPatch is a partial entry update. Nil fields are left untouched.
type EntryPatch struct {
	Category           *string
	Amount             *decimal.Decimal
	Date               *time.Time
	Recurring          *bool
	RecurringFrequency *models.Frequency
	Description        *string
	Icon               *string
	Color              *string
}

// EntryQuery selects entries by period and optional attributes.
type EntryQuery struct {
	Period    period.Selector
	StartDate *time.Time
	EndDate   *time.Time
	Category  *string
	Recurring *bool
}

// EntryList is the result of a query: matching rows newest first, their
// exact total and the window that was applied.
type EntryList struct {
	Entries     []models.LedgerEntry
	Count       int
	TotalAmount decimal.Decimal
	Window      period.Window
}

// EntryServicer defines the contract for income and expense entries.
type EntryServicer interface {
	CreateEntry(userID string, kind models.EntryKind, in EntryInput) (*models.LedgerEntry, error)
	GetEntryByID(userID string, kind models.EntryKind, entryID string) (*models.LedgerEntry, error)
	UpdateEntry(userID string, kind models.EntryKind, entryID string, patch EntryPatch) (*models.LedgerEntry, error)
	DeleteEntry(userID string, kind models.EntryKind, entryID string) error
	QueryEntries(userID string, kind models.EntryKind, q EntryQuery) (*EntryList, error)
}

// BudgetWithUsage is a budget together with its consumption in the
// current window of its period.
type BudgetWithUsage struct {
	models.Budget
	ledger.BudgetUsage
}

// BudgetProgress contains spending vs budget data for a budget's current period.
type BudgetProgress struct {
	BudgetID        string          `json:"budgetId"`
	Category        string          `json:"category"`
	Period          string          `json:"period"`
	Budgeted        decimal.Decimal `json:"budgeted"`
	Spent           decimal.Decimal `json:"spent"`
	Remaining       decimal.Decimal `json:"remaining"`
	Progress        decimal.Decimal `json:"progress"`
	IsOverBudget    bool            `json:"isOverBudget"`
	SearchStartDate *string         `json:"searchStartDate"`
	SearchEndDate   string          `json:"searchEndDate"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, category string, period models.BudgetPeriod, amount decimal.Decimal) (*models.Budget, error)
	GetUserBudgets(userID string, period *models.BudgetPeriod) ([]BudgetWithUsage, error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, category *string, period *models.BudgetPeriod, amount *decimal.Decimal) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error)
}

// GoalView is a savings goal with its derived fields.
type GoalView struct {
	models.SavingsGoal
	Progress decimal.Decimal `json:"progress"`
	Achieved bool            `json:"achieved"`
}

// GoalServicer defines the contract for savings goals.
type GoalServicer interface {
	CreateGoal(userID string, goal *models.SavingsGoal) (*GoalView, error)
	GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[GoalView], error)
	GetGoalByID(userID, goalID string) (*GoalView, error)
	UpdateGoal(userID, goalID string, patch savings.Patch) (*GoalView, error)
	DeleteGoal(userID, goalID string) error
	Contribute(userID, goalID string, amount decimal.Decimal) (*GoalView, error)
}

// NetWorth is the all-time balance sheet of a user.
type NetWorth struct {
	NetWorth     decimal.Decimal `json:"netWorth"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	TotalSavings decimal.Decimal `json:"totalSavings"`
}

// SavingsStats aggregates all goals of a user.
type SavingsStats struct {
	TotalTarget decimal.Decimal `json:"totalTarget"`
	TotalSaved  decimal.Decimal `json:"totalSaved"`
	Count       int             `json:"count"`
}

// Summary is the dashboard view of one window.
type Summary struct {
	Period             period.Selector        `json:"period"`
	SearchStartDate    *string                `json:"searchStartDate"`
	SearchEndDate      string                 `json:"searchEndDate"`
	DateRange          string                 `json:"dateRange"`
	TotalIncome        decimal.Decimal        `json:"totalIncome"`
	TotalExpense       decimal.Decimal        `json:"totalExpense"`
	Net                decimal.Decimal        `json:"net"`
	IncomeCount        int                    `json:"incomeCount"`
	ExpenseCount       int                    `json:"expenseCount"`
	ExpensesByCategory []ledger.CategoryTotal `json:"expensesByCategory"`
	IncomeBySource     []ledger.CategoryTotal `json:"incomeBySource"`
}

// StatsServicer defines the contract for dashboard aggregates.
type StatsServicer interface {
	GetNetWorth(ctx context.Context, userID string) (*NetWorth, error)
	GetSavingsStats(ctx context.Context, userID string) (*SavingsStats, error)
	GetSummary(ctx context.Context, userID string, q EntryQuery) (*Summary, error)
}

// GeneratePlanInput carries the optional overrides of a plan request.
type GeneratePlanInput struct {
	Month         string
	MonthlyIncome *decimal.Decimal
	TotalBudget   *decimal.Decimal
}

// PlanServicer defines the contract for planner-backed monthly budgets.
type PlanServicer interface {
	GeneratePlan(ctx context.Context, userID string, in GeneratePlanInput) (*models.BudgetPlan, error)
	GetPlan(userID, month string) (*models.BudgetPlan, error)
	AcceptPlan(userID, month string) (*models.BudgetPlan, error)
	DeletePlan(userID, month string) error
}

// ProfileInput holds the editable profile fields. Nil fields are kept.
type ProfileInput struct {
	Email         *string
	Name          *string
	Currency      *string
	MonthlyIncome *decimal.Decimal
	MonthlyGoal   *decimal.Decimal
	Theme         *string
}

// ProfileServicer defines the contract for user profiles.
type ProfileServicer interface {
	GetProfile(userID string) (*models.Profile, error)
	UpsertProfile(userID string, in ProfileInput) (*models.Profile, error)
}
