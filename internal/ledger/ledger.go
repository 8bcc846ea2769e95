// Package ledger holds the pure reductions over ledger entries: window and
// attribute filtering, exact totals, per-category breakdowns, budget usage
// and net worth. Nothing here touches storage or the clock.
package ledger

import (
	"sort"

	"fintrack/internal/models"
	"fintrack/internal/period"

	"github.com/shopspring/decimal"
)

var (
	hundred     = decimal.NewFromInt(100)
	progressCap = decimal.NewFromInt(200)
)

// Filter selects entries inside a window with optional exact-match
// category and recurring predicates.
type Filter struct {
	Window    period.Window
	Category  *string
	Recurring *bool
}

// Matches reports whether e passes every predicate of f.
func (f Filter) Matches(e models.LedgerEntry) bool {
	if !f.Window.Contains(e.Date) {
		return false
	}
	if f.Category != nil && e.Category != *f.Category {
		return false
	}
	if f.Recurring != nil && e.Recurring != *f.Recurring {
		return false
	}
	return true
}

// Apply returns the entries of in that match f, preserving order.
func (f Filter) Apply(in []models.LedgerEntry) []models.LedgerEntry {
	out := make([]models.LedgerEntry, 0, len(in))
	for _, e := range in {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Totals is the sum and count of a set of entries.
type Totals struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// Summarize sums amounts exactly. The result does not depend on order.
func Summarize(entries []models.LedgerEntry) Totals {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return Totals{Total: total, Count: len(entries)}
}

// CategoryTotal is one row of a breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// Breakdown groups entries by category, largest total first; ties are
// ordered by category name.
func Breakdown(entries []models.LedgerEntry) []CategoryTotal {
	index := make(map[string]int)
	rows := make([]CategoryTotal, 0)
	for _, e := range entries {
		i, ok := index[e.Category]
		if !ok {
			i = len(rows)
			index[e.Category] = i
			rows = append(rows, CategoryTotal{Category: e.Category, Total: decimal.Zero})
		}
		rows[i].Total = rows[i].Total.Add(e.Amount)
		rows[i].Count++
	}
	sort.Slice(rows, func(a, b int) bool {
		if c := rows[a].Total.Cmp(rows[b].Total); c != 0 {
			return c > 0
		}
		return rows[a].Category < rows[b].Category
	})
	return rows
}

// BudgetUsage is the derived consumption of a budget.
type BudgetUsage struct {
	Spent        decimal.Decimal `json:"spent"`
	Remaining    decimal.Decimal `json:"remaining"`
	Progress     decimal.Decimal `json:"progress"`
	IsOverBudget bool            `json:"isOverBudget"`
}

// Usage compares spent against limit. Remaining goes negative when the
// budget is exceeded; progress is a percentage rounded to two places and
// capped at 200.
func Usage(limit, spent decimal.Decimal) BudgetUsage {
	var progress decimal.Decimal
	switch {
	case limit.IsPositive():
		progress = spent.Div(limit).Mul(hundred).Round(2)
	case spent.IsPositive():
		progress = progressCap
	default:
		progress = decimal.Zero
	}
	if progress.GreaterThan(progressCap) {
		progress = progressCap
	}
	return BudgetUsage{
		Spent:        spent,
		Remaining:    limit.Sub(spent),
		Progress:     progress,
		IsOverBudget: spent.GreaterThan(limit),
	}
}

// NetWorth counts savings-goal balances as assets alongside the cash flow.
func NetWorth(income, expense, savings decimal.Decimal) decimal.Decimal {
	return income.Sub(expense).Add(savings)
}
