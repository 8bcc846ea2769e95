package models

import "github.com/shopspring/decimal"

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

const (
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// Valid reports whether p is a known budget period.
func (p BudgetPeriod) Valid() bool {
	switch p {
	case BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodYearly:
		return true
	}
	return false
}

// Budget is a spending limit for one category over a recurring period.
// Consumption is never stored; it is derived from expenses on every read.
type Budget struct {
	Base
	UserID   string          `gorm:"not null;uniqueIndex:idx_budgets_user_category_period,priority:1" json:"-"`
	Category string          `gorm:"size:100;not null;uniqueIndex:idx_budgets_user_category_period,priority:2" json:"category"`
	Period   BudgetPeriod    `gorm:"type:varchar(16);not null;uniqueIndex:idx_budgets_user_category_period,priority:3" json:"period"`
	Amount   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
}
