package models

import "github.com/shopspring/decimal"

// BudgetPlan is a stored needs/wants allocation for one month, produced by
// the external planner and optionally accepted into monthly budgets.
type BudgetPlan struct {
	Base
	UserID             string                     `gorm:"not null;uniqueIndex:idx_plans_user_month,priority:1" json:"-"`
	Month              string                     `gorm:"size:7;not null;uniqueIndex:idx_plans_user_month,priority:2" json:"month"`
	MonthlyIncome      decimal.Decimal            `gorm:"type:decimal(20,4);not null" json:"monthlyIncome"`
	RecommendedSavings decimal.Decimal            `gorm:"type:decimal(20,4);not null" json:"recommendedSavings"`
	TotalLivingBudget  decimal.Decimal            `gorm:"type:decimal(20,4);not null" json:"totalLivingBudget"`
	NeedsTotal         decimal.Decimal            `gorm:"type:decimal(20,4);not null" json:"needsTotal"`
	WantsTotal         decimal.Decimal            `gorm:"type:decimal(20,4);not null" json:"wantsTotal"`
	NeedsBreakdown     map[string]decimal.Decimal `gorm:"serializer:json" json:"needsBreakdown"`
	WantsBreakdown     map[string]decimal.Decimal `gorm:"serializer:json" json:"wantsBreakdown"`
	Notes              []string                   `gorm:"serializer:json" json:"note"`
	IsAccepted         bool                       `gorm:"not null;default:false" json:"isAccepted"`
}
