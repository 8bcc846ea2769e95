package models

import "github.com/shopspring/decimal"

// Profile holds per-user preferences. Currency is display-only; amounts are
// never converted.
type Profile struct {
	Base
	UserID        string          `gorm:"uniqueIndex;not null" json:"uid"`
	Email         string          `json:"email"`
	Name          string          `gorm:"size:100" json:"name"`
	Currency      string          `gorm:"size:3;not null;default:USD" json:"currency"`
	MonthlyIncome decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"monthlyIncome"`
	MonthlyGoal   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"monthlyGoal"`
	Theme         string          `gorm:"size:8;not null;default:system" json:"theme"`
}
