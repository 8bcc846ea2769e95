package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Defaults applied to new goals when the caller leaves display fields empty.
const (
	DefaultGoalIcon  = "🎯"
	DefaultGoalColor = "#10b981"
)

// SavingsGoal is a target-amount accumulator with optional recurring auto-save.
// Version is bumped on every write and guards compare-and-swap updates.
type SavingsGoal struct {
	Base
	UserID             string          `gorm:"not null;index" json:"-"`
	Title              string          `gorm:"size:200;not null" json:"title"`
	TargetAmount       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"targetAmount"`
	CurrentAmount      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"currentAmount"`
	Deadline           *time.Time      `json:"deadline"`
	Icon               string          `gorm:"size:10" json:"icon"`
	Color              string          `gorm:"size:7" json:"color"`
	Recurring          bool            `gorm:"not null;default:false" json:"recurring"`
	RecurringAmount    decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"recurringAmount"`
	RecurringFrequency Frequency       `gorm:"type:varchar(16);not null;default:monthly" json:"recurringFrequency"`
	LastContributed    *time.Time      `json:"lastContributed"`
	Version            int64           `gorm:"not null;default:1" json:"-"`
}
