package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind distinguishes income from expense ledger entries.
type EntryKind string

const (
	EntryKindIncome  EntryKind = "income"
	EntryKindExpense EntryKind = "expense"
)

// Frequency is the repetition interval of a recurring expense or auto-save.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Valid reports whether f is one of the known frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// LedgerEntry is a single income or expense record. Category holds the
// expense category or, for income, the source.
type LedgerEntry struct {
	Base
	UserID             string          `gorm:"not null;index:idx_entries_user_kind_date,priority:1" json:"-"`
	Kind               EntryKind       `gorm:"type:varchar(16);not null;index:idx_entries_user_kind_date,priority:2" json:"kind"`
	Category           string          `gorm:"size:100;not null" json:"category"`
	Amount             decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Date               time.Time       `gorm:"not null;index:idx_entries_user_kind_date,priority:3" json:"date"`
	Recurring          bool            `gorm:"not null;default:false" json:"recurring"`
	RecurringFrequency *Frequency      `gorm:"type:varchar(16)" json:"recurringFrequency"`
	Description        string          `gorm:"size:500" json:"description"`
	Icon               string          `gorm:"size:10" json:"icon"`
	Color              string          `gorm:"size:7" json:"color"`
}

// TableName pins the table name shared by incomes and expenses.
func (LedgerEntry) TableName() string { return "ledger_entries" }
