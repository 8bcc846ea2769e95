// Package models defines the GORM-backed entities of the finance tracker.
package models

import "github.com/shopspring/decimal"

func init() {
	// Amounts are rendered as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}
