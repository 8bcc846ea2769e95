// Package planner adapts external budget planners. A planner receives the
// user's expense history and income and returns a needs/wants allocation;
// how it reaches the allocation is its own business.
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one historical expense handed to the planner.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
}

// Request is the planner input.
type Request struct {
	Transactions  []Transaction    `json:"transactions"`
	MonthlyIncome decimal.Decimal  `json:"monthly_income"`
	TotalBudget   *decimal.Decimal `json:"total_budget"`
}

// Allocation is the planner output.
type Allocation struct {
	MonthlyIncome      decimal.Decimal            `json:"monthly_income"`
	RecommendedSavings decimal.Decimal            `json:"recommended_savings"`
	TotalLivingBudget  decimal.Decimal            `json:"total_living_budget"`
	NeedsTotal         decimal.Decimal            `json:"needs_total"`
	WantsTotal         decimal.Decimal            `json:"wants_total"`
	NeedsBreakdown     map[string]decimal.Decimal `json:"needs_breakdown"`
	WantsBreakdown     map[string]decimal.Decimal `json:"wants_breakdown"`
	Note               Notes                      `json:"note"`
}

// Planner produces an allocation for a request.
type Planner interface {
	Plan(ctx context.Context, req Request) (*Allocation, error)
}

// Notes accepts either a single string or a list of strings.
type Notes []string

// UnmarshalJSON implements json.Unmarshaler.
func (n *Notes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*n = nil
		} else {
			*n = Notes{s}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*n = list
	return nil
}

// ParseAllocation decodes planner output, tolerating a markdown code fence
// around the JSON, and checks it is usable.
func ParseAllocation(raw []byte) (*Allocation, error) {
	text := strings.TrimSpace(string(raw))
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var out struct {
		Allocation
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("failed to parse planner output: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("planner reported an error: %s", out.Error)
	}
	a := out.Allocation
	if !a.MonthlyIncome.IsPositive() {
		if out.Message != "" {
			return nil, fmt.Errorf("planner returned no allocation: %s", out.Message)
		}
		return nil, fmt.Errorf("planner returned no monthly income")
	}
	if a.NeedsBreakdown == nil {
		a.NeedsBreakdown = map[string]decimal.Decimal{}
	}
	if a.WantsBreakdown == nil {
		a.WantsBreakdown = map[string]decimal.Decimal{}
	}
	return &a, nil
}

// Func adapts an ordinary function to Planner.
type Func func(ctx context.Context, req Request) (*Allocation, error)

// Plan implements Planner.
func (f Func) Plan(ctx context.Context, req Request) (*Allocation, error) { return f(ctx, req) }
