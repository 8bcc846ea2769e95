package planner

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

const sampleOutput = `{
  "monthly_income": 50000,
  "recommended_savings": 10000,
  "total_living_budget": 40000,
  "needs_total": 28000,
  "wants_total": 12000,
  "needs_breakdown": {"RENT": 20000, "GROCERIES": 8000},
  "wants_breakdown": {"COFFEE": 2000, "TRAVEL": 10000},
  "note": ["Cut coffee by 20%"]
}`

func TestParseAllocation(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		a, err := ParseAllocation([]byte(sampleOutput))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !a.NeedsTotal.Equal(decimal.NewFromInt(28000)) {
			t.Errorf("expected needs 28000, got %s", a.NeedsTotal)
		}
		if !a.NeedsBreakdown["RENT"].Equal(decimal.NewFromInt(20000)) {
			t.Errorf("unexpected rent %s", a.NeedsBreakdown["RENT"])
		}
		if len(a.Note) != 1 || a.Note[0] != "Cut coffee by 20%" {
			t.Errorf("unexpected notes %v", a.Note)
		}
	})

	t.Run("fenced json", func(t *testing.T) {
		if _, err := ParseAllocation([]byte("```json\n" + sampleOutput + "\n```")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("message only", func(t *testing.T) {
		_, err := ParseAllocation([]byte(`{"message": "No transactions yet."}`))
		if err == nil {
			t.Fatal("expected error for message-only output")
		}
	})

	t.Run("error field", func(t *testing.T) {
		if _, err := ParseAllocation([]byte(`{"error": "boom"}`)); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := ParseAllocation([]byte("Traceback (most recent call last)")); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("missing breakdowns become empty maps", func(t *testing.T) {
		a, err := ParseAllocation([]byte(`{"monthly_income": 100}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.NeedsBreakdown == nil || a.WantsBreakdown == nil {
			t.Error("expected non-nil breakdowns")
		}
	})
}

func TestNotes_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{`"single note"`, 1},
		{`["a", "b"]`, 2},
		{`null`, 0},
		{`""`, 0},
	}
	for _, tt := range tests {
		var n Notes
		if err := json.Unmarshal([]byte(tt.in), &n); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if len(n) != tt.want {
			t.Errorf("unmarshal %s: expected %d notes, got %d", tt.in, tt.want, len(n))
		}
	}
}

func TestRequest_MarshalJSON(t *testing.T) {
	budget := decimal.NewFromInt(30000)
	data, err := json.Marshal(Request{MonthlyIncome: decimal.NewFromInt(50000), TotalBudget: &budget})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"transactions", "monthly_income", "total_budget"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("expected key %s in %s", key, data)
		}
	}
}
