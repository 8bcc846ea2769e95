package planner

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
)

func TestBuildPrompt(t *testing.T) {
	budget := decimal.NewFromInt(30000)
	prompt, err := buildPrompt(Request{
		Transactions: []Transaction{{
			Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Amount:   decimal.RequireFromString("120.50"),
			Category: "Groceries",
			Type:     "Expense",
		}},
		MonthlyIncome: decimal.NewFromInt(50000),
		TotalBudget:   &budget,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"monthly_income: 50000", "total_budget", "Groceries", "needs_breakdown"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestParseResponse(t *testing.T) {
	t.Run("text part", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Text(sampleOutput)}},
			}},
		}
		a, err := parseResponse(resp)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !a.WantsTotal.Equal(decimal.NewFromInt(12000)) {
			t.Errorf("expected wants 12000, got %s", a.WantsTotal)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := parseResponse(&genai.GenerateContentResponse{}); err == nil {
			t.Fatal("expected error for empty response")
		}
		if _, err := parseResponse(nil); err == nil {
			t.Fatal("expected error for nil response")
		}
	})
}

func TestGemini_NotConfigured(t *testing.T) {
	if _, err := NewGemini("", "").Plan(context.Background(), Request{}); err == nil {
		t.Fatal("expected error without api key")
	}
}
