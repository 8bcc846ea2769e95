package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini asks a Google Gemini model for the allocation.
type Gemini struct {
	apiKey    string
	modelName string
}

// NewGemini creates a Gemini planner.
func NewGemini(apiKey, modelName string) *Gemini {
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &Gemini{apiKey: apiKey, modelName: modelName}
}

// Plan implements Planner.
func (g *Gemini) Plan(ctx context.Context, req Request) (*Allocation, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("gemini planner is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.modelName)
	model.SetTemperature(0.2)
	model.ResponseMIMEType = "application/json"

	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, err
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	return parseResponse(resp)
}

func buildPrompt(req Request) (string, error) {
	history, err := json.Marshal(req.Transactions)
	if err != nil {
		return "", fmt.Errorf("failed to encode transactions: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(`You are a personal budgeting assistant. Build next month's budget from the user's expense history.

Rules:
- Split spending categories into needs (rent, utilities, groceries, health, education, loan payments) and wants (everything discretionary).
- Base each category amount on recent months, weighting the latest months more.
- Recommend savings first; needs_total + wants_total must equal total_living_budget.
- total_living_budget + recommended_savings must not exceed monthly_income.
`)
	fmt.Fprintf(&sb, "\nmonthly_income: %s\n", req.MonthlyIncome.String())
	if req.TotalBudget != nil {
		fmt.Fprintf(&sb, "total_budget (use as total_living_budget): %s\n", req.TotalBudget.String())
	}
	sb.WriteString("\nexpense history (JSON):\n")
	sb.Write(history)
	sb.WriteString(`

Respond with a single JSON object and nothing else:
{
  "monthly_income": number,
  "recommended_savings": number,
  "total_living_budget": number,
  "needs_total": number,
  "wants_total": number,
  "needs_breakdown": { "<category>": number },
  "wants_breakdown": { "<category>": number },
  "note": ["short advice"]
}
`)
	return sb.String(), nil
}

func parseResponse(resp *genai.GenerateContentResponse) (*Allocation, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text = string(t)
			break
		}
	}
	if text == "" {
		return nil, fmt.Errorf("no text content in response")
	}
	return ParseAllocation([]byte(text))
}
