package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/period"
	"fintrack/internal/services"
)

func setupEntryRouter(incomes, expenses *EntryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	for prefix, h := range map[string]*EntryHandler{"/incomes": incomes, "/expenses": expenses} {
		auth.GET(prefix, h.ListEntries)
		auth.POST(prefix, h.CreateEntry)
		auth.GET(prefix+"/:id", h.GetEntry)
		auth.PATCH(prefix+"/:id", h.UpdateEntry)
		auth.DELETE(prefix+"/:id", h.DeleteEntry)
	}
	return r
}

func newEntryRouter(svc *mockEntryService) *gin.Engine {
	return setupEntryRouter(NewIncomeHandler(svc, testResolver()), NewExpenseHandler(svc, testResolver()))
}

func TestEntryHandler_CreateEntry(t *testing.T) {
	t.Run("income maps source to category", func(t *testing.T) {
		var got services.EntryInput
		var gotKind models.EntryKind
		svc := &mockEntryService{
			createEntryFn: func(userID string, kind models.EntryKind, in services.EntryInput) (*models.LedgerEntry, error) {
				if userID != testUserID {
					t.Errorf("expected owner %q, got %q", testUserID, userID)
				}
				got, gotKind = in, kind
				return &models.LedgerEntry{Base: models.Base{ID: testEntryID}, Kind: kind, Category: in.Category, Amount: in.Amount}, nil
			},
		}
		r := newEntryRouter(svc)

		rec := doRequest(r, "POST", "/incomes", `{"source":"Salary","amount":5000.50,"date":"2024-03-01"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotKind != models.EntryKindIncome {
			t.Errorf("expected income kind, got %q", gotKind)
		}
		if got.Category != "Salary" || !got.Amount.Equal(dec("5000.5")) {
			t.Errorf("unexpected input: %+v", got)
		}
		if got.Date == nil || !got.Date.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("expected date 2024-03-01, got %v", got.Date)
		}
		result := parseJSON(t, rec)
		if result["source"] != "Salary" {
			t.Errorf("expected source Salary in response, got %v", result)
		}
		if _, ok := result["category"]; ok {
			t.Error("income response should not carry category")
		}
	})

	t.Run("expense keeps category and recurring settings", func(t *testing.T) {
		var got services.EntryInput
		svc := &mockEntryService{
			createEntryFn: func(_ string, kind models.EntryKind, in services.EntryInput) (*models.LedgerEntry, error) {
				got = in
				return &models.LedgerEntry{Kind: kind, Category: in.Category, Amount: in.Amount}, nil
			},
		}
		r := newEntryRouter(svc)

		rec := doRequest(r, "POST", "/expenses",
			`{"category":"Rent","amount":1200,"recurring":true,"recurringFrequency":"monthly","color":"#ff0000"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Category != "Rent" || !got.Recurring || got.RecurringFrequency == nil || *got.RecurringFrequency != models.FrequencyMonthly {
			t.Errorf("unexpected input: %+v", got)
		}
		if got.Date != nil {
			t.Errorf("expected nil date to default in the service, got %v", got.Date)
		}
		if parseJSON(t, rec)["category"] != "Rent" {
			t.Error("expected category Rent in response")
		}
	})

	t.Run("accepts RFC 3339 timestamps", func(t *testing.T) {
		var got services.EntryInput
		svc := &mockEntryService{
			createEntryFn: func(_ string, _ models.EntryKind, in services.EntryInput) (*models.LedgerEntry, error) {
				got = in
				return &models.LedgerEntry{}, nil
			},
		}
		rec := doRequest(newEntryRouter(svc), "POST", "/expenses",
			`{"category":"Food","amount":12,"date":"2024-03-15T18:30:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Date == nil || !got.Date.Equal(time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)) {
			t.Errorf("unexpected date %v", got.Date)
		}
	})

	tests := []struct {
		name string
		path string
		body string
		code string
	}{
		{"missing amount", "/expenses", `{"category":"Food"}`, "INVALID_AMOUNT"},
		{"malformed date", "/expenses", `{"category":"Food","amount":5,"date":"15/03/2024"}`, "INVALID_DATE"},
		{"unknown frequency", "/expenses", `{"category":"Food","amount":5,"recurringFrequency":"hourly"}`, "INVALID_INPUT"},
		{"bad color", "/incomes", `{"source":"Gift","amount":5,"color":"red"}`, "INVALID_INPUT"},
		{"malformed body", "/incomes", `{"source":`, "INVALID_INPUT"},
	}
	for _, tc := range tests {
		t.Run("returns 400 on "+tc.name, func(t *testing.T) {
			r := newEntryRouter(&mockEntryService{})
			rec := doRequest(r, "POST", tc.path, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), tc.code)
		})
	}

	t.Run("passes service validation errors through", func(t *testing.T) {
		svc := &mockEntryService{
			createEntryFn: func(string, models.EntryKind, services.EntryInput) (*models.LedgerEntry, error) {
				return nil, apperrors.ErrInvalidAmount
			},
		}
		rec := doRequest(newEntryRouter(svc), "POST", "/expenses", `{"category":"Food","amount":-5}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_AMOUNT")
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		h := NewExpenseHandler(&mockEntryService{}, testResolver())
		r := gin.New()
		r.POST("/expenses", h.CreateEntry)

		rec := doRequest(r, "POST", "/expenses", `{"category":"Food","amount":5}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNAUTHORIZED")
	})
}

func TestEntryHandler_ListEntries(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	monthWindow := period.Window{From: &from, To: time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC), Period: period.Month}

	t.Run("returns entries with window metadata", func(t *testing.T) {
		var got services.EntryQuery
		svc := &mockEntryService{
			queryEntriesFn: func(_ string, kind models.EntryKind, q services.EntryQuery) (*services.EntryList, error) {
				if kind != models.EntryKindExpense {
					t.Errorf("expected expense kind, got %q", kind)
				}
				got = q
				return &services.EntryList{
					Entries: []models.LedgerEntry{
						{Kind: kind, Category: "Food", Amount: dec("100.10")},
						{Kind: kind, Category: "Food", Amount: dec("800.20")},
					},
					Count:       2,
					TotalAmount: dec("900.30"),
					Window:      monthWindow,
				}, nil
			},
		}
		rec := doRequest(newEntryRouter(svc), "GET", "/expenses?period=month&category=Food&recurring=false", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Period != period.Month {
			t.Errorf("expected month selector, got %q", got.Period)
		}
		if got.Category == nil || *got.Category != "Food" {
			t.Errorf("expected category filter Food, got %v", got.Category)
		}
		if got.Recurring == nil || *got.Recurring {
			t.Errorf("expected recurring=false filter, got %v", got.Recurring)
		}

		result := parseJSON(t, rec)
		if result["count"].(float64) != 2 {
			t.Errorf("expected count 2, got %v", result["count"])
		}
		if result["totalAmount"].(float64) != 900.30 {
			t.Errorf("expected totalAmount 900.30, got %v", result["totalAmount"])
		}
		if result["searchStartDate"] != "2024-03-01" || result["searchEndDate"] != "2024-03-15" {
			t.Errorf("unexpected bounds: %v / %v", result["searchStartDate"], result["searchEndDate"])
		}
		if result["dateRange"] != "2024-03-01 to 2024-03-15" {
			t.Errorf("unexpected dateRange %v", result["dateRange"])
		}
		if len(result["entries"].([]interface{})) != 2 {
			t.Errorf("expected 2 entries, got %v", result["entries"])
		}
	})

	t.Run("all time has null start date", func(t *testing.T) {
		svc := &mockEntryService{
			queryEntriesFn: func(string, models.EntryKind, services.EntryQuery) (*services.EntryList, error) {
				return &services.EntryList{Window: period.Window{To: monthWindow.To, Period: period.All}}, nil
			},
		}
		rec := doRequest(newEntryRouter(svc), "GET", "/incomes", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["searchStartDate"] != nil {
			t.Errorf("expected null start, got %v", result["searchStartDate"])
		}
		if result["dateRange"] != "All time" {
			t.Errorf("expected All time, got %v", result["dateRange"])
		}
		if _, ok := result["recurring"]; ok {
			t.Error("income listing should not echo a recurring filter")
		}
	})

	t.Run("income filters by source", func(t *testing.T) {
		var got services.EntryQuery
		svc := &mockEntryService{
			queryEntriesFn: func(_ string, _ models.EntryKind, q services.EntryQuery) (*services.EntryList, error) {
				got = q
				return &services.EntryList{Window: monthWindow}, nil
			},
		}
		rec := doRequest(newEntryRouter(svc), "GET", "/incomes?source=Salary&category=ignored", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.Category == nil || *got.Category != "Salary" {
			t.Errorf("expected source filter Salary, got %v", got.Category)
		}
		if parseJSON(t, rec)["source"] != "Salary" {
			t.Error("expected source echoed in response")
		}
	})

	t.Run("custom range dates are parsed", func(t *testing.T) {
		var got services.EntryQuery
		svc := &mockEntryService{
			queryEntriesFn: func(_ string, _ models.EntryKind, q services.EntryQuery) (*services.EntryList, error) {
				got = q
				return &services.EntryList{Window: monthWindow}, nil
			},
		}
		rec := doRequest(newEntryRouter(svc), "GET", "/expenses?period=custom&startDate=2024-03-01&endDate=2024-03-10", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.StartDate == nil || got.EndDate == nil {
			t.Fatalf("expected both dates, got %+v", got)
		}
		if got.EndDate.Day() != 10 {
			t.Errorf("expected end day 10, got %v", got.EndDate)
		}
	})

	errorCases := []struct {
		name  string
		query string
		code  string
	}{
		{"unknown period", "?period=fortnight", "INVALID_PERIOD"},
		{"bad start date", "?period=custom&startDate=03-01-2024&endDate=2024-03-10", "INVALID_DATE"},
		{"bad recurring flag", "?recurring=maybe", "INVALID_INPUT"},
	}
	for _, tc := range errorCases {
		t.Run("returns 400 on "+tc.name, func(t *testing.T) {
			rec := doRequest(newEntryRouter(&mockEntryService{}), "GET", "/expenses"+tc.query, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), tc.code)
		})
	}

	t.Run("returns 400 when custom range is missing", func(t *testing.T) {
		svc := &mockEntryService{
			queryEntriesFn: func(string, models.EntryKind, services.EntryQuery) (*services.EntryList, error) {
				return nil, apperrors.ErrMissingRange
			},
		}
		rec := doRequest(newEntryRouter(svc), "GET", "/expenses?period=custom", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "MISSING_RANGE")
	})
}

func TestEntryHandler_GetUpdateDelete(t *testing.T) {
	t.Run("get returns 404 for unknown entry", func(t *testing.T) {
		svc := &mockEntryService{
			getEntryByIDFn: func(_ string, _ models.EntryKind, id string) (*models.LedgerEntry, error) {
				if id != testEntryID {
					t.Errorf("expected id %s, got %s", testEntryID, id)
				}
				return nil, apperrors.ErrEntryNotFound
			},
		}
		rec := doRequest(newEntryRouter(svc), "GET", "/expenses/"+testEntryID, "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ENTRY_NOT_FOUND")
	})

	t.Run("get rejects malformed id", func(t *testing.T) {
		rec := doRequest(newEntryRouter(&mockEntryService{}), "GET", "/expenses/not-a-uuid", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("patch forwards only provided fields", func(t *testing.T) {
		var got services.EntryPatch
		svc := &mockEntryService{
			updateEntryFn: func(_ string, kind models.EntryKind, _ string, patch services.EntryPatch) (*models.LedgerEntry, error) {
				got = patch
				return &models.LedgerEntry{Kind: kind, Category: "Bonus", Amount: *patch.Amount}, nil
			},
		}
		rec := doRequest(newEntryRouter(svc), "PATCH", "/incomes/"+testEntryID, `{"source":"Bonus","amount":250}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Category == nil || *got.Category != "Bonus" {
			t.Errorf("expected category Bonus, got %v", got.Category)
		}
		if got.Description != nil || got.Date != nil || got.Recurring != nil {
			t.Errorf("unexpected fields in patch: %+v", got)
		}
		if parseJSON(t, rec)["source"] != "Bonus" {
			t.Error("expected source Bonus in response")
		}
	})

	t.Run("delete confirms by kind", func(t *testing.T) {
		r := newEntryRouter(&mockEntryService{})
		for path, msg := range map[string]string{
			"/incomes/" + testEntryID:  "Income deleted successfully",
			"/expenses/" + testEntryID: "Expense deleted successfully",
		} {
			rec := doRequest(r, "DELETE", path, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if parseJSON(t, rec)["message"] != msg {
				t.Errorf("expected %q for %s", msg, path)
			}
		}
	})

	t.Run("delete maps unexpected errors to 500", func(t *testing.T) {
		svc := &mockEntryService{
			deleteEntryFn: func(string, models.EntryKind, string) error {
				return errBoom
			},
		}
		rec := doRequest(newEntryRouter(svc), "DELETE", "/expenses/"+testEntryID, "")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})
}
