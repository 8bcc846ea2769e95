package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/period"
	"fintrack/internal/savings"
	"fintrack/internal/services"
	"fintrack/internal/validator"
)

const (
	testUserID  = "user-1"
	testEntryID = "0190a3b2-7c1d-7e5f-8a9b-0c1d2e3f4a5b"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

var errBoom = errors.New("boom")

func testResolver() *period.Resolver {
	return period.NewResolver(time.Sunday, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// --- mock services ---

type mockEntryService struct {
	createEntryFn  func(userID string, kind models.EntryKind, in services.EntryInput) (*models.LedgerEntry, error)
	getEntryByIDFn func(userID string, kind models.EntryKind, entryID string) (*models.LedgerEntry, error)
	updateEntryFn  func(userID string, kind models.EntryKind, entryID string, patch services.EntryPatch) (*models.LedgerEntry, error)
	deleteEntryFn  func(userID string, kind models.EntryKind, entryID string) error
	queryEntriesFn func(userID string, kind models.EntryKind, q services.EntryQuery) (*services.EntryList, error)
}

func (m *mockEntryService) CreateEntry(userID string, kind models.EntryKind, in services.EntryInput) (*models.LedgerEntry, error) {
	if m.createEntryFn != nil {
		return m.createEntryFn(userID, kind, in)
	}
	return &models.LedgerEntry{}, nil
}

func (m *mockEntryService) GetEntryByID(userID string, kind models.EntryKind, entryID string) (*models.LedgerEntry, error) {
	if m.getEntryByIDFn != nil {
		return m.getEntryByIDFn(userID, kind, entryID)
	}
	return &models.LedgerEntry{}, nil
}

func (m *mockEntryService) UpdateEntry(userID string, kind models.EntryKind, entryID string, patch services.EntryPatch) (*models.LedgerEntry, error) {
	if m.updateEntryFn != nil {
		return m.updateEntryFn(userID, kind, entryID, patch)
	}
	return &models.LedgerEntry{}, nil
}

func (m *mockEntryService) DeleteEntry(userID string, kind models.EntryKind, entryID string) error {
	if m.deleteEntryFn != nil {
		return m.deleteEntryFn(userID, kind, entryID)
	}
	return nil
}

func (m *mockEntryService) QueryEntries(userID string, kind models.EntryKind, q services.EntryQuery) (*services.EntryList, error) {
	if m.queryEntriesFn != nil {
		return m.queryEntriesFn(userID, kind, q)
	}
	return &services.EntryList{}, nil
}

var _ services.EntryServicer = (*mockEntryService)(nil)

type mockBudgetService struct {
	createBudgetFn      func(userID, category string, p models.BudgetPeriod, amount decimal.Decimal) (*models.Budget, error)
	getUserBudgetsFn    func(userID string, p *models.BudgetPeriod) ([]services.BudgetWithUsage, error)
	getBudgetByIDFn     func(userID, budgetID string) (*models.Budget, error)
	updateBudgetFn      func(userID, budgetID string, category *string, p *models.BudgetPeriod, amount *decimal.Decimal) (*models.Budget, error)
	deleteBudgetFn      func(userID, budgetID string) error
	getBudgetProgressFn func(userID, budgetID string) (*services.BudgetProgress, error)
}

func (m *mockBudgetService) CreateBudget(userID, category string, p models.BudgetPeriod, amount decimal.Decimal) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(userID, category, p, amount)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetUserBudgets(userID string, p *models.BudgetPeriod) ([]services.BudgetWithUsage, error) {
	if m.getUserBudgetsFn != nil {
		return m.getUserBudgetsFn(userID, p)
	}
	return []services.BudgetWithUsage{}, nil
}

func (m *mockBudgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	if m.getBudgetByIDFn != nil {
		return m.getBudgetByIDFn(userID, budgetID)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) UpdateBudget(userID, budgetID string, category *string, p *models.BudgetPeriod, amount *decimal.Decimal) (*models.Budget, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(userID, budgetID, category, p, amount)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) DeleteBudget(userID, budgetID string) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(userID, budgetID)
	}
	return nil
}

func (m *mockBudgetService) GetBudgetProgress(userID, budgetID string) (*services.BudgetProgress, error) {
	if m.getBudgetProgressFn != nil {
		return m.getBudgetProgressFn(userID, budgetID)
	}
	return &services.BudgetProgress{}, nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

type mockGoalService struct {
	createGoalFn   func(userID string, goal *models.SavingsGoal) (*services.GoalView, error)
	getUserGoalsFn func(userID string, page pagination.PageRequest) (*pagination.PageResponse[services.GoalView], error)
	getGoalByIDFn  func(userID, goalID string) (*services.GoalView, error)
	updateGoalFn   func(userID, goalID string, patch savings.Patch) (*services.GoalView, error)
	deleteGoalFn   func(userID, goalID string) error
	contributeFn   func(userID, goalID string, amount decimal.Decimal) (*services.GoalView, error)
}

func (m *mockGoalService) CreateGoal(userID string, goal *models.SavingsGoal) (*services.GoalView, error) {
	if m.createGoalFn != nil {
		return m.createGoalFn(userID, goal)
	}
	return &services.GoalView{SavingsGoal: *goal}, nil
}

func (m *mockGoalService) GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[services.GoalView], error) {
	if m.getUserGoalsFn != nil {
		return m.getUserGoalsFn(userID, page)
	}
	page.Defaults()
	resp := pagination.NewPageResponse([]services.GoalView{}, page, 0)
	return &resp, nil
}

func (m *mockGoalService) GetGoalByID(userID, goalID string) (*services.GoalView, error) {
	if m.getGoalByIDFn != nil {
		return m.getGoalByIDFn(userID, goalID)
	}
	return &services.GoalView{}, nil
}

func (m *mockGoalService) UpdateGoal(userID, goalID string, patch savings.Patch) (*services.GoalView, error) {
	if m.updateGoalFn != nil {
		return m.updateGoalFn(userID, goalID, patch)
	}
	return &services.GoalView{}, nil
}

func (m *mockGoalService) DeleteGoal(userID, goalID string) error {
	if m.deleteGoalFn != nil {
		return m.deleteGoalFn(userID, goalID)
	}
	return nil
}

func (m *mockGoalService) Contribute(userID, goalID string, amount decimal.Decimal) (*services.GoalView, error) {
	if m.contributeFn != nil {
		return m.contributeFn(userID, goalID, amount)
	}
	return &services.GoalView{}, nil
}

var _ services.GoalServicer = (*mockGoalService)(nil)

type mockStatsService struct {
	getNetWorthFn     func(ctx context.Context, userID string) (*services.NetWorth, error)
	getSavingsStatsFn func(ctx context.Context, userID string) (*services.SavingsStats, error)
	getSummaryFn      func(ctx context.Context, userID string, q services.EntryQuery) (*services.Summary, error)
}

func (m *mockStatsService) GetNetWorth(ctx context.Context, userID string) (*services.NetWorth, error) {
	if m.getNetWorthFn != nil {
		return m.getNetWorthFn(ctx, userID)
	}
	return &services.NetWorth{}, nil
}

func (m *mockStatsService) GetSavingsStats(ctx context.Context, userID string) (*services.SavingsStats, error) {
	if m.getSavingsStatsFn != nil {
		return m.getSavingsStatsFn(ctx, userID)
	}
	return &services.SavingsStats{}, nil
}

func (m *mockStatsService) GetSummary(ctx context.Context, userID string, q services.EntryQuery) (*services.Summary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(ctx, userID, q)
	}
	return &services.Summary{}, nil
}

var _ services.StatsServicer = (*mockStatsService)(nil)

type mockPlanService struct {
	generatePlanFn func(ctx context.Context, userID string, in services.GeneratePlanInput) (*models.BudgetPlan, error)
	getPlanFn      func(userID, month string) (*models.BudgetPlan, error)
	acceptPlanFn   func(userID, month string) (*models.BudgetPlan, error)
	deletePlanFn   func(userID, month string) error
}

func (m *mockPlanService) GeneratePlan(ctx context.Context, userID string, in services.GeneratePlanInput) (*models.BudgetPlan, error) {
	if m.generatePlanFn != nil {
		return m.generatePlanFn(ctx, userID, in)
	}
	return &models.BudgetPlan{Month: in.Month}, nil
}

func (m *mockPlanService) GetPlan(userID, month string) (*models.BudgetPlan, error) {
	if m.getPlanFn != nil {
		return m.getPlanFn(userID, month)
	}
	return &models.BudgetPlan{Month: month}, nil
}

func (m *mockPlanService) AcceptPlan(userID, month string) (*models.BudgetPlan, error) {
	if m.acceptPlanFn != nil {
		return m.acceptPlanFn(userID, month)
	}
	return &models.BudgetPlan{Month: month, IsAccepted: true}, nil
}

func (m *mockPlanService) DeletePlan(userID, month string) error {
	if m.deletePlanFn != nil {
		return m.deletePlanFn(userID, month)
	}
	return nil
}

var _ services.PlanServicer = (*mockPlanService)(nil)

type mockProfileService struct {
	getProfileFn    func(userID string) (*models.Profile, error)
	upsertProfileFn func(userID string, in services.ProfileInput) (*models.Profile, error)
}

func (m *mockProfileService) GetProfile(userID string) (*models.Profile, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(userID)
	}
	return &models.Profile{UserID: userID}, nil
}

func (m *mockProfileService) UpsertProfile(userID string, in services.ProfileInput) (*models.Profile, error) {
	if m.upsertProfileFn != nil {
		return m.upsertProfileFn(userID, in)
	}
	return &models.Profile{UserID: userID}, nil
}

var _ services.ProfileServicer = (*mockProfileService)(nil)
