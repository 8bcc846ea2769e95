package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/ledger"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/period"
	"fintrack/internal/planner"
)

const (
	monthLayout      = "2006-01"
	planHistoryLimit = 1000
)

// fallbackMonthlyIncome is used when neither the request, last month's
// income nor the profile provide one.
var fallbackMonthlyIncome = decimal.NewFromInt(50000)

// planService produces and applies planner allocations.
type planService struct {
	db       *gorm.DB
	planner  planner.Planner
	resolver *period.Resolver
	now      Clock
}

// NewPlanService creates a new PlanServicer.
func NewPlanService(db *gorm.DB, p planner.Planner, resolver *period.Resolver) PlanServicer {
	return newPlanService(db, p, resolver, time.Now)
}

func newPlanService(db *gorm.DB, p planner.Planner, resolver *period.Resolver, now Clock) *planService {
	return &planService{db: db, planner: p, resolver: resolver, now: now}
}

// GeneratePlan asks the planner for an allocation for month and stores it,
// replacing any earlier plan for that month.
func (s *planService) GeneratePlan(ctx context.Context, userID string, in GeneratePlanInput) (*models.BudgetPlan, error) {
	month, err := parseMonth(in.Month)
	if err != nil {
		return nil, err
	}

	var expenses []models.LedgerEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND kind = ?", userID, models.EntryKindExpense).
		Order("date DESC").Limit(planHistoryLimit).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	income, err := s.resolveIncome(ctx, userID, in.MonthlyIncome)
	if err != nil {
		return nil, err
	}

	req := planner.Request{
		Transactions:  make([]planner.Transaction, 0, len(expenses)),
		MonthlyIncome: income,
	}
	if in.TotalBudget != nil && in.TotalBudget.IsPositive() {
		req.TotalBudget = in.TotalBudget
	}
	for _, e := range expenses {
		desc := e.Description
		if desc == "" {
			desc = e.Category
		}
		req.Transactions = append(req.Transactions, planner.Transaction{
			Date:        e.Date,
			Amount:      e.Amount,
			Category:    e.Category,
			Description: desc,
			Type:        "Expense",
		})
	}

	alloc, err := s.planner.Plan(ctx, req)
	if err != nil {
		logger.Get().Errorw("Budget planner failed", "user_id", userID, "month", month, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrPlannerFailed, err)
	}

	var plan models.BudgetPlan
	err = s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND month = ?", userID, month).First(&plan).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		plan.UserID = userID
		plan.Month = month
		plan.MonthlyIncome = alloc.MonthlyIncome
		plan.RecommendedSavings = alloc.RecommendedSavings
		plan.TotalLivingBudget = alloc.TotalLivingBudget
		plan.NeedsTotal = alloc.NeedsTotal
		plan.WantsTotal = alloc.WantsTotal
		plan.NeedsBreakdown = alloc.NeedsBreakdown
		plan.WantsBreakdown = alloc.WantsBreakdown
		plan.Notes = []string(alloc.Note)
		plan.IsAccepted = false
		return tx.Save(&plan).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &plan, nil
}

// GetPlan returns the stored plan for month.
func (s *planService) GetPlan(userID, month string) (*models.BudgetPlan, error) {
	m, err := parseMonth(month)
	if err != nil {
		return nil, err
	}
	return findPlan(s.db, userID, m)
}

// AcceptPlan turns every category of the plan into a monthly budget,
// creating or overwriting budgets, and marks the plan accepted. Wants win
// over needs when a category appears in both.
func (s *planService) AcceptPlan(userID, month string) (*models.BudgetPlan, error) {
	m, err := parseMonth(month)
	if err != nil {
		return nil, err
	}

	var plan *models.BudgetPlan
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		plan, err = findPlan(tx, userID, m)
		if err != nil {
			return err
		}

		amounts := make(map[string]decimal.Decimal)
		for category, amount := range plan.NeedsBreakdown {
			amounts[strings.TrimSpace(category)] = amount
		}
		for category, amount := range plan.WantsBreakdown {
			amounts[strings.TrimSpace(category)] = amount
		}

		for category, amount := range amounts {
			amount = amount.Round(models.MoneyScale)
			if category == "" || !amount.IsPositive() {
				continue
			}
			if err := upsertMonthlyBudget(tx, userID, category, amount); err != nil {
				return err
			}
		}

		plan.IsAccepted = true
		return tx.Model(plan).Update("is_accepted", true).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return plan, nil
}

// DeletePlan removes the plan for month.
func (s *planService) DeletePlan(userID, month string) error {
	m, err := parseMonth(month)
	if err != nil {
		return err
	}
	result := s.db.Where("user_id = ? AND month = ?", userID, m).Delete(&models.BudgetPlan{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrPlanNotFound
	}
	return nil
}

// resolveIncome picks the income to plan with: the explicit value, else
// last calendar month's recorded income, else the profile's figure, else
// a fixed fallback.
func (s *planService) resolveIncome(ctx context.Context, userID string, explicit *decimal.Decimal) (decimal.Decimal, error) {
	if explicit != nil && explicit.IsPositive() {
		return *explicit, nil
	}

	now := s.now().In(s.resolver.Location())
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.resolver.Location())
	lastMonth := thisMonth.AddDate(0, -1, 0)

	var incomes []models.LedgerEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND kind = ?", userID, models.EntryKindIncome).
		Where("date >= ? AND date < ?", lastMonth.UTC(), thisMonth.UTC()).
		Select("amount").Find(&incomes).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if total := ledger.Summarize(incomes).Total; total.IsPositive() {
		return total, nil
	}

	var profile models.Profile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	switch {
	case err == nil && profile.MonthlyIncome.IsPositive():
		return profile.MonthlyIncome, nil
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return fallbackMonthlyIncome, nil
}

func findPlan(db *gorm.DB, userID, month string) (*models.BudgetPlan, error) {
	var plan models.BudgetPlan
	if err := db.Where("user_id = ? AND month = ?", userID, month).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPlanNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &plan, nil
}

func upsertMonthlyBudget(tx *gorm.DB, userID, category string, amount decimal.Decimal) error {
	var budget models.Budget
	err := tx.Where("user_id = ? AND category = ? AND period = ?", userID, category, models.BudgetPeriodMonthly).First(&budget).Error
	switch {
	case err == nil:
		return tx.Model(&budget).Update("amount", amount).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Create(&models.Budget{
			UserID:   userID,
			Category: category,
			Period:   models.BudgetPeriodMonthly,
			Amount:   amount,
		}).Error
	default:
		return err
	}
}

func parseMonth(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Month is required (YYYY-MM)")
	}
	t, err := time.Parse(monthLayout, raw)
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Month must be formatted as YYYY-MM")
	}
	return t.Format(monthLayout), nil
}
