package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/ledger"
	"fintrack/internal/models"
	"fintrack/internal/period"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db       *gorm.DB
	resolver *period.Resolver
	now      Clock
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, resolver *period.Resolver) BudgetServicer {
	return newBudgetService(db, resolver, time.Now)
}

func newBudgetService(db *gorm.DB, resolver *period.Resolver, now Clock) *budgetService {
	return &budgetService{db: db, resolver: resolver, now: now}
}

// CreateBudget creates a budget. Only one budget may exist per category
// and period.
func (s *budgetService) CreateBudget(userID, category string, budgetPeriod models.BudgetPeriod, amount decimal.Decimal) (*models.Budget, error) {
	budget := &models.Budget{
		UserID:   userID,
		Category: category,
		Period:   budgetPeriod,
		Amount:   amount,
	}
	if err := normalizeBudget(budget); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(budget); err != nil {
		return nil, err
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, translateBudgetError(err)
	}
	return budget, nil
}

// GetUserBudgets lists the user's budgets, optionally for one period,
// each with its consumption in the current window.
func (s *budgetService) GetUserBudgets(userID string, budgetPeriod *models.BudgetPeriod) ([]BudgetWithUsage, error) {
	query := s.db.Where("user_id = ?", userID)
	if budgetPeriod != nil {
		query = query.Where("period = ?", *budgetPeriod)
	}

	var budgets []models.Budget
	if err := query.Order("category ASC, period ASC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := s.now()
	windows := make(map[models.BudgetPeriod]period.Window)
	spending := make(map[models.BudgetPeriod][]models.LedgerEntry)
	for _, b := range budgets {
		if _, ok := windows[b.Period]; ok {
			continue
		}
		w, err := s.windowFor(b.Period, now)
		if err != nil {
			return nil, err
		}
		var expenses []models.LedgerEntry
		if err := s.db.Scopes(entryScope(userID, models.EntryKindExpense, ledger.Filter{Window: w})).Find(&expenses).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		windows[b.Period] = w
		spending[b.Period] = expenses
	}

	result := make([]BudgetWithUsage, 0, len(budgets))
	for _, b := range budgets {
		category := b.Category
		filter := ledger.Filter{Window: windows[b.Period], Category: &category}
		spent := ledger.Summarize(filter.Apply(spending[b.Period])).Total
		result = append(result, BudgetWithUsage{Budget: b, BudgetUsage: ledger.Usage(b.Amount, spent)})
	}
	return result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates an existing budget's fields.
func (s *budgetService) UpdateBudget(userID, budgetID string, category *string, budgetPeriod *models.BudgetPeriod, amount *decimal.Decimal) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	if category != nil {
		budget.Category = *category
	}
	if budgetPeriod != nil {
		budget.Period = *budgetPeriod
	}
	if amount != nil {
		budget.Amount = *amount
	}
	if err := normalizeBudget(budget); err != nil {
		return nil, err
	}
	if category != nil || budgetPeriod != nil {
		if err := s.ensureUnique(budget); err != nil {
			return nil, err
		}
	}

	if err := s.db.Save(budget).Error; err != nil {
		return nil, translateBudgetError(err)
	}
	return budget, nil
}

// DeleteBudget permanently removes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	result := s.db.Where("id = ? AND user_id = ?", budgetID, userID).Delete(&models.Budget{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrBudgetNotFound
	}
	return nil
}

// GetBudgetProgress calculates spending against the budget for the
// current window of its period.
func (s *budgetService) GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	window, err := s.windowFor(budget.Period, s.now())
	if err != nil {
		return nil, err
	}
	category := budget.Category
	filter := ledger.Filter{Window: window, Category: &category}

	var expenses []models.LedgerEntry
	if err := s.db.Scopes(entryScope(userID, models.EntryKindExpense, filter)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	usage := ledger.Usage(budget.Amount, ledger.Summarize(expenses).Total)
	return &BudgetProgress{
		BudgetID:        budget.ID,
		Category:        budget.Category,
		Period:          string(budget.Period),
		Budgeted:        budget.Amount,
		Spent:           usage.Spent,
		Remaining:       usage.Remaining,
		Progress:        usage.Progress,
		IsOverBudget:    usage.IsOverBudget,
		SearchStartDate: window.StartDate(),
		SearchEndDate:   window.EndDate(),
	}, nil
}

func (s *budgetService) windowFor(budgetPeriod models.BudgetPeriod, now time.Time) (period.Window, error) {
	sel, err := period.ForBudget(string(budgetPeriod))
	if err != nil {
		return period.Window{}, err
	}
	return s.resolver.Resolve(sel, now, nil, nil)
}

// ensureUnique rejects a second budget for the same category and period.
// The unique index still guards against a concurrent insert.
func (s *budgetService) ensureUnique(b *models.Budget) error {
	query := s.db.Model(&models.Budget{}).
		Where("user_id = ? AND category = ? AND period = ?", b.UserID, b.Category, b.Period)
	if b.ID != "" {
		query = query.Where("id <> ?", b.ID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateBudget
	}
	return nil
}

func normalizeBudget(b *models.Budget) error {
	b.Category = strings.TrimSpace(b.Category)
	if b.Category == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Category is required")
	}
	if len([]rune(b.Category)) > maxCategoryLen {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Category must be at most 100 characters")
	}
	if !b.Period.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Period must be weekly, monthly or yearly")
	}
	if !b.Amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	if !models.FitsMoneyScale(b.Amount) {
		return apperrors.ErrAmountScale
	}
	return nil
}

func translateBudgetError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrDuplicateBudget
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
