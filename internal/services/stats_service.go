package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/ledger"
	"fintrack/internal/models"
	"fintrack/internal/period"
)

// statsService computes dashboard aggregates. Independent reads run
// concurrently; nothing is cached.
type statsService struct {
	db       *gorm.DB
	resolver *period.Resolver
	now      Clock
}

// NewStatsService creates a new StatsServicer.
func NewStatsService(db *gorm.DB, resolver *period.Resolver) StatsServicer {
	return newStatsService(db, resolver, time.Now)
}

func newStatsService(db *gorm.DB, resolver *period.Resolver, now Clock) *statsService {
	return &statsService{db: db, resolver: resolver, now: now}
}

// GetNetWorth sums every recorded income and expense, future-dated ones
// included, together with the balances of every savings goal.
func (s *statsService) GetNetWorth(ctx context.Context, userID string) (*NetWorth, error) {
	var income, expense ledger.Totals
	var goals []models.SavingsGoal

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		income, err = s.totals(gctx, userID, models.EntryKindIncome)
		return err
	})
	g.Go(func() (err error) {
		expense, err = s.totals(gctx, userID, models.EntryKindExpense)
		return err
	})
	g.Go(func() error {
		return s.loadGoals(gctx, userID, &goals)
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	saved := decimal.Zero
	for _, goal := range goals {
		saved = saved.Add(goal.CurrentAmount)
	}

	return &NetWorth{
		NetWorth:     ledger.NetWorth(income.Total, expense.Total, saved),
		TotalIncome:  income.Total,
		TotalExpense: expense.Total,
		TotalSavings: saved,
	}, nil
}

// GetSavingsStats totals targets and balances across the user's goals.
func (s *statsService) GetSavingsStats(ctx context.Context, userID string) (*SavingsStats, error) {
	var goals []models.SavingsGoal
	if err := s.loadGoals(ctx, userID, &goals); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stats := &SavingsStats{TotalTarget: decimal.Zero, TotalSaved: decimal.Zero, Count: len(goals)}
	for _, goal := range goals {
		stats.TotalTarget = stats.TotalTarget.Add(goal.TargetAmount)
		stats.TotalSaved = stats.TotalSaved.Add(goal.CurrentAmount)
	}
	return stats, nil
}

// GetSummary aggregates income and expenses inside the requested window.
func (s *statsService) GetSummary(ctx context.Context, userID string, q EntryQuery) (*Summary, error) {
	window, err := s.resolver.Resolve(q.Period, s.now(), q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	filter := ledger.Filter{Window: window}

	var incomes, expenses []models.LedgerEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Scopes(entryScope(userID, models.EntryKindIncome, filter)).Find(&incomes).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Scopes(entryScope(userID, models.EntryKindExpense, filter)).Find(&expenses).Error
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	income := ledger.Summarize(incomes)
	expense := ledger.Summarize(expenses)
	return &Summary{
		Period:             window.Period,
		SearchStartDate:    window.StartDate(),
		SearchEndDate:      window.EndDate(),
		DateRange:          window.DateRange(),
		TotalIncome:        income.Total,
		TotalExpense:       expense.Total,
		Net:                income.Total.Sub(expense.Total),
		IncomeCount:        income.Count,
		ExpenseCount:       expense.Count,
		ExpensesByCategory: ledger.Breakdown(expenses),
		IncomeBySource:     ledger.Breakdown(incomes),
	}, nil
}

func (s *statsService) totals(ctx context.Context, userID string, kind models.EntryKind) (ledger.Totals, error) {
	var entries []models.LedgerEntry
	err := s.db.WithContext(ctx).Where("user_id = ? AND kind = ?", userID, kind).Select("amount").Find(&entries).Error
	if err != nil {
		return ledger.Totals{}, err
	}
	return ledger.Summarize(entries), nil
}

func (s *statsService) loadGoals(ctx context.Context, userID string, out *[]models.SavingsGoal) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).
		Select("target_amount", "current_amount").Find(out).Error
}
