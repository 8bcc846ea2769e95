package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/period"
	"fintrack/internal/savings"
)

var errNotDue = errors.New("goal is not due")

// AutoSaver credits recurring savings goals whose next contribution is due.
type AutoSaver struct {
	db    *gorm.DB
	goals *goalService
	now   Clock
}

// NewAutoSaver creates an AutoSaver that writes through the same guarded
// contribution path as user contributions.
func NewAutoSaver(db *gorm.DB, resolver *period.Resolver, retries int) *AutoSaver {
	return newAutoSaver(db, resolver, time.Now, retries)
}

func newAutoSaver(db *gorm.DB, resolver *period.Resolver, now Clock, retries int) *AutoSaver {
	goals := newGoalService(db, resolver, now, retries)
	return &AutoSaver{db: db, goals: goals, now: goals.clock}
}

// RunOnce makes at most one contribution to every due goal and returns how
// many goals were credited. A failure on one goal does not stop the rest.
func (a *AutoSaver) RunOnce(ctx context.Context) (int, error) {
	log := logger.Get()

	var goals []models.SavingsGoal
	if err := a.db.WithContext(ctx).Where("recurring = ?", true).Find(&goals).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := a.now()
	credited := 0
	for _, g := range goals {
		if ctx.Err() != nil {
			return credited, ctx.Err()
		}
		if !savings.Due(g, now) {
			continue
		}

		view, err := a.goals.swap(g.UserID, g.ID, func(goal *models.SavingsGoal, at time.Time) error {
			if !savings.Due(*goal, at) {
				return errNotDue
			}
			return savings.Contribute(goal, savings.AutoSaveAmount(*goal), at)
		})
		if errors.Is(err, errNotDue) {
			continue
		}
		if err != nil {
			log.Errorw("Auto-save contribution failed", "goal_id", g.ID, "user_id", g.UserID, "error", err)
			continue
		}

		credited++
		log.Infow("Auto-saved to goal",
			"goal_id", view.ID,
			"user_id", view.UserID,
			"current_amount", view.CurrentAmount.String(),
			"frequency", view.RecurringFrequency)
	}

	log.Infow("Auto-save run complete", "checked", len(goals), "credited", credited)
	return credited, nil
}

// Run calls RunOnce immediately and then on every tick until ctx is done.
func (a *AutoSaver) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.runLogged(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Get().Info("Auto-saver stopped")
			return
		case <-ticker.C:
			a.runLogged(ctx)
		}
	}
}

func (a *AutoSaver) runLogged(ctx context.Context) {
	if _, err := a.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Get().Errorw("Auto-save run failed", "error", err)
	}
}
