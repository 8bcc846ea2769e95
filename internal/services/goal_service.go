package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/period"
	"fintrack/internal/savings"
)

// DefaultContributeRetries bounds how often a goal write is retried after
// losing a version race.
const DefaultContributeRetries = 8

// goalService handles savings goals. Every write after creation is a
// compare-and-swap on the goal's version column.
type goalService struct {
	db       *gorm.DB
	resolver *period.Resolver
	now      Clock
	retries  int

	// beforeSwap runs between reading a goal and writing it back.
	beforeSwap func(goalID string)
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB, resolver *period.Resolver, retries int) GoalServicer {
	return newGoalService(db, resolver, time.Now, retries)
}

func newGoalService(db *gorm.DB, resolver *period.Resolver, now Clock, retries int) *goalService {
	if retries < 0 {
		retries = DefaultContributeRetries
	}
	return &goalService{db: db, resolver: resolver, now: now, retries: retries}
}

// clock returns the current time in the resolver location, the same
// reference deadlines are parsed in.
func (s *goalService) clock() time.Time {
	return s.now().In(s.resolver.Location())
}

// CreateGoal validates and stores a new goal for the user.
func (s *goalService) CreateGoal(userID string, goal *models.SavingsGoal) (*GoalView, error) {
	goal.ID = ""
	goal.UserID = userID
	goal.Version = 1
	if err := savings.ValidateNew(goal, s.clock()); err != nil {
		return nil, err
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return viewOf(*goal), nil
}

// GetUserGoals returns a page of the user's goals, newest first.
func (s *goalService) GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[GoalView], error) {
	page.Defaults()

	base := s.db.Model(&models.SavingsGoal{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.SavingsGoal
	if err := base.Order("created_at DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, *viewOf(g))
	}
	result := pagination.NewPageResponse(views, page, totalItems)
	return &result, nil
}

// GetGoalByID returns a goal if it belongs to the user.
func (s *goalService) GetGoalByID(userID, goalID string) (*GoalView, error) {
	goal, err := s.load(userID, goalID)
	if err != nil {
		return nil, err
	}
	return viewOf(*goal), nil
}

// UpdateGoal applies a partial update under the version guard.
func (s *goalService) UpdateGoal(userID, goalID string, patch savings.Patch) (*GoalView, error) {
	return s.swap(userID, goalID, func(g *models.SavingsGoal, now time.Time) error {
		return savings.ApplyPatch(g, patch, now)
	})
}

// DeleteGoal permanently removes a goal.
func (s *goalService) DeleteGoal(userID, goalID string) error {
	result := s.db.Where("id = ? AND user_id = ?", goalID, userID).Delete(&models.SavingsGoal{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrGoalNotFound
	}
	return nil
}

// Contribute adds amount to the goal. Concurrent contributions are
// serialised by the version guard, so none is lost and the target is
// never overshot.
func (s *goalService) Contribute(userID, goalID string, amount decimal.Decimal) (*GoalView, error) {
	return s.swap(userID, goalID, func(g *models.SavingsGoal, now time.Time) error {
		return savings.Contribute(g, amount, now)
	})
}

// swap reads the goal, lets mutate change it and writes it back only if
// nobody else wrote in between. A lost race re-reads and re-validates.
func (s *goalService) swap(userID, goalID string, mutate func(g *models.SavingsGoal, now time.Time) error) (*GoalView, error) {
	for attempt := 0; attempt <= s.retries; attempt++ {
		goal, err := s.load(userID, goalID)
		if err != nil {
			return nil, err
		}
		if err := mutate(goal, s.clock()); err != nil {
			return nil, err
		}

		if s.beforeSwap != nil {
			s.beforeSwap(goalID)
		}

		result := s.db.Model(&models.SavingsGoal{}).
			Where("id = ? AND user_id = ? AND version = ?", goal.ID, userID, goal.Version).
			Updates(goalColumns(goal))
		if result.Error != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 1 {
			goal.Version++
			return viewOf(*goal), nil
		}

		logger.Get().Debugw("Goal version conflict, retrying", "goal_id", goalID, "attempt", attempt+1)
	}

	logger.Get().Warnw("Goal write gave up after repeated conflicts", "goal_id", goalID, "retries", s.retries)
	return nil, apperrors.ErrGoalConflict
}

func (s *goalService) load(userID, goalID string) (*models.SavingsGoal, error) {
	var goal models.SavingsGoal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// goalColumns lists every mutable column. A map is used so zero values and
// NULLs are written too.
func goalColumns(g *models.SavingsGoal) map[string]interface{} {
	return map[string]interface{}{
		"title":               g.Title,
		"target_amount":       g.TargetAmount,
		"current_amount":      g.CurrentAmount,
		"deadline":            g.Deadline,
		"icon":                g.Icon,
		"color":               g.Color,
		"recurring":           g.Recurring,
		"recurring_amount":    g.RecurringAmount,
		"recurring_frequency": g.RecurringFrequency,
		"last_contributed":    g.LastContributed,
		"version":             gorm.Expr("version + 1"),
	}
}

func viewOf(g models.SavingsGoal) *GoalView {
	return &GoalView{
		SavingsGoal: g,
		Progress:    savings.Progress(g),
		Achieved:    savings.Achieved(g),
	}
}
