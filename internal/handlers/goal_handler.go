package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/period"
	"fintrack/internal/savings"
	"fintrack/internal/services"
)

// GoalHandler handles savings goal requests.
type GoalHandler struct {
	goalService services.GoalServicer
	resolver    *period.Resolver
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer, resolver *period.Resolver) *GoalHandler {
	return &GoalHandler{goalService: goalService, resolver: resolver}
}

// CreateGoalRequest represents the request payload for creating a savings goal.
type CreateGoalRequest struct {
	Title              string            `json:"title" binding:"required,min=1,max=200"`
	TargetAmount       *decimal.Decimal  `json:"targetAmount" binding:"required" swaggertype:"number"`
	CurrentAmount      *decimal.Decimal  `json:"currentAmount" swaggertype:"number"`
	Deadline           string            `json:"deadline" example:"2025-12-31"`
	Icon               string            `json:"icon" binding:"omitempty,max=10"`
	Color              string            `json:"color" binding:"omitempty,hex_color"`
	Recurring          bool              `json:"recurring"`
	RecurringAmount    *decimal.Decimal  `json:"recurringAmount" swaggertype:"number"`
	RecurringFrequency *models.Frequency `json:"recurringFrequency" binding:"omitempty,goal_frequency"`
}

// UpdateGoalRequest represents the request payload for updating a savings goal.
type UpdateGoalRequest struct {
	Title              *string           `json:"title" binding:"omitempty,min=1,max=200"`
	TargetAmount       *decimal.Decimal  `json:"targetAmount" swaggertype:"number"`
	CurrentAmount      *decimal.Decimal  `json:"currentAmount" swaggertype:"number"`
	Deadline           string            `json:"deadline" example:"2025-12-31"`
	ClearDeadline      bool              `json:"clearDeadline"`
	Icon               *string           `json:"icon" binding:"omitempty,max=10"`
	Color              *string           `json:"color" binding:"omitempty,hex_color"`
	Recurring          *bool             `json:"recurring"`
	RecurringAmount    *decimal.Decimal  `json:"recurringAmount" swaggertype:"number"`
	RecurringFrequency *models.Frequency `json:"recurringFrequency" binding:"omitempty,goal_frequency"`
}

// ContributeRequest is the payload of POST /savings-goals/:id/add.
type ContributeRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required" swaggertype:"number"`
}

// CreateGoal handles the creation of a savings goal.
// @Summary     Create a savings goal
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} services.GoalView "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	deadline, err := parseFlexibleDate(req.Deadline, h.resolver)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal := &models.SavingsGoal{
		Title:        req.Title,
		TargetAmount: *req.TargetAmount,
		Deadline:     deadline,
		Icon:         req.Icon,
		Color:        req.Color,
		Recurring:    req.Recurring,
	}
	if req.CurrentAmount != nil {
		goal.CurrentAmount = *req.CurrentAmount
	}
	if req.RecurringAmount != nil {
		goal.RecurringAmount = *req.RecurringAmount
	}
	if req.RecurringFrequency != nil {
		goal.RecurringFrequency = *req.RecurringFrequency
	}

	view, err := h.goalService.CreateGoal(userID, goal)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"goal": view})
}

// GetGoals handles listing the user's savings goals.
// @Summary     Get savings goals
// @Description Paginated goals, newest first, with progress and achieved flag
// @Tags        savings-goals
// @Produce     json
// @Security    BearerAuth
// @Param       page     query int false "Page number (default 1)"
// @Param       pageSize query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[services.GoalView] "Paginated goals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals [get]
func (h *GoalHandler) GetGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.goalService.GetUserGoals(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetGoal handles retrieving a specific goal.
// @Summary     Get savings goal by ID
// @Tags        savings-goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} services.GoalView "Goal"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /savings-goals/{id} [get]
func (h *GoalHandler) GetGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.goalService.GetGoalByID(userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": view})
}

// UpdateGoal handles a partial goal update.
// @Summary     Update savings goal
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Goal ID"
// @Param       request body UpdateGoalRequest true "Fields to change"
// @Success     200 {object} services.GoalView "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input or too many concurrent modifications"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals/{id} [patch]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	deadline, err := parseFlexibleDate(req.Deadline, h.resolver)
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.goalService.UpdateGoal(userID, goalID, savings.Patch{
		Title:              req.Title,
		TargetAmount:       req.TargetAmount,
		CurrentAmount:      req.CurrentAmount,
		Deadline:           deadline,
		ClearDeadline:      req.ClearDeadline,
		Icon:               req.Icon,
		Color:              req.Color,
		Recurring:          req.Recurring,
		RecurringAmount:    req.RecurringAmount,
		RecurringFrequency: req.RecurringFrequency,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": view})
}

// DeleteGoal handles deleting a goal.
// @Summary     Delete savings goal
// @Tags        savings-goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} MessageResponse "Goal deleted"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /savings-goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Savings goal deleted successfully"})
}

// Contribute adds money to a goal.
// @Summary     Contribute to a savings goal
// @Description Adds amount to the goal balance. Contributions above the remaining amount are rejected.
// @Tags        savings-goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Goal ID"
// @Param       request body ContributeRequest true "Contribution"
// @Success     200 {object} services.GoalView "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid amount, contribution exceeds target or too many concurrent modifications"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /savings-goals/{id}/add [post]
func (h *GoalHandler) Contribute(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	view, err := h.goalService.Contribute(userID, goalID, *req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": view})
}
