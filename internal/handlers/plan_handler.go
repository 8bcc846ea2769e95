package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// PlanHandler serves planner-backed monthly budget plans.
type PlanHandler struct {
	planService services.PlanServicer
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService services.PlanServicer) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// GeneratePlanRequest represents the request payload for POST /ai/generate-plan.
type GeneratePlanRequest struct {
	Month         string           `json:"month" binding:"required,month" example:"2024-03"`
	MonthlyIncome *decimal.Decimal `json:"monthlyIncome" swaggertype:"number"`
	TotalBudget   *decimal.Decimal `json:"totalBudget" swaggertype:"number"`
}

// AcceptPlanRequest represents the request payload for POST /ai/accept-plan.
type AcceptPlanRequest struct {
	Month string `json:"month" binding:"required,month" example:"2024-03"`
}

// GeneratePlan asks the planner for a needs/wants split and stores it.
// @Summary     Generate budget plan
// @Description Produces and stores the plan for a month, replacing any existing one
// @Tags        ai
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body GeneratePlanRequest true "Plan request"
// @Success     200 {object} models.BudgetPlan "Generated plan"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Planner failed"
// @Router      /ai/generate-plan [post]
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	plan, err := h.planService.GeneratePlan(c.Request.Context(), userID, services.GeneratePlanInput{
		Month:         req.Month,
		MonthlyIncome: req.MonthlyIncome,
		TotalBudget:   req.TotalBudget,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// GetPlan returns the stored plan of a month.
// @Summary     Get budget plan
// @Tags        ai
// @Produce     json
// @Security    BearerAuth
// @Param       month query string true "Month (YYYY-MM)"
// @Success     200 {object} models.BudgetPlan "Plan"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Plan not found"
// @Router      /ai/plan [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	month := c.Query("month")

	plan, err := h.planService.GetPlan(userID, month)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// AcceptPlan turns the plan's categories into monthly budgets.
// @Summary     Accept budget plan
// @Tags        ai
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AcceptPlanRequest true "Month to accept"
// @Success     200 {object} models.BudgetPlan "Accepted plan"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Plan not found"
// @Router      /ai/accept-plan [post]
func (h *PlanHandler) AcceptPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AcceptPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	plan, err := h.planService.AcceptPlan(userID, req.Month)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// DeletePlan removes the stored plan of a month.
// @Summary     Delete budget plan
// @Tags        ai
// @Produce     json
// @Security    BearerAuth
// @Param       month query string true "Month (YYYY-MM)"
// @Success     200 {object} MessageResponse "Plan deleted"
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Plan not found"
// @Router      /ai/plan [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	month := c.Query("month")

	if err := h.planService.DeletePlan(userID, month); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Plan deleted successfully"})
}
