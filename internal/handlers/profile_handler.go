package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// ProfileHandler serves the caller's profile.
type ProfileHandler struct {
	profileService services.ProfileServicer
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService services.ProfileServicer) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest represents the request payload for PUT /profile.
type UpdateProfileRequest struct {
	Email         *string          `json:"email" binding:"omitempty,email"`
	Name          *string          `json:"name" binding:"omitempty,max=100"`
	Currency      *string          `json:"currency" binding:"omitempty,iso4217"`
	MonthlyIncome *decimal.Decimal `json:"monthlyIncome" swaggertype:"number"`
	MonthlyGoal   *decimal.Decimal `json:"monthlyGoal" swaggertype:"number"`
	Theme         *string          `json:"theme" binding:"omitempty,theme"`
}

// GetProfile returns the caller's profile.
// @Summary     Get profile
// @Tags        profile
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Profile "Profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Profile not found"
// @Router      /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profile, err := h.profileService.GetProfile(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpdateProfile creates or updates the caller's profile.
// @Summary     Create or update profile
// @Tags        profile
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateProfileRequest true "Profile fields"
// @Success     200 {object} models.Profile "Profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	profile, err := h.profileService.UpsertProfile(userID, services.ProfileInput{
		Email:         req.Email,
		Name:          req.Name,
		Currency:      req.Currency,
		MonthlyIncome: req.MonthlyIncome,
		MonthlyGoal:   req.MonthlyGoal,
		Theme:         req.Theme,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
