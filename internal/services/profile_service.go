package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// profileService handles per-user preferences.
type profileService struct {
	db *gorm.DB
}

// NewProfileService creates a new ProfileServicer.
func NewProfileService(db *gorm.DB) ProfileServicer {
	return &profileService{db: db}
}

// GetProfile returns the user's profile.
func (s *profileService) GetProfile(userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &profile, nil
}

// UpsertProfile creates the profile on first write and applies in.
func (s *profileService) UpsertProfile(userID string, in ProfileInput) (*models.Profile, error) {
	profile, err := s.GetProfile(userID)
	if err != nil {
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrProfileNotFound.Code {
			return nil, err
		}
		profile = &models.Profile{UserID: userID, Currency: "USD", Theme: "system"}
	}

	if in.Email != nil {
		profile.Email = strings.TrimSpace(*in.Email)
	}
	if in.Name != nil {
		profile.Name = strings.TrimSpace(*in.Name)
	}
	if in.Currency != nil {
		profile.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if in.Theme != nil {
		profile.Theme = *in.Theme
	}
	if in.MonthlyIncome != nil {
		if in.MonthlyIncome.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "Monthly income cannot be negative")
		}
		if !models.FitsMoneyScale(*in.MonthlyIncome) {
			return nil, apperrors.ErrAmountScale
		}
		profile.MonthlyIncome = *in.MonthlyIncome
	}
	if in.MonthlyGoal != nil {
		if in.MonthlyGoal.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "Monthly goal cannot be negative")
		}
		if !models.FitsMoneyScale(*in.MonthlyGoal) {
			return nil, apperrors.ErrAmountScale
		}
		profile.MonthlyGoal = *in.MonthlyGoal
	}

	if err := s.db.Save(profile).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return profile, nil
}
