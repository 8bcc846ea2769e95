package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

func setupProfileRouter(handler *ProfileHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/profile", handler.GetProfile)
	auth.PUT("/profile", handler.UpdateProfile)
	return r
}

func TestProfileHandler_GetProfile(t *testing.T) {
	t.Run("returns profile", func(t *testing.T) {
		svc := &mockProfileService{
			getProfileFn: func(userID string) (*models.Profile, error) {
				return &models.Profile{UserID: userID, Currency: "EUR", Theme: "dark"}, nil
			},
		}
		rec := doRequest(setupProfileRouter(NewProfileHandler(svc)), "GET", "/profile", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		profile := parseJSON(t, rec)["profile"].(map[string]interface{})
		if profile["uid"] != testUserID || profile["currency"] != "EUR" {
			t.Errorf("unexpected profile %v", profile)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockProfileService{
			getProfileFn: func(string) (*models.Profile, error) { return nil, apperrors.ErrProfileNotFound },
		}
		rec := doRequest(setupProfileRouter(NewProfileHandler(svc)), "GET", "/profile", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PROFILE_NOT_FOUND")
	})
}

func TestProfileHandler_UpdateProfile(t *testing.T) {
	t.Run("forwards provided fields", func(t *testing.T) {
		var got services.ProfileInput
		svc := &mockProfileService{
			upsertProfileFn: func(userID string, in services.ProfileInput) (*models.Profile, error) {
				got = in
				return &models.Profile{UserID: userID, Currency: *in.Currency}, nil
			},
		}
		rec := doRequest(setupProfileRouter(NewProfileHandler(svc)), "PUT", "/profile",
			`{"currency":"EUR","theme":"dark","monthlyIncome":2500.50}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Theme == nil || *got.Theme != "dark" {
			t.Errorf("unexpected theme %v", got.Theme)
		}
		if got.MonthlyIncome == nil || !got.MonthlyIncome.Equal(dec("2500.50")) {
			t.Errorf("unexpected income %v", got.MonthlyIncome)
		}
		if got.Name != nil || got.Email != nil || got.MonthlyGoal != nil {
			t.Errorf("unexpected fields %+v", got)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"unknown currency", `{"currency":"ABC"}`},
		{"unknown theme", `{"theme":"blue"}`},
		{"bad email", `{"email":"nope"}`},
	}
	for _, tc := range tests {
		t.Run("returns 400 on "+tc.name, func(t *testing.T) {
			rec := doRequest(setupProfileRouter(NewProfileHandler(&mockProfileService{})), "PUT", "/profile", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}
}
