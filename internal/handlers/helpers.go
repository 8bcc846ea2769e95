package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/period"
	"fintrack/internal/services"
	"fintrack/internal/uuid"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse is returned by endpoints that only confirm an action.
type MessageResponse struct {
	Message string `json:"message"`
}

// getUserID extracts the authenticated owner id from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// parsePathID reads a UUID path parameter.
func parsePathID(c *gin.Context, param string) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parseWindowQuery reads period, startDate and endDate from the query string.
func parseWindowQuery(c *gin.Context, resolver *period.Resolver) (services.EntryQuery, error) {
	var q services.EntryQuery

	sel, err := period.ParseSelector(c.Query("period"))
	if err != nil {
		return q, err
	}
	q.Period = sel

	if raw := c.Query("startDate"); raw != "" {
		d, err := resolver.ParseDate(raw)
		if err != nil {
			return q, apperrors.WithMessage(apperrors.ErrInvalidDate, "Invalid startDate. Use YYYY-MM-DD")
		}
		q.StartDate = &d
	}
	if raw := c.Query("endDate"); raw != "" {
		d, err := resolver.ParseDate(raw)
		if err != nil {
			return q, apperrors.WithMessage(apperrors.ErrInvalidDate, "Invalid endDate. Use YYYY-MM-DD")
		}
		q.EndDate = &d
	}
	return q, nil
}

// parseBoolQuery reads an optional boolean query parameter.
func parseBoolQuery(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, name+" must be 'true' or 'false'")
	}
	return &b, nil
}

// parseFlexibleDate accepts a calendar date (YYYY-MM-DD, in the resolver
// location) or an RFC 3339 timestamp.
func parseFlexibleDate(raw string, resolver *period.Resolver) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if d, err := resolver.ParseDate(raw); err == nil {
		return &d, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidDate, "Invalid date. Use YYYY-MM-DD or RFC 3339")
	}
	return &t, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	log := logger.With("request_id", c.GetString(middleware.RequestIDKey), "path", c.Request.URL.Path)

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		log.Errorw("Unexpected error", "method", c.Request.Method, "error", err)
		appErr = apperrors.ErrInternalServer
	} else if appErr.Internal != nil {
		log.Errorw("Request failed", "code", appErr.Code, "internal", appErr.Internal.Error())
	}

	c.JSON(appErr.StatusCode, ErrorResponse{Error: ErrorDetail{Code: appErr.Code, Message: appErr.Message}})
}
