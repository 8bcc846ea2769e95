package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/period"
	"fintrack/internal/services"
)

// StatsHandler serves dashboard aggregates.
type StatsHandler struct {
	statsService services.StatsServicer
	resolver     *period.Resolver
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService services.StatsServicer, resolver *period.Resolver) *StatsHandler {
	return &StatsHandler{statsService: statsService, resolver: resolver}
}

// GetNetWorth returns income minus expense plus savings balances.
// @Summary     Get net worth
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.NetWorth "Net worth"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stats/net-worth [get]
func (h *StatsHandler) GetNetWorth(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	nw, err := h.statsService.GetNetWorth(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, nw)
}

// GetSavingsStats returns totals across all savings goals.
// @Summary     Get savings stats
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.SavingsStats "Savings totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stats/savings [get]
func (h *StatsHandler) GetSavingsStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.statsService.GetSavingsStats(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetSummary returns income and expense aggregates for a window.
// @Summary     Get period summary
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Param       period    query string false "all, today, week, month, year or custom" default(all)
// @Param       startDate query string false "Custom range start (YYYY-MM-DD)"
// @Param       endDate   query string false "Custom range end (YYYY-MM-DD), inclusive"
// @Success     200 {object} services.Summary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid period or dates"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stats/summary [get]
func (h *StatsHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	q, err := parseWindowQuery(c, h.resolver)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.statsService.GetSummary(c.Request.Context(), userID, q)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
