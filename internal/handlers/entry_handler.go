package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/period"
	"fintrack/internal/services"
)

// EntryHandler serves one kind of ledger entry: incomes or expenses.
type EntryHandler struct {
	entries  services.EntryServicer
	resolver *period.Resolver
	kind     models.EntryKind
}

// NewIncomeHandler creates an EntryHandler for /incomes.
func NewIncomeHandler(entries services.EntryServicer, resolver *period.Resolver) *EntryHandler {
	return &EntryHandler{entries: entries, resolver: resolver, kind: models.EntryKindIncome}
}

// NewExpenseHandler creates an EntryHandler for /expenses.
func NewExpenseHandler(entries services.EntryServicer, resolver *period.Resolver) *EntryHandler {
	return &EntryHandler{entries: entries, resolver: resolver, kind: models.EntryKindExpense}
}

// EntryRequest is the payload for creating or updating an income or expense.
// Incomes name their category "source".
type EntryRequest struct {
	Source             *string           `json:"source" binding:"omitempty,max=100"`
	Category           *string           `json:"category" binding:"omitempty,max=100"`
	Amount             *decimal.Decimal  `json:"amount" swaggertype:"number"`
	Date               string            `json:"date" example:"2024-03-15"`
	Recurring          *bool             `json:"recurring"`
	RecurringFrequency *models.Frequency `json:"recurringFrequency" binding:"omitempty,recurring_frequency"`
	Description        *string           `json:"description" binding:"omitempty,max=500"`
	Icon               *string           `json:"icon" binding:"omitempty,max=10"`
	Color              *string           `json:"color" binding:"omitempty,hex_color"`
}

// IncomeResponse renders an income entry.
type IncomeResponse struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"number"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Color       string          `json:"color"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (h *EntryHandler) label() string {
	if h.kind == models.EntryKindIncome {
		return "source"
	}
	return "category"
}

func (h *EntryHandler) categoryOf(req *EntryRequest) *string {
	if h.kind == models.EntryKindIncome {
		return req.Source
	}
	return req.Category
}

func (h *EntryHandler) render(e *models.LedgerEntry) interface{} {
	if h.kind == models.EntryKindExpense {
		return e
	}
	return IncomeResponse{
		ID:          e.ID,
		Source:      e.Category,
		Amount:      e.Amount,
		Date:        e.Date,
		Description: e.Description,
		Icon:        e.Icon,
		Color:       e.Color,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// CreateEntry records a new income or expense.
// @Summary     Create an income or expense
// @Description Record a new entry. A missing date means now. Incomes use "source", expenses "category".
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body EntryRequest true "Entry details"
// @Success     201 {object} models.LedgerEntry "Entry created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes [post]
// @Router      /expenses [post]
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.Amount == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidAmount, "Amount is required"))
		return
	}
	date, err := parseFlexibleDate(req.Date, h.resolver)
	if err != nil {
		respondWithError(c, err)
		return
	}

	in := services.EntryInput{
		Amount:             *req.Amount,
		Date:               date,
		RecurringFrequency: req.RecurringFrequency,
	}
	if category := h.categoryOf(&req); category != nil {
		in.Category = *category
	}
	if req.Recurring != nil {
		in.Recurring = *req.Recurring
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.Icon != nil {
		in.Icon = *req.Icon
	}
	if req.Color != nil {
		in.Color = *req.Color
	}

	entry, err := h.entries.CreateEntry(userID, h.kind, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.render(entry))
}

// ListEntries returns the entries of the requested window with their total.
// @Summary     List incomes or expenses
// @Description Entries newest first with their exact total, filtered by period and attributes
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       period    query string false "all, today, week, month, year or custom" default(all)
// @Param       startDate query string false "Custom range start (YYYY-MM-DD)"
// @Param       endDate   query string false "Custom range end (YYYY-MM-DD), inclusive"
// @Param       category  query string false "Expense category filter"
// @Param       source    query string false "Income source filter"
// @Param       recurring query bool   false "Recurring filter (expenses only)"
// @Success     200 {object} map[string]interface{} "entries, count, totalAmount, period, searchStartDate, searchEndDate, dateRange"
// @Failure     400 {object} ErrorResponse "Invalid period or dates"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes [get]
// @Router      /expenses [get]
func (h *EntryHandler) ListEntries(c *gin.Context) {
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
	if v, ok := c.GetQuery(h.label()); ok && v != "" {
		q.Category = &v
	}
	if h.kind == models.EntryKindExpense {
		if q.Recurring, err = parseBoolQuery(c, "recurring"); err != nil {
			respondWithError(c, err)
			return
		}
	}

	list, err := h.entries.QueryEntries(userID, h.kind, q)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rendered := make([]interface{}, 0, len(list.Entries))
	for i := range list.Entries {
		rendered = append(rendered, h.render(&list.Entries[i]))
	}

	resp := gin.H{
		"entries":         rendered,
		"count":           list.Count,
		"totalAmount":     list.TotalAmount,
		"period":          list.Window.Period,
		h.label():         q.Category,
		"searchStartDate": list.Window.StartDate(),
		"searchEndDate":   list.Window.EndDate(),
		"dateRange":       list.Window.DateRange(),
	}
	if h.kind == models.EntryKindExpense {
		resp["recurring"] = q.Recurring
	}
	c.JSON(http.StatusOK, resp)
}

// GetEntry returns a single entry.
// @Summary     Get an income or expense
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Entry ID"
// @Success     200 {object} models.LedgerEntry "Entry"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Router      /incomes/{id} [get]
// @Router      /expenses/{id} [get]
func (h *EntryHandler) GetEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.entries.GetEntryByID(userID, h.kind, entryID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.render(entry))
}

// UpdateEntry applies a partial update.
// @Summary     Update an income or expense
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string       true "Entry ID"
// @Param       request body EntryRequest true "Fields to change"
// @Success     200 {object} models.LedgerEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes/{id} [patch]
// @Router      /expenses/{id} [patch]
func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	date, err := parseFlexibleDate(req.Date, h.resolver)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.entries.UpdateEntry(userID, h.kind, entryID, services.EntryPatch{
		Category:           h.categoryOf(&req),
		Amount:             req.Amount,
		Date:               date,
		Recurring:          req.Recurring,
		RecurringFrequency: req.RecurringFrequency,
		Description:        req.Description,
		Icon:               req.Icon,
		Color:              req.Color,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.render(entry))
}

// DeleteEntry removes an entry.
// @Summary     Delete an income or expense
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Entry ID"
// @Success     200 {object} MessageResponse "Deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Router      /incomes/{id} [delete]
// @Router      /expenses/{id} [delete]
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.entries.DeleteEntry(userID, h.kind, entryID); err != nil {
		respondWithError(c, err)
		return
	}
	if h.kind == models.EntryKindIncome {
		c.JSON(http.StatusOK, MessageResponse{Message: "Income deleted successfully"})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Expense deleted successfully"})
}
