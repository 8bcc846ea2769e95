package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/ledger"
	"fintrack/internal/models"
	"fintrack/internal/period"
)

const maxCategoryLen = 100

// entryService handles income and expense entries.
type entryService struct {
	db       *gorm.DB
	resolver *period.Resolver
	now      Clock
}

// NewEntryService creates a new EntryServicer.
func NewEntryService(db *gorm.DB, resolver *period.Resolver) EntryServicer {
	return newEntryService(db, resolver, time.Now)
}

func newEntryService(db *gorm.DB, resolver *period.Resolver, now Clock) *entryService {
	return &entryService{db: db, resolver: resolver, now: now}
}

// CreateEntry records a new income or expense. A missing date means now.
func (s *entryService) CreateEntry(userID string, kind models.EntryKind, in EntryInput) (*models.LedgerEntry, error) {
	entry := &models.LedgerEntry{
		UserID:      userID,
		Kind:        kind,
		Category:    in.Category,
		Amount:      in.Amount,
		Recurring:   in.Recurring,
		Description: strings.TrimSpace(in.Description),
		Icon:        in.Icon,
		Color:       in.Color,
	}
	if in.Date != nil {
		entry.Date = in.Date.UTC()
	} else {
		entry.Date = s.now().UTC()
	}
	if in.RecurringFrequency != nil {
		f := *in.RecurringFrequency
		entry.RecurringFrequency = &f
	}

	if err := normalizeEntry(entry); err != nil {
		return nil, err
	}

	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// GetEntryByID returns an entry of the given kind if it belongs to the user.
func (s *entryService) GetEntryByID(userID string, kind models.EntryKind, entryID string) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := s.db.Where("id = ? AND user_id = ? AND kind = ?", entryID, userID, kind).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entryNotFound(kind)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}

// UpdateEntry applies a partial update. Owner and kind never change.
func (s *entryService) UpdateEntry(userID string, kind models.EntryKind, entryID string, patch EntryPatch) (*models.LedgerEntry, error) {
	entry, err := s.GetEntryByID(userID, kind, entryID)
	if err != nil {
		return nil, err
	}

	if patch.Category != nil {
		entry.Category = *patch.Category
	}
	if patch.Amount != nil {
		entry.Amount = *patch.Amount
	}
	if patch.Date != nil {
		entry.Date = patch.Date.UTC()
	}
	if patch.Recurring != nil {
		entry.Recurring = *patch.Recurring
	}
	if patch.RecurringFrequency != nil {
		f := *patch.RecurringFrequency
		entry.RecurringFrequency = &f
	}
	if patch.Description != nil {
		entry.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Icon != nil {
		entry.Icon = *patch.Icon
	}
	if patch.Color != nil {
		entry.Color = *patch.Color
	}

	if err := normalizeEntry(entry); err != nil {
		return nil, err
	}

	if err := s.db.Save(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// DeleteEntry removes an entry owned by the user.
func (s *entryService) DeleteEntry(userID string, kind models.EntryKind, entryID string) error {
	result := s.db.Where("id = ? AND user_id = ? AND kind = ?", entryID, userID, kind).Delete(&models.LedgerEntry{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return entryNotFound(kind)
	}
	return nil
}

// QueryEntries resolves the requested window and returns the matching
// entries newest first together with their exact total.
func (s *entryService) QueryEntries(userID string, kind models.EntryKind, q EntryQuery) (*EntryList, error) {
	window, err := s.resolver.Resolve(q.Period, s.now(), q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	filter := ledger.Filter{Window: window, Category: q.Category, Recurring: q.Recurring}
	if kind == models.EntryKindIncome {
		filter.Recurring = nil
	}

	var entries []models.LedgerEntry
	if err := s.db.Scopes(entryScope(userID, kind, filter)).Order("date DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := ledger.Summarize(entries)
	return &EntryList{
		Entries:     entries,
		Count:       totals.Count,
		TotalAmount: totals.Total,
		Window:      window,
	}, nil
}

// entryScope applies the owner predicate and the filter to a query. Bounds
// are compared in UTC, the zone entries are stored in.
func entryScope(userID string, kind models.EntryKind, f ledger.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Model(&models.LedgerEntry{}).Where("user_id = ? AND kind = ?", userID, kind)
		if f.Window.From != nil {
			db = db.Where("date >= ?", f.Window.From.UTC())
		}
		db = db.Where("date <= ?", f.Window.To.UTC())
		if f.Category != nil {
			db = db.Where("category = ?", *f.Category)
		}
		if f.Recurring != nil {
			db = db.Where("recurring = ?", *f.Recurring)
		}
		return db
	}
}

// normalizeEntry trims and validates an entry in place.
func normalizeEntry(e *models.LedgerEntry) error {
	e.Category = strings.TrimSpace(e.Category)
	if e.Category == "" {
		if e.Kind == models.EntryKindIncome {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "Source is required")
		}
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Category is required")
	}
	if len([]rune(e.Category)) > maxCategoryLen {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Category must be at most 100 characters")
	}
	if !e.Amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	if !models.FitsMoneyScale(e.Amount) {
		return apperrors.ErrAmountScale
	}

	if e.Kind == models.EntryKindIncome && e.Recurring {
		return apperrors.WithMessage(apperrors.ErrInvalidRecurring, "Income entries cannot be recurring")
	}
	if !e.Recurring {
		e.RecurringFrequency = nil
		return nil
	}
	if e.RecurringFrequency == nil {
		f := models.FrequencyMonthly
		e.RecurringFrequency = &f
	}
	if !e.RecurringFrequency.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidRecurring, "Recurring frequency must be daily, weekly, monthly or yearly")
	}
	return nil
}

func entryNotFound(kind models.EntryKind) *apperrors.AppError {
	if kind == models.EntryKindIncome {
		return apperrors.WithMessage(apperrors.ErrEntryNotFound, "Income not found")
	}
	return apperrors.WithMessage(apperrors.ErrEntryNotFound, "Expense not found")
}

// Ensure entryService satisfies the interface.
var _ EntryServicer = (*entryService)(nil)
