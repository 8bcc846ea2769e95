package services

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/period"
)

// testNow is a Friday.
var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func utcResolver() *period.Resolver {
	return period.NewResolver(time.Sunday, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func ptr[T any](v T) *T { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}
