package utils

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

func NewString(s string) *string {
	return &s
}

// RoundHours normalizes an hour or amount figure to two decimal places.
func RoundHours(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ParsePeriodMonth parses "2025-01" into the [start, end) bounds of that
// calendar month in UTC.
func ParsePeriodMonth(period string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", strings.TrimSpace(period))
	if err != nil {
		return time.Time{}, time.Time{}, ValidationError("invalid period month %q, want YYYY-MM", period)
	}
	return start, start.AddDate(0, 1, 0), nil
}
