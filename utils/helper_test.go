package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriodMonth(t *testing.T) {
	start, end, err := ParsePeriodMonth("2025-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", start.Format("2006-01-02"))
	assert.Equal(t, "2025-02-01", end.Format("2006-01-02"))

	// December rolls over the year.
	start, end, err = ParsePeriodMonth("2025-12")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-01", start.Format("2006-01-02"))
	assert.Equal(t, "2026-01-01", end.Format("2006-01-02"))

	_, _, err = ParsePeriodMonth("January 2025")
	require.ErrorIs(t, err, ErrValidation)
}

func TestRoundHours(t *testing.T) {
	got := RoundHours(decimal.RequireFromString("7.999"))
	assert.Equal(t, "8", got.String())

	got = RoundHours(decimal.RequireFromString("7.125"))
	assert.Equal(t, "7.13", got.String())
}
