package config

import (
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// SuspectMaxDistance is the largest edit distance at which an extracted
// identifier is still flagged as a likely OCR misread of a confirmed key.
//
// Set via env:
// - SUSPECT_MAX_DISTANCE=2
func SuspectMaxDistance() int {
	return intFromEnv("SUSPECT_MAX_DISTANCE", 2)
}

// VarianceTolerance is the absolute amount below which an invoice-vs-computed
// difference is still reported as a match.
//
// Set via env:
// - VARIANCE_TOLERANCE=0.01
func VarianceTolerance() decimal.Decimal {
	return decimalFromEnv("VARIANCE_TOLERANCE", decimal.New(1, -2))
}

// DefaultHourlyRate is used when a reconciliation request carries no rate.
//
// Set via env:
// - DEFAULT_HOURLY_RATE=150
func DefaultHourlyRate() decimal.Decimal {
	return decimalFromEnv("DEFAULT_HOURLY_RATE", decimal.NewFromInt(150))
}

func decimalFromEnv(key string, def decimal.Decimal) decimal.Decimal {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return def
	}
	return d
}
