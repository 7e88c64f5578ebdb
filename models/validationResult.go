package models

import (
	"context"
	"time"

	"bitbucket.org/bluecloudops/recon_backend/config"
	"bitbucket.org/bluecloudops/recon_backend/utils"
)

type CheckStatus string

const (
	CheckStatusPass CheckStatus = "PASS"
	CheckStatusWarn CheckStatus = "WARN"
	CheckStatusFail CheckStatus = "FAIL"
)

// ValidationResult is one rule outcome from a validation run over a
// document's extracted lines.
type ValidationResult struct {
	ID            int         `gorm:"primary_key" json:"id"`
	DocID         string      `gorm:"size:64;not null;index" json:"doc_id"`
	LineID        *int        `json:"line_id"`
	RuleName      string      `gorm:"size:60;not null" json:"rule_name"`
	Status        CheckStatus `gorm:"size:5;not null" json:"status"`
	Details       string      `gorm:"size:500" json:"details"`
	ComputedValue string      `gorm:"size:60" json:"computed_value"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

func ListValidationResults(ctx context.Context, docID string) ([]ValidationResult, error) {
	db := config.GetDB()
	var results []ValidationResult
	err := db.WithContext(ctx).
		Where("doc_id = ?", docID).
		Order("id").
		Find(&results).Error
	if err != nil {
		return nil, utils.StoreError(err)
	}
	return results, nil
}
