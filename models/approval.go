package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Decision string

const (
	DecisionApproved  Decision = "APPROVED"
	DecisionRejected  Decision = "REJECTED"
	DecisionCorrected Decision = "CORRECTED"
)

func (d Decision) Valid() bool {
	switch d {
	case DecisionApproved, DecisionRejected, DecisionCorrected:
		return true
	}
	return false
}

// ApprovalDecision is the single current reviewer verdict for one extracted
// line. A new decision replaces the old row; prior decisions are not kept.
type ApprovalDecision struct {
	LineID           int              `gorm:"primary_key;autoIncrement:false" json:"line_id"`
	DocID            string           `gorm:"size:64;not null;index" json:"doc_id"`
	Decision         Decision         `gorm:"size:10;not null" json:"decision"`
	CorrectedHours   *decimal.Decimal `gorm:"type:decimal(10,2)" json:"corrected_hours"`
	CorrectedDate    *time.Time       `json:"corrected_date"`
	CorrectedProject *string          `gorm:"size:120" json:"corrected_project"`
	Note             *string          `gorm:"size:255" json:"note"`
	ReviewedAt       time.Time        `json:"reviewed_at"`
}
