package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GroundTruthLine is an analyst-entered authoritative hours row. Per
// document the set is saved as a whole: once any ground truth exists,
// extraction output is never blended back in.
type GroundTruthLine struct {
	ID        int             `gorm:"primary_key" json:"id"`
	DocID     string          `gorm:"size:64;not null;index" json:"doc_id"`
	Worker    string          `gorm:"size:120;not null" json:"worker"`
	WorkDate  time.Time       `gorm:"not null" json:"work_date"`
	Project   string          `gorm:"size:120;not null" json:"project"`
	Hours     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"hours"`
	Note      string          `gorm:"size:255" json:"note"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}
