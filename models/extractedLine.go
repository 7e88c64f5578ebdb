package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/bluecloudops/recon_backend/config"
	"bitbucket.org/bluecloudops/recon_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExtractedLine is one OCR/LLM-extracted timesheet or invoice row. Immutable
// after import except for identifier rewriting by the merge rewriter.
type ExtractedLine struct {
	ID         int             `gorm:"primary_key" json:"id"`
	DocID      string          `gorm:"size:64;not null;index" json:"doc_id"`
	Worker     string          `gorm:"size:120;index" json:"worker"`
	WorkDate   time.Time       `gorm:"index" json:"work_date"`
	Project    string          `gorm:"size:120;index" json:"project"`
	Hours      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"hours"`
	Confidence *float64        `json:"extraction_confidence"`
	RawSnippet string          `gorm:"type:text" json:"raw_text_snippet"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewExtractedLine struct {
	Worker     string          `json:"worker"`
	WorkDate   time.Time       `json:"work_date"`
	Project    string          `json:"project"`
	Hours      decimal.Decimal `json:"hours"`
	Confidence *float64        `json:"extraction_confidence"`
	RawSnippet string          `json:"raw_text_snippet"`
}

func GetExtractedLine(ctx context.Context, id int) (*ExtractedLine, error) {
	db := config.GetDB()
	var line ExtractedLine
	err := db.WithContext(ctx).First(&line, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFoundError("line", id)
	}
	if err != nil {
		return nil, utils.StoreError(err)
	}
	return &line, nil
}

func ListExtractedLines(ctx context.Context, docID string) ([]ExtractedLine, error) {
	db := config.GetDB()
	var lines []ExtractedLine
	err := db.WithContext(ctx).
		Where("doc_id = ?", docID).
		Order("work_date, project, id").
		Find(&lines).Error
	if err != nil {
		return nil, utils.StoreError(err)
	}
	return lines, nil
}

// ReplaceExtractedLines swaps a document's lines for a fresh extraction in
// one transaction. Stale approvals and validation results go with the old
// lines so a re-run starts clean.
func ReplaceExtractedLines(ctx context.Context, docID string, lines []NewExtractedLine) (int, error) {
	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doc_id = ?", docID).Delete(&ApprovalDecision{}).Error; err != nil {
			return err
		}
		if err := tx.Where("doc_id = ?", docID).Delete(&ValidationResult{}).Error; err != nil {
			return err
		}
		if err := tx.Where("doc_id = ?", docID).Delete(&ExtractedLine{}).Error; err != nil {
			return err
		}
		for _, in := range lines {
			line := ExtractedLine{
				DocID:      docID,
				Worker:     in.Worker,
				WorkDate:   in.WorkDate,
				Project:    in.Project,
				Hours:      in.Hours,
				Confidence: in.Confidence,
				RawSnippet: in.RawSnippet,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, utils.StoreError(err)
	}
	return len(lines), nil
}
