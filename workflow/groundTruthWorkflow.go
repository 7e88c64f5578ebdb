package workflow

import (
	"context"
	"strings"
	"time"

	"bitbucket.org/bluecloudops/recon_backend/config"
	"bitbucket.org/bluecloudops/recon_backend/models"
	"bitbucket.org/bluecloudops/recon_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GroundTruthInput struct {
	Worker   string          `json:"worker" binding:"required"`
	WorkDate time.Time       `json:"work_date" binding:"required"`
	Project  string          `json:"project" binding:"required"`
	Hours    decimal.Decimal `json:"hours"`
	Note     string          `json:"note"`
}

// SaveGroundTruth replaces the document's entire ground-truth set in one
// transaction. Rows without a project or with zero hours are dropped, so
// submitting an empty grid clears the document. Not retried on failure: a
// partial outcome would be ambiguous to re-apply.
func SaveGroundTruth(ctx context.Context, docID string, lines []GroundTruthInput) (int, error) {
	if _, err := models.GetDocument(ctx, docID); err != nil {
		return 0, err
	}
	for _, in := range lines {
		if in.Hours.IsNegative() {
			return 0, utils.ValidationError("hours must be non-negative for %s on %s", in.Worker, in.WorkDate.Format("2006-01-02"))
		}
	}

	db := config.GetDB()
	saved := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doc_id = ?", docID).Delete(&models.GroundTruthLine{}).Error; err != nil {
			return err
		}
		for _, in := range lines {
			project := strings.TrimSpace(in.Project)
			if project == "" || !in.Hours.IsPositive() {
				continue
			}
			row := models.GroundTruthLine{
				DocID:    docID,
				Worker:   strings.TrimSpace(in.Worker),
				WorkDate: in.WorkDate,
				Project:  project,
				Hours:    utils.RoundHours(in.Hours),
				Note:     in.Note,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return 0, utils.StoreError(err)
	}
	return saved, nil
}

func ListGroundTruth(ctx context.Context, docID string) ([]models.GroundTruthLine, error) {
	if _, err := models.GetDocument(ctx, docID); err != nil {
		return nil, err
	}
	db := config.GetDB()
	var rows []models.GroundTruthLine
	err := db.WithContext(ctx).
		Where("doc_id = ?", docID).
		Order("work_date, project, id").
		Find(&rows).Error
	if err != nil {
		return nil, utils.StoreError(err)
	}
	return rows, nil
}
