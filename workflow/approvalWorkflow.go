package workflow

import (
	"context"
	"time"

	"bitbucket.org/bluecloudops/recon_backend/config"
	"bitbucket.org/bluecloudops/recon_backend/models"
	"bitbucket.org/bluecloudops/recon_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DecideInput struct {
	Decision         models.Decision  `json:"decision" binding:"required"`
	CorrectedHours   *decimal.Decimal `json:"corrected_hours"`
	CorrectedDate    *time.Time       `json:"corrected_date"`
	CorrectedProject *string          `json:"corrected_project"`
	Note             *string          `json:"note"`
}

// Decide records the reviewer verdict for one line. Any decision may replace
// any other; the newest write wins and prior decisions are not retained.
func Decide(ctx context.Context, lineID int, input DecideInput) (*models.ApprovalDecision, error) {
	if !input.Decision.Valid() {
		return nil, utils.ValidationError("unknown decision %q", input.Decision)
	}
	if input.CorrectedHours != nil && input.CorrectedHours.IsNegative() {
		return nil, utils.ValidationError("corrected hours must be non-negative")
	}

	line, err := models.GetExtractedLine(ctx, lineID)
	if err != nil {
		return nil, err
	}

	dec := models.ApprovalDecision{
		LineID:           line.ID,
		DocID:            line.DocID,
		Decision:         input.Decision,
		CorrectedHours:   input.CorrectedHours,
		CorrectedDate:    input.CorrectedDate,
		CorrectedProject: input.CorrectedProject,
		Note:             input.Note,
		ReviewedAt:       time.Now().UTC(),
	}

	db := config.GetDB()
	err = db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&dec).Error
	if err != nil {
		return nil, utils.StoreError(err)
	}
	return &dec, nil
}

// ApproveAll fills approval gaps for a document: every line without a
// decision gets APPROVED. Existing REJECTED and CORRECTED decisions are left
// alone.
func ApproveAll(ctx context.Context, docID string) (int, error) {
	if _, err := models.GetDocument(ctx, docID); err != nil {
		return 0, err
	}

	db := config.GetDB()
	approved := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lines []models.ExtractedLine
		if err := tx.Where("doc_id = ?", docID).Order("id").Find(&lines).Error; err != nil {
			return err
		}
		var decisions []models.ApprovalDecision
		if err := tx.Where("doc_id = ?", docID).Find(&decisions).Error; err != nil {
			return err
		}
		decided := make(map[int]bool, len(decisions))
		for _, d := range decisions {
			decided[d.LineID] = true
		}
		now := time.Now().UTC()
		for _, line := range lines {
			if decided[line.ID] {
				continue
			}
			dec := models.ApprovalDecision{
				LineID:     line.ID,
				DocID:      docID,
				Decision:   models.DecisionApproved,
				ReviewedAt: now,
			}
			if err := tx.Create(&dec).Error; err != nil {
				return err
			}
			approved++
		}
		return nil
	})
	if err != nil {
		return 0, utils.StoreError(err)
	}
	return approved, nil
}

// ClearAll deletes every decision for the document, returning all its lines
// to the undecided state.
func ClearAll(ctx context.Context, docID string) (int, error) {
	if _, err := models.GetDocument(ctx, docID); err != nil {
		return 0, err
	}
	db := config.GetDB()
	res := db.WithContext(ctx).Where("doc_id = ?", docID).Delete(&models.ApprovalDecision{})
	if res.Error != nil {
		return 0, utils.StoreError(res.Error)
	}
	return int(res.RowsAffected), nil
}

// TrustedLedgerEntry is the derived authoritative view of one approved line:
// the extracted values with any corrections applied.
type TrustedLedgerEntry struct {
	LineID     int             `json:"line_id"`
	DocID      string          `json:"doc_id"`
	Worker     string          `json:"worker"`
	WorkDate   time.Time       `json:"work_date"`
	Project    string          `json:"project"`
	Hours      decimal.Decimal `json:"hours"`
	Decision   models.Decision `json:"decision"`
	ReviewedAt time.Time       `json:"reviewed_at"`
}

// TrustedLedger lists every line whose current decision is APPROVED or
// CORRECTED, with CORRECTED hours/date/project overriding the raw values.
// Pass an empty docID for the whole ledger.
func TrustedLedger(ctx context.Context, docID string) ([]TrustedLedgerEntry, error) {
	db := config.GetDB()

	dbCtx := db.WithContext(ctx).
		Where("decision IN ?", []models.Decision{models.DecisionApproved, models.DecisionCorrected})
	if docID != "" {
		dbCtx = dbCtx.Where("doc_id = ?", docID)
	}
	var decisions []models.ApprovalDecision
	if err := dbCtx.Find(&decisions).Error; err != nil {
		return nil, utils.StoreError(err)
	}
	if len(decisions) == 0 {
		return nil, nil
	}

	lineIDs := make([]int, 0, len(decisions))
	for _, d := range decisions {
		lineIDs = append(lineIDs, d.LineID)
	}
	var lines []models.ExtractedLine
	if err := db.WithContext(ctx).Where("id IN ?", lineIDs).Order("doc_id, work_date, id").Find(&lines).Error; err != nil {
		return nil, utils.StoreError(err)
	}
	byLine := make(map[int]models.ApprovalDecision, len(decisions))
	for _, d := range decisions {
		byLine[d.LineID] = d
	}

	entries := make([]TrustedLedgerEntry, 0, len(lines))
	for _, line := range lines {
		d := byLine[line.ID]
		entry := TrustedLedgerEntry{
			LineID:     line.ID,
			DocID:      line.DocID,
			Worker:     line.Worker,
			WorkDate:   line.WorkDate,
			Project:    line.Project,
			Hours:      line.Hours,
			Decision:   d.Decision,
			ReviewedAt: d.ReviewedAt,
		}
		if d.Decision == models.DecisionCorrected {
			if d.CorrectedHours != nil {
				entry.Hours = *d.CorrectedHours
			}
			if d.CorrectedDate != nil {
				entry.WorkDate = *d.CorrectedDate
			}
			if d.CorrectedProject != nil && *d.CorrectedProject != "" {
				entry.Project = *d.CorrectedProject
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
