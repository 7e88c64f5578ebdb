package workflow

import (
	"context"
	"fmt"
	"strings"

	"bitbucket.org/bluecloudops/recon_backend/config"
	"bitbucket.org/bluecloudops/recon_backend/models"
	"bitbucket.org/bluecloudops/recon_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	maxReasonableWeeklyHours = 60
	maxDailyHours            = 24
	minAvgConfidence         = 0.7
	// Line-level rules run on a sample to keep the result set readable.
	lineCheckSample = 5
)

// RunValidation evaluates document- and line-level rules over the document's
// extracted lines and replaces its stored validation results.
func RunValidation(ctx context.Context, docID string) ([]models.ValidationResult, error) {
	if _, err := models.GetDocument(ctx, docID); err != nil {
		return nil, err
	}
	lines, err := models.ListExtractedLines(ctx, docID)
	if err != nil {
		return nil, err
	}

	checks := documentChecks(docID, lines)
	sample := lines
	if len(sample) > lineCheckSample {
		sample = sample[:lineCheckSample]
	}
	for i := range sample {
		checks = append(checks, lineChecks(docID, &sample[i])...)
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doc_id = ?", docID).Delete(&models.ValidationResult{}).Error; err != nil {
			return err
		}
		for i := range checks {
			if err := tx.Create(&checks[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, utils.StoreError(err)
	}
	return checks, nil
}

func documentChecks(docID string, lines []models.ExtractedLine) []models.ValidationResult {
	var checks []models.ValidationResult

	workers := map[string]bool{}
	for _, line := range lines {
		if line.Worker != "" {
			workers[line.Worker] = true
		}
	}
	workerStatus := models.CheckStatusFail
	workerDetails := "No worker identified"
	if len(workers) > 0 {
		workerStatus = models.CheckStatusPass
		names := make([]string, 0, len(workers))
		for w := range workers {
			names = append(names, w)
		}
		workerDetails = fmt.Sprintf("Found %d unique worker(s): %s", len(workers), strings.Join(names, ", "))
	}
	checks = append(checks, models.ValidationResult{
		DocID:         docID,
		RuleName:      "WORKER_IDENTIFIABLE",
		Status:        workerStatus,
		Details:       workerDetails,
		ComputedValue: fmt.Sprintf("%d", len(workers)),
	})

	dated := 0
	for _, line := range lines {
		if !line.WorkDate.IsZero() {
			dated++
		}
	}
	dateStatus := models.CheckStatusFail
	dateDetails := "No dates found"
	if dated > 0 {
		dateStatus = models.CheckStatusPass
		dateDetails = fmt.Sprintf("Found %d date entries", dated)
	}
	checks = append(checks, models.ValidationResult{
		DocID:         docID,
		RuleName:      "DATES_PRESENT",
		Status:        dateStatus,
		Details:       dateDetails,
		ComputedValue: fmt.Sprintf("%d", dated),
	})

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Hours)
	}
	totalStatus := models.CheckStatusFail
	totalDetails := fmt.Sprintf("Total hours: %s.", total.String())
	switch {
	case total.GreaterThan(decimal.NewFromInt(maxReasonableWeeklyHours)):
		totalStatus = models.CheckStatusWarn
		totalDetails += " Exceeds 60 hours - verify overtime"
	case total.IsPositive():
		totalStatus = models.CheckStatusPass
		totalDetails += " Within normal range"
	}
	checks = append(checks, models.ValidationResult{
		DocID:         docID,
		RuleName:      "TOTAL_HOURS_REASONABLE",
		Status:        totalStatus,
		Details:       totalDetails,
		ComputedValue: total.String(),
	})

	var confSum float64
	confCount := 0
	for _, line := range lines {
		if line.Confidence != nil {
			confSum += *line.Confidence
			confCount++
		}
	}
	avg := 0.0
	if confCount > 0 {
		avg = confSum / float64(confCount)
	}
	confStatus := models.CheckStatusWarn
	if avg >= minAvgConfidence {
		confStatus = models.CheckStatusPass
	}
	checks = append(checks, models.ValidationResult{
		DocID:         docID,
		RuleName:      "EXTRACTION_CONFIDENCE",
		Status:        confStatus,
		Details:       fmt.Sprintf("Average confidence: %.2f", avg),
		ComputedValue: fmt.Sprintf("%.2f", avg),
	})

	return checks
}

func lineChecks(docID string, line *models.ExtractedLine) []models.ValidationResult {
	var checks []models.ValidationResult
	lineID := line.ID

	dateStatus := models.CheckStatusFail
	dateDetails := "Work date missing"
	if !line.WorkDate.IsZero() {
		dateStatus = models.CheckStatusPass
		dateDetails = fmt.Sprintf("Date %s is valid", line.WorkDate.Format("2006-01-02"))
	}
	checks = append(checks, models.ValidationResult{
		DocID:    docID,
		LineID:   &lineID,
		RuleName: "VALID_DATE_FORMAT",
		Status:   dateStatus,
		Details:  dateDetails,
	})

	hoursStatus := models.CheckStatusPass
	hoursDetails := fmt.Sprintf("Hours: %s. Valid range 0-24", line.Hours.String())
	if line.Hours.GreaterThan(decimal.NewFromInt(maxDailyHours)) {
		hoursStatus = models.CheckStatusWarn
		hoursDetails = fmt.Sprintf("Hours: %s. Outside valid range", line.Hours.String())
	} else if line.Hours.IsNegative() {
		hoursStatus = models.CheckStatusFail
		hoursDetails = fmt.Sprintf("Hours: %s. Outside valid range", line.Hours.String())
	}
	checks = append(checks, models.ValidationResult{
		DocID:         docID,
		LineID:        &lineID,
		RuleName:      "HOURS_IN_RANGE",
		Status:        hoursStatus,
		Details:       hoursDetails,
		ComputedValue: line.Hours.String(),
	})

	var missing []string
	if line.Worker == "" {
		missing = append(missing, "worker")
	}
	if line.WorkDate.IsZero() {
		missing = append(missing, "work_date")
	}
	if line.Hours.IsZero() {
		missing = append(missing, "hours")
	}
	fieldStatus := models.CheckStatusPass
	fieldDetails := "All required fields present"
	if len(missing) > 0 {
		fieldStatus = models.CheckStatusFail
		fieldDetails = "Missing fields: " + strings.Join(missing, ", ")
	}
	checks = append(checks, models.ValidationResult{
		DocID:    docID,
		LineID:   &lineID,
		RuleName: "REQUIRED_FIELDS_PRESENT",
		Status:   fieldStatus,
		Details:  fieldDetails,
	})

	return checks
}
