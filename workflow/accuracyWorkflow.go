package workflow

import (
	"context"
	"sort"
	"time"

	"bitbucket.org/bluecloudops/recon_backend/models"
	"bitbucket.org/bluecloudops/recon_backend/utils"
	"github.com/shopspring/decimal"
)

type MatchStatus string

const (
	MatchStatusMatch            MatchStatus = "MATCH"
	MatchStatusDiscrepancy      MatchStatus = "DISCREPANCY"
	MatchStatusMissingExtracted MatchStatus = "MISSING_EXTRACTED"
	MatchStatusExtraExtracted   MatchStatus = "EXTRA_EXTRACTED"
)

// AccuracyRow compares one work date's extracted hours against ground truth.
// Nil hour pointers mean that side has no data for the date.
type AccuracyRow struct {
	WorkDate    time.Time        `json:"work_date"`
	GroundTruth *decimal.Decimal `json:"gt_hours"`
	Extracted   *decimal.Decimal `json:"ext_hours"`
	Delta       decimal.Decimal  `json:"hours_delta"`
	Status      MatchStatus      `json:"match_status"`
}

type AccuracyReport struct {
	DocID            string          `json:"doc_id"`
	Rows             []AccuracyRow   `json:"rows"`
	Matched          int             `json:"matched"`
	Discrepancies    int             `json:"discrepancies"`
	MissingExtracted int             `json:"missing_extracted"`
	ExtraExtracted   int             `json:"extra_extracted"`
	TotalGTHours     decimal.Decimal `json:"total_gt_hours"`
	TotalExtHours    decimal.Decimal `json:"total_ext_hours"`
	HoursAccuracyPct decimal.Decimal `json:"hours_accuracy_pct"`
}

// CompareAccuracy measures extraction quality for one document against its
// ground truth, day by day. Days agree when their hour totals are equal;
// one-sided days are reported as missing or extra extraction.
func CompareAccuracy(ctx context.Context, docID string) (*AccuracyReport, error) {
	if _, err := models.GetDocument(ctx, docID); err != nil {
		return nil, err
	}
	lines, err := models.ListExtractedLines(ctx, docID)
	if err != nil {
		return nil, err
	}
	gt, err := ListGroundTruth(ctx, docID)
	if err != nil {
		return nil, err
	}

	extByDay := map[string]decimal.Decimal{}
	for _, line := range lines {
		day := line.WorkDate.Format("2006-01-02")
		extByDay[day] = extByDay[day].Add(line.Hours)
	}
	gtByDay := map[string]decimal.Decimal{}
	for _, row := range gt {
		day := row.WorkDate.Format("2006-01-02")
		gtByDay[day] = gtByDay[day].Add(row.Hours)
	}

	days := map[string]bool{}
	for day := range extByDay {
		days[day] = true
	}
	for day := range gtByDay {
		days[day] = true
	}
	ordered := make([]string, 0, len(days))
	for day := range days {
		ordered = append(ordered, day)
	}
	sort.Strings(ordered)

	report := AccuracyReport{DocID: docID}
	for _, day := range ordered {
		workDate, _ := time.Parse("2006-01-02", day)
		row := AccuracyRow{WorkDate: workDate}

		gtHours, hasGT := gtByDay[day]
		extHours, hasExt := extByDay[day]
		if hasGT {
			v := utils.RoundHours(gtHours)
			row.GroundTruth = &v
			report.TotalGTHours = report.TotalGTHours.Add(gtHours)
		}
		if hasExt {
			v := utils.RoundHours(extHours)
			row.Extracted = &v
			report.TotalExtHours = report.TotalExtHours.Add(extHours)
		}

		switch {
		case hasGT && hasExt:
			row.Delta = utils.RoundHours(extHours.Sub(gtHours))
			if row.Delta.IsZero() {
				row.Status = MatchStatusMatch
				report.Matched++
			} else {
				row.Status = MatchStatusDiscrepancy
				report.Discrepancies++
			}
		case hasGT:
			row.Delta = utils.RoundHours(gtHours.Neg())
			row.Status = MatchStatusMissingExtracted
			report.MissingExtracted++
		default:
			row.Delta = utils.RoundHours(extHours)
			row.Status = MatchStatusExtraExtracted
			report.ExtraExtracted++
		}
		report.Rows = append(report.Rows, row)
	}

	report.TotalGTHours = utils.RoundHours(report.TotalGTHours)
	report.TotalExtHours = utils.RoundHours(report.TotalExtHours)
	if report.TotalGTHours.IsPositive() {
		errRatio := report.TotalExtHours.Sub(report.TotalGTHours).Abs().Div(report.TotalGTHours)
		pct := decimal.NewFromInt(1).Sub(errRatio).Mul(decimal.NewFromInt(100))
		if pct.IsNegative() {
			pct = decimal.Zero
		}
		report.HoursAccuracyPct = pct.Round(1)
	}
	return &report, nil
}
