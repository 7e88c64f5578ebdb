package workflow

import (
	"context"
	"sort"

	"bitbucket.org/bluecloudops/recon_backend/config"
	"bitbucket.org/bluecloudops/recon_backend/models"
	"bitbucket.org/bluecloudops/recon_backend/utils"
	"github.com/shopspring/decimal"
)

type ReconStatus string

const (
	ReconStatusMatch            ReconStatus = "MATCH"
	ReconStatusVariance         ReconStatus = "VARIANCE"
	ReconStatusMissingInvoice   ReconStatus = "MISSING_INVOICE"
	ReconStatusMissingTimesheet ReconStatus = "MISSING_TIMESHEET"
)

// SummaryRow is the per-worker reconciliation for one period month. Hour
// pointers are nil when that source has no data at all for the period, so
// callers can tell "no data" from "zero hours".
type SummaryRow struct {
	Worker           string           `json:"worker"`
	PeriodMonth      string           `json:"period_month"`
	ApprovedHours    *decimal.Decimal `json:"approved_hours"`
	InvoiceHours     *decimal.Decimal `json:"invoice_hours"`
	GroundTruthHours *decimal.Decimal `json:"ground_truth_hours"`
	ComputedAmount   decimal.Decimal  `json:"computed_amount"`
	InvoiceAmount    decimal.Decimal  `json:"invoice_amount"`
	Variance         decimal.Decimal  `json:"variance"`
	Status           ReconStatus      `json:"status"`
}

// Summarize joins the three hour sources for the month: trusted-ledger hours
// from approved timesheet lines, extracted hours from subcontractor
// invoices, and analyst ground truth. Amounts are hours × rate; variance is
// invoice amount minus computed amount. Running this before ApplyMerges is
// valid but reflects pre-merge identifiers.
func Summarize(ctx context.Context, periodMonth string, rate decimal.Decimal) ([]SummaryRow, error) {
	start, end, err := utils.ParsePeriodMonth(periodMonth)
	if err != nil {
		return nil, err
	}
	if rate.IsNegative() {
		return nil, utils.ValidationError("rate must be non-negative")
	}
	if rate.IsZero() {
		rate = config.DefaultHourlyRate()
	}
	tolerance := config.VarianceTolerance()

	db := config.GetDB()

	docs, err := models.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	docTypes := make(map[string]models.DocumentType, len(docs))
	for _, doc := range docs {
		docTypes[doc.ID] = doc.DocType
	}

	ledger, err := TrustedLedger(ctx, "")
	if err != nil {
		return nil, err
	}
	approvedByWorker := map[string]decimal.Decimal{}
	for _, entry := range ledger {
		if docTypes[entry.DocID] != models.DocumentTypeTimesheet {
			continue
		}
		if entry.WorkDate.Before(start) || !entry.WorkDate.Before(end) {
			continue
		}
		approvedByWorker[entry.Worker] = approvedByWorker[entry.Worker].Add(entry.Hours)
	}

	var invoiceLines []models.ExtractedLine
	err = db.WithContext(ctx).
		Joins("JOIN documents ON documents.id = extracted_lines.doc_id").
		Where("documents.doc_type = ?", models.DocumentTypeSubcontractorInvoice).
		Where("extracted_lines.work_date >= ? AND extracted_lines.work_date < ?", start, end).
		Find(&invoiceLines).Error
	if err != nil {
		return nil, utils.StoreError(err)
	}
	invoiceByWorker := map[string]decimal.Decimal{}
	for _, line := range invoiceLines {
		invoiceByWorker[line.Worker] = invoiceByWorker[line.Worker].Add(line.Hours)
	}

	var gtLines []models.GroundTruthLine
	err = db.WithContext(ctx).
		Where("work_date >= ? AND work_date < ?", start, end).
		Find(&gtLines).Error
	if err != nil {
		return nil, utils.StoreError(err)
	}
	gtByWorker := map[string]decimal.Decimal{}
	for _, line := range gtLines {
		gtByWorker[line.Worker] = gtByWorker[line.Worker].Add(line.Hours)
	}

	workers := map[string]bool{}
	for w := range approvedByWorker {
		workers[w] = true
	}
	for w := range invoiceByWorker {
		workers[w] = true
	}
	for w := range gtByWorker {
		workers[w] = true
	}
	ordered := make([]string, 0, len(workers))
	for w := range workers {
		ordered = append(ordered, w)
	}
	sort.Strings(ordered)

	rows := make([]SummaryRow, 0, len(ordered))
	for _, worker := range ordered {
		row := SummaryRow{
			Worker:      worker,
			PeriodMonth: periodMonth,
		}

		approved, hasApproved := approvedByWorker[worker]
		invoice, hasInvoice := invoiceByWorker[worker]
		gt, hasGT := gtByWorker[worker]

		if hasApproved {
			v := utils.RoundHours(approved)
			row.ApprovedHours = &v
			row.ComputedAmount = utils.RoundHours(approved.Mul(rate))
		}
		if hasInvoice {
			v := utils.RoundHours(invoice)
			row.InvoiceHours = &v
			row.InvoiceAmount = utils.RoundHours(invoice.Mul(rate))
		}
		if hasGT {
			v := utils.RoundHours(gt)
			row.GroundTruthHours = &v
		}

		row.Variance = row.InvoiceAmount.Sub(row.ComputedAmount)

		switch {
		case !hasApproved && !hasInvoice:
			row.Status = ReconStatusMissingTimesheet
		case !hasInvoice:
			row.Status = ReconStatusMissingInvoice
		case !hasApproved:
			row.Status = ReconStatusMissingTimesheet
		case row.Variance.Abs().LessThanOrEqual(tolerance):
			row.Status = ReconStatusMatch
		default:
			row.Status = ReconStatusVariance
		}
		rows = append(rows, row)
	}
	return rows, nil
}
