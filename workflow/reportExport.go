package workflow

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const summarySheet = "Reconciliation"

// BuildSummaryWorkbook renders reconciliation rows into a spreadsheet, one
// row per worker, with hour columns left blank where a source has no data.
func BuildSummaryWorkbook(periodMonth string, rows []SummaryRow) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(summarySheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{
		"Worker", "Period", "Approved Hours", "Invoice Hours",
		"Ground Truth Hours", "Computed Amount", "Invoice Amount",
		"Variance", "Status",
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(summarySheet, cell, h); err != nil {
			return nil, err
		}
	}

	for r, row := range rows {
		values := []any{
			row.Worker,
			periodMonth,
			decimalCell(row.ApprovedHours),
			decimalCell(row.InvoiceHours),
			decimalCell(row.GroundTruthHours),
			row.ComputedAmount.InexactFloat64(),
			row.InvoiceAmount.InexactFloat64(),
			row.Variance.InexactFloat64(),
			string(row.Status),
		}
		for c, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if len(rows) > 0 {
		last := fmt.Sprintf("I%d", len(rows)+1)
		if err := f.AutoFilter(summarySheet, "A1:"+last, nil); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func decimalCell(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.InexactFloat64()
}
