package handlers

import (
	"fmt"
	"net/http"

	"bitbucket.org/bluecloudops/recon_backend/workflow"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func parseSummaryQuery(c *gin.Context) (string, decimal.Decimal, bool) {
	period := c.Query("month")
	if period == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month is required, e.g. ?month=2025-01"})
		return "", decimal.Zero, false
	}
	rate := decimal.Zero
	if raw := c.Query("rate"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rate must be a non-negative number"})
			return "", decimal.Zero, false
		}
		rate = parsed
	}
	return period, rate, true
}

func SummarizeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		period, rate, ok := parseSummaryQuery(c)
		if !ok {
			return
		}
		rows, err := workflow.Summarize(c.Request.Context(), period, rate)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"period_month": period, "rows": rows})
	}
}

func ExportSummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		period, rate, ok := parseSummaryQuery(c)
		if !ok {
			return
		}
		rows, err := workflow.Summarize(c.Request.Context(), period, rate)
		if err != nil {
			respondError(c, err)
			return
		}
		f, err := workflow.BuildSummaryWorkbook(period, rows)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=reconciliation-%s.xlsx", period))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := f.Write(c.Writer); err != nil {
			respondError(c, err)
		}
	}
}
