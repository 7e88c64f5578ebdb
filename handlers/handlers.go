package handlers

import (
	"errors"
	"net/http"

	"bitbucket.org/bluecloudops/recon_backend/utils"
	"bitbucket.org/bluecloudops/recon_backend/workflow"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every operation under /api. The extraction feed is
// injected so tests can substitute a fake service.
func RegisterRoutes(r *gin.Engine, feed workflow.ExtractionFeed) {
	api := r.Group("/api")

	api.POST("/documents", CreateDocumentHandler())
	api.GET("/documents", ListDocumentsHandler())
	api.DELETE("/documents/:id", DeleteDocumentHandler())
	api.POST("/documents/:id/extraction", ImportExtractionHandler(feed))
	api.GET("/documents/:id/lines", ListLinesHandler())
	api.POST("/documents/:id/validation", RunValidationHandler())
	api.GET("/documents/:id/validation", ListValidationHandler())
	api.GET("/documents/:id/accuracy", AccuracyHandler())
	api.PUT("/documents/:id/ground-truth", SaveGroundTruthHandler())
	api.GET("/documents/:id/ground-truth", ListGroundTruthHandler())
	api.POST("/documents/:id/approve-all", ApproveAllHandler())
	api.POST("/documents/:id/clear-approvals", ClearAllHandler())

	api.POST("/identities/sync", SyncIdentitiesHandler())
	api.GET("/identities/:kind", ListIdentitiesHandler())
	api.PUT("/identities/:kind/:key", ConfirmIdentityHandler())
	api.GET("/suspects", ListSuspectsHandler())

	api.POST("/merges", CreateMergeHandler())
	api.GET("/merges", ListMergesHandler())
	api.DELETE("/merges/:id", DeleteMergeHandler())
	api.POST("/merges/apply", ApplyMergesHandler())

	api.POST("/lines/:id/decision", DecideHandler())
	api.GET("/ledger", TrustedLedgerHandler())

	api.GET("/reconciliation", SummarizeHandler())
	api.GET("/reconciliation/export", ExportSummaryHandler())
}

// respondError maps the error taxonomy onto HTTP statuses. Upstream failures
// surface verbatim so the caller can see what the extraction service said.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
