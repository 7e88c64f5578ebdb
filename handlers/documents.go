package handlers

import (
	"net/http"

	"bitbucket.org/bluecloudops/recon_backend/models"
	"bitbucket.org/bluecloudops/recon_backend/workflow"
	"github.com/gin-gonic/gin"
)

func CreateDocumentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewDocument
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		doc, err := models.CreateDocument(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, doc)
	}
}

func ListDocumentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		docs, err := models.ListDocuments(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"documents": docs})
	}
}

func DeleteDocumentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := models.DeleteDocument(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func ImportExtractionHandler(feed workflow.ExtractionFeed) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := workflow.ImportExtraction(c.Request.Context(), feed, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"imported": count})
	}
}

func ListLinesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		docID := c.Param("id")
		if _, err := models.GetDocument(c.Request.Context(), docID); err != nil {
			respondError(c, err)
			return
		}
		lines, err := models.ListExtractedLines(c.Request.Context(), docID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"lines": lines})
	}
}

func RunValidationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		checks, err := workflow.RunValidation(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"checks": checks})
	}
}

func ListValidationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		docID := c.Param("id")
		if _, err := models.GetDocument(c.Request.Context(), docID); err != nil {
			respondError(c, err)
			return
		}
		checks, err := models.ListValidationResults(c.Request.Context(), docID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"checks": checks})
	}
}

func AccuracyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := workflow.CompareAccuracy(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func SaveGroundTruthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Lines []workflow.GroundTruthInput `json:"lines"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		count, err := workflow.SaveGroundTruth(c.Request.Context(), c.Param("id"), input.Lines)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"saved": count})
	}
}

func ListGroundTruthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := workflow.ListGroundTruth(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"lines": rows})
	}
}
