package handlers

import (
	"net/http"
	"strconv"

	"bitbucket.org/bluecloudops/recon_backend/workflow"
	"github.com/gin-gonic/gin"
)

func DecideHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		lineID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid line id"})
			return
		}
		var input workflow.DecideInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		decision, err := workflow.Decide(c.Request.Context(), lineID, input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, decision)
	}
}

func ApproveAllHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := workflow.ApproveAll(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"approved": count})
	}
}

func ClearAllHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := workflow.ClearAll(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cleared": count})
	}
}

func TrustedLedgerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := workflow.TrustedLedger(c.Request.Context(), c.Query("doc_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries})
	}
}
