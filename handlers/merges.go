package handlers

import (
	"net/http"
	"strconv"

	"bitbucket.org/bluecloudops/recon_backend/models"
	"bitbucket.org/bluecloudops/recon_backend/workflow"
	"github.com/gin-gonic/gin"
)

func CreateMergeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input workflow.NewMerge
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		merge, err := workflow.CreateMerge(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, merge)
	}
}

func ListMergesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := models.IdentityKind(c.Query("kind"))
		if kind != "" && !kind.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be project or worker"})
			return
		}
		merges, err := models.ListMerges(c.Request.Context(), kind)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"merges": merges})
	}
}

func DeleteMergeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid merge id"})
			return
		}
		if err := workflow.DeleteMerge(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func ApplyMergesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rewritten, err := workflow.ApplyMerges(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"rewritten": rewritten})
	}
}
