package handlers

import (
	"net/http"
	"strconv"

	"bitbucket.org/bluecloudops/recon_backend/models"
	"bitbucket.org/bluecloudops/recon_backend/workflow"
	"github.com/gin-gonic/gin"
)

func SyncIdentitiesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		created, err := workflow.SyncFromExtraction(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"created": created})
	}
}

func ListIdentitiesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := models.IdentityKind(c.Param("kind"))
		if !kind.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be project or worker"})
			return
		}
		identities, err := models.ListIdentities(c.Request.Context(), kind)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"identities": identities})
	}
}

func ConfirmIdentityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := models.IdentityKind(c.Param("kind"))
		var input workflow.ConfirmIdentityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		identity, err := workflow.ConfirmIdentity(c.Request.Context(), kind, c.Param("key"), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, identity)
	}
}

func ListSuspectsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := models.IdentityKind(c.DefaultQuery("kind", string(models.IdentityKindProject)))
		maxDistance := 0
		if raw := c.Query("max_distance"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "max_distance must be a positive integer"})
				return
			}
			maxDistance = n
		}
		suspects, err := workflow.ListSuspects(c.Request.Context(), kind, maxDistance)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"suspects": suspects})
	}
}
