package handlers

import (
	"net/http"

	"savoria/services/catalog"
	"savoria/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler exposes read and refresh access to the cached catalog.
type CatalogHandler struct {
	Cache *catalog.Cache
}

func NewCatalogHandler(cache *catalog.Cache) *CatalogHandler {
	return &CatalogHandler{Cache: cache}
}

// GetCatalogHandler handles GET /api/catalog.
func (h *CatalogHandler) GetCatalogHandler(c *gin.Context) {
	snap := h.Cache.Snapshot(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"count":      len(snap.Items),
		"fetched_at": snap.FetchedAt,
		"items":      snap.Items,
	})
}

// RefreshCatalogHandler handles POST /api/catalog/refresh. It forces a
// rebuild regardless of snapshot age.
func (h *CatalogHandler) RefreshCatalogHandler(c *gin.Context) {
	logger := utils.GetLogger()
	snap, err := h.Cache.Refresh(c.Request.Context())
	if err != nil {
		logger.Error("manual catalog refresh failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Catalog refresh failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Catalog refreshed",
		"count":      len(snap.Items),
		"fetched_at": snap.FetchedAt,
	})
}
