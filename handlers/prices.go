package handlers

import (
	"net/http"

	pricesRepo "savoria/database/repository/prices"
	"savoria/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PriceHandler exposes the admin price override endpoints.
type PriceHandler struct {
	Repo pricesRepo.PriceRepository
}

func NewPriceHandler(repo pricesRepo.PriceRepository) *PriceHandler {
	return &PriceHandler{Repo: repo}
}

type upsertPriceRequest struct {
	Price    string `json:"price" binding:"required"`
	Currency string `json:"currency" binding:"required"`
}

// ListPricesHandler handles GET /api/prices.
func (h *PriceHandler) ListPricesHandler(c *gin.Context) {
	logger := utils.GetLogger()
	rows, err := h.Repo.List(c.Request.Context())
	if err != nil {
		logger.Error("price list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list prices"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(rows), "items": rows})
}

// UpsertPriceHandler handles PUT /api/prices/:productID.
func (h *PriceHandler) UpsertPriceHandler(c *gin.Context) {
	logger := utils.GetLogger()
	productID := c.Param("productID")

	var req upsertPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	row, err := h.Repo.Upsert(c.Request.Context(), productID, req.Price, req.Currency)
	if err != nil {
		logger.Error("price upsert failed", zap.String("productID", productID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save price"})
		return
	}
	c.JSON(http.StatusOK, row)
}

// DeletePriceHandler handles DELETE /api/prices/:productID.
func (h *PriceHandler) DeletePriceHandler(c *gin.Context) {
	logger := utils.GetLogger()
	productID := c.Param("productID")
	if err := h.Repo.Delete(c.Request.Context(), productID); err != nil {
		logger.Error("price delete failed", zap.String("productID", productID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete price"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Price removed"})
}
