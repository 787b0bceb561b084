package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Chat endpoint.
	ChatHandler gin.HandlerFunc

	// Catalog admin endpoints.
	GetCatalogHandler     gin.HandlerFunc
	RefreshCatalogHandler gin.HandlerFunc

	// Price admin endpoints.
	ListPricesHandler  gin.HandlerFunc
	UpsertPriceHandler gin.HandlerFunc
	DeletePriceHandler gin.HandlerFunc
}
