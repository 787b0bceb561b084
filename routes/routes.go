package routes

import (
	"net/http"
	"time"

	"savoria/handlers"
	"savoria/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterChatRoutes registers the conversational endpoint.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/chat", hb.ChatHandler)
	}
}

// RegisterCatalogRoutes registers catalog inspection endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/catalog")
	{
		api.GET("", hb.GetCatalogHandler)
		api.POST("/refresh", hb.RefreshCatalogHandler)
	}
}

// RegisterPriceRoutes registers price override endpoints.
func RegisterPriceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/prices")
	{
		api.GET("", hb.ListPricesHandler)
		api.PUT("/:productID", hb.UpsertPriceHandler)
		api.DELETE("/:productID", hb.DeletePriceHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Savoria"})
	})
}

// RegisterRoutes sets up CORS, rate limiting and all route groups.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterChatRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterPriceRoutes(r, hb)
}
