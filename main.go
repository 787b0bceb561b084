package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"savoria/config"
	"savoria/cron"
	"savoria/database"
	pricesRepoPkg "savoria/database/repository/prices"
	"savoria/handlers"
	"savoria/routes"
	"savoria/services/catalog"
	"savoria/services/chat"
	"savoria/services/intent"
	"savoria/services/paypal"
	"savoria/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	priceRepo := pricesRepoPkg.NewMongoPriceRepo()

	// PayPal client and catalog cache.
	ppClient := paypal.NewClient(
		config.AppConfig.PayPalBaseURL,
		config.AppConfig.PayPalClientID,
		config.AppConfig.PayPalClientSecret,
	)

	var src catalog.Source
	switch config.AppConfig.CatalogSource {
	case "plans":
		src = &catalog.PlanSource{Client: ppClient, Logger: logger}
	default:
		src = &catalog.InvoicingSource{Client: ppClient}
	}
	catalogCache := catalog.NewCache(src, time.Duration(config.AppConfig.CatalogTTLSeconds)*time.Second, logger)
	matcher := catalog.NewMatcher(catalogCache)

	// Intent resolution. A missing or broken Gemini client degrades to
	// keyword classification instead of failing startup.
	var classifier intent.Classifier
	if config.AppConfig.GeminiAPIKey != "" {
		gem, err := intent.NewGeminiClient(context.Background(), config.AppConfig.GeminiAPIKey)
		if err != nil {
			logger.Warn("gemini client init failed, using keyword fallback only", zap.Error(err))
		} else {
			classifier = gem
		}
	} else {
		logger.Warn("GEMINI_API_KEY not set, using keyword fallback only")
	}
	resolver := intent.NewDefaultResolver(classifier, logger)

	sessions := chat.NewRedisSessionStore(utils.GetSessionCacheClient(), 30*time.Minute)

	chatService := &chat.DefaultChatService{
		Resolver: resolver,
		Catalog:  catalogCache,
		Matcher:  matcher,
		Sessions: sessions,
		Invoicer: ppClient,
		Logger:   logger,
	}

	chatHandler := handlers.NewChatHandler(chatService)
	catalogHandler := handlers.NewCatalogHandler(catalogCache)
	priceHandler := handlers.NewPriceHandler(priceRepo)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		ChatHandler: chatHandler.HandleChat,

		GetCatalogHandler:     catalogHandler.GetCatalogHandler,
		RefreshCatalogHandler: catalogHandler.RefreshCatalogHandler,

		ListPricesHandler:  priceHandler.ListPricesHandler,
		UpsertPriceHandler: priceHandler.UpsertPriceHandler,
		DeletePriceHandler: priceHandler.DeletePriceHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Warm the catalog in the background and keep it warm.
	go func() {
		warmCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := catalogCache.Refresh(warmCtx); err != nil {
			logger.Warn("initial catalog warm-up failed", zap.Error(err))
		}
	}()
	cron.InitCatalogWorker(catalogCache)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
