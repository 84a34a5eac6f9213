package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"pathfinder/career-advisor/internal/config"
	"pathfinder/career-advisor/internal/handlers"
	"pathfinder/career-advisor/internal/metrics"
	"pathfinder/career-advisor/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	ctx := context.Background()

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Printf("✅ Gemini AI initialized successfully (model: %s)", cfg.Gemini.Model)

	// Initialize the optional learning catalog
	var catalog services.CatalogRetriever
	if cfg.CatalogEnabled() {
		qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := qdrantService.InitCollection(ctx); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}
		catalog = services.NewCatalogRetriever(geminiService, qdrantService, cfg.Qdrant.TopK)
		log.Printf("✅ Learning catalog enabled (collection: %s)", cfg.Qdrant.Collection)
	} else {
		log.Println("⚠️  QDRANT_URL not set, learning catalog disabled")
	}

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	advisorService := services.NewAdvisorService(
		geminiService,
		services.NewTextExtractor(),
		catalog,
		m,
		services.AdvisorOptions{
			Timeout:        cfg.Gemini.Timeout,
			CatalogTimeout: cfg.Qdrant.Timeout,
			Retry: services.RetryPolicy{
				MaxAttempts:  cfg.Gemini.RetryMaxAttempts,
				InitialDelay: cfg.Gemini.RetryInitialDelay,
			},
		},
	)
	log.Println("✅ Advisor service initialized")

	app := handlers.NewApp(handlers.AppOptions{
		Advisor:      advisorService,
		Metrics:      m,
		Gatherer:     registry,
		MaxFileSize:  cfg.Upload.MaxFileSize,
		AllowOrigins: cfg.Server.AllowOrigins,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s (%s)\n", addr, cfg.Server.Env)
	log.Printf("📖 API Documentation: http://localhost%s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
