package main

import (
	"context"
	"log"
	"os"
	"strings"

	"pathfinder/career-advisor/internal/config"
	"pathfinder/career-advisor/internal/repositories"
	"pathfinder/career-advisor/internal/services"
)

func main() {
	log.Println("🚀 Starting catalog ingestion...")

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	if !cfg.CatalogEnabled() {
		log.Fatalf("❌ QDRANT_URL is required for catalog ingestion")
	}

	ctx := context.Background()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize services
	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	ingester := services.NewCatalogIngester(
		geminiService,
		qdrantService,
		services.NewTextExtractor(),
		services.NewTextChunker(),
		repositories.NewCatalogSourceRepository(db),
		cfg.Worker.Concurrency,
	)

	summary, err := ingester.Ingest(ctx, cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("❌ Ingestion failed: %v", err)
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Indexed: %d files", summary.Indexed)
	log.Printf("   ⏭️  Unchanged: %d files", summary.Skipped)
	log.Printf("   🗑️  Pruned: %d files", summary.Pruned)
	log.Printf("   ❌ Failed: %d files", summary.Failed)
	log.Println(strings.Repeat("=", 60))

	if summary.Failed > 0 {
		log.Println("⚠️  Some catalog files failed to ingest. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ Catalog ingested successfully!")
}
