package services

import (
	"context"
	"fmt"
)

// CatalogRetriever finds learning resources relevant to a query.
type CatalogRetriever interface {
	Retrieve(ctx context.Context, query string) ([]SearchResult, error)
}

type catalogRetriever struct {
	geminiService GeminiService
	qdrantService QdrantService
	topK          int
}

func NewCatalogRetriever(geminiService GeminiService, qdrantService QdrantService, topK int) CatalogRetriever {
	if topK <= 0 {
		topK = 5
	}
	return &catalogRetriever{
		geminiService: geminiService,
		qdrantService: qdrantService,
		topK:          topK,
	}
}

// Retrieve implements CatalogRetriever.
func (c *catalogRetriever) Retrieve(ctx context.Context, query string) ([]SearchResult, error) {
	embedding, err := c.geminiService.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	results, err := c.qdrantService.SearchSimilar(ctx, embedding, CatalogDocType, c.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog: %w", err)
	}

	return results, nil
}
