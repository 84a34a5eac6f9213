package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"pathfinder/career-advisor/internal/models"
	"pathfinder/career-advisor/internal/repositories"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// IngestSummary counts what one ingestion run did, per source file.
type IngestSummary struct {
	Indexed int
	Skipped int
	Failed  int
	Pruned  int
}

// CatalogIngester indexes a directory of learning-catalog files into the
// vector store and records each source so unchanged files are skipped on the
// next run.
type CatalogIngester struct {
	geminiService GeminiService
	qdrantService QdrantService
	extractor     TextExtractor
	chunker       TextChunker
	sources       repositories.CatalogSourceRepository
	concurrency   int
}

func NewCatalogIngester(
	geminiService GeminiService,
	qdrantService QdrantService,
	extractor TextExtractor,
	chunker TextChunker,
	sources repositories.CatalogSourceRepository,
	concurrency int,
) *CatalogIngester {
	return &CatalogIngester{
		geminiService: geminiService,
		qdrantService: qdrantService,
		extractor:     extractor,
		chunker:       chunker,
		sources:       sources,
		concurrency:   concurrency,
	}
}

type pendingSource struct {
	source models.CatalogSource
	chunks int
}

// Ingest walks root and indexes every supported file. Sources recorded
// earlier whose file is gone are removed from both stores.
func (i *CatalogIngester) Ingest(ctx context.Context, root string) (IngestSummary, error) {
	var summary IngestSummary

	paths, err := catalogFiles(root)
	if err != nil {
		return summary, err
	}
	log.Printf("📚 Found %d catalog files in %s", len(paths), root)

	worker := NewWorker(i.geminiService, i.qdrantService, i.concurrency)
	worker.Start(ctx)

	seen := make(map[string]bool, len(paths))
	var pending []pendingSource

	for _, path := range paths {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		seen[rel] = true

		p, skipped, err := i.prepare(ctx, worker, path, rel)
		switch {
		case err != nil:
			log.Printf("   ❌ %s: %v", rel, err)
			summary.Failed++
		case skipped:
			log.Printf("   ⏭️  %s unchanged, skipping", rel)
			summary.Skipped++
		default:
			pending = append(pending, p)
		}
	}

	stats := worker.Stop()

	for _, p := range pending {
		st := stats[p.source.ID.String()]
		p.source.ChunkCount = st.Indexed
		if st.Failed > 0 || st.Indexed < p.chunks {
			// Clear the checksum so the next run re-indexes this file.
			p.source.Checksum = ""
			summary.Failed++
			log.Printf("   ❌ %s: %d of %d chunks failed", p.source.Path, p.chunks-st.Indexed, p.chunks)
		} else {
			summary.Indexed++
			log.Printf("   ✅ %s: %d chunks indexed", p.source.Path, st.Indexed)
		}

		if err := i.sources.Upsert(&p.source); err != nil {
			log.Printf("   ❌ %s: %v", p.source.Path, err)
		}
	}

	pruned, err := i.prune(ctx, seen)
	summary.Pruned = pruned
	if err != nil {
		return summary, err
	}

	return summary, nil
}

// prepare extracts and chunks one file and queues its chunks. It reports
// skipped when the recorded checksum still matches.
func (i *CatalogIngester) prepare(ctx context.Context, worker Worker, path, rel string) (pendingSource, bool, error) {
	mediaType, ok := MediaTypeFromExtension(path)
	if !ok {
		return pendingSource{}, false, &UnsupportedMediaTypeError{MediaType: filepath.Ext(path)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pendingSource{}, false, fmt.Errorf("failed to read file: %w", err)
	}
	checksum := fileChecksum(data)

	source := models.CatalogSource{Path: rel, Checksum: checksum}

	existing, err := i.sources.FindByPath(rel)
	switch {
	case err == nil:
		if existing.Checksum == checksum && existing.ChunkCount > 0 {
			return pendingSource{}, true, nil
		}
		source.ID = existing.ID
		source.CreatedAt = existing.CreatedAt
		if err := i.qdrantService.DeleteDocument(ctx, existing.ID.String()); err != nil {
			return pendingSource{}, false, err
		}
	case errors.Is(err, repositories.ErrCatalogSourceNotFound):
		source.ID = uuid.New()
	default:
		return pendingSource{}, false, err
	}

	text, err := i.extractor.ExtractText(data, mediaType)
	if err != nil {
		return pendingSource{}, false, fmt.Errorf("failed to extract text: %w", err)
	}

	chunks := i.chunker.ChunkText(text, DefaultChunkSize, DefaultChunkOverlap)
	log.Printf("   ✂️  %s: %d characters, %d chunks", rel, len(text), len(chunks))

	for idx, chunk := range chunks {
		worker.EnqueueJob(CatalogChunk{
			DocID:  source.ID.String(),
			Source: rel,
			Index:  idx,
			Text:   chunk,
		})
	}

	return pendingSource{source: source, chunks: len(chunks)}, false, nil
}

func (i *CatalogIngester) prune(ctx context.Context, seen map[string]bool) (int, error) {
	recorded, err := i.sources.List()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for _, source := range recorded {
		if seen[source.Path] {
			continue
		}
		if err := i.qdrantService.DeleteDocument(ctx, source.ID.String()); err != nil {
			log.Printf("   ❌ Failed to prune %s: %v", source.Path, err)
			continue
		}
		if err := i.sources.Delete(source.ID); err != nil {
			log.Printf("   ❌ Failed to prune %s: %v", source.Path, err)
			continue
		}
		log.Printf("   🗑️  Pruned %s", source.Path)
		pruned++
	}
	return pruned, nil
}

// catalogFiles lists supported files under root in lexical order.
func catalogFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := MediaTypeFromExtension(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk catalog directory: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

func fileChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
