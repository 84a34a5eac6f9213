package services

import (
	"context"
	"errors"
	"sync"
	"time"
)

type stubGemini struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
	prompts   []string
	params    []GenerationParams
	block     bool

	embedErr   error
	embedCalls int
}

func (s *stubGemini) GenerateText(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	s.mu.Lock()
	idx := s.calls
	s.calls++
	s.prompts = append(s.prompts, prompt)
	s.params = append(s.params, params)
	s.mu.Unlock()

	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}

	if idx < len(s.errs) && s.errs[idx] != nil {
		return "", s.errs[idx]
	}
	if idx < len(s.responses) {
		return s.responses[idx], nil
	}
	if len(s.responses) > 0 {
		return s.responses[len(s.responses)-1], nil
	}
	return "", nil
}

func (s *stubGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embedCalls++
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (s *stubGemini) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubExtractor struct {
	text  string
	err   error
	calls int
}

func (s *stubExtractor) ExtractText(data []byte, mediaType MediaType) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type stubRetriever struct {
	results  []SearchResult
	err      error
	queries  []string
	block    bool
	deadline time.Time
}

func (s *stubRetriever) Retrieve(ctx context.Context, query string) ([]SearchResult, error) {
	s.queries = append(s.queries, query)
	s.deadline, _ = ctx.Deadline()
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.results, s.err
}

type stubQdrant struct {
	mu        sync.Mutex
	upserted  []CatalogChunk
	deleted   []string
	upsertErr error
	failText  string
}

func (s *stubQdrant) InitCollection(ctx context.Context) error { return nil }

func (s *stubQdrant) UpsertChunk(ctx context.Context, chunk CatalogChunk, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil && (s.failText == "" || chunk.Text == s.failText) {
		return s.upsertErr
	}
	s.upserted = append(s.upserted, chunk)
	return nil
}

func (s *stubQdrant) SearchSimilar(ctx context.Context, queryEmbedding []float32, docType string, limit int) ([]SearchResult, error) {
	return nil, nil
}

func (s *stubQdrant) DeleteDocument(ctx context.Context, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, docID)
	return nil
}

var errStub = errors.New("stub failure")
