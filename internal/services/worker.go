package services

import (
	"context"
	"log"
	"sync"
)

// Worker embeds and stores catalog chunks with a fixed number of goroutines.
type Worker interface {
	Start(ctx context.Context)
	EnqueueJob(chunk CatalogChunk) bool
	// Stop closes the queue, waits for queued chunks to finish, and returns
	// per-document results.
	Stop() map[string]IndexStats
}

type IndexStats struct {
	Indexed int
	Failed  int
}

type worker struct {
	geminiService GeminiService
	qdrantService QdrantService
	jobQueue      chan CatalogChunk
	concurrency   int
	wg            sync.WaitGroup

	// queueMu guards closed. Senders hold it shared so Stop cannot close
	// the queue under them; workers never take it.
	queueMu sync.RWMutex
	closed  bool

	statsMu sync.Mutex
	stats   map[string]IndexStats
}

func NewWorker(geminiService GeminiService, qdrantService QdrantService, concurrency int) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &worker{
		geminiService: geminiService,
		qdrantService: qdrantService,
		jobQueue:      make(chan CatalogChunk, 100),
		concurrency:   concurrency,
		stats:         make(map[string]IndexStats),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting index worker with %d concurrent workers", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}
}

// EnqueueJob implements Worker. It reports false once the worker is stopped.
func (w *worker) EnqueueJob(chunk CatalogChunk) bool {
	w.queueMu.RLock()
	defer w.queueMu.RUnlock()

	if w.closed {
		log.Printf("⚠️  Worker stopped, cannot enqueue chunk %d of %s", chunk.Index, chunk.Source)
		return false
	}
	w.jobQueue <- chunk
	return true
}

// Stop implements Worker.
func (w *worker) Stop() map[string]IndexStats {
	w.queueMu.Lock()
	if !w.closed {
		w.closed = true
		close(w.jobQueue)
	}
	w.queueMu.Unlock()

	w.wg.Wait()
	log.Println("✅ Index worker stopped")

	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	out := make(map[string]IndexStats, len(w.stats))
	for k, v := range w.stats {
		out[k] = v
	}
	return out
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for chunk := range w.jobQueue {
		if err := w.index(ctx, chunk); err != nil {
			log.Printf("❌ Worker #%d failed to index chunk %d of %s: %v", workerID, chunk.Index, chunk.Source, err)
			w.record(chunk.DocID, false)
			continue
		}
		w.record(chunk.DocID, true)
	}
}

func (w *worker) index(ctx context.Context, chunk CatalogChunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	embedding, err := w.geminiService.GenerateEmbedding(ctx, chunk.Text)
	if err != nil {
		return err
	}

	return w.qdrantService.UpsertChunk(ctx, chunk, embedding)
}

func (w *worker) record(docID string, ok bool) {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()

	s := w.stats[docID]
	if ok {
		s.Indexed++
	} else {
		s.Failed++
	}
	w.stats[docID] = s
}
