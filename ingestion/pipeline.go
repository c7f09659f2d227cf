package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/healthmate/ai"
	"github.com/poiesic/healthmate/core"
	"github.com/poiesic/healthmate/index"
)

// defaultBatchSize bounds how many documents one embedding call carries.
const defaultBatchSize = 64

// Pipeline embeds corpus documents and feeds them into the document index.
// Batches are embedded concurrently on a worker pool; the index itself is
// safe for concurrent Add.
type Pipeline struct {
	index     *index.Index
	embedder  ai.Embedder
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many documents go into one embedding request.
// Default is 64.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size > 0 {
			p.batchSize = size
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new corpus ingestion pipeline.
func NewPipeline(idx *index.Index, provider ai.AIProvider, opts ...Option) (*Pipeline, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		index:     idx,
		embedder:  provider.Embedder(),
		pool:      pool,
		batchSize: defaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// IngestDocuments embeds the documents in batches and adds them to the index.
// It blocks until every batch is done. A failed batch is skipped and
// reported; the other batches still land, so a transient embedding failure
// costs one batch, not the whole corpus.
func (p *Pipeline) IngestDocuments(ctx context.Context, docs []core.KnowledgeDocument) error {
	if len(docs) == 0 {
		return nil
	}
	p.logger.Info("ingesting corpus documents", "count", len(docs), "batchSize", p.batchSize)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []error
	)

	for start := 0; start < len(docs); start += p.batchSize {
		end := min(start+p.batchSize, len(docs))
		batch := docs[start:end]

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			if err := p.ingestBatch(ctx, batch); err != nil {
				p.logger.Error("batch ingestion failed", "from", start, "to", end, "err", err)
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			failures = append(failures, submitErr)
			mu.Unlock()
		}
	}
	wg.Wait()

	if len(failures) > 0 {
		return errors.Join(failures...)
	}
	p.logger.Info("corpus ingestion complete", "indexed", p.index.Len())
	return nil
}

// ingestBatch embeds one batch of documents and adds it to the index.
func (p *Pipeline) ingestBatch(ctx context.Context, batch []core.KnowledgeDocument) error {
	texts := make([]string, 0, len(batch))
	for _, doc := range batch {
		texts = append(texts, doc.Text)
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}
	return p.index.Add(batch, vectors)
}

// IngestCorpusFile loads a corpus CSV and ingests every document in it.
func (p *Pipeline) IngestCorpusFile(ctx context.Context, path string) (int, error) {
	docs, err := LoadCorpus(path)
	if err != nil {
		return 0, err
	}
	if err := p.IngestDocuments(ctx, docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
