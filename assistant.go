// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package healthmate

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/poiesic/healthmate/ai"
	"github.com/poiesic/healthmate/ai/openai"
	"github.com/poiesic/healthmate/core"
	"github.com/poiesic/healthmate/hybrid"
	"github.com/poiesic/healthmate/index"
	"github.com/poiesic/healthmate/ingestion"
	"github.com/poiesic/healthmate/storage"
	"github.com/poiesic/healthmate/storage/badger"
)

const defaultIndexDimension = 384

// Assistant wires the record store, the knowledge index, and the AI services
// into one question-answering surface.
type Assistant struct {
	backend  *badger.Backend
	records  storage.HealthRecordRepository
	index    *index.Index
	provider ai.AIProvider
	builder  *hybrid.Builder
	logger   *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*assistantOptions)

type assistantOptions struct {
	aiConfig    *ai.Config
	provider    ai.AIProvider
	dimension   int
	indexPath   string
	inMemory    bool
	builderOpts []hybrid.Option
}

// WithAIConfig sets the AI service configuration.
func WithAIConfig(config *ai.Config) AssistantOption {
	return func(o *assistantOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects a pre-built AI provider, bypassing the OpenAI one.
// Tests use this with the mock provider.
func WithProvider(provider ai.AIProvider) AssistantOption {
	return func(o *assistantOptions) {
		o.provider = provider
	}
}

// WithIndexDimension sets the embedding dimension of the knowledge index.
// Default is 384. Must match the embedding model in use.
func WithIndexDimension(dimension int) AssistantOption {
	return func(o *assistantOptions) {
		if dimension > 0 {
			o.dimension = dimension
		}
	}
}

// WithIndexPath loads a previously saved index artifact at startup. A missing
// artifact is not an error, the assistant starts with an empty index.
func WithIndexPath(path string) AssistantOption {
	return func(o *assistantOptions) {
		o.indexPath = path
	}
}

// WithInMemoryStorage keeps all records in memory. Used in tests.
func WithInMemoryStorage() AssistantOption {
	return func(o *assistantOptions) {
		o.inMemory = true
	}
}

// WithBuilderOptions passes options through to the context builder used by
// Ask, such as hybrid.WithRetrievalK or hybrid.WithScoreThreshold.
func WithBuilderOptions(opts ...hybrid.Option) AssistantOption {
	return func(o *assistantOptions) {
		o.builderOpts = append(o.builderOpts, opts...)
	}
}

// NewAssistant opens the record store at filePath and assembles the assistant.
func NewAssistant(filePath string, opts ...AssistantOption) (*Assistant, error) {
	// Apply options
	options := &assistantOptions{
		aiConfig:  ai.DefaultConfig(), // Default if not provided
		dimension: defaultIndexDimension,
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create health record repository
	records, err := badger.NewRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create knowledge index, loading a saved artifact when one exists
	ix, err := index.New(options.dimension)
	if err != nil {
		backend.Close()
		return nil, err
	}
	if options.indexPath != "" {
		if err := ix.Load(options.indexPath); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				backend.Close()
				return nil, err
			}
		}
	}

	// Create AI provider with configured settings
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	builder, err := hybrid.NewBuilder(records, ix, provider, options.builderOpts...)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	return &Assistant{
		backend:  backend,
		records:  records,
		index:    ix,
		provider: provider,
		builder:  builder,
		logger:   slog.Default(),
	}, nil
}

func (a *Assistant) Close() error {
	// Close AI provider first
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}

	// Close backend storage
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Records returns the health record repository.
func (a *Assistant) Records() storage.HealthRecordRepository {
	return a.records
}

// Index returns the knowledge index.
func (a *Assistant) Index() *index.Index {
	return a.index
}

// Provider returns the AI provider.
func (a *Assistant) Provider() ai.AIProvider {
	return a.provider
}

// NewIngestionPipeline creates a pipeline feeding this assistant's index.
func (a *Assistant) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(a.index, a.provider, opts...)
}

// NewContextBuilder creates an independent context builder over this
// assistant's stores, for callers that want the retrieval context without
// answer generation.
func (a *Assistant) NewContextBuilder(opts ...hybrid.Option) (*hybrid.Builder, error) {
	return hybrid.NewBuilder(a.records, a.index, a.provider, opts...)
}

// SaveIndex writes the knowledge index artifact to path.
func (a *Assistant) SaveIndex(path string) error {
	return a.index.Save(path)
}

// Ask answers a question for a user. The returned answer is always usable:
// generation failures produce a degraded answer with Success false rather
// than an error. An error is returned only when context assembly itself
// fails, which classification limits to context cancellation.
func (a *Assistant) Ask(ctx context.Context, userID, question string) (core.Answer, error) {
	answer, _, err := a.AskWithMonitor(ctx, userID, question, nil)
	return answer, err
}

// AskWithMonitor answers a question and returns the retrieval context it was
// answered from. The monitor, when non-nil, observes context assembly.
func (a *Assistant) AskWithMonitor(ctx context.Context, userID, question string, monitor hybrid.BuildMonitor) (core.Answer, *hybrid.Context, error) {
	bctx, err := a.builder.BuildContextWithMonitor(ctx, userID, question, monitor)
	if err != nil {
		return core.Answer{}, nil, err
	}

	formatted := hybrid.FormatContext(bctx)
	answer := a.provider.Generator().Generate(ctx, question, formatted, bctx.Intent)

	a.logger.Debug("answered question",
		"intent", bctx.Intent,
		"knowledge_docs", len(bctx.Knowledge),
		"success", answer.Success)
	return answer, bctx, nil
}
