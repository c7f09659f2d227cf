package ai

import (
	"context"

	"github.com/poiesic/healthmate/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// QueryClassifier decides which data sources a health question needs.
// Implementations must be thread-safe for concurrent use.
type QueryClassifier interface {
	// Classify returns the question's intent and the personal-record
	// categories the answer needs.
	//
	// Implementations backed by an LLM must degrade to the deterministic
	// keyword fallback (see FallbackClassify) on any model or parse failure
	// rather than return an error; only context cancellation propagates.
	Classify(ctx context.Context, question string) (core.Classification, error)
}

// ResponseGenerator synthesizes the final natural-language answer from a
// question and its assembled context.
// Implementations must be thread-safe for concurrent use.
type ResponseGenerator interface {
	// Generate produces an answer for the question given the formatted
	// context block. The intent selects the persona and rules the model
	// answers under.
	//
	// Generate never fails hard: on any model error the returned Answer has
	// Success false and a user-visible explanation in Text.
	Generate(ctx context.Context, question, formattedContext string, intent core.Intent) core.Answer
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages the embedder, classifier, and generator,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Classifier returns the query classification service.
	// The returned QueryClassifier is safe for concurrent use.
	Classifier() QueryClassifier

	// Generator returns the response synthesis service.
	// The returned ResponseGenerator is safe for concurrent use.
	Generator() ResponseGenerator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
