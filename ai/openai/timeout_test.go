package openai

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/poiesic/healthmate/ai"
	"github.com/poiesic/healthmate/core"
)

// stallingModel blocks every call until its context expires, simulating a
// hung chat service.
type stallingModel struct{}

func (stallingModel) GenerateContent(ctx context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (stallingModel) Call(ctx context.Context, _ string, _ ...llms.CallOption) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

// stallingEmbedder blocks until its context expires, simulating a hung
// embedding service.
type stallingEmbedder struct{}

func (stallingEmbedder) EmbedDocuments(ctx context.Context, _ []string) ([][]float32, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (stallingEmbedder) EmbedQuery(ctx context.Context, _ string) ([]float32, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestClassify_HungServiceFallsBack(t *testing.T) {
	c := &QueryClassifier{
		client:  stallingModel{},
		timeout: 20 * time.Millisecond,
		logger:  slog.Default(),
	}

	question := "What medications am I taking?"
	got, err := c.Classify(context.Background(), question)
	require.NoError(t, err)
	assert.Equal(t, ai.FallbackClassify(question), got)
}

func TestClassify_CallerCancellationPropagates(t *testing.T) {
	c := &QueryClassifier{
		client:  stallingModel{},
		timeout: time.Minute,
		logger:  slog.Default(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Classify(ctx, "What medications am I taking?")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_HungServiceDegrades(t *testing.T) {
	g := &ResponseGenerator{
		client:  stallingModel{},
		timeout: 20 * time.Millisecond,
		logger:  slog.Default(),
	}

	answer := g.Generate(context.Background(), "What is asthma?", "", core.IntentGeneric)
	assert.False(t, answer.Success)
	assert.Contains(t, answer.Text, "Sorry, an error occurred")
}

func TestEmbed_HungServiceErrors(t *testing.T) {
	e := &Embedder{
		embedder: stallingEmbedder{},
		timeout:  20 * time.Millisecond,
		logger:   slog.Default(),
	}

	_, err := e.EmbedText(context.Background(), "hello")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = e.EmbedTexts(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
