package healthmate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/healthmate/ai"
	"github.com/poiesic/healthmate/ai/mock"
	"github.com/poiesic/healthmate/core"
	"github.com/poiesic/healthmate/hybrid"
)

const testDimension = 8

func newMockProvider() (ai.AIProvider, *mock.MockGenerator) {
	embedder := mock.NewMockEmbedder()
	embedder.Dimension = testDimension
	generator := mock.NewMockGenerator()
	return mock.NewMockProviderWithServices(embedder, mock.NewMockClassifier(), generator), generator
}

func newTestAssistant(t *testing.T, opts ...AssistantOption) (*Assistant, *mock.MockGenerator) {
	t.Helper()

	provider, generator := newMockProvider()
	opts = append([]AssistantOption{
		WithInMemoryStorage(),
		WithProvider(provider),
		WithIndexDimension(testDimension),
	}, opts...)

	a, err := NewAssistant("", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, generator
}

func TestNewAssistant(t *testing.T) {
	t.Run("create new assistant", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		provider, _ := newMockProvider()
		a, err := NewAssistant(tmpDir, WithProvider(provider), WithIndexDimension(testDimension))
		require.NoError(t, err)
		require.NotNil(t, a)
		defer a.Close()

		// Verify components are initialized
		assert.NotNil(t, a.Records())
		assert.NotNil(t, a.Index())
		assert.NotNil(t, a.Provider())
		assert.NotNil(t, a.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to create an assistant at a file path instead of a directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		provider, _ := newMockProvider()
		a, err := NewAssistant(tmpFile, WithProvider(provider))
		assert.Error(t, err)
		assert.Nil(t, a)
	})

	t.Run("missing index artifact is not an error", func(t *testing.T) {
		provider, _ := newMockProvider()
		a, err := NewAssistant("",
			WithInMemoryStorage(),
			WithProvider(provider),
			WithIndexDimension(testDimension),
			WithIndexPath(filepath.Join(t.TempDir(), "missing.idx")))
		require.NoError(t, err)
		defer a.Close()

		assert.Zero(t, a.Index().Len())
	})
}

func TestAssistant_Close(t *testing.T) {
	provider, _ := newMockProvider()
	a, err := NewAssistant(t.TempDir(), WithProvider(provider), WithIndexDimension(testDimension))
	require.NoError(t, err)
	require.NotNil(t, a)

	assert.NoError(t, a.Close())
}

func TestAssistant_FactoryMethods(t *testing.T) {
	a, _ := newTestAssistant(t)

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		pipeline, err := a.NewIngestionPipeline()
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("can create context builder", func(t *testing.T) {
		builder, err := a.NewContextBuilder()
		require.NoError(t, err)
		require.NotNil(t, builder)
	})
}

func TestAssistant_Ask_Personal(t *testing.T) {
	a, generator := newTestAssistant(t)
	ctx := context.Background()

	require.NoError(t, a.Records().CreateUser(ctx, &core.User{ID: "demo_user", Name: "Demo User", Age: 35}))
	_, err := a.Records().CreateMedication(ctx, &core.Medication{UserID: "demo_user", Name: "Metformin", Dosage: "500mg"})
	require.NoError(t, err)

	answer, err := a.Ask(ctx, "demo_user", "What medications am I taking?")
	require.NoError(t, err)
	assert.True(t, answer.Success)
	assert.NotEmpty(t, answer.Text)

	// The generator saw the formatted record context.
	assert.Contains(t, generator.LastContext, "USER MEDICATIONS")
	assert.Contains(t, generator.LastContext, "Metformin")
}

func TestAssistant_Ask_GenericUsesIndex(t *testing.T) {
	a, generator := newTestAssistant(t)
	ctx := context.Background()

	docs := []core.KnowledgeDocument{core.NewKnowledgeDocument(
		"What is high blood pressure?",
		"Blood pressure persistently above 130/80.",
		"NIH", "cardiology")}

	pipeline, err := a.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()
	require.NoError(t, pipeline.IngestDocuments(ctx, docs))
	require.Equal(t, 1, a.Index().Len())

	answer, err := a.Ask(ctx, "demo_user", "What is high blood pressure?")
	require.NoError(t, err)
	assert.True(t, answer.Success)

	assert.Contains(t, generator.LastContext, "MEDICAL KNOWLEDGE BASE")
	assert.Contains(t, generator.LastContext, "persistently above 130/80")
}

func TestAssistant_AskWithMonitor_ReturnsContext(t *testing.T) {
	a, _ := newTestAssistant(t)
	ctx := context.Background()

	require.NoError(t, a.Records().CreateUser(ctx, &core.User{ID: "demo_user", Name: "Demo User"}))

	answer, bctx, err := a.AskWithMonitor(ctx, "demo_user", "Do I have any appointments?", nil)
	require.NoError(t, err)
	require.NotNil(t, bctx)
	assert.True(t, answer.Success)
	assert.Equal(t, core.IntentPersonal, bctx.Intent)
}

func TestAssistant_Ask_DegradedAnswer(t *testing.T) {
	a, generator := newTestAssistant(t)
	generator.GenerateFunc = func(ctx context.Context, question, formattedContext string, intent core.Intent) core.Answer {
		return core.Answer{Text: "Sorry, an error occurred: model overloaded", Success: false}
	}

	answer, err := a.Ask(context.Background(), "demo_user", "What is asthma?")
	require.NoError(t, err)
	assert.False(t, answer.Success)
	assert.Contains(t, answer.Text, "Sorry, an error occurred")
}

func TestAssistant_IndexRoundTrip(t *testing.T) {
	artifact := filepath.Join(t.TempDir(), "knowledge.idx")
	ctx := context.Background()

	a, _ := newTestAssistant(t)
	docs := []core.KnowledgeDocument{
		core.NewKnowledgeDocument("What is asthma?", "A chronic airway disease.", "NIH", "pulmonology"),
		core.NewKnowledgeDocument("What is diabetes?", "A chronic metabolic disease.", "NIH", "endocrinology"),
	}
	pipeline, err := a.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()
	require.NoError(t, pipeline.IngestDocuments(ctx, docs))
	require.NoError(t, a.SaveIndex(artifact))

	reloaded, _ := newTestAssistant(t, WithIndexPath(artifact))
	assert.Equal(t, 2, reloaded.Index().Len())
}

func TestAssistant_BuilderOptions(t *testing.T) {
	a, _ := newTestAssistant(t, WithBuilderOptions(hybrid.WithRetrievalK(1)))
	ctx := context.Background()

	docs := []core.KnowledgeDocument{
		core.NewKnowledgeDocument("What is asthma?", "A chronic airway disease.", "NIH", "pulmonology"),
		core.NewKnowledgeDocument("What is diabetes?", "A chronic metabolic disease.", "NIH", "endocrinology"),
	}
	pipeline, err := a.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()
	require.NoError(t, pipeline.IngestDocuments(ctx, docs))

	_, bctx, err := a.AskWithMonitor(ctx, "demo_user", "What is asthma?", nil)
	require.NoError(t, err)
	assert.Len(t, bctx.Knowledge, 1)
}
