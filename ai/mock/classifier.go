package mock

import (
	"context"

	"github.com/poiesic/healthmate/ai"
	"github.com/poiesic/healthmate/core"
)

// MockClassifier is a test double for ai.QueryClassifier.
// It allows custom behavior injection via function fields.
type MockClassifier struct {
	// ClassifyFunc is called by Classify if set.
	// If nil, delegates to the deterministic keyword fallback.
	ClassifyFunc func(ctx context.Context, question string) (core.Classification, error)

	callCount int
}

// NewMockClassifier creates a mock classifier with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockClassifier().
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// Classify classifies the question. Default behavior is the keyword fallback,
// which keeps mock classifications consistent with the production degradation path.
func (m *MockClassifier) Classify(ctx context.Context, question string) (core.Classification, error) {
	m.callCount++

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, question)
	}

	return ai.FallbackClassify(question), nil
}

// CallCount returns the number of times Classify was called.
func (m *MockClassifier) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockClassifier) Reset() {
	m.callCount = 0
	m.ClassifyFunc = nil
}
