package mock

import (
	"context"

	"github.com/poiesic/healthmate/core"
)

// MockGenerator is a test double for ai.ResponseGenerator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, uses default canned behavior.
	GenerateFunc func(ctx context.Context, question, formattedContext string, intent core.Intent) core.Answer

	// LastContext records the formatted context of the most recent call, so
	// tests can assert on what the generator was shown.
	LastContext string

	callCount int
}

// NewMockGenerator creates a mock generator with default canned behavior.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate returns a canned successful answer echoing the intent.
func (m *MockGenerator) Generate(ctx context.Context, question, formattedContext string, intent core.Intent) core.Answer {
	m.callCount++
	m.LastContext = formattedContext

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, question, formattedContext, intent)
	}

	return core.Answer{
		Text:    "mock answer (" + string(intent) + ")",
		Success: true,
	}
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count, recorded context, and custom functions.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.LastContext = ""
	m.GenerateFunc = nil
}
