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


package openai

import (
	"context"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/healthmate/ai"
	"github.com/poiesic/healthmate/core"
)

// generation parameters for answer synthesis. Unlike classification, answers
// benefit from some sampling variety.
const (
	generatorTemperature = 0.7
	generatorMaxTokens   = 800
)

// ResponseGenerator implements ai.ResponseGenerator using OpenAI-compatible chat APIs.
type ResponseGenerator struct {
	client  llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

// newResponseGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newResponseGenerator(config *ai.Config) (*ResponseGenerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken("none"),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &ResponseGenerator{
		client:  client,
		timeout: config.RequestTimeout,
		logger:  slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewResponseGenerator creates a new response generator using the provided configuration.
//
// Returns ai.ResponseGenerator interface to enforce abstraction.
func NewResponseGenerator(config *ai.Config) (ai.ResponseGenerator, error) {
	return newResponseGenerator(config)
}

// Generate synthesizes an answer from the question and its formatted context.
// The intent selects the system prompt the model answers under. Failures are
// absorbed into a degraded Answer with Success false; Generate never fails hard.
func (g *ResponseGenerator) Generate(ctx context.Context, question, formattedContext string, intent core.Intent) core.Answer {
	userPrompt := "Context:\n" + formattedContext +
		"\n\nUser Question: " + question +
		"\n\nPlease answer this question using the context provided above."

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(generatorSystemPrompt(intent))},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(userPrompt)},
		},
	}

	// A hung model call becomes a degraded answer, not a stuck pipeline.
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := g.client.GenerateContent(callCtx, content,
		llms.WithTemperature(generatorTemperature),
		llms.WithMaxTokens(generatorMaxTokens))
	if err != nil {
		g.logger.Error("answer generation failed", "intent", intent, "err", err)
		return core.Answer{
			Text:    "Sorry, an error occurred: " + err.Error(),
			Success: false,
		}
	}
	if len(response.Choices) < 1 {
		g.logger.Error("generator returned no choices", "intent", intent)
		return core.Answer{
			Text:    "Sorry, an error occurred: the model returned no answer",
			Success: false,
		}
	}

	return core.Answer{Text: response.Choices[0].Content, Success: true}
}
