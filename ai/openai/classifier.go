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
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/healthmate/ai"
	"github.com/poiesic/healthmate/core"
)

// QueryClassifier implements ai.QueryClassifier using OpenAI-compatible chat APIs.
// Every failure path degrades to the deterministic keyword fallback; only
// context cancellation surfaces as an error.
type QueryClassifier struct {
	client  llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

// classification is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type classification struct {
	Intent       string `json:"intent"`
	RequiredData struct {
		Appointments bool `json:"appointments"`
		Medications  bool `json:"medications"`
		Conditions   bool `json:"conditions"`
		TestResults  bool `json:"test_results"`
	} `json:"required_data"`
}

// newQueryClassifier is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newQueryClassifier(config *ai.Config) (*QueryClassifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken("none"),
		openai.WithModel(config.ClassifierModel),
	)
	if err != nil {
		return nil, err
	}

	return &QueryClassifier{
		client:  client,
		timeout: config.RequestTimeout,
		logger:  slog.Default().With("component", "openai-classifier"),
	}, nil
}

// generate runs one model call under the per-call timeout. Expiry surfaces
// as a call error, which Classify absorbs into the keyword fallback; only
// cancellation of the caller's own context propagates.
func (c *QueryClassifier) generate(ctx context.Context, content []llms.MessageContent) (*llms.ContentResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.GenerateContent(callCtx, content,
		llms.WithTemperature(0.0), llms.WithJSONMode())
}

// NewQueryClassifier creates a new query classifier using the provided configuration.
//
// Returns ai.QueryClassifier interface to enforce abstraction.
func NewQueryClassifier(config *ai.Config) (ai.QueryClassifier, error) {
	return newQueryClassifier(config)
}

// Classify determines the question's intent and required data categories.
// The LLM is asked for strict JSON at temperature 0; malformed responses are
// retried up to 3 times, and any remaining failure falls back to keyword
// classification.
func (c *QueryClassifier) Classify(ctx context.Context, question string) (core.Classification, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(classifierSystemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart("Question: " + question)},
		},
	}

	var result classification
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := c.generate(ctx, content)
		if err != nil {
			if ctx.Err() != nil {
				return core.Classification{}, ctx.Err()
			}
			c.logger.Warn("classifier model call failed, using keyword fallback",
				"attempt", attempt+1, "err", err)
			return ai.FallbackClassify(question), nil
		}

		if len(response.Choices) < 1 {
			c.logger.Warn("classifier returned no choices, using keyword fallback")
			return ai.FallbackClassify(question), nil
		}

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(response.Choices[0].Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			c.logger.Warn("error parsing classifier response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}
	if lastErr != nil {
		c.logger.Warn("classifier JSON unparseable after retries, using keyword fallback", "err", lastErr)
		return ai.FallbackClassify(question), nil
	}

	intent, err := core.ParseIntent(result.Intent)
	if err != nil {
		c.logger.Warn("classifier returned unknown intent, using keyword fallback",
			"intent", result.Intent)
		return ai.FallbackClassify(question), nil
	}

	classified := core.Classification{
		Intent: intent,
		Required: core.RequiredData{
			Appointments: result.RequiredData.Appointments,
			Medications:  result.RequiredData.Medications,
			Conditions:   result.RequiredData.Conditions,
			TestResults:  result.RequiredData.TestResults,
		},
	}
	c.logger.Debug("question classified",
		"intent", classified.Intent,
		"appointments", classified.Required.Appointments,
		"medications", classified.Required.Medications,
		"conditions", classified.Required.Conditions,
		"testResults", classified.Required.TestResults)
	return classified, nil
}
