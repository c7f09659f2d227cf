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

// Package config loads the assistant's YAML configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	// DataDir is where the record store and index artifacts live.
	DataDir string `yaml:"data_dir"`

	Index     IndexConfig     `yaml:"index"`
	AI        AIConfig        `yaml:"ai"`
	Assistant AssistantConfig `yaml:"assistant"`
}

// IndexConfig configures the document vector index.
type IndexConfig struct {
	// Path is the vector artifact location, relative paths resolve against
	// the working directory. The JSON sidecar lives at Path + ".json".
	Path string `yaml:"path"`

	// Dimension must match the embedding model's output size.
	Dimension int `yaml:"dimension"`
}

// AIConfig configures the AI services.
type AIConfig struct {
	// Host is the OpenAI-compatible base URL shared by all services.
	Host string `yaml:"host"`

	EmbeddingModel  string `yaml:"embedding_model"`
	ClassifierModel string `yaml:"classifier_model"`
	GeneratorModel  string `yaml:"generator_model"`
}

// AssistantConfig configures question answering.
type AssistantConfig struct {
	// UserID is the identity personal records are read for.
	UserID string `yaml:"user_id"`

	// RetrievalK is how many knowledge documents each search pulls in.
	RetrievalK int `yaml:"retrieval_k"`

	// ScoreThreshold filters retrieved documents by relevance when > 0.
	ScoreThreshold float32 `yaml:"score_threshold"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		DataDir: "data",
		Index: IndexConfig{
			Path:      "data/knowledge.idx",
			Dimension: 384,
		},
		AI: AIConfig{
			Host:            "http://localhost:11434/v1",
			EmbeddingModel:  "embeddinggemma",
			ClassifierModel: "qwen2.5:3b",
			GeneratorModel:  "qwen2.5:7b",
		},
		Assistant: AssistantConfig{
			UserID:     "demo_user",
			RetrievalK: 3,
		},
	}
}

// Load reads a YAML configuration file over the defaults, so a file only
// needs to name the settings it changes.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir is required")
	}
	if c.Index.Dimension <= 0 {
		return fmt.Errorf("config: index.dimension must be positive")
	}
	if c.Assistant.UserID == "" {
		return fmt.Errorf("config: assistant.user_id is required")
	}
	if c.Assistant.RetrievalK <= 0 {
		return fmt.Errorf("config: assistant.retrieval_k must be positive")
	}
	return nil
}
