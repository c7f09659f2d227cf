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


package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/healthmate"
	"github.com/poiesic/healthmate/ai"
	"github.com/poiesic/healthmate/config"
	"github.com/poiesic/healthmate/hybrid"
	"github.com/poiesic/healthmate/ingestion"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "healthmate",
		Usage: "Personal health assistant with hybrid record and knowledge retrieval",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   "config.yaml",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Build the knowledge index from a medical Q&A corpus CSV",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "corpus",
						Usage:    "Path to the corpus CSV (question,answer[,source,focus_area])",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to embed in each batch",
						Value: 64,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent embedding workers",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Answer a question, or start an interactive session when no question is given",
				ArgsUsage: "[question]",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "user",
						Aliases: []string{"u"},
						Usage:   "User whose health records inform the answer (defaults to the configured user)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads the configured YAML file, falling back to defaults when
// the default path does not exist. An explicitly named file must exist.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !c.IsSet("config") {
			return config.Default(), nil
		}
		return nil, err
	}
	return config.Load(path)
}

func openAssistant(cfg *config.Config, extra ...healthmate.AssistantOption) (*healthmate.Assistant, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(cfg.AI.Host),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithClassifierModel(cfg.AI.ClassifierModel),
		ai.WithGeneratorModel(cfg.AI.GeneratorModel),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	builderOpts := []hybrid.Option{hybrid.WithRetrievalK(cfg.Assistant.RetrievalK)}
	if cfg.Assistant.ScoreThreshold > 0 {
		builderOpts = append(builderOpts, hybrid.WithScoreThreshold(cfg.Assistant.ScoreThreshold))
	}

	opts := []healthmate.AssistantOption{
		healthmate.WithAIConfig(aiConfig),
		healthmate.WithIndexDimension(cfg.Index.Dimension),
		healthmate.WithIndexPath(cfg.Index.Path),
		healthmate.WithBuilderOptions(builderOpts...),
	}
	opts = append(opts, extra...)
	return healthmate.NewAssistant(cfg.DataDir, opts...)
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	assistant, err := openAssistant(cfg)
	if err != nil {
		return fmt.Errorf("failed to open assistant: %w", err)
	}
	defer assistant.Close()

	var pipelineOpts []ingestion.Option
	if c.Int("batch-size") > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithBatchSize(c.Int("batch-size")))
	}
	if c.Int("pool-size") > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(c.Int("pool-size")))
	}

	pipeline, err := assistant.NewIngestionPipeline(pipelineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	count, err := pipeline.IngestCorpusFile(ctx, c.String("corpus"))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if err := assistant.SaveIndex(cfg.Index.Path); err != nil {
		return fmt.Errorf("failed to save index: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Indexed %d documents (%d total) into %s\n",
		count, assistant.Index().Len(), cfg.Index.Path)
	return nil
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	userID := c.String("user")
	if userID == "" {
		userID = cfg.Assistant.UserID
	}

	assistant, err := openAssistant(cfg)
	if err != nil {
		return fmt.Errorf("failed to open assistant: %w", err)
	}
	defer assistant.Close()

	if c.Args().Present() {
		question := strings.Join(c.Args().Slice(), " ")
		answer, err := assistant.Ask(ctx, userID, question)
		if err != nil {
			return err
		}
		fmt.Println(answer.Text)
		return nil
	}

	return interactiveSession(ctx, assistant, userID)
}

// interactiveSession reads questions from stdin until EOF or a quit command.
func interactiveSession(ctx context.Context, assistant *healthmate.Assistant, userID string) error {
	fmt.Println("Ask a health question (type 'quit' to exit).")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "quit" || question == "exit" {
			return nil
		}

		answer, err := assistant.Ask(ctx, userID, question)
		if err != nil {
			return err
		}
		fmt.Printf("Assistant: %s\n\n", answer.Text)
	}
}
