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
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/recollect/ai"
	"github.com/poiesic/recollect/ai/openai"
	"github.com/poiesic/recollect/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:   "recollect-migrate",
		Usage:  "Backfill legacy documents into the recollect archives and index",
		Before: setupLogger,
		Action: migrateCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "legacy-db",
				Usage:    "Path to the legacy BadgerDB directory (opened read-only)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Destination data directory for archives and the index",
				Value: defaultDataDir(),
			},
			&cli.StringFlag{
				Name:     "fallback-date",
				Usage:    "Date (YYYY-MM-DD) for records without a parseable timestamp",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "exclude-type",
				Usage: "Display type to skip (repeatable; default: system, scratch)",
			},
			&cli.IntFlag{
				Name:  "chunk-threshold",
				Usage: "Text length above which documents are chunked",
				Value: migrate.DefaultChunkThreshold,
			},
			&cli.IntFlag{
				Name:  "chunk-target",
				Usage: "Length each chunk aims for",
				Value: migrate.DefaultChunkTarget,
			},
			&cli.DurationFlag{
				Name:  "date-pause",
				Usage: "Pause between date batches",
				Value: 500 * time.Millisecond,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Report what would be migrated without writing anything",
			},
			&cli.BoolFlag{
				Name:  "no-lexical",
				Usage: "Skip the full-text sub-index",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL",
				Value: "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:     "embedding-model",
				Usage:    "Embedding model name",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "report-interval",
				Usage: "Report progress every N records",
				Value: 25,
			},
			&cli.IntFlag{
				Name:  "max-retries",
				Usage: "Maximum retry attempts for embedding calls",
				Value: 3,
			},
			&cli.DurationFlag{
				Name:  "retry-delay",
				Usage: "Base delay for exponential backoff",
				Value: 1 * time.Second,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func migrateCommand(c *cli.Context) error {
	ctx := context.Background()

	// Create AI config
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)

	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	// Create embedder
	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	// Create migration config
	config := migrate.DefaultConfig()
	config.LegacyPath = c.String("legacy-db")
	config.DataDir = c.String("data-dir")
	config.FallbackDate = c.String("fallback-date")
	if types := c.StringSlice("exclude-type"); len(types) > 0 {
		config.ExcludeTypes = types
	}
	config.ChunkThreshold = c.Int("chunk-threshold")
	config.ChunkTarget = c.Int("chunk-target")
	config.DatePause = c.Duration("date-pause")
	config.DryRun = c.Bool("dry-run")
	config.Lexical = !c.Bool("no-lexical")
	config.ReportInterval = c.Int("report-interval")
	config.MaxRetries = c.Int("max-retries")
	config.RetryDelay = c.Duration("retry-delay")

	// Validate config
	if err := config.Validate(); err != nil {
		return err
	}
	if config.ChunkThreshold <= 0 {
		return fmt.Errorf("chunk-threshold must be greater than 0")
	}
	if config.ChunkTarget <= 0 {
		return fmt.Errorf("chunk-target must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	// Create migrator
	migrator := migrate.NewMigrator(embedder, config, os.Stderr)

	// Run migration
	fmt.Fprintf(os.Stderr, "Legacy store: %s\n", config.LegacyPath)
	fmt.Fprintf(os.Stderr, "Data directory: %s\n", config.DataDir)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	if config.DryRun {
		fmt.Fprintln(os.Stderr, "Dry run: nothing will be written")
	}
	fmt.Fprintln(os.Stderr)

	report, err := migrator.Run(ctx)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintln(os.Stderr)
	report.Print(os.Stdout)

	return nil
}

// defaultDataDir returns ~/.recollect, falling back to a relative path
// when the home directory cannot be resolved.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".recollect"
	}
	return filepath.Join(home, ".recollect")
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
