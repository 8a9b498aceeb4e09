package main

import (
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/recollect/migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// newTestApp mirrors the app wired up in main.
func newTestApp() *cli.App {
	return &cli.App{
		Name:   "recollect-migrate",
		Usage:  "Backfill legacy documents into the recollect archives and index",
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
		},
	}
}

func TestMigrateFlags(t *testing.T) {
	t.Run("legacy-db is required", func(t *testing.T) {
		args := []string{"recollect-migrate", "--fallback-date", "2024-01-15", "--embedding-model", "test-model"}
		err := newTestApp().Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "legacy-db")
	})

	t.Run("fallback-date is required", func(t *testing.T) {
		args := []string{"recollect-migrate", "--legacy-db", "/tmp/test", "--embedding-model", "test-model"}
		err := newTestApp().Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fallback-date")
	})

	t.Run("embedding-model is required", func(t *testing.T) {
		args := []string{"recollect-migrate", "--legacy-db", "/tmp/test", "--fallback-date", "2024-01-15"}
		err := newTestApp().Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "embedding-model")
	})

	t.Run("data-dir has a home-relative default", func(t *testing.T) {
		app := newTestApp()
		var dirFlag *cli.StringFlag
		for _, flag := range app.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "data-dir" {
				dirFlag = f
				break
			}
		}
		require.NotNil(t, dirFlag)
		assert.True(t, strings.HasSuffix(dirFlag.Value, ".recollect"))
	})

	t.Run("embedding-host has default value", func(t *testing.T) {
		app := newTestApp()
		var hostFlag *cli.StringFlag
		for _, flag := range app.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "embedding-host" {
				hostFlag = f
				break
			}
		}
		require.NotNil(t, hostFlag)
		assert.Equal(t, "http://localhost:11434/v1", hostFlag.Value)
	})

	t.Run("chunk flags default to the pipeline constants", func(t *testing.T) {
		app := newTestApp()
		defaults := map[string]int{}
		for _, flag := range app.Flags {
			if f, ok := flag.(*cli.IntFlag); ok {
				defaults[f.Name] = f.Value
			}
		}
		assert.Equal(t, migrate.DefaultChunkThreshold, defaults["chunk-threshold"])
		assert.Equal(t, migrate.DefaultChunkTarget, defaults["chunk-target"])
		assert.Equal(t, 25, defaults["report-interval"])
		assert.Equal(t, 3, defaults["max-retries"])
	})

	t.Run("date-pause has default value of 500ms", func(t *testing.T) {
		app := newTestApp()
		var pauseFlag *cli.DurationFlag
		for _, flag := range app.Flags {
			if f, ok := flag.(*cli.DurationFlag); ok && f.Name == "date-pause" {
				pauseFlag = f
				break
			}
		}
		require.NotNil(t, pauseFlag)
		assert.Equal(t, 500*time.Millisecond, pauseFlag.Value)
	})

	t.Run("dry-run and no-lexical default to false", func(t *testing.T) {
		app := newTestApp()
		for _, flag := range app.Flags {
			if f, ok := flag.(*cli.BoolFlag); ok {
				assert.False(t, f.Value, "%s should default to false", f.Name)
			}
		}
	})
}

func TestMigrateValidation(t *testing.T) {
	baseArgs := func(extra ...string) []string {
		args := []string{
			"recollect-migrate",
			"--legacy-db", "/tmp/test",
			"--embedding-model", "test-model",
			"--fallback-date", "2024-01-15",
		}
		return append(args, extra...)
	}

	t.Run("malformed fallback-date fails before any work", func(t *testing.T) {
		args := []string{
			"recollect-migrate",
			"--legacy-db", "/tmp/test",
			"--embedding-model", "test-model",
			"--fallback-date", "15-01-2024",
		}
		err := newTestApp().Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fallback date")
	})

	t.Run("zero chunk-threshold fails", func(t *testing.T) {
		err := newTestApp().Run(baseArgs("--chunk-threshold", "0"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chunk-threshold")
	})

	t.Run("zero chunk-target fails", func(t *testing.T) {
		err := newTestApp().Run(baseArgs("--chunk-target", "0"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chunk-target")
	})

	t.Run("zero report-interval fails", func(t *testing.T) {
		err := newTestApp().Run(baseArgs("--report-interval", "0"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "report-interval")
	})

	t.Run("zero max-retries fails", func(t *testing.T) {
		err := newTestApp().Run(baseArgs("--max-retries", "0"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max-retries")
	})
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: tc.input,
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		testCases := []string{
			"DEBUG",
			"Info",
			"WaRn",
			"ERROR",
		}

		for _, tc := range testCases {
			t.Run(tc, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}

		err := app.Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
		assert.Contains(t, err.Error(), "invalid")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				level := c.String("log-level")
				assert.Equal(t, "debug", level)
				return nil
			},
		}

		err := app.Run([]string{"test", "-l", "debug"})
		require.NoError(t, err)
	})
}

func TestMain(m *testing.M) {
	// Run tests
	code := m.Run()
	os.Exit(code)
}
