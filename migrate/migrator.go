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


package migrate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/poiesic/recollect/ai"
	"github.com/poiesic/recollect/archive"
	"github.com/poiesic/recollect/core"
	"github.com/poiesic/recollect/index"
	"github.com/poiesic/recollect/legacy"
)

// Layout of the destination data directory.
const (
	archiveDirName = "archives"
	indexFileName  = "recollect.db"
)

// Config holds configuration for a migration run.
type Config struct {
	// LegacyPath is the legacy store directory, opened read-only.
	LegacyPath string

	// DataDir is the destination data directory. Archives live under
	// DataDir/archives, the index database at DataDir/recollect.db.
	DataDir string

	// FallbackDate buckets records whose timestamp cannot be parsed.
	// Required, YYYY-MM-DD.
	FallbackDate string

	// ExcludeTypes lists display types dropped by the filter stage.
	ExcludeTypes []string

	// ChunkThreshold is the text length above which documents are chunked.
	ChunkThreshold int

	// ChunkTarget is the length each chunk aims for.
	ChunkTarget int

	// DatePause is the pause between date batches, bounding load on the
	// embedding service.
	DatePause time.Duration

	// DryRun previews the run without writing archives or the index.
	DryRun bool

	// Lexical enables the full-text sub-index.
	Lexical bool

	// ReportInterval is how often to report progress (number of records).
	ReportInterval int

	// MaxRetries is the maximum number of attempts per embedding call.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff.
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults. LegacyPath,
// DataDir and FallbackDate have no defaults and must be set by the caller.
func DefaultConfig() *Config {
	return &Config{
		ExcludeTypes:   DefaultExcludedTypes,
		ChunkThreshold: DefaultChunkThreshold,
		ChunkTarget:    DefaultChunkTarget,
		DatePause:      500 * time.Millisecond,
		Lexical:        true,
		ReportInterval: 25,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	if c.LegacyPath == "" {
		return ErrMissingLegacyPath
	}
	if c.DataDir == "" {
		return ErrMissingDataDir
	}
	if !core.IsValidDate(c.FallbackDate) {
		return ErrInvalidFallbackDate
	}
	return nil
}

// Migrator orchestrates the one-time backfill from the legacy store into
// the per-date archives and the hybrid index.
type Migrator struct {
	embedder ai.Embedder
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// NewMigrator creates a new migrator.
// progress: where to write console progress output (typically os.Stderr)
func NewMigrator(embedder ai.Embedder, config *Config, progress io.Writer) *Migrator {
	if config == nil {
		config = DefaultConfig()
	}

	return &Migrator{
		embedder: embedder,
		config:   config,
		progress: progress,
		logger:   slog.Default().With("component", "migrator"),
	}
}

// Run executes the migration: scan the legacy store, filter and dedup,
// bucket by date, chunk oversized documents, merge into the per-date
// archives, then embed and index every formational message date by date.
// Per-record failures are counted and logged but never abort the run; the
// returned report separates them from deliberate skips.
func (m *Migrator) Run(ctx context.Context) (*Report, error) {
	if err := m.config.Validate(); err != nil {
		return nil, err
	}

	report := NewReport()
	report.DryRun = m.config.DryRun

	records, err := m.scanLegacy(ctx)
	if err != nil {
		return nil, err
	}
	report.TotalRead = len(records)
	fmt.Fprintf(m.progress, "Read %d documents from legacy store\n", len(records))

	filtered := FilterDocuments(records, m.config.ExcludeTypes)
	report.Filtered = filtered.Excluded + filtered.EmptyText
	report.TypeCounts = filtered.TypeCounts

	deduped := Dedup(filtered.Documents)
	report.Duplicates = deduped.Duplicates

	groups, fallbacks := GroupByDate(deduped.Documents, m.config.FallbackDate)
	report.FallbackDated = fallbacks
	if fallbacks > 0 {
		m.logger.Warn("records without parseable timestamps use the fallback date",
			"count", fallbacks, "fallbackDate", m.config.FallbackDate)
	}

	fmt.Fprintf(m.progress, "Prepared %d documents across %d dates\n",
		len(deduped.Documents), len(groups))

	days, err := m.mergeArchives(groups, report)
	if err != nil {
		return nil, err
	}
	dates := slices.Sorted(maps.Keys(days))

	if m.config.DryRun {
		for _, date := range dates {
			report.DateCounts[date] = countFormational(days[date])
		}
		return report, nil
	}

	if err := m.saveArchives(dates, days); err != nil {
		return nil, err
	}

	if err := m.indexMessages(ctx, dates, days, report); err != nil {
		return nil, err
	}

	return report, nil
}

// scanLegacy reads every document from the read-only legacy store.
func (m *Migrator) scanLegacy(ctx context.Context) ([]*legacy.Document, error) {
	store, err := legacy.OpenStore(m.config.LegacyPath, legacy.WithReadOnly())
	if err != nil {
		return nil, fmt.Errorf("opening legacy store: %w", err)
	}
	defer store.Close()

	var records []*legacy.Document
	err = store.ForEach(ctx, func(doc *legacy.Document) error {
		records = append(records, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning legacy store: %w", err)
	}
	return records, nil
}

// mergeArchives builds each date's messages and merges them into any
// existing archive for that date. A corrupt archive file is treated as
// absent rather than blocking the run. In dry-run mode existing archives
// are still read (when present) so the preview counts are accurate, but
// nothing is created on disk.
func (m *Migrator) mergeArchives(groups map[string][]DatedDocument, report *Report) (map[string]*archive.DayArchive, error) {
	archiveDir := filepath.Join(m.config.DataDir, archiveDirName)

	var store *archive.Store
	if !m.config.DryRun || dirExists(archiveDir) {
		var err error
		store, err = archive.NewStore(archiveDir)
		if err != nil {
			return nil, fmt.Errorf("opening archive store: %w", err)
		}
	}

	days := make(map[string]*archive.DayArchive, len(groups))
	for date, docs := range groups {
		messages, chunked := m.buildMessages(docs)
		report.ChunkedDocs += chunked

		var existing *archive.DayArchive
		if store != nil {
			var err error
			existing, err = store.Load(date)
			if err != nil {
				var corrupt *archive.CorruptError
				if !errors.As(err, &corrupt) {
					return nil, fmt.Errorf("loading archive for %s: %w", date, err)
				}
				m.logger.Warn("unreadable archive, starting fresh", "date", date, "err", err)
				existing = nil
			}
		}

		day, added := archive.Merge(existing, date, messages)
		days[date] = day
		m.logger.Info("merged archive", "date", date, "added", added, "total", day.MessageCount)
	}

	return days, nil
}

// buildMessages converts one date's documents into archive messages,
// chunking oversized bodies. Chunks inherit the parent timestamp; the
// merge sort is stable, so they keep their order.
func (m *Migrator) buildMessages(docs []DatedDocument) ([]archive.Message, int) {
	var messages []archive.Message
	chunked := 0

	for _, doc := range docs {
		prov := archive.Provenance{
			Source:           archive.SourceFormational,
			OriginalType:     doc.DisplayType,
			LegacyId:         doc.LegacyId,
			LowWeightVariant: doc.LowWeight,
		}

		if len(doc.Text) > m.config.ChunkThreshold {
			chunks := ChunkText(doc.Text, m.config.ChunkTarget)
			if len(chunks) > 1 {
				chunked++
				for i, chunk := range chunks {
					p := prov
					p.Chunked = true
					p.ChunkIndex = i
					p.TotalChunks = len(chunks)
					messages = append(messages, archive.Message{
						Timestamp:  doc.Timestamp,
						Sender:     archive.SenderAssistant,
						Text:       chunk,
						Provenance: &p,
					})
				}
				continue
			}
		}

		messages = append(messages, archive.Message{
			Timestamp:  doc.Timestamp,
			Sender:     archive.SenderAssistant,
			Text:       doc.Text,
			Provenance: &prov,
		})
	}

	return messages, chunked
}

// saveArchives persists every merged day archive.
func (m *Migrator) saveArchives(dates []string, days map[string]*archive.DayArchive) error {
	store, err := archive.NewStore(filepath.Join(m.config.DataDir, archiveDirName))
	if err != nil {
		return fmt.Errorf("opening archive store: %w", err)
	}

	for _, date := range dates {
		if err := store.Save(days[date]); err != nil {
			return fmt.Errorf("saving archive for %s: %w", date, err)
		}
	}

	fmt.Fprintf(m.progress, "Wrote %d archive files\n", len(dates))
	return nil
}

// indexMessages embeds and fan-out writes every formational message, date
// by date in ascending order, pausing between dates.
func (m *Migrator) indexMessages(ctx context.Context, dates []string, days map[string]*archive.DayArchive, report *Report) error {
	idx, err := index.Open(filepath.Join(m.config.DataDir, indexFileName), index.Options{
		Lexical: m.config.Lexical,
	})
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer idx.Close()

	total := 0
	for _, date := range dates {
		total += countFormational(days[date])
	}

	if total > 0 {
		fmt.Fprintf(m.progress, "Indexing %d messages across %d dates\n", total, len(dates))

		tracker := NewProgressTracker(m.progress, total, m.config.ReportInterval)
		tracker.Start()
		processed := 0

		for i, date := range dates {
			day := days[date]
			tracker.SetDate(date)
			for position := range day.Messages {
				msg := &day.Messages[position]
				if !msg.IsFormational() {
					continue
				}

				m.indexOne(ctx, idx, date, position, msg, report)
				if ctx.Err() != nil {
					return ctx.Err()
				}

				processed++
				tracker.Update(processed)
			}

			if i < len(dates)-1 && m.config.DatePause > 0 {
				if err := sleepCtx(ctx, m.config.DatePause); err != nil {
					return err
				}
			}
		}

		tracker.Finish()

		elapsed := tracker.Elapsed()
		fmt.Fprintf(m.progress, "Migration complete. Processed %d messages in %v (%.1f records/sec)\n",
			total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())
	} else {
		fmt.Fprintf(m.progress, "No new messages to index\n")
	}

	corpus, err := idx.TotalExchanges(ctx)
	if err != nil {
		return fmt.Errorf("querying corpus size: %w", err)
	}
	report.CorpusSize = corpus

	stats, err := idx.Stats(ctx)
	if err != nil {
		return fmt.Errorf("querying index stats: %w", err)
	}
	report.Vectors = stats.Vectors
	report.TextEntries = stats.TextEntries

	return nil
}

// indexOne embeds and writes a single message. Failures are counted on
// the report, never propagated: a multi-thousand-record run must keep
// moving past a handful of bad records.
func (m *Migrator) indexOne(ctx context.Context, idx *index.Store, date string, position int, msg *archive.Message, report *Report) {
	ex := exchangeFromMessage(date, position, msg)

	vec, err := m.embedText(ctx, msg.Text)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.logger.Error("embedding failed, skipping record", "id", ex.Id, "err", err)
		report.Errors++
		return
	}

	status, err := idx.WriteExchange(ctx, ex, NormalizeVector(vec))
	switch {
	case err != nil:
		if ctx.Err() != nil {
			return
		}
		m.logger.Error("index write failed", "id", ex.Id, "err", err)
		report.Errors++
	case status == core.WriteStatusSkipped:
		report.AlreadyPresent++
	default:
		report.Indexed++
		report.DateCounts[date]++
	}
}

// embedText obtains an embedding, retrying transient failures. An empty
// vector is permanent: the service answered, more attempts will not help.
func (m *Migrator) embedText(ctx context.Context, text string) ([]float32, error) {
	var embedding []float32
	err := RetryWithBackoff(ctx, func() error {
		vec, err := m.embedder.EmbedText(ctx, text)
		if err != nil {
			return err
		}
		if len(vec) == 0 {
			return Permanent(ErrEmptyEmbedding)
		}
		embedding = vec
		return nil
	}, m.config.MaxRetries, m.config.RetryDelay)
	if err != nil {
		return nil, err
	}
	return embedding, nil
}

// exchangeFromMessage builds the indexable exchange for the message at
// the given position in its date's sorted archive.
func exchangeFromMessage(date string, position int, msg *archive.Message) *core.Exchange {
	id := index.FormationalID(date, position)
	metadata := "{}"

	if p := msg.Provenance; p != nil {
		if p.Chunked {
			id = index.FormationalChunkID(date, position, p.ChunkIndex)
		}
		if raw, err := json.Marshal(p); err == nil {
			metadata = string(raw)
		}
	}

	return &core.Exchange{
		Id:           id,
		Date:         date,
		Seq:          index.BackfillSeq(position),
		AgentText:    msg.Text,
		CombinedText: msg.Text,
		Metadata:     metadata,
		CreatedAt:    msg.Timestamp,
	}
}

func countFormational(day *archive.DayArchive) int {
	count := 0
	for i := range day.Messages {
		if day.Messages[i].IsFormational() {
			count++
		}
	}
	return count
}

// sleepCtx pauses between date batches, honoring cancellation.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
