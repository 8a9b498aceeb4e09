package index

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/poiesic/recollect/core"
)

// Options configures an index store.
type Options struct {
	// Lexical enables the full-text sub-index. When false, writes skip the
	// FTS table entirely; the table itself is still created so the schema
	// stays identical across runs with different settings.
	Lexical bool
}

// DefaultOptions returns the standard store configuration.
func DefaultOptions() Options {
	return Options{
		Lexical: true,
	}
}

// Store is the destination hybrid index: one SQLite file holding the
// relational exchange rows, the embedding vectors, and the full-text
// entries. The relational row is the source of truth for whether an
// exchange exists; the two sub-indexes are derived from it.
type Store struct {
	db      *sql.DB
	path    string
	lexical bool
}

// Open opens or creates the index database at path and ensures the schema
// exists.
func Open(path string, opts Options) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:      db,
		path:    path,
		lexical: opts.Lexical,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS exchanges (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			seq INTEGER NOT NULL,
			user_text TEXT NOT NULL DEFAULT '',
			agent_text TEXT NOT NULL DEFAULT '',
			combined_text TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exchanges_date_seq ON exchanges(date, seq)`,
		`CREATE TABLE IF NOT EXISTS exchange_vectors (
			exchange_id TEXT PRIMARY KEY,
			embedding BLOB NOT NULL
		)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS exchanges_fts USING fts5(
			exchange_id UNINDEXED,
			combined_text,
			tokenize='unicode61 remove_diacritics 2'
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	return nil
}

// TotalExchanges returns the number of exchange rows in the index.
func (s *Store) TotalExchanges(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exchanges`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting exchanges: %w", err)
	}
	return count, nil
}

// Stats holds per-sub-index row counts. On a consistent index Exchanges
// and Vectors match, and TextEntries matches too when lexical indexing
// is enabled.
type Stats struct {
	Exchanges   int
	Vectors     int
	TextEntries int
}

// Stats counts the rows in each sub-index.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	queries := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM exchanges`, &stats.Exchanges},
		{`SELECT COUNT(*) FROM exchange_vectors`, &stats.Vectors},
		{`SELECT COUNT(*) FROM exchanges_fts`, &stats.TextEntries},
	}

	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("counting index rows: %w", err)
		}
	}

	return stats, nil
}

// GetExchange retrieves a single exchange row by id. Returns ErrNotFound
// if no row exists.
func (s *Store) GetExchange(ctx context.Context, id string) (*core.Exchange, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, date, seq, user_text, agent_text, combined_text, metadata, created_at
		 FROM exchanges WHERE id = ?`, id)

	ex := &core.Exchange{}
	err := row.Scan(&ex.Id, &ex.Date, &ex.Seq, &ex.UserText, &ex.AgentText,
		&ex.CombinedText, &ex.Metadata, &ex.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning exchange row: %w", err)
	}
	return ex, nil
}

// GetEmbedding retrieves the stored vector for an exchange. Returns
// ErrNotFound if no vector entry exists.
func (s *Store) GetEmbedding(ctx context.Context, id string) ([]float32, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT embedding FROM exchange_vectors WHERE exchange_id = ?`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning vector row: %w", err)
	}
	return bytesToFloat32Slice(blob), nil
}

// float32SliceToBytes converts a float32 slice to little-endian bytes for
// BLOB storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts little-endian bytes back to a float32 slice.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
