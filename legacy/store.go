package legacy

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

const (
	defaultSequenceBandwidth = 100
)

// Store provides access to the legacy BadgerDB document store. The backfill
// opens it read-only; the write path exists for seeding tooling and tests.
type Store struct {
	db       *badger.DB
	idSeq    *badger.Sequence
	readOnly bool
	logger   *slog.Logger
}

// StoreOption configures OpenStore.
type StoreOption func(*storeOptions)

type storeOptions struct {
	readOnly bool
	inMemory bool
	logger   *slog.Logger
}

// WithReadOnly opens the store in read-only mode. The database directory
// must already exist; writes return ErrReadOnly.
func WithReadOnly() StoreOption {
	return func(o *storeOptions) { o.readOnly = true }
}

// WithInMemory opens an ephemeral in-memory store. Intended for tests.
func WithInMemory() StoreOption {
	return func(o *storeOptions) { o.inMemory = true }
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) StoreOption {
	return func(o *storeOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenStore opens the legacy document store at the specified path.
// In writable mode the directory is created if it doesn't exist; in
// read-only mode it must already exist.
func OpenStore(filePath string, storeOpts ...StoreOption) (*Store, error) {
	cfg := storeOptions{logger: slog.Default()}
	for _, opt := range storeOpts {
		opt(&cfg)
	}
	if cfg.inMemory && cfg.readOnly {
		return nil, fmt.Errorf("%w: in-memory store cannot be read-only", ErrInvalidOptions)
	}

	var opts badger.Options
	if cfg.inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			if cfg.readOnly {
				return nil, fmt.Errorf("legacy store %s does not exist: %w", filePath, err)
			}
			if err := os.MkdirAll(filePath, 0755); err != nil {
				return nil, err
			}
			info, err = os.Stat(filePath)
			if err != nil {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
		if cfg.readOnly {
			opts = opts.WithReadOnly(true)
		}
	}

	opts.Logger = &badgerLoggerAdapter{logger: cfg.logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	s := &Store{
		db:       db,
		readOnly: cfg.readOnly,
		logger:   cfg.logger.With("component", "legacy-store"),
	}

	// Sequences write to the database, so a read-only store never opens one.
	if !cfg.readOnly {
		idSeq, err := db.GetSequence([]byte(documentIDSeq), defaultSequenceBandwidth)
		if err != nil {
			db.Close()
			return nil, err
		}
		s.idSeq = idSeq
	}

	return s, nil
}

// Close releases the id sequence and closes the database.
func (s *Store) Close() error {
	if s.idSeq != nil {
		if err := s.idSeq.Release(); err != nil {
			s.db.Close()
			return err
		}
	}
	return s.db.Close()
}

// withTx executes a function within a BadgerDB transaction.
// The transaction is automatically discarded if fn returns an error.
func (s *Store) withTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := s.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// Add inserts documents, assigning each a sequence id and content digest.
// Documents are updated in place.
func (s *Store) Add(ctx context.Context, docs ...*Document) error {
	if s.readOnly {
		return ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.withTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			if strings.TrimSpace(doc.Text) == "" {
				return ErrEmptyDocument
			}

			nextID, err := s.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = s.idSeq.Next()
				if err != nil {
					return err
				}
			}
			doc.Id = nextID
			doc.Digest = ContentDigest(doc.Text)

			if err := tx.Set(makeDocumentKey(doc.Id), MarshalDocument(doc)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Get retrieves a single document by id.
func (s *Store) Get(ctx context.Context, id uint64) (*Document, error) {
	var result *Document
	err := s.withTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			result, unmarshalErr = UnmarshalDocument(val)
			return unmarshalErr
		})
	}, false)
	return result, err
}

// ForEach scans all documents in ascending id order, invoking fn for each.
// Iteration stops on the first error from fn or when ctx is canceled.
// Documents whose stored digest does not match their text are still passed
// through, with a warning logged; the old tooling had a window where
// rewrites skipped the digest update.
func (s *Store) ForEach(ctx context.Context, fn func(*Document) error) error {
	return s.withTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = documentKeyRange()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var doc *Document
			err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				doc, unmarshalErr = UnmarshalDocument(val)
				return unmarshalErr
			})
			if err != nil {
				return err
			}

			if !VerifyDigest(doc) {
				s.logger.Warn("content digest mismatch", "id", doc.Id)
			}

			if err := fn(doc); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// Count returns the number of documents in the store.
func (s *Store) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.withTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = documentKeyRange()
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}
