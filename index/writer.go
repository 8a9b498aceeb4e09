package index

import (
	"context"
	"fmt"

	"github.com/poiesic/recollect/core"
)

// WriteExchange writes one exchange to all enabled sub-indexes in a single
// transaction. The vector and full-text entries are replaced
// unconditionally; the relational row is inserted only if absent. An
// existing row reports WriteStatusSkipped, which also heals any partial
// state left by an interrupted earlier run: the sub-index entries have
// been refreshed by the time the row check runs.
func (s *Store) WriteExchange(ctx context.Context, ex *core.Exchange, embedding []float32) (core.WriteStatus, error) {
	if err := core.ValidateExchange(ex); err != nil {
		return 0, err
	}
	if len(embedding) == 0 {
		return 0, ErrEmptyEmbedding
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM exchange_vectors WHERE exchange_id = ?`, ex.Id); err != nil {
		return 0, fmt.Errorf("clearing vector entry: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO exchange_vectors (exchange_id, embedding) VALUES (?, ?)`,
		ex.Id, float32SliceToBytes(embedding)); err != nil {
		return 0, fmt.Errorf("inserting vector entry: %w", err)
	}

	if s.lexical {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM exchanges_fts WHERE exchange_id = ?`, ex.Id); err != nil {
			return 0, fmt.Errorf("clearing text entry: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO exchanges_fts (exchange_id, combined_text) VALUES (?, ?)`,
			ex.Id, ex.CombinedText); err != nil {
			return 0, fmt.Errorf("inserting text entry: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO exchanges
		 (id, date, seq, user_text, agent_text, combined_text, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ex.Id, ex.Date, ex.Seq, ex.UserText, ex.AgentText, ex.CombinedText,
		ex.Metadata, ex.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting exchange row: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking insert result: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	if inserted == 0 {
		return core.WriteStatusSkipped, nil
	}
	return core.WriteStatusInserted, nil
}
