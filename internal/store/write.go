package store

import (
	"context"
	"fmt"

	"github.com/roach88/morphsynth/internal/ir"
)

// WriteRun inserts a run record and assigns its logical seq.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - rewriting a run keeps
// the original seq, which is returned.
func (s *Store) WriteRun(ctx context.Context, run ir.Run) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("write run: next seq: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, source, cards_dir, engine_version, schema_version, started_at, total, degraded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		seq,
		run.Source,
		run.CardsDir,
		run.EngineVersion,
		run.SchemaVersion,
		run.StartedAt,
		run.Total,
		run.Degraded,
	)
	if err != nil {
		return 0, fmt.Errorf("write run: insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("write run: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Conflict - run already exists, return its seq
		err = tx.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, run.ID).Scan(&seq)
		if err != nil {
			return 0, fmt.Errorf("write run: select existing: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write run: commit: %w", err)
	}
	return seq, nil
}

// FinishRun records the final totals of a run.
func (s *Store) FinishRun(ctx context.Context, runID string, total, degraded int64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE runs SET total = ?, degraded = ? WHERE id = ?
	`, total, degraded, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run: unknown run %q", runID)
	}
	return nil
}

// WriteOutcome inserts an outcome record into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
// Other constraint violations (e.g., the run must exist) still return errors.
//
// Features are serialized to canonical JSON per RFC 8785.
func (s *Store) WriteOutcome(ctx context.Context, out ir.Outcome) error {
	featuresJSON, err := marshalFeatures(out.Features)
	if err != nil {
		return fmt.Errorf("write outcome: %w", err)
	}
	traceJSON, err := marshalTrace(out.Trace)
	if err != nil {
		return fmt.Errorf("write outcome: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO outcomes
		(id, run_id, seq, language, family, lemma, features, text, trace, degraded, reason, card_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		out.ID,
		out.RunID,
		out.Seq,
		out.Language,
		string(out.Family),
		out.Lemma,
		featuresJSON,
		out.Text,
		traceJSON,
		boolToInt(out.Degraded),
		out.Reason,
		out.CardHash,
	)
	if err != nil {
		return fmt.Errorf("write outcome: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
