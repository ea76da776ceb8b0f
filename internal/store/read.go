package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/morphsynth/internal/ir"
)

const outcomeColumns = `id, run_id, seq, language, family, lemma, features, text, trace, degraded, reason, card_hash`

// Outcomes returns every outcome of a run.
// Results are ordered deterministically: ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if the run has no outcomes.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]ir.Outcome, error) {
	return s.QueryOutcomes(ctx, Eq(FieldRunID, runID))
}

// DegradedOutcomes returns the outcomes of a run flagged as degraded.
func (s *Store) DegradedOutcomes(ctx context.Context, runID string) ([]ir.Outcome, error) {
	return s.QueryOutcomes(ctx, Where(
		Eq(FieldRunID, runID),
		Equals{Field: FieldDegraded, Value: ir.BoolValue(true)},
	))
}

// ReadOutcome retrieves a single outcome by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadOutcome(ctx context.Context, id string) (ir.Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+outcomeColumns+` FROM outcomes WHERE id = ?`, id)
	if err != nil {
		return ir.Outcome{}, fmt.Errorf("query outcome: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return ir.Outcome{}, fmt.Errorf("query outcome: %w", err)
		}
		return ir.Outcome{}, sql.ErrNoRows
	}
	return scanOutcome(rows)
}

// Runs returns every run ordered by seq.
func (s *Store) Runs(ctx context.Context) ([]ir.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, source, cards_dir, engine_version, schema_version, started_at, total, degraded
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.Run{}
	for rows.Next() {
		var r ir.Run
		if err := rows.Scan(
			&r.ID, &r.Seq, &r.Source, &r.CardsDir, &r.EngineVersion,
			&r.SchemaVersion, &r.StartedAt, &r.Total, &r.Degraded,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun retrieves a single run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (ir.Run, error) {
	var r ir.Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, seq, source, cards_dir, engine_version, schema_version, started_at, total, degraded
		FROM runs
		WHERE id = ?
	`, id).Scan(
		&r.ID, &r.Seq, &r.Source, &r.CardsDir, &r.EngineVersion,
		&r.SchemaVersion, &r.StartedAt, &r.Total, &r.Degraded,
	)
	if err != nil {
		return ir.Run{}, err
	}
	return r, nil
}

func (s *Store) queryOutcomes(ctx context.Context, query string, args ...any) ([]ir.Outcome, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := []ir.Outcome{}
	for rows.Next() {
		out, err := scanOutcome(rows)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, out)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return outcomes, nil
}

// scanOutcome scans a row into an Outcome struct.
func scanOutcome(rows *sql.Rows) (ir.Outcome, error) {
	var out ir.Outcome
	var family, featuresJSON, traceJSON string
	var degraded int

	if err := rows.Scan(
		&out.ID, &out.RunID, &out.Seq, &out.Language, &family, &out.Lemma,
		&featuresJSON, &out.Text, &traceJSON, &degraded, &out.Reason, &out.CardHash,
	); err != nil {
		return ir.Outcome{}, fmt.Errorf("scan outcome: %w", err)
	}

	out.Family = ir.Family(family)
	out.Degraded = degraded == 1

	features, err := unmarshalFeatures(featuresJSON)
	if err != nil {
		return ir.Outcome{}, err
	}
	out.Features = features

	trace, err := unmarshalTrace(traceJSON)
	if err != nil {
		return ir.Outcome{}, err
	}
	out.Trace = trace

	return out, nil
}
