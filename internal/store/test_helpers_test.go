package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/morphsynth/internal/ir"
)

// createTestStore creates a new on-disk store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a test run with minimal required fields.
func createTestRun(id string) ir.Run {
	return ir.Run{
		ID:            id,
		Source:        "batch.yaml",
		CardsDir:      "cards",
		EngineVersion: ir.EngineVersion,
		SchemaVersion: ir.SchemaVersion,
		StartedAt:     "2026-01-01T00:00:00Z",
	}
}

// createTestOutcome creates a test outcome with minimal required fields.
func createTestOutcome(id, runID string, seq int64, degraded bool) ir.Outcome {
	return ir.Outcome{
		ID:       id,
		RunID:    runID,
		Seq:      seq,
		Language: "tr",
		Family:   ir.FamilyAgglutinative,
		Lemma:    "ev",
		Features: ir.NewFeatures(ir.F(ir.KeyNumber, "pl")),
		Text:     "evler",
		Trace:    []string{"agglutinative.suffix:plural/front=ler"},
		Degraded: degraded,
	}
}
