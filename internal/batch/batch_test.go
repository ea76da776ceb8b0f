package batch

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/morphsynth/internal/compiler"
	"github.com/roach88/morphsynth/internal/ir"
	"github.com/roach88/morphsynth/internal/registry"
	"github.com/roach88/morphsynth/internal/store"
)

const turkishYAML = `code: tr
family: agglutinative
phonetics:
  vowels: aeıioöuü
  harmony_groups:
    front: [e, i, ö, ü]
    back: [a, ı, o, u]
agglutinative:
  suffixes:
    plural: {front: ler, back: lar}
`

const requestsYAML = `requests:
  - language: tr
    lemma: ev
    features: {number: pl}
  - language: TR
    lemma: oda
    features: {number: pl}
  - language: tr
    lemma: ev
    features: {case: locative}
  - language: xx
    lemma: ev
  - language: tr
    lemma: kitap
`

var fixedNow = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	card, _, err := compiler.CompileYAML("tr.yaml", []byte(turkishYAML))
	require.NoError(t, err)
	snap, err := registry.NewSnapshot(card)
	require.NoError(t, err)

	reg := registry.New()
	reg.Swap(snap)
	return reg
}

func parse(t *testing.T, src string) *File {
	t.Helper()
	f, err := ParseFile([]byte(src))
	require.NoError(t, err)
	return f
}

func TestRun_Outcomes(t *testing.T) {
	r := NewRunner(testRegistry(t),
		WithIDGenerator(NewFixedGenerator("run-1")),
		WithNow(fixedNow),
	)

	report, err := r.Run(context.Background(), parse(t, requestsYAML))
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.Run.ID)
	assert.Equal(t, "2026-01-02T03:04:05Z", report.Run.StartedAt)
	assert.Equal(t, ir.EngineVersion, report.Run.EngineVersion)
	assert.Equal(t, int64(5), report.Run.Total)
	assert.Equal(t, int64(2), report.Run.Degraded)

	texts := make([]string, 0, len(report.Outcomes))
	for i, out := range report.Outcomes {
		assert.Equal(t, int64(i+1), out.Seq)
		assert.Equal(t, "run-1", out.RunID)
		assert.Len(t, out.ID, 64)
		texts = append(texts, out.Text)
	}
	assert.Equal(t, []string{"evler", "odalar", "ev", "ev", "kitap"}, texts)

	degraded := report.Degraded()
	require.Len(t, degraded, 2)
	assert.Equal(t, ir.ReasonIdentity, degraded[0].Reason)
	assert.Equal(t, ir.ReasonUnknownLanguage, degraded[1].Reason)
	assert.Empty(t, degraded[1].CardHash)

	// A bare lemma without features is not degraded.
	assert.False(t, report.Outcomes[4].Degraded)
	assert.Equal(t, ir.FamilyAgglutinative, report.Outcomes[4].Family)
	assert.Equal(t, report.Outcomes[0].CardHash, report.Outcomes[1].CardHash)
	assert.NotEmpty(t, report.Outcomes[0].CardHash)
}

func TestRun_OutcomeIDsAreStable(t *testing.T) {
	reg := testRegistry(t)
	a, err := NewRunner(reg, WithIDGenerator(NewFixedGenerator("run-1"))).Run(context.Background(), parse(t, requestsYAML))
	require.NoError(t, err)
	b, err := NewRunner(reg, WithIDGenerator(NewFixedGenerator("run-1"))).Run(context.Background(), parse(t, requestsYAML))
	require.NoError(t, err)

	for i := range a.Outcomes {
		assert.Equal(t, a.Outcomes[i].ID, b.Outcomes[i].ID)
	}
	assert.NotEqual(t, a.Outcomes[0].ID, a.Outcomes[2].ID)
}

func TestRun_RecordsToStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "quality.db"))
	require.NoError(t, err)
	defer st.Close()

	r := NewRunner(testRegistry(t),
		WithRecorder(st),
		WithIDGenerator(NewFixedGenerator("run-1", "run-2")),
		WithNow(fixedNow),
	)
	ctx := context.Background()

	first, err := r.Run(ctx, parse(t, requestsYAML))
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Run.Seq)

	second, err := r.Run(ctx, parse(t, "requests:\n  - {language: tr, lemma: oda, features: {number: pl}}\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Run.Seq)

	runs, err := st.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(5), runs[0].Total)
	assert.Equal(t, int64(2), runs[0].Degraded)
	assert.Equal(t, int64(1), runs[1].Total)

	outcomes, err := st.Outcomes(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, outcomes, len(first.Outcomes))
	for i, got := range outcomes {
		want := first.Outcomes[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Text, got.Text)
		assert.Equal(t, want.Features.Format(), got.Features.Format())
		assert.Equal(t, want.Degraded, got.Degraded)
		assert.Equal(t, want.CardHash, got.CardHash)
	}

	degraded, err := st.DegradedOutcomes(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, degraded, 2)
	assert.Equal(t, "xx", degraded[1].Language)
}

func TestRun_Cancelled(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "quality.db"))
	require.NoError(t, err)
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(testRegistry(t), WithRecorder(st), WithIDGenerator(NewFixedGenerator("run-1")))
	_, err = r.Run(ctx, parse(t, requestsYAML))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_CancelledBetweenRequests(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := &cancellingRecorder{cancel: cancel, after: 2}

	r := NewRunner(testRegistry(t), WithRecorder(rec), WithIDGenerator(NewFixedGenerator("run-1")))
	report, err := r.Run(ctx, parse(t, requestsYAML))
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, report.Outcomes, 2)
	assert.Equal(t, int64(2), rec.total, "partial totals are still recorded")
}

// cancellingRecorder cancels the run after a number of outcomes.
type cancellingRecorder struct {
	cancel context.CancelFunc
	after  int
	seen   int
	total  int64
}

func (c *cancellingRecorder) WriteRun(context.Context, ir.Run) (int64, error) { return 1, nil }

func (c *cancellingRecorder) WriteOutcome(context.Context, ir.Outcome) error {
	c.seen++
	if c.seen == c.after {
		c.cancel()
	}
	return nil
}

func (c *cancellingRecorder) FinishRun(ctx context.Context, _ string, total, _ int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.total = total
	return nil
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", gen.Generate())
	assert.Equal(t, "b", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestUUIDv7Generator(t *testing.T) {
	var gen UUIDv7Generator
	a, b := gen.Generate(), gen.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
	assert.Equal(t, byte('7'), a[14], "version nibble")
}

func TestClock(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())
}
