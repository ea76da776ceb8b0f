package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/morphsynth/internal/ir"
	"github.com/roach88/morphsynth/internal/morph"
	"github.com/roach88/morphsynth/internal/registry"
)

// Recorder persists runs and outcomes. *store.Store implements it.
type Recorder interface {
	WriteRun(ctx context.Context, run ir.Run) (int64, error)
	WriteOutcome(ctx context.Context, out ir.Outcome) error
	FinishRun(ctx context.Context, runID string, total, degraded int64) error
}

// Report is the result of one batch run.
type Report struct {
	Run      ir.Run       `json:"run"`
	Outcomes []ir.Outcome `json:"outcomes"`
}

// Degraded returns the outcomes flagged as degraded, in seq order.
func (r *Report) Degraded() []ir.Outcome {
	out := []ir.Outcome{}
	for _, o := range r.Outcomes {
		if o.Degraded {
			out = append(out, o)
		}
	}
	return out
}

// Runner synthesizes batch files against a registry.
//
// Every request of a run resolves against the snapshot that was current when
// the run started, so a reload in the middle of a run never mixes card
// versions within one run.
type Runner struct {
	reg      *registry.Registry
	engine   *morph.Engine
	recorder Recorder
	ids      IDGenerator
	logger   *slog.Logger
	now      func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRecorder appends every run to rec.
func WithRecorder(rec Recorder) RunnerOption {
	return func(r *Runner) { r.recorder = rec }
}

// WithIDGenerator sets the run ID source. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) RunnerOption {
	return func(r *Runner) {
		if g != nil {
			r.ids = g
		}
	}
}

// WithEngine sets the synthesis engine. Default: morph.New().
func WithEngine(e *morph.Engine) RunnerOption {
	return func(r *Runner) {
		if e != nil {
			r.engine = e
		}
	}
}

// WithLogger sets the logger used for run progress and degraded outcomes.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithNow overrides the wall clock used for StartedAt.
func WithNow(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRunner creates a runner over reg.
func NewRunner(reg *registry.Registry, opts ...RunnerOption) *Runner {
	r := &Runner{
		reg:    reg,
		engine: morph.New(),
		ids:    UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunFile loads path and runs it.
func (r *Runner) RunFile(ctx context.Context, path string) (*Report, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, f)
}

// Run synthesizes every request of f in order.
//
// Cancellation is checked between requests. A cancelled run still records
// the totals of the outcomes it produced and returns them with the error.
func (r *Runner) Run(ctx context.Context, f *File) (*Report, error) {
	snap := r.reg.Current()
	run := ir.Run{
		ID:            r.ids.Generate(),
		Source:        f.Path,
		CardsDir:      snap.Dir,
		EngineVersion: ir.EngineVersion,
		SchemaVersion: ir.SchemaVersion,
		StartedAt:     r.now().UTC().Format(time.RFC3339),
	}

	if r.recorder != nil {
		seq, err := r.recorder.WriteRun(ctx, run)
		if err != nil {
			return nil, fmt.Errorf("batch: %w", err)
		}
		run.Seq = seq
	}

	log := r.logger.With("run", run.ID)
	log.Info("batch started", "requests", len(f.Requests), "cards", snap.Len())

	report := &Report{Run: run, Outcomes: make([]ir.Outcome, 0, len(f.Requests))}
	hashes := make(map[string]string)
	clock := NewClock()

	var runErr error
	for _, req := range f.Requests {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("batch cancelled: %w", err)
			break
		}

		out, err := r.synthesize(snap, hashes, run.ID, clock.Next(), req)
		if err != nil {
			runErr = err
			break
		}
		if r.recorder != nil {
			if err := r.recorder.WriteOutcome(ctx, out); err != nil {
				runErr = fmt.Errorf("batch: %w", err)
				break
			}
		}
		if out.Degraded {
			report.Run.Degraded++
			log.Warn("degraded output",
				"seq", out.Seq,
				"language", out.Language,
				"lemma", out.Lemma,
				"features", out.Features.Format(),
				"reason", out.Reason,
			)
		}
		report.Outcomes = append(report.Outcomes, out)
	}
	report.Run.Total = int64(len(report.Outcomes))

	if r.recorder != nil {
		// Totals are recorded even when ctx is already cancelled.
		err := r.recorder.FinishRun(context.WithoutCancel(ctx), run.ID, report.Run.Total, report.Run.Degraded)
		if err != nil && runErr == nil {
			runErr = fmt.Errorf("batch: %w", err)
		}
	}

	log.Info("batch finished",
		"total", report.Run.Total,
		"degraded", report.Run.Degraded,
	)
	return report, runErr
}

func (r *Runner) synthesize(snap *registry.Snapshot, hashes map[string]string, runID string, seq int64, req Request) (ir.Outcome, error) {
	id, err := ir.OutcomeID(runID, req.Language, req.Lemma, req.Features, seq)
	if err != nil {
		return ir.Outcome{}, fmt.Errorf("batch: request %d: %w", seq, err)
	}
	out := ir.Outcome{
		ID:       id,
		RunID:    runID,
		Seq:      seq,
		Language: req.Language,
		Lemma:    req.Lemma,
		Features: req.Features,
	}

	card, ok := snap.Lookup(req.Language)
	if !ok {
		form := ir.Bare(req.Lemma, registry.RuleUnknownLanguage+":"+req.Language)
		out.Text = form.Text
		out.Trace = form.Trace
		out.Degraded = true
		out.Reason = ir.ReasonUnknownLanguage
		return out, nil
	}

	hash, ok := hashes[card.Code]
	if !ok {
		hash, err = ir.CardHash(card)
		if err != nil {
			return ir.Outcome{}, fmt.Errorf("batch: request %d: %w", seq, err)
		}
		hashes[card.Code] = hash
	}

	form := r.engine.SynthesizeCard(req.Lemma, req.Features, card)
	out.Family = card.Family
	out.Text = form.Text
	out.Trace = form.Trace
	out.CardHash = hash
	if req.Features.Len() > 0 && form.Text == req.Lemma {
		out.Degraded = true
		out.Reason = ir.ReasonIdentity
	}
	return out, nil
}
