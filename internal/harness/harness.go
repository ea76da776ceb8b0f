package harness

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/morphsynth/internal/compiler"
	"github.com/roach88/morphsynth/internal/ir"
	"github.com/roach88/morphsynth/internal/morph"
	"github.com/roach88/morphsynth/internal/registry"
)

// Harness is the test execution engine.
// Each scenario runs against a fresh registry holding only its own cards.
type Harness struct {
	engine *morph.Engine
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithEngine sets the engine cases are synthesized with.
func WithEngine(e *morph.Engine) Option {
	return func(h *Harness) {
		if e != nil {
			h.engine = e
		}
	}
}

// WithLogger sets the logger for card diagnostics and case failures.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a harness. Logs are discarded unless WithLogger is given.
func New(opts ...Option) *Harness {
	h := &Harness{
		engine: morph.New(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a test scenario with a default harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(scenario)
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
//  1. Compile every card the scenario names into a fresh snapshot
//  2. Synthesize each case in order
//  3. Evaluate the case expectations
//
// The returned error covers setup only (unreadable or invalid cards).
// Failed expectations are reported through Result.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	reg, err := h.loadCards(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}

	result := NewResult()
	for i, c := range scenario.Cases {
		features, err := ir.FeaturesFromMap(c.Features)
		if err != nil {
			return nil, fmt.Errorf("cases[%d]: %w", i, err)
		}
		lemma := ir.NormalizeText(c.Lemma)
		form, _ := reg.Synthesize(c.Language, lemma, features)

		cr := CaseResult{
			Index:    i + 1,
			Name:     c.Name,
			Language: c.Language,
			Lemma:    lemma,
			Features: features.Format(),
			Text:     form.Text,
			Trace:    form.Trace,
			Pass:     true,
		}
		if cr.Trace == nil {
			cr.Trace = []string{}
		}

		label := c.label(i)
		for _, failure := range evaluate(label, c.Expect, form) {
			cr.Pass = false
			result.AddError(failure.Error())
			h.logger.Warn("case failed", "scenario", scenario.Name, "case", label, "error", failure)
		}
		result.Cases = append(result.Cases, cr)
	}
	return result, nil
}

// loadCards compiles the scenario's cards into a registry of their own.
func (h *Harness) loadCards(scenario *Scenario) (*registry.Registry, error) {
	var paths []string
	for _, p := range scenario.Cards {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, p)
			continue
		}
		files, err := registry.FindCardFiles(p)
		if err != nil {
			return nil, err
		}
		paths = append(paths, files...)
	}

	cards := make([]*ir.LanguageCard, 0, len(paths))
	for _, p := range paths {
		card, diags, err := compiler.CompileFile(p)
		if err != nil {
			return nil, err
		}
		for _, d := range diags {
			h.logger.Warn("card diagnostic", "file", p, "diagnostic", d.Error())
		}
		cards = append(cards, card)
	}

	snap, err := registry.NewSnapshot(cards...)
	if err != nil {
		return nil, err
	}
	reg := registry.New(registry.WithEngine(h.engine), registry.WithLogger(h.logger))
	reg.Swap(snap)
	return reg, nil
}
