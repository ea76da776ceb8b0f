// Package registry holds the set of compiled language cards a process
// synthesizes against.
//
// ARCHITECTURE:
//
//	cards dir ──Load──▶ Snapshot (immutable) ──atomic swap──▶ Registry
//	                                  ▲
//	fsnotify ──debounce──▶ Watcher ───┘ Reload
//
// CRITICAL PATTERNS:
//   - Readers never lock: Current() is an atomic load and a Snapshot is never
//     mutated after it is published.
//   - Reload keeps the last good snapshot: a directory that fails to load
//     cleanly never replaces a working one.
package registry

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/text/language"

	"github.com/roach88/morphsynth/internal/compiler"
	"github.com/roach88/morphsynth/internal/ir"
	"github.com/roach88/morphsynth/internal/morph"
)

// RuleUnknownLanguage is traced when a code resolves to no card.
const RuleUnknownLanguage = "registry.unknown-language"

// Entry is one compiled card and where it came from.
type Entry struct {
	Path        string
	Card        *ir.LanguageCard
	Diagnostics []compiler.Diagnostic
}

// Snapshot is an immutable set of cards keyed by lowercased language code.
type Snapshot struct {
	Dir      string
	LoadedAt time.Time

	entries map[string]*Entry
}

func newSnapshot(dir string) *Snapshot {
	return &Snapshot{
		Dir:      dir,
		LoadedAt: time.Now().UTC(),
		entries:  make(map[string]*Entry),
	}
}

// NewSnapshot builds a snapshot from already compiled cards.
func NewSnapshot(cards ...*ir.LanguageCard) (*Snapshot, error) {
	s := newSnapshot("")
	for _, c := range cards {
		if err := s.add(&Entry{Card: c}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Snapshot) add(e *Entry) error {
	if e.Card == nil {
		return &LoadError{Code: ErrCodeGeneric, Message: "nil card", File: e.Path}
	}
	key := strings.ToLower(e.Card.Code)
	if prev, ok := s.entries[key]; ok {
		return &LoadError{
			Code:    ErrCodeDuplicateCode,
			Message: fmt.Sprintf("language %q already defined in %s", e.Card.Code, prev.Path),
			File:    e.Path,
		}
	}
	s.entries[key] = e
	return nil
}

// Len returns the number of cards.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Codes returns the card codes in sorted order.
func (s *Snapshot) Codes() []string {
	if s == nil {
		return nil
	}
	codes := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		codes = append(codes, e.Card.Code)
	}
	sort.Strings(codes)
	return codes
}

// Entries returns every entry ordered by code.
func (s *Snapshot) Entries() []*Entry {
	out := make([]*Entry, 0, s.Len())
	for _, code := range s.Codes() {
		out = append(out, s.entries[strings.ToLower(code)])
	}
	return out
}

// Entry resolves code to its entry. Matching is case-insensitive and falls
// back along the BCP 47 parent chain, so "de-AT" finds a "de" card.
func (s *Snapshot) Entry(code string) (*Entry, bool) {
	if s == nil {
		return nil, false
	}
	key := strings.ToLower(strings.TrimSpace(code))
	if e, ok := s.entries[key]; ok {
		return e, true
	}
	tag, err := language.Parse(key)
	if err != nil {
		return nil, false
	}
	for parent := tag.Parent(); parent != language.Und; parent = parent.Parent() {
		if e, ok := s.entries[strings.ToLower(parent.String())]; ok {
			return e, true
		}
	}
	if base, conf := tag.Base(); conf != language.No {
		if e, ok := s.entries[base.String()]; ok {
			return e, true
		}
	}
	return nil, false
}

// Lookup resolves code to its card.
func (s *Snapshot) Lookup(code string) (*ir.LanguageCard, bool) {
	e, ok := s.Entry(code)
	if !ok {
		return nil, false
	}
	return e.Card, true
}

// Registry publishes the current Snapshot to concurrent readers.
type Registry struct {
	current atomic.Pointer[Snapshot]
	engine  *morph.Engine
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithEngine sets the engine used by Synthesize.
func WithEngine(e *morph.Engine) Option {
	return func(r *Registry) {
		if e != nil {
			r.engine = e
		}
	}
}

// WithLogger sets the logger for reload reporting.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a registry holding an empty snapshot.
func New(opts ...Option) *Registry {
	r := &Registry{
		engine: morph.New(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.current.Store(newSnapshot(""))
	return r
}

// Open creates a registry and loads dir into it.
func Open(dir string, opts ...Option) (*Registry, []error) {
	r := New(opts...)
	if errs := r.Reload(dir); len(errs) > 0 {
		return r, errs
	}
	return r, nil
}

// Current returns the published snapshot. It is never nil.
func (r *Registry) Current() *Snapshot {
	return r.current.Load()
}

// Swap publishes s and returns the previous snapshot.
func (r *Registry) Swap(s *Snapshot) *Snapshot {
	if s == nil {
		s = newSnapshot("")
	}
	return r.current.Swap(s)
}

// Lookup resolves code against the current snapshot.
func (r *Registry) Lookup(code string) (*ir.LanguageCard, bool) {
	return r.Current().Lookup(code)
}

// Reload loads dir and swaps it in only when every card compiled. On any
// error the previous snapshot stays published and the errors are returned.
func (r *Registry) Reload(dir string) []error {
	snap, errs := Load(dir, LoadModeCollectAll)
	if len(errs) > 0 {
		for _, err := range errs {
			r.logger.Warn("card reload rejected", "dir", dir, "error", err)
		}
		return errs
	}

	prev := r.Swap(snap)
	r.logger.Info("cards reloaded",
		"dir", dir,
		"cards", snap.Len(),
		"previous", prev.Len(),
	)
	for _, e := range snap.Entries() {
		for _, d := range e.Diagnostics {
			r.logger.Warn("card diagnostic", "file", e.Path, "diagnostic", d.Error())
		}
	}
	return nil
}

// Synthesize realizes lemma for the language identified by code. An
// unknown language yields the bare lemma and false.
func (r *Registry) Synthesize(code, lemma string, f ir.Features) (ir.SurfaceForm, bool) {
	card, ok := r.Lookup(code)
	if !ok {
		return ir.Bare(lemma, RuleUnknownLanguage+":"+code), false
	}
	return r.engine.SynthesizeCard(lemma, f, card), true
}
