package morph

import (
	"github.com/roach88/morphsynth/internal/ir"
)

// Strategy is the contract every family implements.
//
// Implementations must be total: any lemma, any feature bundle and any card
// (including nil) produce a SurfaceForm. Features a strategy does not know
// are ignored.
type Strategy interface {
	Family() ir.Family
	RealizeNoun(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm
	RealizeVerb(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm
}

// AdjectiveRealizer is implemented by strategies with adjective inflection.
type AdjectiveRealizer interface {
	RealizeAdjective(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm
}

// PredicateRealizer is implemented by strategies with predicative nominals.
type PredicateRealizer interface {
	RealizePredicate(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm
}

// Trace identifiers emitted by the dispatcher itself.
const (
	RuleUnknownFamily = "engine.unknown-family"
	RuleNoSection     = "engine.no-section"
	RuleRecovered     = "engine.recovered"
)

// Engine selects the strategy for a family and routes by part of speech.
//
// Thread-safety: the strategy map is built by New and never written again.
type Engine struct {
	strategies map[ir.Family]Strategy
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrategy replaces the built-in strategy for s.Family(). Strategies for
// families outside ir.Families are ignored since no card can carry a
// section for them.
func WithStrategy(s Strategy) Option {
	return func(e *Engine) {
		if s == nil || !s.Family().Valid() {
			return
		}
		e.strategies[s.Family()] = s
	}
}

// New creates an engine holding the seven built-in strategies.
func New(opts ...Option) *Engine {
	e := &Engine{
		strategies: map[ir.Family]Strategy{
			ir.FamilyAgglutinative: Agglutinative{},
			ir.FamilyAustronesian:  Austronesian{},
			ir.FamilyCeltic:        Celtic{},
			ir.FamilyDravidian:     Dravidian{},
			ir.FamilyGermanic:      Germanic{},
			ir.FamilyIsolating:     Isolating{},
			ir.FamilyPolysynthetic: Polysynthetic{},
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strategy returns the strategy registered for family.
func (e *Engine) Strategy(family ir.Family) (Strategy, bool) {
	s, ok := e.strategies[family]
	return s, ok
}

// Synthesize realizes lemma under features using family's strategy.
//
// Dispatch on the pos feature:
//
//	verb      → RealizeVerb
//	adjective → RealizeAdjective when available, else RealizeNoun
//	predicate → RealizePredicate when available, else RealizeNoun
//	other     → RealizeNoun
//
// An unknown family, or a card without the family's section, yields the bare
// lemma.
func (e *Engine) Synthesize(family ir.Family, lemma string, f ir.Features, card *ir.LanguageCard) (out ir.SurfaceForm) {
	s, ok := e.strategies[family]
	if !ok {
		return ir.Bare(lemma, RuleUnknownFamily+":"+string(family))
	}
	if !card.HasSection(family) {
		return ir.Bare(lemma, RuleNoSection+":"+string(family))
	}

	// Built-in strategies never panic; a replacement strategy must not
	// break totality for the caller either.
	defer func() {
		if r := recover(); r != nil {
			out = ir.Bare(lemma, RuleRecovered+":"+string(family))
		}
	}()

	switch f.POS() {
	case ir.POSVerb:
		return s.RealizeVerb(lemma, f, card)
	case ir.POSAdjective:
		if ar, ok := s.(AdjectiveRealizer); ok {
			return ar.RealizeAdjective(lemma, f, card)
		}
	case ir.POSPredicate:
		if pr, ok := s.(PredicateRealizer); ok {
			return pr.RealizePredicate(lemma, f, card)
		}
	}
	return s.RealizeNoun(lemma, f, card)
}

// SynthesizeCard is Synthesize with the family taken from the card.
func (e *Engine) SynthesizeCard(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm {
	if card == nil {
		return ir.Bare(lemma, RuleNoSection)
	}
	return e.Synthesize(card.Family, lemma, f, card)
}

var defaultEngine = New()

// Synthesize realizes lemma with the built-in strategies.
func Synthesize(family ir.Family, lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm {
	return defaultEngine.Synthesize(family, lemma, f, card)
}
