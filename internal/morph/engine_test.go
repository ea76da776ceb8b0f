package morph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/morphsynth/internal/ir"
)

func TestEngine_New(t *testing.T) {
	e := New()

	for _, f := range ir.Families {
		s, ok := e.Strategy(f)
		require.True(t, ok, "missing strategy for %s", f)
		assert.Equal(t, f, s.Family())
	}
}

func TestEngine_UnknownFamily(t *testing.T) {
	got := New().Synthesize("klingon", "qapla", ir.NewFeatures(ir.F(ir.KeyNumber, "pl")), turkishCard())

	assert.Equal(t, "qapla", got.Text)
	assert.Equal(t, []string{"engine.unknown-family:klingon"}, got.Trace)
}

func TestEngine_MissingSection(t *testing.T) {
	e := New()

	got := e.Synthesize(ir.FamilyCeltic, "ev", ir.NewFeatures(ir.F(ir.KeyNumber, "pl")), turkishCard())
	assert.Equal(t, "ev", got.Text)
	assert.True(t, got.Fired(RuleNoSection))

	got = e.Synthesize(ir.FamilyAgglutinative, "ev", ir.NewFeatures(ir.F(ir.KeyNumber, "pl")), nil)
	assert.Equal(t, "ev", got.Text)
}

func TestEngine_DispatchByPOS(t *testing.T) {
	e := New()

	verb := e.Synthesize(ir.FamilyAgglutinative, "gel", ir.NewFeatures(
		ir.F(ir.KeyPOS, "verb"), ir.F(ir.KeyTense, "past"),
	), turkishCard())
	assert.Equal(t, "geldi", verb.Text)

	pred := e.Synthesize(ir.FamilyAgglutinative, "öğretmen", ir.NewFeatures(ir.F(ir.KeyPOS, "predicate")), turkishCard())
	assert.Equal(t, "öğretmendir", pred.Text)

	adj := e.Synthesize(ir.FamilyGermanic, "deutsch", ir.NewFeatures(
		ir.F(ir.KeyPOS, "adjective"), ir.F(ir.KeyWordGender, "f"),
	), germanCard())
	assert.Equal(t, "deutsche", adj.Text)

	// Agglutinative has no adjective realizer: adjectives go through the noun path.
	adjNoun := e.Synthesize(ir.FamilyAgglutinative, "güzel", ir.NewFeatures(
		ir.F(ir.KeyPOS, "adjective"), ir.F(ir.KeyNumber, "pl"),
	), turkishCard())
	assert.Equal(t, "güzeller", adjNoun.Text)

	// Isolating has no predicate realizer.
	predNoun := e.Synthesize(ir.FamilyIsolating, "mèo", ir.NewFeatures(
		ir.F(ir.KeyPOS, "predicate"), ir.F(ir.KeyNumber, "pl"),
	), vietnameseCard())
	assert.Equal(t, "những mèo", predNoun.Text)
}

func TestEngine_SynthesizeCard(t *testing.T) {
	e := New()
	got := e.SynthesizeCard("ev", ir.NewFeatures(ir.F(ir.KeyNumber, "pl")), turkishCard())
	assert.Equal(t, "evler", got.Text)

	assert.Equal(t, "ev", e.SynthesizeCard("ev", ir.Features{}, nil).Text)
}

func TestSynthesize_DefaultEngine(t *testing.T) {
	got := Synthesize(ir.FamilyAgglutinative, "oda", ir.NewFeatures(ir.F(ir.KeyNumber, "pl")), turkishCard())
	assert.Equal(t, "odalar", got.Text)
}

type shoutingStrategy struct{}

func (shoutingStrategy) Family() ir.Family { return ir.FamilyIsolating }
func (shoutingStrategy) RealizeNoun(lemma string, _ ir.Features, _ *ir.LanguageCard) ir.SurfaceForm {
	return ir.Bare(lemma+"!", "shout")
}
func (shoutingStrategy) RealizeVerb(string, ir.Features, *ir.LanguageCard) ir.SurfaceForm {
	panic("boom")
}

type alienStrategy struct{ shoutingStrategy }

func (alienStrategy) Family() ir.Family { return "alien" }

func TestEngine_WithStrategy(t *testing.T) {
	e := New(WithStrategy(shoutingStrategy{}), WithStrategy(alienStrategy{}), WithStrategy(nil))

	got := e.Synthesize(ir.FamilyIsolating, "mèo", ir.Features{}, vietnameseCard())
	assert.Equal(t, "mèo!", got.Text)

	_, ok := e.Strategy("alien")
	assert.False(t, ok, "strategies for unknown families are ignored")

	// untouched families keep the built-in strategy
	assert.Equal(t, "evler", e.Synthesize(ir.FamilyAgglutinative, "ev", ir.NewFeatures(ir.F(ir.KeyNumber, "pl")), turkishCard()).Text)
}

func TestEngine_RecoversFromPanickingStrategy(t *testing.T) {
	e := New(WithStrategy(shoutingStrategy{}))

	got := e.Synthesize(ir.FamilyIsolating, "ăn", ir.NewFeatures(ir.F(ir.KeyPOS, "verb")), vietnameseCard())
	assert.Equal(t, "ăn", got.Text)
	assert.Equal(t, []string{"engine.recovered:isolating"}, got.Trace)
}

var inflectionalBundles = []ir.Features{
	{},
	ir.NewFeatures(ir.F(ir.KeyNumber, "pl")),
	ir.NewFeatures(ir.F(ir.KeyNumber, "pl"), ir.F(ir.KeyCase, "accusative")),
	ir.NewFeatures(ir.F(ir.KeyGender, "f"), ir.F(ir.KeyDefiniteness, "definite")),
	ir.NewFeatures(ir.F(ir.KeyGender, "f"), ir.F(ir.KeyDefiniteness, "indefinite")),
	ir.NewFeatures(ir.F(ir.KeyPOS, "verb"), ir.F(ir.KeyPerson, 1), ir.F(ir.KeyNumber, "sg"), ir.F(ir.KeyTense, "past")),
	ir.NewFeatures(ir.F(ir.KeyPOS, "verb"), ir.F(ir.KeyPolarity, "negative"), ir.F(ir.KeyAspect, "perfective")),
	ir.NewFeatures(ir.F(ir.KeyPOS, "verb"), ir.F(ir.KeyVoice, "actor"), ir.F(ir.KeyMutation, "soft")),
	ir.NewFeatures(ir.F(ir.KeyPOS, "adjective"), ir.F(ir.KeyGender, "f")),
	ir.NewFeatures(ir.F(ir.KeyPOS, "predicate"), ir.F(ir.KeyPerson, 3), ir.F(ir.KeyQuestion, true)),
	ir.NewFeatures(ir.F(ir.KeyPossessorPerson, 1), ir.F(ir.KeyObjectPerson, 3)),
	ir.NewFeatures(ir.F(ir.KeyQuantity, 3)),
	ir.NewFeatures(ir.F(ir.KeyQuantity, 2), ir.F(ir.KeyClassifier, "con")),
	ir.NewFeatures(ir.F(ir.KeyClassifier, "con"), ir.F(ir.KeyDefiniteness, "indefinite")),
	ir.NewFeatures(ir.F(ir.KeyAdjective, "đen"), ir.F(ir.KeyDefiniteness, "indefinite")),
	ir.NewFeatures(ir.F(ir.KeyPossessor, "tôi")),
}

func TestEngine_IdentityOnEmptyCard(t *testing.T) {
	e := New()
	card := emptyCard()

	for _, fam := range ir.Families {
		for _, f := range inflectionalBundles {
			for _, lemma := range []string{"ev", "cath", "Lehrer", "mèo", "书", ""} {
				got := e.Synthesize(fam, lemma, f, card)
				assert.Equal(t, lemma, got.Text, "%s %q [%s]", fam, lemma, f.Format())
			}
		}
	}
}

func TestEngine_Totality(t *testing.T) {
	e := New()
	cards := []*ir.LanguageCard{nil, {}, emptyCard(), mandarinCard(), englishCard()}
	for _, c := range fullCards() {
		cards = append(cards, c)
	}
	lemmas := []string{"", "a", "ev", "str", "Ärztin", "书", "́", "x y z", "\xff\xfe"}
	bundles := append([]ir.Features{
		ir.NewFeatures(
			ir.F(ir.KeyQuantity, -3),
			ir.F(ir.KeyClassifier, ""),
			ir.F(ir.KeyDerivations, ",,,"),
			ir.F(ir.KeyIncorporatedNoun, "ahta"),
			ir.F(ir.KeyPossessor, "x"),
			ir.F(ir.KeyAdjective, "y"),
		),
		ir.NewFeatures(ir.F(ir.KeyPOS, "VERB"), ir.F(ir.KeyPerson, 99), ir.F(ir.KeyNumber, true)),
	}, inflectionalBundles...)

	families := append([]ir.Family{"", "unknown"}, ir.Families...)
	for _, fam := range families {
		s, known := e.Strategy(fam)
		for _, card := range cards {
			for _, lemma := range lemmas {
				for _, f := range bundles {
					assert.NotPanics(t, func() {
						_ = e.Synthesize(fam, lemma, f, card)
					})
					if !known {
						continue
					}
					// Call the strategy directly so the dispatcher's recover
					// cannot hide a panic.
					assert.NotPanics(t, func() {
						_ = s.RealizeNoun(lemma, f, card)
						_ = s.RealizeVerb(lemma, f, card)
						if ar, ok := s.(AdjectiveRealizer); ok {
							_ = ar.RealizeAdjective(lemma, f, card)
						}
						if pr, ok := s.(PredicateRealizer); ok {
							_ = pr.RealizePredicate(lemma, f, card)
						}
					}, "%s %q [%s]", fam, lemma, f.Format())
				}
			}
		}
	}
}

func TestEngine_UnrecognizedKeysAreNoOp(t *testing.T) {
	e := New()
	noise := ir.NewFeatures(ir.F("evidentiality", "reported"), ir.F("register", "formal"), ir.F("x-weight", 7))

	for fam, card := range fullCards() {
		for _, lemma := range []string{"ev", "sulat", "cath", "puli", "Lehrer", "mèo", "hnek"} {
			for _, pos := range []string{"", ir.POSVerb, ir.POSAdjective, ir.POSPredicate} {
				base := ir.Features{}
				if pos != "" {
					base = ir.NewFeatures(ir.F(ir.KeyPOS, pos))
				}
				withNoise := base.With(ir.F("evidentiality", "reported"), ir.F("register", "formal"), ir.F("x-weight", 7))

				assert.Equal(t, e.Synthesize(fam, lemma, base, card), e.Synthesize(fam, lemma, withNoise, card),
					"%s %q pos=%q", fam, lemma, pos)
			}
		}
		assert.Equal(t, e.Synthesize(fam, "ev", ir.Features{}, card), e.Synthesize(fam, "ev", noise, card))
	}
}

func TestEngine_Deterministic(t *testing.T) {
	e := New()
	f := ir.NewFeatures(ir.F(ir.KeyNumber, "pl"), ir.F(ir.KeyPossessorPerson, 1), ir.F(ir.KeyCase, "ablative"))
	first := e.Synthesize(ir.FamilyAgglutinative, "ev", f, turkishCard())
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, e.Synthesize(ir.FamilyAgglutinative, "ev", f, turkishCard()))
	}
}
