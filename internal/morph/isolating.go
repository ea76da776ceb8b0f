package morph

import (
	"strconv"
	"strings"

	"github.com/roach88/morphsynth/internal/ir"
)

// Isolating assembles invariant words with classifiers and particles.
//
// Nothing is inflected. Noun phrases are built from numerals, classifiers,
// plural and possessive particles; verbs are surrounded by negation and TAM
// particles in the order named by the card's verbal_pattern.
type Isolating struct{}

// Family implements Strategy.
func (Isolating) Family() ir.Family { return ir.FamilyIsolating }

// RealizeNounPhrase builds the noun phrase for lemma.
func (i Isolating) RealizeNounPhrase(lemma string, f ir.Features, card *ir.LanguageCard) string {
	return i.nounPhrase(lemma, f, card, nil)
}

// RealizeNoun implements Strategy.
func (i Isolating) RealizeNoun(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm {
	tr := newTrace()
	return tr.form(i.nounPhrase(lemma, f, card, tr))
}

// RealizeVerb implements Strategy.
func (i Isolating) RealizeVerb(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm {
	tr := newTrace()
	return tr.form(i.verb(lemma, f, card, tr))
}

func isolatingSection(card *ir.LanguageCard) *ir.IsolatingSection {
	if card == nil {
		return nil
	}
	return card.Isolating
}

// Classifier returns the classifier for lemma: explicit override, then
// honorific, then generic human, then the lexical table, then the default.
// A card without classifiers yields "" even when an override is given.
func (i Isolating) Classifier(lemma string, f ir.Features, card *ir.LanguageCard) string {
	cls, _ := i.classifier(lemma, f, card)
	return cls
}

func (Isolating) classifier(lemma string, f ir.Features, card *ir.LanguageCard) (string, string) {
	sec := isolatingSection(card)
	if sec == nil {
		return "", ""
	}
	c := sec.Classifiers
	if c.IsZero() {
		return "", ""
	}
	if v := f.String(ir.KeyClassifier); v != "" {
		return v, "override"
	}
	if f.Bool(ir.KeyHonorific) && c.Honorific != "" {
		return c.Honorific, "honorific"
	}
	if f.Bool(ir.KeyHuman) && c.Human != "" {
		return c.Human, "human"
	}
	if v, ok := c.Nouns.Lookup(lemma); ok && v != "" {
		return v, "lexical"
	}
	if c.Default != "" {
		return c.Default, "default"
	}
	return "", ""
}

func (i Isolating) nounPhrase(lemma string, f ir.Features, card *ir.LanguageCard, tr *trace) string {
	sec := isolatingSection(card)
	if sec == nil {
		return lemma
	}
	spaced := sec.Spaced()

	nominal := []string{lemma}
	if adj := f.String(ir.KeyAdjective); adj != "" && sec.PlacesAdjectives() {
		if sec.AdjectivePosition == ir.PositionPost {
			nominal = []string{lemma, sec.AdjectiveLinker, adj}
		} else {
			nominal = []string{adj, sec.AdjectiveLinker, lemma}
		}
		tr.add("isolating.adjective:%s", positionOr(sec.AdjectivePosition, ir.PositionPre))
	}

	// Numerals, classifiers and particles come from the card only; with
	// none of them the nominal is returned bare.
	cls, source := i.classifier(lemma, f, card)
	q, counted := f.Int(ir.KeyQuantity)
	var numeral string
	var spelled bool
	if counted {
		numeral, spelled = sec.Numerals.Lookup(strconv.FormatInt(q, 10))
		spelled = spelled && numeral != ""
		if !spelled {
			numeral = strconv.FormatInt(q, 10)
		}
	}
	indefinite := !f.Plural() && strings.EqualFold(f.String(ir.KeyDefiniteness), "indefinite")

	var tokens []string
	switch {
	case counted && (spelled || cls != ""):
		if cls != "" {
			tr.add("isolating.classifier:%s=%s", source, cls)
		}
		if sec.NumeralOrder == ir.NounNumeralClassifier {
			tokens = append(append(tokens, nominal...), numeral, cls)
			tr.add("isolating.quantity:%s", ir.NounNumeralClassifier)
		} else {
			tokens = append([]string{numeral, cls}, nominal...)
			tr.add("isolating.quantity:%s", ir.NumeralClassifierNoun)
		}
	case counted:
		tokens = nominal
	case indefinite && (cls != "" || sec.Particles.Indefinite != ""):
		if cls != "" {
			tr.add("isolating.classifier:%s=%s", source, cls)
		}
		if ind := sec.Particles.Indefinite; ind != "" {
			tr.add("isolating.indefinite=%s", ind)
		}
		tokens = append([]string{sec.Particles.Indefinite, cls}, nominal...)
	case f.Plural() && sec.Particles.Plural != "":
		pl := sec.Particles.Plural
		if sec.Particles.PluralPosition == ir.PositionPost {
			tokens = append(nominal, pl)
		} else {
			tokens = append([]string{pl}, nominal...)
		}
		tr.add("isolating.plural:%s=%s", positionOr(sec.Particles.PluralPosition, ir.PositionPre), pl)
	default:
		tokens = nominal
	}

	if possessor := f.String(ir.KeyPossessor); possessor != "" && sec.PlacesPossessors() {
		linker := sec.Particles.Possessive
		if sec.TightPossession {
			linker = ""
		}
		if sec.PossessorPosition == ir.PositionPost {
			tokens = append(append(tokens, linker), possessor)
		} else {
			tokens = append([]string{possessor, linker}, tokens...)
		}
		tr.add("isolating.possessor:%s", positionOr(sec.PossessorPosition, ir.PositionPre))
	}
	return joinTokens(spaced, tokens...)
}

func positionOr(p, fallback ir.Position) ir.Position {
	if p == "" {
		return fallback
	}
	return p
}

// negator picks the negation particle keyed by aspect, then tense, then
// default.
func negator(sec *ir.IsolatingSection, f ir.Features) string {
	for _, key := range []string{ir.KeyAspect, ir.KeyTense} {
		if v := strings.ToLower(f.String(key)); v != "" {
			if neg, ok := sec.Particles.Negation.Lookup(v); ok {
				return neg
			}
		}
	}
	neg, _ := sec.Particles.Negation.Lookup(ir.DefaultKey)
	return neg
}

func (Isolating) verb(lemma string, f ir.Features, card *ir.LanguageCard, tr *trace) string {
	sec := isolatingSection(card)
	if sec == nil {
		return lemma
	}
	pattern := sec.VerbalPattern
	if !pattern.Valid() {
		tr.add("isolating.pattern:unset")
		return lemma
	}

	var neg string
	if f.Negative() {
		neg = negator(sec, f)
		if neg != "" {
			tr.add("isolating.negation=%s", neg)
		}
	}

	var tam []string
	for _, cat := range []string{ir.KeyTense, ir.KeyAspect, ir.KeyMood} {
		v := strings.ToLower(f.String(cat))
		if v == "" {
			continue
		}
		if p, ok := sec.TAM.Table(cat).Lookup(v); ok && p != "" {
			tam = append(tam, p)
			tr.add("isolating.tam:%s/%s=%s", cat, v, p)
		}
	}

	var tokens []string
	switch pattern {
	case ir.PatternNegTAMVerb:
		tokens = append(append([]string{neg}, tam...), lemma)
	case ir.PatternVerbTAMNeg:
		tokens = append(append([]string{lemma}, tam...), neg)
	case ir.PatternTAMVerbNeg:
		tokens = append(append(tam, lemma), neg)
	}
	tr.add("isolating.pattern:%s", pattern)
	return joinTokens(sec.Spaced(), tokens...)
}
