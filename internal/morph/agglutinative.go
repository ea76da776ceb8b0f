package morph

import (
	"strings"

	"github.com/roach88/morphsynth/internal/ir"
)

// Suffix types used by the agglutinative feature mapping. Case, tense, aspect
// and voice values are used as suffix types directly.
const (
	SuffixPlural   = "plural"
	SuffixNegative = "negative"
	SuffixCopula   = "copula"
	SuffixQuestion = "question"

	possessivePrefix = "poss_"
	agreementPrefix  = "agr_"
)

// Agglutinative builds words by chaining harmonic suffixes onto a root.
//
// Each suffix table is keyed by harmony group ("front", "back", ...) with an
// optional "default" entry. Harmony is re-evaluated against the growing stem
// after every attachment, so "ev" + plural + ablative gives "evlerden".
type Agglutinative struct{}

// Family implements Strategy.
func (Agglutinative) Family() ir.Family { return ir.FamilyAgglutinative }

// AttachSuffix attaches one suffix of the given type to stem.
func (a Agglutinative) AttachSuffix(stem, suffixType string, card *ir.LanguageCard) string {
	return a.attach(stem, suffixType, card, nil)
}

// ApplySuffixChain attaches suffix types left to right.
func (a Agglutinative) ApplySuffixChain(root string, suffixTypes []string, card *ir.LanguageCard) string {
	return a.chain(root, suffixTypes, card, nil)
}

// MakePredicativeNoun turns a noun into a predicate ("öğretmendir") with an
// optional question particle ("öğretmen mi").
func (a Agglutinative) MakePredicativeNoun(lemma string, addCopula, addQuestion bool, card *ir.LanguageCard) string {
	return a.predicative(lemma, SuffixCopula, addCopula, addQuestion, card, nil)
}

// RealizeNoun implements Strategy: plural, possessive, then case.
func (a Agglutinative) RealizeNoun(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm {
	tr := newTrace()
	return tr.form(a.chain(lemma, nounSuffixTypes(f), card, tr))
}

// RealizeVerb implements Strategy: voice, negation, tense, aspect, mood,
// then person agreement.
func (a Agglutinative) RealizeVerb(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm {
	tr := newTrace()
	return tr.form(a.chain(lemma, verbSuffixTypes(f), card, tr))
}

// RealizePredicate implements PredicateRealizer. The copula is added unless
// copula=false; a person feature selects "copula_{p}{n}" when the card has
// that table.
func (a Agglutinative) RealizePredicate(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm {
	tr := newTrace()
	addCopula := !f.Has(ir.KeyCopula) || f.Bool(ir.KeyCopula)
	copulaType := SuffixCopula
	if p := f.Person(ir.KeyPerson); p != "" {
		personal := SuffixCopula + "_" + ir.AgreementKey(p, numberOrSingular(f, ir.KeyNumber))
		if card != nil && card.Agglutinative != nil && card.Agglutinative.Suffixes.Table(personal) != nil {
			copulaType = personal
		}
	}
	return tr.form(a.predicative(lemma, copulaType, addCopula, f.Bool(ir.KeyQuestion), card, tr))
}

func nounSuffixTypes(f ir.Features) []string {
	var types []string
	if f.Plural() {
		types = append(types, SuffixPlural)
	}
	if p := f.Person(ir.KeyPossessorPerson); p != "" {
		types = append(types, possessivePrefix+ir.AgreementKey(p, numberOrSingular(f, ir.KeyPossessorNumber)))
	}
	if c := strings.ToLower(f.String(ir.KeyCase)); c != "" {
		types = append(types, c)
	}
	return types
}

func verbSuffixTypes(f ir.Features) []string {
	var types []string
	if v := strings.ToLower(f.String(ir.KeyVoice)); v != "" {
		types = append(types, v)
	}
	if f.Negative() {
		types = append(types, SuffixNegative)
	}
	for _, key := range []string{ir.KeyTense, ir.KeyAspect, ir.KeyMood} {
		if v := strings.ToLower(f.String(key)); v != "" {
			types = append(types, v)
		}
	}
	if p := f.Person(ir.KeyPerson); p != "" {
		types = append(types, agreementPrefix+ir.AgreementKey(p, numberOrSingular(f, ir.KeyNumber)))
	}
	return types
}

// numberOrSingular returns the number code for key, "sg" when unspecified.
func numberOrSingular(f ir.Features, key string) string {
	if n := f.Number(key); n != "" {
		return n
	}
	return "sg"
}

func (a Agglutinative) chain(root string, suffixTypes []string, card *ir.LanguageCard, tr *trace) string {
	form := root
	for _, st := range suffixTypes {
		form = a.attach(form, st, card, tr)
	}
	return form
}

// allomorph picks the variant of suffixType matching stem's harmony group.
func (Agglutinative) allomorph(stem, suffixType string, card *ir.LanguageCard) (suffix, group string) {
	if card == nil || card.Agglutinative == nil {
		return "", ""
	}
	table := card.Agglutinative.Suffixes.Table(suffixType)
	if table == nil {
		return "", ""
	}
	group, _ = card.Phonetics.ClassifyStem(stem)
	if s, ok := table.Lookup(group); ok && group != "" {
		return s, group
	}
	s, _ := table.Lookup(ir.DefaultKey)
	return s, ir.DefaultKey
}

func (a Agglutinative) attach(stem, suffixType string, card *ir.LanguageCard, tr *trace) string {
	suffix, group := a.allomorph(stem, suffixType, card)
	if suffix == "" {
		return stem
	}
	sec := card.Agglutinative
	if card.Phonetics.EndsWithVowel(stem) && card.Phonetics.StartsWithVowel(suffix) {
		buffer, ok := sec.Buffers.Lookup(suffixType)
		if !ok {
			buffer = sec.BufferConsonant
		}
		if buffer != "" {
			suffix = buffer + suffix
			tr.add("agglutinative.buffer:%s=%s", suffixType, buffer)
		}
	}
	tr.add("agglutinative.suffix:%s/%s=%s", suffixType, group, suffix)
	return stem + suffix
}

func (a Agglutinative) predicative(lemma, copulaType string, addCopula, addQuestion bool, card *ir.LanguageCard, tr *trace) string {
	words := []string{lemma}

	if addQuestion {
		particle, group := a.allomorph(lemma, SuffixQuestion, card)
		switch {
		case particle == "":
		case card.Agglutinative.QuestionSeparate:
			words = append(words, particle)
			tr.add("agglutinative.question:separate/%s=%s", group, particle)
		default:
			words[0] = a.attach(lemma, SuffixQuestion, card, tr)
		}
	}
	if addCopula {
		i := len(words) - 1
		words[i] = a.attach(words[i], copulaType, card, tr)
	}
	return strings.Join(words, " ")
}
