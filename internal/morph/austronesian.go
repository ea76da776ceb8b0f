package morph

import (
	"strings"

	"github.com/roach88/morphsynth/internal/ir"
)

// Austronesian applies voice, aspect and nominalizer affix bundles.
//
// Within one bundle the order is fixed: reduplication, prefix, infix,
// suffix. A bundle {reduplication: cv, infix: um} therefore turns Tagalog
// "sulat" into "susulat" and then "sumusulat". Voice is applied before
// aspect.
type Austronesian struct{}

// Family implements Strategy.
func (Austronesian) Family() ir.Family { return ir.FamilyAustronesian }

// MakeVerbForm applies the voice and then the aspect bundle. An empty voice
// or aspect selects the table's default entry.
func (a Austronesian) MakeVerbForm(lemma, voice, aspect string, card *ir.LanguageCard) string {
	return a.verbForm(lemma, voice, aspect, card, nil)
}

// MakeNominalization applies the nominalizer bundle for nominalizerType.
func (a Austronesian) MakeNominalization(lemma, nominalizerType string, card *ir.LanguageCard) string {
	sec := austronesianSection(card)
	if sec == nil {
		return lemma
	}
	return a.applyTable(lemma, "nominalizer", sec.Nominalizer, nominalizerType, card, nil)
}

// RealizeNoun implements Strategy: nominalization, then plural.
func (a Austronesian) RealizeNoun(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm {
	tr := newTrace()
	sec := austronesianSection(card)
	if sec == nil {
		return tr.form(lemma)
	}

	form := lemma
	if f.Has(ir.KeyNominalizer) {
		form = a.applyTable(form, "nominalizer", sec.Nominalizer, strings.ToLower(f.String(ir.KeyNominalizer)), card, tr)
	}
	if f.Plural() {
		switch {
		case sec.Plural != nil:
			form = a.apply(form, *sec.Plural, card, tr, "plural")
		case sec.PluralMarker != "":
			form = sec.PluralMarker + " " + form
			tr.add("austronesian.plural-marker=%s", sec.PluralMarker)
		}
	}
	return tr.form(form)
}

// RealizeVerb implements Strategy.
func (a Austronesian) RealizeVerb(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm {
	tr := newTrace()
	voice := strings.ToLower(f.String(ir.KeyVoice))
	aspect := strings.ToLower(f.String(ir.KeyAspect))
	return tr.form(a.verbForm(lemma, voice, aspect, card, tr))
}

func austronesianSection(card *ir.LanguageCard) *ir.AustronesianSection {
	if card == nil {
		return nil
	}
	return card.Austronesian
}

func (a Austronesian) verbForm(lemma, voice, aspect string, card *ir.LanguageCard, tr *trace) string {
	sec := austronesianSection(card)
	if sec == nil {
		return lemma
	}
	form := a.applyTable(lemma, "voice", sec.Voice, voice, card, tr)
	return a.applyTable(form, "aspect", sec.Aspect, aspect, card, tr)
}

func (a Austronesian) applyTable(stem, category string, table ir.AffixTable, key string, card *ir.LanguageCard, tr *trace) string {
	spec, ok := table.Resolve(key)
	if !ok || spec.IsZero() {
		return stem
	}
	return a.apply(stem, spec, card, tr, category+":"+key)
}

// apply runs one affix bundle in its fixed order.
func (Austronesian) apply(stem string, spec ir.AffixSpec, card *ir.LanguageCard, tr *trace, label string) string {
	p := card.Phonetics
	form := stem

	switch strings.ToLower(spec.Reduplication) {
	case ir.ReduplicationCV:
		if i := p.FirstVowelIndex(form); i >= 0 {
			end := i + len(string(firstRune(form[i:])))
			form = form[:end] + form
			tr.add("austronesian.%s.reduplicate=cv", label)
		}
	case ir.ReduplicationFull:
		form = form + card.Austronesian.ReduplicationSeparator + form
		tr.add("austronesian.%s.reduplicate=full", label)
	}

	if spec.Prefix != "" {
		form = spec.Prefix + form
		tr.add("austronesian.%s.prefix=%s", label, spec.Prefix)
	}

	if spec.Infix != "" {
		if i := p.FirstVowelIndex(form); i >= 0 {
			form = form[:i] + spec.Infix + form[i:]
		} else {
			form = spec.Infix + form
		}
		tr.add("austronesian.%s.infix=%s", label, spec.Infix)
	}

	if spec.Suffix != "" {
		form += spec.Suffix
		tr.add("austronesian.%s.suffix=%s", label, spec.Suffix)
	}
	return form
}
