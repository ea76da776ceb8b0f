package morph

import (
	"strings"

	"github.com/roach88/morphsynth/internal/ir"
)

// Dravidian stacks plural and case suffixes and attaches agreement copulas,
// resolving vowel contact at each boundary with the card's sandhi rule.
type Dravidian struct{}

// Family implements Strategy.
func (Dravidian) Family() ir.Family { return ir.FamilyDravidian }

// MakeNounForm inflects lemma for number and case. The plural suffix comes
// from the "default" noun class.
func (d Dravidian) MakeNounForm(lemma, number, grammaticalCase string, card *ir.LanguageCard) string {
	return d.nounForm(lemma, number, grammaticalCase, "", card, nil)
}

// MakePredicativeNoun attaches the person/number(/gender) copula of tense.
// Without includeCopula, or when no suffix is found, the lemma is returned.
func (d Dravidian) MakePredicativeNoun(lemma, person, number, gender, tense string, includeCopula bool, card *ir.LanguageCard) string {
	if !includeCopula {
		return lemma
	}
	return d.predicative(lemma, person, number, gender, tense, card, nil)
}

// RealizeNoun implements Strategy.
func (d Dravidian) RealizeNoun(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm {
	tr := newTrace()
	form := d.nounForm(lemma, f.Number(ir.KeyNumber), strings.ToLower(f.String(ir.KeyCase)), f.String(ir.KeyNounClass), card, tr)
	return tr.form(form)
}

// RealizePredicate implements PredicateRealizer. The copula is included
// unless copula=false.
func (d Dravidian) RealizePredicate(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm {
	tr := newTrace()
	if f.Has(ir.KeyCopula) && !f.Bool(ir.KeyCopula) {
		return tr.form(lemma)
	}
	return tr.form(d.predicative(lemma, f.Person(ir.KeyPerson), f.Number(ir.KeyNumber), f.Gender(ir.KeyGender), strings.ToLower(f.String(ir.KeyTense)), card, tr))
}

// RealizeVerb implements Strategy. Finite verbs take the same
// person-number-gender agreement suffixes as predicate nominals.
func (d Dravidian) RealizeVerb(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm {
	tr := newTrace()
	if f.Person(ir.KeyPerson) == "" {
		return tr.form(lemma)
	}
	return tr.form(d.predicative(lemma, f.Person(ir.KeyPerson), f.Number(ir.KeyNumber), f.Gender(ir.KeyGender), strings.ToLower(f.String(ir.KeyTense)), card, tr))
}

func dravidianSection(card *ir.LanguageCard) *ir.DravidianSection {
	if card == nil {
		return nil
	}
	return card.Dravidian
}

func (d Dravidian) nounForm(lemma, number, grammaticalCase, nounClass string, card *ir.LanguageCard, tr *trace) string {
	sec := dravidianSection(card)
	if sec == nil {
		return lemma
	}

	var plural string
	if ir.NumberCode(number) == "pl" {
		plural = sec.Plural.Get(nounClass)
	}
	// Unknown cases take no suffix; there is no default case.
	caseSuffix, _ := sec.Cases.Lookup(grammaticalCase)

	type step struct{ kind, suffix string }
	steps := []step{{"plural", plural}, {"case:" + grammaticalCase, caseSuffix}}
	if !sec.PluralFirst() {
		steps[0], steps[1] = steps[1], steps[0]
	}

	form := lemma
	for _, s := range steps {
		if s.suffix == "" {
			continue
		}
		form = d.attach(form, s.suffix, card, tr)
		tr.add("dravidian.%s=%s", s.kind, s.suffix)
	}
	return form
}

// attach joins stem and suffix, resolving vowel-vowel contact.
func (Dravidian) attach(stem, suffix string, card *ir.LanguageCard, tr *trace) string {
	p := card.Phonetics
	sandhi := card.Dravidian.Sandhi
	if !p.EndsWithVowel(stem) || !p.StartsWithVowel(suffix) {
		return stem + suffix
	}
	switch {
	case sandhi.DropFinalVowel:
		tr.add("dravidian.sandhi:drop=%c", lastRune(stem))
		return dropLastRune(stem) + suffix
	case sandhi.Glide != "":
		tr.add("dravidian.sandhi:glide=%s", sandhi.Glide)
		return stem + sandhi.Glide + suffix
	}
	return stem + suffix
}

// copulaSuffix looks up key_gender (third person only), then key, then
// default.
func copulaSuffix(table ir.Table, person, number, gender string) (string, string) {
	key := ir.AgreementKey(person, number)
	if person == "3" && gender != "" {
		gendered := key + "_" + gender
		if s, ok := table.Lookup(gendered); ok {
			return s, gendered
		}
	}
	if s, ok := table.Lookup(key); ok {
		return s, key
	}
	s, _ := table.Lookup(ir.DefaultKey)
	return s, ir.DefaultKey
}

func (d Dravidian) predicative(lemma, person, number, gender, tense string, card *ir.LanguageCard, tr *trace) string {
	sec := dravidianSection(card)
	if sec == nil {
		return lemma
	}
	tense = tenseOrPresent(tense)
	suffix, key := copulaSuffix(sec.Copula.Table(tense), ir.PersonCode(person), ir.NumberCode(number), ir.GenderCode(gender))
	if suffix == "" {
		return lemma
	}
	tr.add("dravidian.copula:%s/%s=%s", tense, key, suffix)
	if sec.CopulaSeparate {
		return lemma + " " + suffix
	}
	return d.attach(lemma, suffix, card, tr)
}
