package morph

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/roach88/morphsynth/internal/ir"
)

// DefaultBioTense is used when a card names no bio_tense.
const DefaultBioTense = "present"

// Celtic handles initial consonant mutation, gendered derivation and copula
// selection.
type Celtic struct{}

// CelticBio is the output of Celtic.RenderSimpleBioPredicates.
type CelticBio struct {
	Profession  string `json:"profession"`
	Nationality string `json:"nationality"`
	Copula      string `json:"copula"`
	Tense       string `json:"tense"`
}

// Family implements Strategy.
func (Celtic) Family() ir.Family { return ir.FamilyCeltic }

// ApplyMutation replaces the longest matching initial segment of word
// according to the named mutation. A capital first letter stays capital.
func (c Celtic) ApplyMutation(word, mutation string, card *ir.LanguageCard) string {
	return c.mutate(word, mutation, card, nil)
}

// GenderizeNoun derives the feminine form of a noun. Other genders pass
// through.
func (c Celtic) GenderizeNoun(lemma, gender string, card *ir.LanguageCard) string {
	sec := celticSection(card)
	if sec == nil {
		return lemma
	}
	return c.genderize(lemma, gender, sec.IrregularNouns, sec.NounFeminineRules, "noun", nil)
}

// GenderizeAdjective derives the feminine form of an adjective.
func (c Celtic) GenderizeAdjective(lemma, gender string, card *ir.LanguageCard) string {
	sec := celticSection(card)
	if sec == nil {
		return lemma
	}
	return c.genderize(lemma, gender, sec.IrregularAdjectives, sec.AdjectiveFeminineRules, "adjective", nil)
}

// SelectCopula returns copula[tense]["{p}{n}"], then copula[tense]["default"],
// then "". An empty tense means present.
func (Celtic) SelectCopula(tense, person, number string, card *ir.LanguageCard) string {
	sec := celticSection(card)
	if sec == nil {
		return ""
	}
	if tense == "" {
		tense = DefaultBioTense
	}
	return sec.Copula.Table(strings.ToLower(tense)).Get(ir.AgreementKey(ir.PersonCode(person), ir.NumberCode(number)))
}

// RenderSimpleBioPredicates builds the pieces of "X is a <nationality>
// <profession>" for a person of the given natural gender.
func (c Celtic) RenderSimpleBioPredicates(profession, nationality, gender string, card *ir.LanguageCard) CelticBio {
	bio := CelticBio{Profession: profession, Nationality: nationality, Tense: DefaultBioTense}
	sec := celticSection(card)
	if sec == nil {
		return bio
	}
	if sec.BioTense != "" {
		bio.Tense = sec.BioTense
	}
	bio.Profession = c.GenderizeNoun(profession, gender, card)
	bio.Nationality = c.GenderizeAdjective(nationality, gender, card)
	if ir.GenderCode(gender) == "f" && bio.Nationality != "" && sec.AdjectiveMutationAfterFeminine != "" {
		bio.Nationality = c.ApplyMutation(bio.Nationality, sec.AdjectiveMutationAfterFeminine, card)
	}
	bio.Copula = c.SelectCopula(bio.Tense, "3", "sg", card)
	return bio
}

// RealizeNoun implements Strategy.
func (c Celtic) RealizeNoun(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm {
	tr := newTrace()
	sec := celticSection(card)
	if sec == nil {
		return tr.form(lemma)
	}
	gender := f.Gender(ir.KeyGender)
	form := c.genderize(lemma, gender, sec.IrregularNouns, sec.NounFeminineRules, "noun", tr)

	mutation := strings.ToLower(f.String(ir.KeyMutation))
	if mutation == "" && gender == "f" && !f.Plural() && strings.EqualFold(f.String(ir.KeyDefiniteness), "definite") {
		mutation = sec.DefiniteFeminineMutation
	}
	return tr.form(c.mutate(form, mutation, card, tr))
}

// RealizeAdjective implements AdjectiveRealizer.
func (c Celtic) RealizeAdjective(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm {
	tr := newTrace()
	sec := celticSection(card)
	if sec == nil {
		return tr.form(lemma)
	}
	form := c.genderize(lemma, f.Gender(ir.KeyGender), sec.IrregularAdjectives, sec.AdjectiveFeminineRules, "adjective", tr)
	return tr.form(c.mutate(form, strings.ToLower(f.String(ir.KeyMutation)), card, tr))
}

// RealizeVerb implements Strategy. The copula lemma (or an empty lemma) is
// realized from the copula table; other verbs only take a requested mutation.
func (c Celtic) RealizeVerb(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm {
	tr := newTrace()
	sec := celticSection(card)
	if sec == nil {
		return tr.form(lemma)
	}
	form := lemma
	if lemma == "" || (sec.CopulaLemma != "" && lemma == sec.CopulaLemma) {
		tense := strings.ToLower(f.String(ir.KeyTense))
		if cop := c.SelectCopula(tense, f.Person(ir.KeyPerson), f.Number(ir.KeyNumber), card); cop != "" {
			form = cop
			tr.add("celtic.copula:%s/%s=%s", tenseOrPresent(tense), ir.AgreementKey(f.Person(ir.KeyPerson), f.Number(ir.KeyNumber)), cop)
		}
	}
	return tr.form(c.mutate(form, strings.ToLower(f.String(ir.KeyMutation)), card, tr))
}

func celticSection(card *ir.LanguageCard) *ir.CelticSection {
	if card == nil {
		return nil
	}
	return card.Celtic
}

func tenseOrPresent(tense string) string {
	if tense == "" {
		return DefaultBioTense
	}
	return tense
}

func (Celtic) genderize(lemma, gender string, irregular ir.Table, rules ir.RuleList, kind string, tr *trace) string {
	if ir.GenderCode(gender) != "f" {
		return lemma
	}
	if form, ok := irregular.Lookup(lemma); ok {
		tr.add("celtic.%s.irregular=%s", kind, form)
		return form
	}
	if form, r, ok := rules.ReplaceSuffix(lemma); ok {
		tr.add("celtic.%s.feminine:-%s->-%s", kind, r.From, r.To)
		return form
	}
	return lemma
}

func (Celtic) mutate(word, mutation string, card *ir.LanguageCard, tr *trace) string {
	sec := celticSection(card)
	if sec == nil || mutation == "" || word == "" {
		return word
	}
	rules, ok := sec.Mutations[mutation]
	if !ok {
		return word
	}

	first, size := utf8.DecodeRuneInString(word)
	capital := unicode.IsUpper(first)
	lowered := word
	if capital {
		lowered = string(unicode.ToLower(first)) + word[size:]
	}

	out, r, ok := rules.ReplacePrefix(lowered)
	if !ok {
		return word
	}
	tr.add("celtic.mutation:%s:%s->%s", mutation, r.From, r.To)
	if capital && out != "" {
		head, n := utf8.DecodeRuneInString(out)
		out = string(unicode.ToUpper(head)) + out[n:]
	}
	return out
}
