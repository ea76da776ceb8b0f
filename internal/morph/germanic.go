package morph

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/roach88/morphsynth/internal/ir"
)

// Germanic derives gendered professions, assigns grammatical gender, inflects
// adjectives and picks indefinite articles.
type Germanic struct{}

// GermanicBio is the output of Germanic.RenderSimpleBioPredicates.
type GermanicBio struct {
	Profession  string `json:"profession"`
	Nationality string `json:"nationality"`
	Article     string `json:"article"`
	WordGender  string `json:"word_gender"`
}

// Family implements Strategy.
func (Germanic) Family() ir.Family { return ir.FamilyGermanic }

// InflectProfession derives the form of a profession noun for a person of
// the given natural gender.
func (g Germanic) InflectProfession(lemma, naturalGender string, card *ir.LanguageCard) string {
	return g.profession(lemma, naturalGender, card, nil)
}

// GrammaticalGender returns the gender tag of surface: the longest matching
// ending in gender_suffixes wins, otherwise natural gender decides, otherwise
// the card default, otherwise "m".
func (g Germanic) GrammaticalGender(surface, naturalGender string, card *ir.LanguageCard) string {
	return g.wordGender(surface, naturalGender, card, nil)
}

// InflectAdjective attaches the ending for grammaticalGender. A vowel shared
// by the lemma's end and the ending's start is written once.
func (g Germanic) InflectAdjective(lemma, grammaticalGender string, card *ir.LanguageCard) string {
	return g.adjective(lemma, grammaticalGender, card, nil)
}

// IndefiniteArticle returns the article preceding nextWord.
func (g Germanic) IndefiniteArticle(nextWord, grammaticalGender string, card *ir.LanguageCard) string {
	return g.article(nextWord, grammaticalGender, card, nil)
}

// RenderSimpleBioPredicates builds the pieces of "X is a <nationality>
// <profession>". The article agrees with the word it precedes: the
// nationality when present, otherwise the profession.
func (g Germanic) RenderSimpleBioPredicates(profession, nationality, naturalGender string, card *ir.LanguageCard) GermanicBio {
	bio := GermanicBio{Profession: g.InflectProfession(profession, naturalGender, card)}
	bio.WordGender = g.GrammaticalGender(bio.Profession, naturalGender, card)
	bio.Nationality = nationality
	if nationality != "" {
		bio.Nationality = g.InflectAdjective(nationality, bio.WordGender, card)
	}
	next := bio.Nationality
	if next == "" {
		next = bio.Profession
	}
	bio.Article = g.IndefiniteArticle(next, bio.WordGender, card)
	return bio
}

// RealizeNoun implements Strategy. With definiteness=indefinite the article
// is prepended, with an inflected adjective when adjective is given. Both
// need adjective endings or articles on the card.
func (g Germanic) RealizeNoun(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm {
	tr := newTrace()
	if germanicSection(card) == nil {
		return tr.form(lemma)
	}
	natural := f.Gender(ir.KeyGender)
	noun := g.profession(lemma, natural, card, tr)

	wordGender := f.Gender(ir.KeyWordGender)
	if wordGender == "" {
		wordGender = g.wordGender(noun, natural, card, tr)
	}

	if !germanicSection(card).BuildsPhrases() {
		return tr.form(noun)
	}

	var adj string
	if a := f.String(ir.KeyAdjective); a != "" {
		adj = g.adjective(a, wordGender, card, tr)
	}

	var art string
	if !f.Plural() && strings.EqualFold(f.String(ir.KeyDefiniteness), "indefinite") {
		next := adj
		if next == "" {
			next = noun
		}
		art = g.article(next, wordGender, card, tr)
	}
	return tr.form(joinTokens(true, art, adj, noun))
}

// RealizeAdjective implements AdjectiveRealizer. The ending follows
// word_gender, or gender when word_gender is absent.
func (g Germanic) RealizeAdjective(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm {
	tr := newTrace()
	gender := f.Gender(ir.KeyWordGender)
	if gender == "" {
		gender = f.Gender(ir.KeyGender)
	}
	return tr.form(g.adjective(lemma, gender, card, tr))
}

// RealizeVerb implements Strategy: irregular forms first, then the regular
// ending for tense and person/number on the infinitive stem.
func (g Germanic) RealizeVerb(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm {
	tr := newTrace()
	sec := germanicSection(card)
	if sec == nil {
		return tr.form(lemma)
	}
	key := ir.AgreementKey(f.Person(ir.KeyPerson), f.Number(ir.KeyNumber))

	if form, ok := sec.IrregularVerbs.Table(lemma).Lookup(key); ok {
		tr.add("germanic.verb.irregular:%s/%s=%s", lemma, key, form)
		return tr.form(form)
	}

	tense := tenseOrPresent(strings.ToLower(f.String(ir.KeyTense)))
	ending, ok := sec.VerbEndings.Resolve(tense, key)
	if !ok {
		return tr.form(lemma)
	}
	stem := strings.TrimSuffix(lemma, sec.InfinitiveSuffix)
	tr.add("germanic.verb.ending:%s/%s=%s", tense, key, ending)
	return tr.form(stem + ending)
}

func germanicSection(card *ir.LanguageCard) *ir.GermanicSection {
	if card == nil {
		return nil
	}
	return card.Germanic
}

func (Germanic) profession(lemma, naturalGender string, card *ir.LanguageCard, tr *trace) string {
	sec := germanicSection(card)
	if sec == nil {
		return lemma
	}
	form := lemma
	if ir.GenderCode(naturalGender) == "f" {
		if irr, ok := sec.IrregularFeminine.Lookup(lemma); ok {
			form = irr
			tr.add("germanic.feminine.irregular=%s", irr)
		} else if out, r, ok := sec.FeminineRules.ReplaceSuffix(lemma); ok {
			form = out
			tr.add("germanic.feminine.rule:-%s->-%s", r.From, r.To)
		} else if sec.FeminineSuffix != "" {
			form = lemma + sec.FeminineSuffix
			tr.add("germanic.feminine.suffix=%s", sec.FeminineSuffix)
		}
	}
	if sec.CapitalizeNouns && form != "" {
		form = capitalizeHead(form, card)
	}
	return form
}

// capitalizeHead title-cases the first word only; the rest of a multi-word
// lemma is left as written.
func capitalizeHead(form string, card *ir.LanguageCard) string {
	head, rest := form, ""
	if i := strings.IndexFunc(form, unicode.IsSpace); i >= 0 {
		head, rest = form[:i], form[i:]
	}
	// A Caser carries state, so one is built per call.
	return cases.Title(card.LanguageTag(), cases.NoLower).String(head) + rest
}

func (Germanic) wordGender(surface, naturalGender string, card *ir.LanguageCard, tr *trace) string {
	sec := germanicSection(card)
	if sec != nil {
		if r, ok := sec.GenderSuffixes.MatchSuffix(strings.ToLower(surface)); ok {
			tr.add("germanic.gender.suffix:-%s=%s", r.From, r.To)
			return r.To
		}
	}
	switch g := ir.GenderCode(naturalGender); g {
	case "m", "f", "n":
		return g
	}
	if sec != nil && sec.DefaultGender != "" {
		return ir.GenderCode(sec.DefaultGender)
	}
	return "m"
}

func (Germanic) adjective(lemma, grammaticalGender string, card *ir.LanguageCard, tr *trace) string {
	sec := germanicSection(card)
	if sec == nil || lemma == "" {
		return lemma
	}
	ending := sec.AdjectiveEndings.Get(ir.GenderCode(grammaticalGender))
	if ending == "" {
		return lemma
	}
	tr.add("germanic.adjective:%s=%s", ir.GenderCode(grammaticalGender), ending)
	if last := lastRune(lemma); last == firstRune(ending) && card.Phonetics.IsVowel(last) {
		return lemma + dropFirstRune(ending)
	}
	return lemma + ending
}

func (Germanic) article(nextWord, grammaticalGender string, card *ir.LanguageCard, tr *trace) string {
	sec := germanicSection(card)
	if sec == nil {
		return ""
	}
	arts := sec.Articles
	if arts.Phonological {
		a, an := arts.A, arts.An
		if a == "" {
			a = "a"
		}
		if an == "" {
			an = "an"
		}
		if card.Phonetics.StartsWithVowel(nextWord) {
			tr.add("germanic.article:phonological=%s", an)
			return an
		}
		tr.add("germanic.article:phonological=%s", a)
		return a
	}
	art := arts.Indefinite.Get(ir.GenderCode(grammaticalGender))
	if art != "" {
		tr.add("germanic.article:%s=%s", ir.GenderCode(grammaticalGender), art)
	}
	return art
}
