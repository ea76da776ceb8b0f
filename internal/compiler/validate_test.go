package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/morphsynth/internal/ir"
)

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateCleanCard(t *testing.T) {
	card, diags, err := CompileCUEBytes("tr.cue", []byte(turkishCUE))
	require.NoError(t, err)
	require.Empty(t, diags)

	assert.Empty(t, Validate(card), "compiled Turkish card should lint clean")
}

func TestValidateNil(t *testing.T) {
	errs := Validate(nil)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrNilCard, errs[0].Code)
}

func TestValidateCardLevel(t *testing.T) {
	errs := Validate(&ir.LanguageCard{Code: " ", Family: "klingon"})
	assert.Equal(t, []string{ErrCodeEmpty, ErrUnknownFamily}, codes(errs))

	errs = Validate(&ir.LanguageCard{Code: "cy", Family: ir.FamilyCeltic})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrFamilySectionEmpty, errs[0].Code)
	assert.Equal(t, "celtic", errs[0].Field)
}

func TestValidateHarmonyVowels(t *testing.T) {
	card := &ir.LanguageCard{
		Code:   "fi",
		Family: ir.FamilyAgglutinative,
		Phonetics: ir.Phonetics{
			Vowels:        "aeiouyäö",
			HarmonyGroups: map[string][]string{"front": {"ä", "ö", "y"}, "back": {"a", "o", "u", "ı"}},
		},
		Agglutinative: &ir.AgglutinativeSection{},
	}

	errs := Validate(card)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrHarmonyVowel, errs[0].Code)
	assert.Equal(t, "phonetics.harmony_groups.back", errs[0].Field)
}

func TestValidateSuffixCoverage(t *testing.T) {
	card := &ir.LanguageCard{
		Code:   "tr",
		Family: ir.FamilyAgglutinative,
		Phonetics: ir.Phonetics{
			HarmonyGroups: map[string][]string{"front": {"e"}, "back": {"a"}},
		},
		Agglutinative: &ir.AgglutinativeSection{
			Suffixes: ir.TableSet{
				"plural":   {"front": "ler"},
				"negative": {"default": "me"},
			},
		},
	}

	errs := Validate(card)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrSuffixGroupUncovered, errs[0].Code)
	assert.Equal(t, "agglutinative.suffixes.plural", errs[0].Field)
	assert.Contains(t, errs[0].Message, `"back"`)
}

func TestValidateCeltic(t *testing.T) {
	card := &ir.LanguageCard{
		Code:   "cy",
		Family: ir.FamilyCeltic,
		Celtic: &ir.CelticSection{
			Mutations:                      map[string]ir.RuleList{"soft": {{From: "", To: "g"}, {From: "c", To: "g"}}},
			AdjectiveMutationAfterFeminine: "soft",
			DefiniteFeminineMutation:       "lenition",
			Copula:                         ir.TableSet{"past": {"3sg": "roedd"}},
		},
	}

	assert.Equal(t, []string{ErrEmptyRuleFrom, ErrUnknownMutation, ErrCopulaWithoutPresent}, codes(Validate(card)))

	card.Celtic.BioTense = "past"
	card.Celtic.DefiniteFeminineMutation = ""
	card.Celtic.Mutations["soft"] = ir.RuleList{{From: "c", To: "g"}}
	assert.Empty(t, Validate(card))
}

func TestValidateIsolating(t *testing.T) {
	card := &ir.LanguageCard{
		Code:   "vi",
		Family: ir.FamilyIsolating,
		Isolating: &ir.IsolatingSection{
			NumeralOrder:      "cls_num_noun",
			AdjectivePosition: "middle",
			TAM:               ir.TableSet{"tense": {"past": "đã"}},
		},
	}

	assert.Equal(t, []string{ErrInvalidEnum, ErrInvalidEnum, ErrUnplacedParticles}, codes(Validate(card)))

	card.Isolating.NumeralOrder = ""
	card.Isolating.AdjectivePosition = ir.PositionPost
	card.Isolating.VerbalPattern = ir.PatternNegTAMVerb
	assert.Empty(t, Validate(card))
}

func TestValidateAustronesian(t *testing.T) {
	card := &ir.LanguageCard{
		Code:   "tl",
		Family: ir.FamilyAustronesian,
		Austronesian: &ir.AustronesianSection{
			Aspect: ir.AffixTable{"progressive": {Reduplication: "cv"}, "odd": {Reduplication: "triple"}},
			Plural: &ir.AffixSpec{Reduplication: "partial"},
		},
	}

	errs := Validate(card)
	assert.Equal(t, []string{ErrUnknownReduplication, ErrUnknownReduplication}, codes(errs))
	assert.Equal(t, "austronesian.aspect.odd.reduplication", errs[0].Field)
	assert.Equal(t, "austronesian.plural.reduplication", errs[1].Field)
}

func TestValidateGermanicAndPolysynthetic(t *testing.T) {
	de := &ir.LanguageCard{
		Code:   "de",
		Family: ir.FamilyGermanic,
		Germanic: &ir.GermanicSection{
			Articles:         ir.Articles{Phonological: true, A: "a"},
			InfinitiveSuffix: "en",
		},
	}
	assert.Equal(t, []string{ErrArticlesIncomplete, ErrInfinitiveWithoutVerbs}, codes(Validate(de)))

	moh := &ir.LanguageCard{
		Code:   "moh",
		Family: ir.FamilyPolysynthetic,
		Polysynthetic: &ir.PolysyntheticSection{
			Incorporation: ir.Incorporation{ClassPrefixes: ir.Table{"animate": "n"}},
		},
	}
	assert.Equal(t, []string{ErrIncorporationDisabled}, codes(Validate(moh)))
}

func TestValidateDravidianCopula(t *testing.T) {
	card := &ir.LanguageCard{
		Code:      "ta",
		Family:    ir.FamilyDravidian,
		Dravidian: &ir.DravidianSection{Copula: ir.TableSet{"past": {"1sg": "ēn"}}},
	}
	assert.Equal(t, []string{ErrCopulaWithoutPresent}, codes(Validate(card)))
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Field: "celtic.copula", Message: "missing", Code: ErrCopulaWithoutPresent, Line: 4}
	assert.Equal(t, "[E217] line 4: celtic.copula: missing", e.Error())

	e.Line = 0
	assert.Equal(t, "[E217] celtic.copula: missing", e.Error())
}
