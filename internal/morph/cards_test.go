package morph

import (
	"golang.org/x/text/language"

	"github.com/roach88/morphsynth/internal/ir"
)

func boolPtr(b bool) *bool { return &b }

func turkishCard() *ir.LanguageCard {
	return &ir.LanguageCard{
		Code:   "tr",
		Family: ir.FamilyAgglutinative,
		Tag:    language.Turkish,
		Phonetics: ir.Phonetics{
			Vowels:       "aeıioöuü",
			DefaultVowel: "e",
			HarmonyGroups: map[string][]string{
				"front": {"e", "i", "ö", "ü"},
				"back":  {"a", "ı", "o", "u"},
			},
		},
		Agglutinative: &ir.AgglutinativeSection{
			BufferConsonant: "y",
			Buffers:         ir.Table{"poss_3sg": "s"},
			Suffixes: ir.TableSet{
				"plural":     {"front": "ler", "back": "lar"},
				"ablative":   {"front": "den", "back": "dan"},
				"locative":   {"front": "de", "back": "da"},
				"dative":     {"front": "e", "back": "a"},
				"accusative": {"front": "i", "back": "ı"},
				"relative":   {"default": "ki"},
				"poss_1sg":   {"front": "im", "back": "ım"},
				"poss_3sg":   {"front": "i", "back": "ı"},
				"negative":   {"front": "me", "back": "ma"},
				"past":       {"front": "di", "back": "dı"},
				"agr_1sg":    {"default": "m"},
				"agr_1pl":    {"default": "k"},
				"question":   {"front": "mi", "back": "mı"},
				"copula":     {"front": "dir", "back": "dır"},
				"copula_1sg": {"front": "im", "back": "ım"},
			},
			QuestionSeparate: true,
		},
	}
}

func tagalogCard() *ir.LanguageCard {
	return &ir.LanguageCard{
		Code:      "tl",
		Family:    ir.FamilyAustronesian,
		Tag:       language.MustParse("tl"),
		Phonetics: ir.Phonetics{Vowels: "aeiou"},
		Austronesian: &ir.AustronesianSection{
			ReduplicationSeparator: "-",
			Voice: ir.AffixTable{
				"actor":   {Infix: "um"},
				"patient": {Suffix: "in"},
			},
			Aspect: ir.AffixTable{
				"contemplative": {Reduplication: ir.ReduplicationCV},
			},
			Nominalizer: ir.AffixTable{
				"agent":   {Prefix: "mang"},
				"default": {Prefix: "pag"},
			},
			PluralMarker: "mga",
		},
	}
}

func welshCard() *ir.LanguageCard {
	return &ir.LanguageCard{
		Code:      "cy",
		Family:    ir.FamilyCeltic,
		Tag:       language.MustParse("cy"),
		Phonetics: ir.Phonetics{Vowels: "aeiouwy"},
		Celtic: &ir.CelticSection{
			Mutations: map[string]ir.RuleList{
				"soft": {
					{From: "p", To: "b"}, {From: "t", To: "d"}, {From: "c", To: "g"},
					{From: "b", To: "f"}, {From: "d", To: "dd"}, {From: "g", To: ""},
					{From: "m", To: "f"}, {From: "ll", To: "l"}, {From: "rh", To: "r"},
				},
				"nasal": {
					{From: "p", To: "mh"}, {From: "t", To: "nh"}, {From: "c", To: "ngh"},
					{From: "b", To: "m"}, {From: "d", To: "n"}, {From: "g", To: "ng"},
				},
			},
			IrregularNouns:         ir.Table{"athro": "athrawes", "brenin": "brenhines"},
			NounFeminineRules:      ir.RuleList{{From: "wr", To: "wraig"}, {From: "iwr", To: "wraig"}, {From: "ydd", To: "yddes"}},
			IrregularAdjectives:    ir.Table{"gwyn": "gwen"},
			AdjectiveFeminineRules: ir.RuleList{{From: "yn", To: "en"}},
			Copula: ir.TableSet{
				"present": {"1sg": "ydw", "2sg": "wyt", "3sg": "mae", "1pl": "ydyn", "3pl": "maen", "default": "mae"},
				"past":    {"3sg": "roedd", "default": "roedd"},
			},
			CopulaLemma:                    "bod",
			BioTense:                       "present",
			AdjectiveMutationAfterFeminine: "soft",
			DefiniteFeminineMutation:       "soft",
		},
	}
}

func tamilCard() *ir.LanguageCard {
	return &ir.LanguageCard{
		Code:      "ta",
		Family:    ir.FamilyDravidian,
		Tag:       language.Tamil,
		Phonetics: ir.Phonetics{Vowels: "aeiou"},
		Dravidian: &ir.DravidianSection{
			Plural: ir.Table{"default": "gal", "human": "ar"},
			Cases: ir.Table{
				"nominative": "",
				"accusative": "ai",
				"dative":     "ukku",
				"locative":   "il",
			},
			Sandhi: ir.Sandhi{Glide: "v"},
			Copula: ir.TableSet{
				"present": {"1sg": "en", "3sg": "athu", "3sg_m": "an", "3sg_f": "al", "default": ""},
			},
		},
	}
}

func germanCard() *ir.LanguageCard {
	return &ir.LanguageCard{
		Code:      "de",
		Family:    ir.FamilyGermanic,
		Tag:       language.German,
		Phonetics: ir.Phonetics{Vowels: "aeiouäöü"},
		Germanic: &ir.GermanicSection{
			IrregularFeminine: ir.Table{"Arzt": "Ärztin"},
			FeminineRules:     ir.RuleList{{From: "e", To: "in"}},
			FeminineSuffix:    "in",
			GenderSuffixes: ir.RuleList{
				{From: "in", To: "f"}, {From: "ung", To: "f"}, {From: "chen", To: "n"}, {From: "er", To: "m"},
			},
			DefaultGender:    "m",
			AdjectiveEndings: ir.Table{"m": "er", "f": "e", "n": "es"},
			Articles:         ir.Articles{Indefinite: ir.Table{"m": "ein", "f": "eine", "n": "ein"}},
			CapitalizeNouns:  true,
			InfinitiveSuffix: "en",
			VerbEndings: ir.TableSet{
				"present": {"1sg": "e", "2sg": "st", "3sg": "t", "1pl": "en", "2pl": "t", "3pl": "en"},
			},
			IrregularVerbs: ir.TableSet{
				"sein": {"1sg": "bin", "2sg": "bist", "3sg": "ist", "1pl": "sind", "3pl": "sind"},
			},
		},
	}
}

func englishCard() *ir.LanguageCard {
	return &ir.LanguageCard{
		Code:      "en",
		Family:    ir.FamilyGermanic,
		Tag:       language.English,
		Phonetics: ir.Phonetics{Vowels: "aeiou"},
		Germanic: &ir.GermanicSection{
			IrregularFeminine: ir.Table{"waiter": "waitress"},
			FeminineRules:     ir.RuleList{{From: "or", To: "ress"}},
			Articles:          ir.Articles{Phonological: true},
		},
	}
}

func mandarinCard() *ir.LanguageCard {
	return &ir.LanguageCard{
		Code:   "zh",
		Family: ir.FamilyIsolating,
		Tag:    language.Chinese,
		Isolating: &ir.IsolatingSection{
			UseSpaces: boolPtr(false),
			Classifiers: ir.Classifiers{
				Default:   "个",
				Honorific: "位",
				Nouns:     ir.Table{"书": "本", "猫": "只"},
			},
			Numerals:     ir.Table{"1": "一", "2": "两", "3": "三"},
			NumeralOrder: ir.NumeralClassifierNoun,
			Particles: ir.Particles{
				Plural:         "们",
				PluralPosition: ir.PositionPost,
				Negation:       ir.Table{"perfective": "没", "default": "不"},
				Possessive:     "的",
			},
			TAM: ir.TableSet{
				"aspect": {"progressive": "在"},
			},
			AdjectivePosition: ir.PositionPre,
			AdjectiveLinker:   "的",
			VerbalPattern:     ir.PatternNegTAMVerb,
		},
	}
}

func vietnameseCard() *ir.LanguageCard {
	return &ir.LanguageCard{
		Code:   "vi",
		Family: ir.FamilyIsolating,
		Tag:    language.Vietnamese,
		Isolating: &ir.IsolatingSection{
			Classifiers: ir.Classifiers{
				Default: "cái",
				Human:   "người",
				Nouns:   ir.Table{"mèo": "con", "sách": "quyển"},
			},
			Numerals: ir.Table{"1": "một", "2": "hai", "3": "ba"},
			Particles: ir.Particles{
				Plural:     "những",
				Indefinite: "một",
				Negation:   ir.Table{"perfective": "chưa", "default": "không"},
				Possessive: "của",
			},
			PossessorPosition: ir.PositionPost,
			AdjectivePosition: ir.PositionPost,
			TAM: ir.TableSet{
				"tense":  {"past": "đã", "future": "sẽ"},
				"aspect": {"progressive": "đang"},
			},
			VerbalPattern: ir.PatternNegTAMVerb,
		},
	}
}

func polysyntheticCard() *ir.LanguageCard {
	return &ir.LanguageCard{
		Code:      "x-poly",
		Family:    ir.FamilyPolysynthetic,
		Phonetics: ir.Phonetics{Vowels: "aeiou"},
		Polysynthetic: &ir.PolysyntheticSection{
			SubjectPrefixes: ir.Table{"1sg": "ke", "3sg": "ra", "3pl": "ron"},
			ObjectPrefixes:  ir.Table{"3sg": "ri", "default": "ha"},
			FallbackPrefix:  "a",
			Incorporation: ir.Incorporation{
				AllowedRoles:  []string{"patient"},
				ClassPrefixes: ir.Table{"animate": "n", "default": ""},
			},
			Derivations: ir.Table{"causative": "st", "applicative": "en"},
			Tense:       ir.Table{"past": "ke", "future": "ne", "default": ""},
			Aspect:      ir.Table{"habitual": "s"},
			Mood:        ir.Table{"optative": "a"},
			Cleanup:     ir.Cleanup{CollapseVowels: true},

			PossessivePrefixes: ir.Table{"1sg": "ak"},
			NounPlural:         "shon",
		},
	}
}

// emptyCard has every section present and empty.
func emptyCard() *ir.LanguageCard {
	return &ir.LanguageCard{
		Code:          "und",
		Agglutinative: &ir.AgglutinativeSection{},
		Austronesian:  &ir.AustronesianSection{},
		Celtic:        &ir.CelticSection{},
		Dravidian:     &ir.DravidianSection{},
		Germanic:      &ir.GermanicSection{},
		Isolating:     &ir.IsolatingSection{},
		Polysynthetic: &ir.PolysyntheticSection{},
	}
}

// fullCards returns one populated card per family.
func fullCards() map[ir.Family]*ir.LanguageCard {
	return map[ir.Family]*ir.LanguageCard{
		ir.FamilyAgglutinative: turkishCard(),
		ir.FamilyAustronesian:  tagalogCard(),
		ir.FamilyCeltic:        welshCard(),
		ir.FamilyDravidian:     tamilCard(),
		ir.FamilyGermanic:      germanCard(),
		ir.FamilyIsolating:     vietnameseCard(),
		ir.FamilyPolysynthetic: polysyntheticCard(),
	}
}
