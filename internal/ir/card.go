package ir

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

// LanguageCard is the compiled, immutable configuration of one language.
//
// Every section is optional. A nil family section means the family's
// features are unsupported for the language and synthesis passes the lemma
// through unchanged.
//
// INVARIANT: a card is never mutated after the compiler returns it, so one
// *LanguageCard may be read by any number of goroutines without locking.
type LanguageCard struct {
	Code   string       `json:"code" yaml:"code"`
	Name   string       `json:"name,omitempty" yaml:"name"`
	Family Family       `json:"family" yaml:"family"`
	Tag    language.Tag `json:"-" yaml:"-"` // Parsed from Code by the compiler

	Phonetics Phonetics `json:"phonetics" yaml:"phonetics"`

	Agglutinative *AgglutinativeSection `json:"agglutinative,omitempty" yaml:"agglutinative"`
	Austronesian  *AustronesianSection  `json:"austronesian,omitempty" yaml:"austronesian"`
	Celtic        *CelticSection        `json:"celtic,omitempty" yaml:"celtic"`
	Dravidian     *DravidianSection     `json:"dravidian,omitempty" yaml:"dravidian"`
	Germanic      *GermanicSection      `json:"germanic,omitempty" yaml:"germanic"`
	Isolating     *IsolatingSection     `json:"isolating,omitempty" yaml:"isolating"`
	Polysynthetic *PolysyntheticSection `json:"polysynthetic,omitempty" yaml:"polysynthetic"`
}

// HasSection reports whether the card carries tables for family f.
func (c *LanguageCard) HasSection(f Family) bool {
	if c == nil {
		return false
	}
	switch f {
	case FamilyAgglutinative:
		return c.Agglutinative != nil
	case FamilyAustronesian:
		return c.Austronesian != nil
	case FamilyCeltic:
		return c.Celtic != nil
	case FamilyDravidian:
		return c.Dravidian != nil
	case FamilyGermanic:
		return c.Germanic != nil
	case FamilyIsolating:
		return c.Isolating != nil
	case FamilyPolysynthetic:
		return c.Polysynthetic != nil
	default:
		return false
	}
}

// LanguageTag returns the parsed tag, or language.Und for a nil card.
func (c *LanguageCard) LanguageTag() language.Tag {
	if c == nil {
		return language.Und
	}
	return c.Tag
}

// fallbackVowels is used when a card declares no vowel inventory.
const fallbackVowels = "aeiou"

// Phonetics holds the shared phoneme data.
type Phonetics struct {
	Vowels        string              `json:"vowels,omitempty" yaml:"vowels"`
	DefaultVowel  string              `json:"default_vowel,omitempty" yaml:"default_vowel"`
	HarmonyGroups map[string][]string `json:"harmony_groups,omitempty" yaml:"harmony_groups"`
}

// IsVowel reports whether r belongs to the vowel inventory. Matching is
// case-insensitive.
func (p Phonetics) IsVowel(r rune) bool {
	inv := p.Vowels
	if inv == "" {
		inv = fallbackVowels
	}
	return strings.ContainsRune(inv, r) || strings.ContainsRune(inv, unicode.ToLower(r))
}

// LastVowel returns the last vowel of word.
func (p Phonetics) LastVowel(word string) (rune, bool) {
	rs := []rune(word)
	for i := len(rs) - 1; i >= 0; i-- {
		if p.IsVowel(rs[i]) {
			return rs[i], true
		}
	}
	return 0, false
}

// FirstVowelIndex returns the byte index of the first vowel in word, or -1.
func (p Phonetics) FirstVowelIndex(word string) int {
	for i, r := range word {
		if p.IsVowel(r) {
			return i
		}
	}
	return -1
}

// StartsWithVowel reports whether word begins with a vowel.
func (p Phonetics) StartsWithVowel(word string) bool {
	for _, r := range word {
		return p.IsVowel(r)
	}
	return false
}

// EndsWithVowel reports whether word ends with a vowel.
func (p Phonetics) EndsWithVowel(word string) bool {
	rs := []rune(word)
	return len(rs) > 0 && p.IsVowel(rs[len(rs)-1])
}

// HarmonyGroup returns the harmony group containing vowel v. When v sits in
// several groups the lexicographically smallest name wins, so classification
// never depends on map iteration order.
func (p Phonetics) HarmonyGroup(v rune) (string, bool) {
	best := ""
	found := false
	for name, members := range p.HarmonyGroups {
		for _, m := range members {
			if m == string(v) || m == string(unicode.ToLower(v)) {
				if !found || name < best {
					best = name
					found = true
				}
				break
			}
		}
	}
	return best, found
}

// ClassifyStem returns the harmony group of the stem's last vowel, or of the
// default vowel when the stem has none.
func (p Phonetics) ClassifyStem(stem string) (string, bool) {
	if v, ok := p.LastVowel(stem); ok {
		return p.HarmonyGroup(v)
	}
	for _, r := range p.DefaultVowel {
		return p.HarmonyGroup(r)
	}
	return "", false
}

// AgglutinativeSection drives suffix-chain languages with vowel harmony.
type AgglutinativeSection struct {
	// Suffixes maps suffix type → harmony group (or "default") → allomorph.
	Suffixes TableSet `json:"suffixes,omitempty" yaml:"suffixes"`

	// BufferConsonant is inserted between a vowel-final stem and a
	// vowel-initial suffix.
	BufferConsonant string `json:"buffer_consonant,omitempty" yaml:"buffer_consonant"`

	// Buffers overrides BufferConsonant per suffix type.
	Buffers Table `json:"buffers,omitempty" yaml:"buffers"`

	// QuestionSeparate writes the question particle as its own word.
	QuestionSeparate bool `json:"question_separate,omitempty" yaml:"question_separate"`
}

// AffixSpec is one Austronesian affix bundle, applied as
// reduplication → prefix → infix → suffix.
type AffixSpec struct {
	Reduplication string `json:"reduplication,omitempty" yaml:"reduplication"`
	Prefix        string `json:"prefix,omitempty" yaml:"prefix"`
	Infix         string `json:"infix,omitempty" yaml:"infix"`
	Suffix        string `json:"suffix,omitempty" yaml:"suffix"`
}

// IsZero reports whether the spec changes nothing.
func (a AffixSpec) IsZero() bool {
	return a == AffixSpec{}
}

// AffixTable maps a category value (voice, aspect, nominalizer) to a spec.
type AffixTable map[string]AffixSpec

// Resolve returns the spec for key, falling back to the default entry.
func (t AffixTable) Resolve(key string) (AffixSpec, bool) {
	if s, ok := t[key]; ok {
		return s, true
	}
	if s, ok := t[DefaultKey]; ok {
		return s, true
	}
	return AffixSpec{}, false
}

// Reduplication pattern names.
const (
	ReduplicationCV   = "cv"
	ReduplicationFull = "full"
)

// AustronesianSection drives voice/aspect affixation with reduplication.
type AustronesianSection struct {
	Voice       AffixTable `json:"voice,omitempty" yaml:"voice"`
	Aspect      AffixTable `json:"aspect,omitempty" yaml:"aspect"`
	Nominalizer AffixTable `json:"nominalizer,omitempty" yaml:"nominalizer"`

	// Plural is applied to nouns with number=pl when present.
	Plural *AffixSpec `json:"plural,omitempty" yaml:"plural"`

	// PluralMarker is a pre-nominal plural word used when Plural is absent.
	PluralMarker string `json:"plural_marker,omitempty" yaml:"plural_marker"`

	// ReduplicationSeparator joins the halves of a full reduplication.
	ReduplicationSeparator string `json:"reduplication_separator,omitempty" yaml:"reduplication_separator"`
}

// CelticSection drives initial mutation and gendered derivation.
type CelticSection struct {
	// Mutations maps a mutation name (soft, nasal, aspirate) to its rules.
	Mutations map[string]RuleList `json:"mutations,omitempty" yaml:"mutations"`

	IrregularNouns         Table    `json:"irregular_nouns,omitempty" yaml:"irregular_nouns"`
	IrregularAdjectives    Table    `json:"irregular_adjectives,omitempty" yaml:"irregular_adjectives"`
	NounFeminineRules      RuleList `json:"noun_feminine_rules,omitempty" yaml:"noun_feminine_rules"`
	AdjectiveFeminineRules RuleList `json:"adjective_feminine_rules,omitempty" yaml:"adjective_feminine_rules"`

	// Copula maps tense → "{person}{number}" → copula form.
	Copula TableSet `json:"copula,omitempty" yaml:"copula"`

	// CopulaLemma is the verb lemma realized through the copula table.
	CopulaLemma string `json:"copula_lemma,omitempty" yaml:"copula_lemma"`

	// BioTense is the tense used for biography predicates (default "present").
	BioTense string `json:"bio_tense,omitempty" yaml:"bio_tense"`

	// AdjectiveMutationAfterFeminine names the mutation applied to an
	// adjective following a feminine singular noun.
	AdjectiveMutationAfterFeminine string `json:"adjective_mutation_after_feminine,omitempty" yaml:"adjective_mutation_after_feminine"`

	// DefiniteFeminineMutation names the mutation applied to a feminine
	// singular noun after the definite article.
	DefiniteFeminineMutation string `json:"definite_feminine_mutation,omitempty" yaml:"definite_feminine_mutation"`
}

// Sandhi configures vowel contact at a morpheme boundary.
type Sandhi struct {
	DropFinalVowel bool   `json:"drop_final_vowel,omitempty" yaml:"drop_final_vowel"`
	Glide          string `json:"glide,omitempty" yaml:"glide"`
}

// DravidianSection drives plural/case stacking and copular agreement.
type DravidianSection struct {
	// Plural maps noun class → plural suffix.
	Plural Table `json:"plural,omitempty" yaml:"plural"`

	// Cases maps an abstract case label → case suffix.
	Cases Table `json:"cases,omitempty" yaml:"cases"`

	// PluralBeforeCase orders plural and case suffixes. Nil means true.
	PluralBeforeCase *bool `json:"plural_before_case,omitempty" yaml:"plural_before_case"`

	Sandhi Sandhi `json:"sandhi,omitempty" yaml:"sandhi"`

	// Copula maps tense → "{p}{n}[_{gender}]" → agreement suffix.
	Copula TableSet `json:"copula,omitempty" yaml:"copula"`

	// CopulaSeparate writes the copula as its own word instead of a suffix.
	CopulaSeparate bool `json:"copula_separate,omitempty" yaml:"copula_separate"`
}

// PluralFirst reports the plural/case order, defaulting to plural first.
func (d *DravidianSection) PluralFirst() bool {
	return d.PluralBeforeCase == nil || *d.PluralBeforeCase
}

// Articles configures indefinite article selection.
type Articles struct {
	// Phonological selects between A and An by the next word's first sound.
	Phonological bool   `json:"phonological,omitempty" yaml:"phonological"`
	A            string `json:"a,omitempty" yaml:"a"`
	An           string `json:"an,omitempty" yaml:"an"`

	// Indefinite maps grammatical gender → article.
	Indefinite Table `json:"indefinite,omitempty" yaml:"indefinite"`
}

// IsZero reports whether no article is configured.
func (a Articles) IsZero() bool {
	return !a.Phonological && a.A == "" && a.An == "" && len(a.Indefinite) == 0
}

// GermanicSection drives gendered derivation, adjective endings and articles.
type GermanicSection struct {
	IrregularFeminine Table    `json:"irregular_feminine,omitempty" yaml:"irregular_feminine"`
	FeminineRules     RuleList `json:"feminine_rules,omitempty" yaml:"feminine_rules"`
	FeminineSuffix    string   `json:"feminine_suffix,omitempty" yaml:"feminine_suffix"`

	// GenderSuffixes maps a word ending (From) to a grammatical gender (To).
	GenderSuffixes RuleList `json:"gender_suffixes,omitempty" yaml:"gender_suffixes"`
	DefaultGender  string   `json:"default_gender,omitempty" yaml:"default_gender"`

	// AdjectiveEndings maps grammatical gender → adjective ending.
	AdjectiveEndings Table `json:"adjective_endings,omitempty" yaml:"adjective_endings"`

	Articles Articles `json:"articles,omitempty" yaml:"articles"`

	CapitalizeNouns bool `json:"capitalize_nouns,omitempty" yaml:"capitalize_nouns"`

	// InfinitiveSuffix is stripped before verb endings attach.
	InfinitiveSuffix string `json:"infinitive_suffix,omitempty" yaml:"infinitive_suffix"`

	// VerbEndings maps tense → "{p}{n}" → ending.
	VerbEndings TableSet `json:"verb_endings,omitempty" yaml:"verb_endings"`

	// IrregularVerbs maps lemma → "{p}{n}" → full form.
	IrregularVerbs TableSet `json:"irregular_verbs,omitempty" yaml:"irregular_verbs"`
}

// BuildsPhrases reports whether the section can place an adjective or an
// article in a noun phrase.
func (s *GermanicSection) BuildsPhrases() bool {
	return len(s.AdjectiveEndings) > 0 || !s.Articles.IsZero()
}

// Position places a modifier before or after its head.
type Position string

const (
	PositionPre  Position = "pre"
	PositionPost Position = "post"
)

// Valid reports whether p is empty or a known position.
func (p Position) Valid() bool {
	return p == "" || p == PositionPre || p == PositionPost
}

// VerbalPattern is the enumerated order of negation, TAM particles and verb.
type VerbalPattern string

const (
	PatternNegTAMVerb VerbalPattern = "neg_tam_verb"
	PatternVerbTAMNeg VerbalPattern = "verb_tam_neg"
	PatternTAMVerbNeg VerbalPattern = "tam_verb_neg"
)

// Valid reports whether p is one of the three known patterns.
func (p VerbalPattern) Valid() bool {
	switch p {
	case PatternNegTAMVerb, PatternVerbTAMNeg, PatternTAMVerbNeg:
		return true
	}
	return false
}

// NumeralOrder is the order of numeral, classifier and noun.
type NumeralOrder string

const (
	NumeralClassifierNoun NumeralOrder = "num_cls_noun"
	NounNumeralClassifier NumeralOrder = "noun_num_cls"
)

// Valid reports whether o is empty or a known order.
func (o NumeralOrder) Valid() bool {
	return o == "" || o == NumeralClassifierNoun || o == NounNumeralClassifier
}

// Classifiers holds the classifier priority chain.
type Classifiers struct {
	Default   string `json:"default,omitempty" yaml:"default"`
	Honorific string `json:"honorific,omitempty" yaml:"honorific"`
	Human     string `json:"human,omitempty" yaml:"human"`

	// Nouns maps lemma → lexical classifier.
	Nouns Table `json:"nouns,omitempty" yaml:"nouns"`
}

// IsZero reports whether the card declares no classifier at all.
func (c Classifiers) IsZero() bool {
	return c.Default == "" && c.Honorific == "" && c.Human == "" && len(c.Nouns) == 0
}

// Particles holds isolating-language function words.
type Particles struct {
	Plural         string   `json:"plural,omitempty" yaml:"plural"`
	PluralPosition Position `json:"plural_position,omitempty" yaml:"plural_position"`
	Indefinite     string   `json:"indefinite,omitempty" yaml:"indefinite"`

	// Negation maps aspect or tense value → negator, with a default.
	Negation Table `json:"negation,omitempty" yaml:"negation"`

	// Possessive is the linker between possessor and possessed.
	Possessive string `json:"possessive,omitempty" yaml:"possessive"`
}

// IsolatingSection drives particle and classifier assembly.
type IsolatingSection struct {
	// UseSpaces joins tokens with spaces. Nil means true.
	UseSpaces *bool `json:"use_spaces,omitempty" yaml:"use_spaces"`

	Classifiers  Classifiers  `json:"classifiers,omitempty" yaml:"classifiers"`
	Numerals     Table        `json:"numerals,omitempty" yaml:"numerals"`
	NumeralOrder NumeralOrder `json:"numeral_order,omitempty" yaml:"numeral_order"`
	Particles    Particles    `json:"particles,omitempty" yaml:"particles"`

	// TAM maps tense|aspect|mood → value → particle.
	TAM TableSet `json:"tam,omitempty" yaml:"tam"`

	AdjectivePosition Position `json:"adjective_position,omitempty" yaml:"adjective_position"`
	AdjectiveLinker   string   `json:"adjective_linker,omitempty" yaml:"adjective_linker"`
	TightPossession   bool     `json:"tight_possession,omitempty" yaml:"tight_possession"`
	PossessorPosition Position `json:"possessor_position,omitempty" yaml:"possessor_position"`

	VerbalPattern VerbalPattern `json:"verbal_pattern,omitempty" yaml:"verbal_pattern"`
}

// Spaced reports whether tokens are separated by spaces.
func (s *IsolatingSection) Spaced() bool {
	return s.UseSpaces == nil || *s.UseSpaces
}

// PlacesAdjectives reports whether the card says where adjectives go.
func (s *IsolatingSection) PlacesAdjectives() bool {
	return s.AdjectivePosition != "" || s.AdjectiveLinker != ""
}

// PlacesPossessors reports whether the card says how possessors attach.
func (s *IsolatingSection) PlacesPossessors() bool {
	return s.Particles.Possessive != "" || s.TightPossession || s.PossessorPosition != ""
}

// Incorporation configures noun incorporation.
type Incorporation struct {
	AllowedRoles  []string `json:"allowed_roles,omitempty" yaml:"allowed_roles"`
	ClassPrefixes Table    `json:"class_prefixes,omitempty" yaml:"class_prefixes"`
}

// Allows reports whether role may be incorporated.
func (in Incorporation) Allows(role string) bool {
	for _, r := range in.AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Cleanup configures the orthographic pass over morpheme boundaries.
type Cleanup struct {
	CollapseVowels     bool `json:"collapse_vowels,omitempty" yaml:"collapse_vowels"`
	CollapseConsonants bool `json:"collapse_consonants,omitempty" yaml:"collapse_consonants"`
}

// PolysyntheticSection drives templatic verb-word assembly.
type PolysyntheticSection struct {
	SubjectPrefixes Table  `json:"subject_prefixes,omitempty" yaml:"subject_prefixes"`
	ObjectPrefixes  Table  `json:"object_prefixes,omitempty" yaml:"object_prefixes"`
	FallbackPrefix  string `json:"fallback_prefix,omitempty" yaml:"fallback_prefix"`

	Incorporation Incorporation `json:"incorporation,omitempty" yaml:"incorporation"`

	// Derivations maps an operation name (causative, applicative) → suffix.
	Derivations Table `json:"derivations,omitempty" yaml:"derivations"`

	Tense  Table `json:"tense,omitempty" yaml:"tense"`
	Aspect Table `json:"aspect,omitempty" yaml:"aspect"`
	Mood   Table `json:"mood,omitempty" yaml:"mood"`

	Cleanup Cleanup `json:"cleanup,omitempty" yaml:"cleanup"`

	PossessivePrefixes Table  `json:"possessive_prefixes,omitempty" yaml:"possessive_prefixes"`
	NounPlural         string `json:"noun_plural,omitempty" yaml:"noun_plural"`
}
