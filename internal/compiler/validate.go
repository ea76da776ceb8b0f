package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/morphsynth/internal/ir"
)

// Validation error codes (E200-E299). None of these stop a card from
// loading; they flag tables that will silently fall back to identity.
const (
	// Card-level errors (E200-E209)
	ErrNilCard            = "E200" // no card to validate
	ErrCodeEmpty          = "E201" // language code is required
	ErrUnknownFamily      = "E202" // family is not one of the known families
	ErrFamilySectionEmpty = "E203" // card declares a family but carries no section for it
	ErrHarmonyVowel       = "E204" // harmony group member missing from the vowel inventory

	// Section errors (E210-E229)
	ErrSuffixGroupUncovered   = "E210" // suffix table has no default and misses a harmony group
	ErrEmptyRuleFrom          = "E211" // rule with empty from never matches
	ErrInvalidEnum            = "E212" // enumerated value is not recognized
	ErrUnknownMutation        = "E213" // named mutation is not defined
	ErrUnplacedParticles      = "E214" // particles present but no verbal pattern to place them
	ErrIncorporationDisabled  = "E215" // incorporation class prefixes without allowed roles
	ErrUnknownReduplication   = "E216" // reduplication pattern is not cv or full
	ErrCopulaWithoutPresent   = "E217" // copula tables miss the present tense used by default
	ErrArticlesIncomplete     = "E218" // phonological articles need both a and an
	ErrInfinitiveWithoutVerbs = "E219" // infinitive suffix without verb endings
)

// ValidationError represents a card lint finding.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate lints a compiled card.
// Returns all errors found (does not fail-fast), in a stable order.
func Validate(card *ir.LanguageCard) []ValidationError {
	if card == nil {
		return []ValidationError{{Field: "card", Message: "card is nil", Code: ErrNilCard}}
	}

	var errs []ValidationError

	// E201: code is required
	if strings.TrimSpace(card.Code) == "" {
		errs = append(errs, ValidationError{
			Field:   "code",
			Message: "language code is required and must be non-empty",
			Code:    ErrCodeEmpty,
		})
	}

	// E202 / E203: family must be known and backed by its section
	if !card.Family.Valid() {
		errs = append(errs, ValidationError{
			Field:   "family",
			Message: fmt.Sprintf("unknown family %q", card.Family),
			Code:    ErrUnknownFamily,
		})
	} else if !card.HasSection(card.Family) {
		errs = append(errs, ValidationError{
			Field:   string(card.Family),
			Message: "no section for the card's family; every request passes the lemma through",
			Code:    ErrFamilySectionEmpty,
		})
	}

	errs = append(errs, validatePhonetics(card.Phonetics)...)

	if card.Agglutinative != nil {
		errs = append(errs, validateAgglutinative(card.Agglutinative, card.Phonetics)...)
	}
	if card.Austronesian != nil {
		errs = append(errs, validateAustronesian(card.Austronesian)...)
	}
	if card.Celtic != nil {
		errs = append(errs, validateCeltic(card.Celtic)...)
	}
	if card.Dravidian != nil {
		errs = append(errs, validateDravidian(card.Dravidian)...)
	}
	if card.Germanic != nil {
		errs = append(errs, validateGermanic(card.Germanic)...)
	}
	if card.Isolating != nil {
		errs = append(errs, validateIsolating(card.Isolating)...)
	}
	if card.Polysynthetic != nil {
		errs = append(errs, validatePolysynthetic(card.Polysynthetic)...)
	}

	return errs
}

// validatePhonetics checks harmony groups against the vowel inventory.
func validatePhonetics(p ir.Phonetics) []ValidationError {
	if p.Vowels == "" {
		return nil
	}
	var errs []ValidationError
	for _, group := range sortedKeys(p.HarmonyGroups) {
		for _, v := range p.HarmonyGroups[group] {
			// E204: every harmony vowel must be in the inventory
			if !strings.Contains(p.Vowels, v) {
				errs = append(errs, ValidationError{
					Field:   "phonetics.harmony_groups." + group,
					Message: fmt.Sprintf("vowel %q is not in the inventory %q", v, p.Vowels),
					Code:    ErrHarmonyVowel,
				})
			}
		}
	}
	return errs
}

func validateAgglutinative(s *ir.AgglutinativeSection, p ir.Phonetics) []ValidationError {
	var errs []ValidationError
	groups := sortedKeys(p.HarmonyGroups)
	for _, suffixType := range sortedKeys(s.Suffixes) {
		table := s.Suffixes[suffixType]
		if _, ok := table[ir.DefaultKey]; ok {
			continue
		}
		for _, g := range groups {
			// E210: without a default, every harmony group needs an allomorph
			if _, ok := table[g]; !ok {
				errs = append(errs, ValidationError{
					Field:   "agglutinative.suffixes." + suffixType,
					Message: fmt.Sprintf("no allomorph for harmony group %q and no default", g),
					Code:    ErrSuffixGroupUncovered,
				})
			}
		}
	}
	return errs
}

func validateAustronesian(s *ir.AustronesianSection) []ValidationError {
	var errs []ValidationError
	check := func(field string, spec ir.AffixSpec) {
		// E216: only cv and full reduplication exist
		switch spec.Reduplication {
		case "", ir.ReduplicationCV, ir.ReduplicationFull:
		default:
			errs = append(errs, ValidationError{
				Field:   field + ".reduplication",
				Message: fmt.Sprintf("unknown reduplication pattern %q", spec.Reduplication),
				Code:    ErrUnknownReduplication,
			})
		}
	}
	tables := []struct {
		name  string
		table ir.AffixTable
	}{
		{"voice", s.Voice},
		{"aspect", s.Aspect},
		{"nominalizer", s.Nominalizer},
	}
	for _, t := range tables {
		for _, key := range sortedKeys(t.table) {
			check("austronesian."+t.name+"."+key, t.table[key])
		}
	}
	if s.Plural != nil {
		check("austronesian.plural", *s.Plural)
	}
	return errs
}

func validateCeltic(s *ir.CelticSection) []ValidationError {
	var errs []ValidationError
	for _, name := range sortedKeys(s.Mutations) {
		errs = append(errs, validateRules("celtic.mutations."+name, s.Mutations[name])...)
	}
	errs = append(errs, validateRules("celtic.noun_feminine_rules", s.NounFeminineRules)...)
	errs = append(errs, validateRules("celtic.adjective_feminine_rules", s.AdjectiveFeminineRules)...)

	// E213: named mutations must exist
	for _, ref := range []struct{ field, name string }{
		{"celtic.adjective_mutation_after_feminine", s.AdjectiveMutationAfterFeminine},
		{"celtic.definite_feminine_mutation", s.DefiniteFeminineMutation},
	} {
		if ref.name == "" {
			continue
		}
		if _, ok := s.Mutations[ref.name]; !ok {
			errs = append(errs, ValidationError{
				Field:   ref.field,
				Message: fmt.Sprintf("mutation %q is not defined", ref.name),
				Code:    ErrUnknownMutation,
			})
		}
	}

	// E217: bio predicates and tenseless requests read the present copula
	if len(s.Copula) > 0 {
		tense := s.BioTense
		if tense == "" {
			tense = "present"
		}
		if _, ok := s.Copula[tense]; !ok {
			errs = append(errs, ValidationError{
				Field:   "celtic.copula",
				Message: fmt.Sprintf("no copula table for tense %q", tense),
				Code:    ErrCopulaWithoutPresent,
			})
		}
	}
	return errs
}

func validateDravidian(s *ir.DravidianSection) []ValidationError {
	var errs []ValidationError
	// E217: tenseless predicates read the present copula
	if len(s.Copula) > 0 {
		if _, ok := s.Copula["present"]; !ok {
			errs = append(errs, ValidationError{
				Field:   "dravidian.copula",
				Message: `no copula table for tense "present"`,
				Code:    ErrCopulaWithoutPresent,
			})
		}
	}
	return errs
}

func validateGermanic(s *ir.GermanicSection) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateRules("germanic.feminine_rules", s.FeminineRules)...)
	errs = append(errs, validateRules("germanic.gender_suffixes", s.GenderSuffixes)...)

	// E218: phonological selection needs both forms when one is overridden
	a := s.Articles
	if a.Phonological && (a.A == "") != (a.An == "") {
		errs = append(errs, ValidationError{
			Field:   "germanic.articles",
			Message: "phonological articles set only one of a/an",
			Code:    ErrArticlesIncomplete,
		})
	}

	// E219: the infinitive suffix is only used to attach verb endings
	if s.InfinitiveSuffix != "" && len(s.VerbEndings) == 0 {
		errs = append(errs, ValidationError{
			Field:   "germanic.infinitive_suffix",
			Message: "set without verb_endings",
			Code:    ErrInfinitiveWithoutVerbs,
		})
	}
	return errs
}

func validateIsolating(s *ir.IsolatingSection) []ValidationError {
	var errs []ValidationError
	invalid := func(field, value string) {
		errs = append(errs, ValidationError{
			Field:   "isolating." + field,
			Message: fmt.Sprintf("unknown value %q", value),
			Code:    ErrInvalidEnum,
		})
	}

	// E212: enumerated values
	if s.VerbalPattern != "" && !s.VerbalPattern.Valid() {
		invalid("verbal_pattern", string(s.VerbalPattern))
	}
	if !s.NumeralOrder.Valid() {
		invalid("numeral_order", string(s.NumeralOrder))
	}
	if !s.AdjectivePosition.Valid() {
		invalid("adjective_position", string(s.AdjectivePosition))
	}
	if !s.PossessorPosition.Valid() {
		invalid("possessor_position", string(s.PossessorPosition))
	}
	if !s.Particles.PluralPosition.Valid() {
		invalid("particles.plural_position", string(s.Particles.PluralPosition))
	}

	// E214: negators and TAM particles are only placed through a pattern
	if !s.VerbalPattern.Valid() && (len(s.TAM) > 0 || len(s.Particles.Negation) > 0) {
		errs = append(errs, ValidationError{
			Field:   "isolating.verbal_pattern",
			Message: "tam or negation particles are defined but no verbal_pattern places them",
			Code:    ErrUnplacedParticles,
		})
	}
	return errs
}

func validatePolysynthetic(s *ir.PolysyntheticSection) []ValidationError {
	// E215: class prefixes are unreachable when no role may incorporate
	if len(s.Incorporation.ClassPrefixes) > 0 && len(s.Incorporation.AllowedRoles) == 0 {
		return []ValidationError{{
			Field:   "polysynthetic.incorporation",
			Message: "class_prefixes set but allowed_roles is empty",
			Code:    ErrIncorporationDisabled,
		}}
	}
	return nil
}

// validateRules flags rules that can never match.
func validateRules(field string, rules ir.RuleList) []ValidationError {
	var errs []ValidationError
	for i, r := range rules {
		// E211: empty from
		if r.From == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s[%d].from", field, i),
				Message: "empty from never matches",
				Code:    ErrEmptyRuleFrom,
			})
		}
	}
	return errs
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
