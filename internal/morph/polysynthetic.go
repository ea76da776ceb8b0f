package morph

import (
	"strings"
	"unicode"

	"github.com/roach88/morphsynth/internal/ir"
)

// DefaultIncorporatedRole is assumed when an incorporated noun names no role.
const DefaultIncorporatedRole = "patient"

// Agreement is the person/number of one verb argument. The zero value means
// the argument is absent.
type Agreement struct {
	Person string
	Number string
}

// IsZero reports whether no agreement is requested.
func (a Agreement) IsZero() bool {
	return a.Person == "" && a.Number == ""
}

// Key returns the "{p}{n}" table key.
func (a Agreement) Key() string {
	return ir.AgreementKey(ir.PersonCode(a.Person), ir.NumberCode(a.Number))
}

// VerbSlots holds every input of the polysynthetic verb template.
type VerbSlots struct {
	Subject Agreement
	Object  Agreement

	Tense  string
	Aspect string
	Mood   string

	// Derivations are applied in order, each looked up by operation name.
	Derivations []string

	IncorporatedNoun  string
	IncorporatedRole  string
	IncorporatedClass string
}

// Polysynthetic assembles a whole clause into one verb word:
//
//	subject + object + [class + incorporated noun] + stem + derivations + TAM
//
// followed by an orthographic cleanup at morpheme boundaries.
type Polysynthetic struct{}

// Family implements Strategy.
func (Polysynthetic) Family() ir.Family { return ir.FamilyPolysynthetic }

// BuildVerb assembles the verb word for stem.
func (p Polysynthetic) BuildVerb(stem string, slots VerbSlots, card *ir.LanguageCard) string {
	return p.build(stem, slots, card, nil)
}

// RealizeVerb implements Strategy.
func (p Polysynthetic) RealizeVerb(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm {
	tr := newTrace()
	return tr.form(p.build(lemma, SlotsFromFeatures(f), card, tr))
}

// RealizeNoun implements Strategy: possessive prefix and plural suffix.
func (p Polysynthetic) RealizeNoun(lemma string, f ir.Features, card *ir.LanguageCard) ir.SurfaceForm {
	tr := newTrace()
	sec := polysyntheticSection(card)
	if sec == nil {
		return tr.form(lemma)
	}
	var morphemes []string
	possessor := Agreement{Person: f.String(ir.KeyPossessorPerson), Number: f.String(ir.KeyPossessorNumber)}
	if !possessor.IsZero() {
		if prefix, ok := sec.PossessivePrefixes.Resolve(possessor.Key()); ok && prefix != "" {
			morphemes = append(morphemes, prefix)
			tr.add("polysynthetic.possessor:%s=%s", possessor.Key(), prefix)
		}
	}
	morphemes = append(morphemes, lemma)
	if f.Plural() && sec.NounPlural != "" {
		morphemes = append(morphemes, sec.NounPlural)
		tr.add("polysynthetic.plural=%s", sec.NounPlural)
	}
	return tr.form(p.cleanup(morphemes, card, tr))
}

// SlotsFromFeatures maps a feature bundle onto the verb template.
// derivations is a comma- or space-separated list.
func SlotsFromFeatures(f ir.Features) VerbSlots {
	return VerbSlots{
		Subject:           Agreement{Person: f.String(ir.KeyPerson), Number: f.String(ir.KeyNumber)},
		Object:            Agreement{Person: f.String(ir.KeyObjectPerson), Number: f.String(ir.KeyObjectNumber)},
		Tense:             strings.ToLower(f.String(ir.KeyTense)),
		Aspect:            strings.ToLower(f.String(ir.KeyAspect)),
		Mood:              strings.ToLower(f.String(ir.KeyMood)),
		Derivations:       strings.FieldsFunc(f.String(ir.KeyDerivations), func(r rune) bool { return r == ',' || unicode.IsSpace(r) }),
		IncorporatedNoun:  f.String(ir.KeyIncorporatedNoun),
		IncorporatedRole:  strings.ToLower(f.String(ir.KeyIncorporatedRole)),
		IncorporatedClass: f.String(ir.KeyIncorporatedClass),
	}
}

func polysyntheticSection(card *ir.LanguageCard) *ir.PolysyntheticSection {
	if card == nil {
		return nil
	}
	return card.Polysynthetic
}

func (p Polysynthetic) build(stem string, slots VerbSlots, card *ir.LanguageCard, tr *trace) string {
	sec := polysyntheticSection(card)
	if sec == nil {
		return stem
	}
	var morphemes []string

	// 1. agreement prefixes
	for _, arg := range []struct {
		role  string
		agr   Agreement
		table ir.Table
	}{
		{"subject", slots.Subject, sec.SubjectPrefixes},
		{"object", slots.Object, sec.ObjectPrefixes},
	} {
		if arg.agr.IsZero() {
			continue
		}
		prefix, ok := arg.table.Resolve(arg.agr.Key())
		if !ok {
			prefix = sec.FallbackPrefix
		}
		if prefix != "" {
			morphemes = append(morphemes, prefix)
			tr.add("polysynthetic.%s:%s=%s", arg.role, arg.agr.Key(), prefix)
		}
	}

	// 2. incorporation
	if slots.IncorporatedNoun != "" {
		role := slots.IncorporatedRole
		if role == "" {
			role = DefaultIncorporatedRole
		}
		if sec.Incorporation.Allows(role) {
			classPrefix := sec.Incorporation.ClassPrefixes.Get(slots.IncorporatedClass)
			morphemes = append(morphemes, classPrefix+slots.IncorporatedNoun)
			tr.add("polysynthetic.incorporate:%s=%s%s", role, classPrefix, slots.IncorporatedNoun)
		} else {
			tr.add("polysynthetic.incorporate:%s=blocked", role)
		}
	}

	// 3. stem
	morphemes = append(morphemes, stem)

	// 4. derivations, caller order
	for _, op := range slots.Derivations {
		if suffix, ok := sec.Derivations.Lookup(op); ok && suffix != "" {
			morphemes = append(morphemes, suffix)
			tr.add("polysynthetic.derivation:%s=%s", op, suffix)
		}
	}

	// 5. TAM
	for _, cat := range []struct {
		name  string
		value string
		table ir.Table
	}{
		{"tense", slots.Tense, sec.Tense},
		{"aspect", slots.Aspect, sec.Aspect},
		{"mood", slots.Mood, sec.Mood},
	} {
		if suffix, ok := cat.table.Resolve(cat.value); ok && suffix != "" {
			morphemes = append(morphemes, suffix)
			tr.add("polysynthetic.%s:%s=%s", cat.name, valueOr(cat.value, ir.DefaultKey), suffix)
		}
	}

	return p.cleanup(morphemes, card, tr)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// cleanup joins morphemes, collapsing a doubled letter at each boundary when
// the card asks for it.
func (Polysynthetic) cleanup(morphemes []string, card *ir.LanguageCard, tr *trace) string {
	rules := card.Polysynthetic.Cleanup
	var b strings.Builder
	for _, m := range morphemes {
		if m == "" {
			continue
		}
		if b.Len() > 0 {
			l := lastRune(b.String())
			if l == firstRune(m) && unicode.IsLetter(l) {
				vowel := card.Phonetics.IsVowel(l)
				if (vowel && rules.CollapseVowels) || (!vowel && rules.CollapseConsonants) {
					m = dropFirstRune(m)
					tr.add("polysynthetic.cleanup:%c", l)
				}
			}
		}
		b.WriteString(m)
	}
	return b.String()
}
