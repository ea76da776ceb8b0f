package compiler

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/morphsynth/internal/ir"
)

// Top-level scalar keys of a card.
const (
	keyCode   = "code"
	keyName   = "name"
	keyFamily = "family"
)

// sectionKeys lists every decodable card section in schema order.
var sectionKeys = []string{
	"phonetics",
	"agglutinative",
	"austronesian",
	"celtic",
	"dravidian",
	"germanic",
	"isolating",
	"polysynthetic",
}

func isSectionKey(key string) bool {
	return slices.Contains(sectionKeys, key)
}

func isKnownKey(key string) bool {
	return key == keyCode || key == keyName || key == keyFamily || isSectionKey(key)
}

// sectionTarget allocates the section for key on card and returns a pointer
// to decode into.
func sectionTarget(card *ir.LanguageCard, key string) any {
	switch key {
	case "phonetics":
		return &card.Phonetics
	case "agglutinative":
		card.Agglutinative = &ir.AgglutinativeSection{}
		return card.Agglutinative
	case "austronesian":
		card.Austronesian = &ir.AustronesianSection{}
		return card.Austronesian
	case "celtic":
		card.Celtic = &ir.CelticSection{}
		return card.Celtic
	case "dravidian":
		card.Dravidian = &ir.DravidianSection{}
		return card.Dravidian
	case "germanic":
		card.Germanic = &ir.GermanicSection{}
		return card.Germanic
	case "isolating":
		card.Isolating = &ir.IsolatingSection{}
		return card.Isolating
	case "polysynthetic":
		card.Polysynthetic = &ir.PolysyntheticSection{}
		return card.Polysynthetic
	}
	return nil
}

// dropSection resets a section after a failed decode so a half-filled
// struct never reaches the engine.
func dropSection(card *ir.LanguageCard, key string) {
	switch key {
	case "phonetics":
		card.Phonetics = ir.Phonetics{}
	case "agglutinative":
		card.Agglutinative = nil
	case "austronesian":
		card.Austronesian = nil
	case "celtic":
		card.Celtic = nil
	case "dravidian":
		card.Dravidian = nil
	case "germanic":
		card.Germanic = nil
	case "isolating":
		card.Isolating = nil
	case "polysynthetic":
		card.Polysynthetic = nil
	}
}

// build finishes a decoded card: normalization, tag parsing, canonical rule
// order and enum checks. It returns a hard error only for a missing code or
// an unknown family.
func build(card *ir.LanguageCard, diags []Diagnostic) (*ir.LanguageCard, []Diagnostic, error) {
	normalizeStrings(reflect.ValueOf(card).Elem())

	card.Code = strings.TrimSpace(card.Code)
	if card.Code == "" {
		return nil, diags, &CompileError{Field: keyCode, Message: "language code is required"}
	}

	fam, ok := ir.ParseFamily(string(card.Family))
	if !ok {
		return nil, diags, &CompileError{
			Field:   keyFamily,
			Message: fmt.Sprintf("unknown family %q", card.Family),
		}
	}
	card.Family = fam

	tag, err := language.Parse(card.Code)
	if err != nil {
		diags = append(diags, Diagnostic{
			Field:   keyCode,
			Message: fmt.Sprintf("%q is not a BCP 47 tag: %v", card.Code, err),
			Code:    DiagInvalidTag,
		})
		tag = language.Und
	}
	card.Tag = tag

	for _, members := range card.Phonetics.HarmonyGroups {
		slices.Sort(members)
	}

	if c := card.Celtic; c != nil {
		for name, rules := range c.Mutations {
			c.Mutations[name] = rules.SortedLongestFirst()
		}
		c.NounFeminineRules = c.NounFeminineRules.SortedLongestFirst()
		c.AdjectiveFeminineRules = c.AdjectiveFeminineRules.SortedLongestFirst()
	}
	if g := card.Germanic; g != nil {
		g.FeminineRules = g.FeminineRules.SortedLongestFirst()
		g.GenderSuffixes = g.GenderSuffixes.SortedLongestFirst()
	}
	if a := card.Austronesian; a != nil {
		for _, table := range []ir.AffixTable{a.Voice, a.Aspect, a.Nominalizer} {
			diags = checkReduplication(table, diags)
		}
		if a.Plural != nil {
			a.Plural.Reduplication = strings.ToLower(a.Plural.Reduplication)
		}
	}
	if iso := card.Isolating; iso != nil {
		diags = checkIsolatingEnums(iso, diags)
	}

	return card, diags, nil
}

func checkReduplication(table ir.AffixTable, diags []Diagnostic) []Diagnostic {
	for key, spec := range table {
		spec.Reduplication = strings.ToLower(spec.Reduplication)
		switch spec.Reduplication {
		case "", ir.ReduplicationCV, ir.ReduplicationFull:
		default:
			diags = append(diags, Diagnostic{
				Field:   "austronesian." + key + ".reduplication",
				Message: fmt.Sprintf("unknown reduplication pattern %q, ignored", spec.Reduplication),
				Code:    DiagInvalidEnum,
			})
			spec.Reduplication = ""
		}
		table[key] = spec
	}
	return diags
}

func checkIsolatingEnums(iso *ir.IsolatingSection, diags []Diagnostic) []Diagnostic {
	invalid := func(field, value string) {
		diags = append(diags, Diagnostic{
			Field:   "isolating." + field,
			Message: fmt.Sprintf("unknown value %q, treated as unset", value),
			Code:    DiagInvalidEnum,
		})
	}

	iso.VerbalPattern = ir.VerbalPattern(strings.ToLower(string(iso.VerbalPattern)))
	if iso.VerbalPattern != "" && !iso.VerbalPattern.Valid() {
		invalid("verbal_pattern", string(iso.VerbalPattern))
		iso.VerbalPattern = ""
	}

	iso.NumeralOrder = ir.NumeralOrder(strings.ToLower(string(iso.NumeralOrder)))
	if !iso.NumeralOrder.Valid() {
		invalid("numeral_order", string(iso.NumeralOrder))
		iso.NumeralOrder = ""
	}

	positions := []struct {
		field string
		p     *ir.Position
	}{
		{"adjective_position", &iso.AdjectivePosition},
		{"possessor_position", &iso.PossessorPosition},
		{"particles.plural_position", &iso.Particles.PluralPosition},
	}
	for _, pos := range positions {
		*pos.p = ir.Position(strings.ToLower(string(*pos.p)))
		if !pos.p.Valid() {
			invalid(pos.field, string(*pos.p))
			*pos.p = ""
		}
	}
	return diags
}

// normalizeStrings rewrites every exported string in v, including map keys,
// to NFC.
func normalizeStrings(v reflect.Value) {
	switch v.Kind() {
	case reflect.String:
		if v.CanSet() {
			v.SetString(norm.NFC.String(v.String()))
		}
	case reflect.Pointer:
		if !v.IsNil() {
			normalizeStrings(v.Elem())
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if t.Field(i).IsExported() {
				normalizeStrings(v.Field(i))
			}
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			normalizeStrings(v.Index(i))
		}
	case reflect.Map:
		if v.IsNil() || v.Type().Key().Kind() != reflect.String || !v.CanSet() {
			return
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			k := reflect.New(v.Type().Key()).Elem()
			k.SetString(norm.NFC.String(iter.Key().String()))
			val := reflect.New(v.Type().Elem()).Elem()
			val.Set(iter.Value())
			normalizeStrings(val)
			out.SetMapIndex(k, val)
		}
		v.Set(out)
	}
}
