package ir

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Well-known feature names. Strategies ignore keys they do not know, so a
// bundle holding only unrecognized keys behaves like an empty bundle.
const (
	KeyPOS          = "pos"
	KeyPerson       = "person"
	KeyNumber       = "number"
	KeyGender       = "gender"
	KeyCase         = "case"
	KeyTense        = "tense"
	KeyAspect       = "aspect"
	KeyMood         = "mood"
	KeyPolarity     = "polarity"
	KeyVoice        = "voice"
	KeyDefiniteness = "definiteness"
	KeyNounClass    = "noun_class"
	KeyWordGender   = "word_gender"

	KeyClassifier = "classifier"
	KeyQuantity   = "quantity"
	KeyHonorific  = "honorific"
	KeyHuman      = "human"
	KeyAdjective  = "adjective"
	KeyPossessor  = "possessor"

	KeyPossessorPerson = "possessor_person"
	KeyPossessorNumber = "possessor_number"
	KeyObjectPerson    = "object_person"
	KeyObjectNumber    = "object_number"

	KeyMutation    = "mutation"
	KeyNominalizer = "nominalizer"
	KeyCopula      = "copula"
	KeyQuestion    = "question"

	KeyDerivations       = "derivations"
	KeyIncorporatedNoun  = "incorporated_noun"
	KeyIncorporatedRole  = "incorporated_role"
	KeyIncorporatedClass = "incorporated_class"
)

// Parts of speech understood by the engine's pos feature.
const (
	POSNoun      = "noun"
	POSVerb      = "verb"
	POSAdjective = "adjective"
	POSPredicate = "predicate"
)

// Features is an immutable bundle of grammatical features for one synthesis
// call. The zero value is an empty bundle.
//
// Thread-safety: Features is never mutated after construction; With returns
// a copy.
type Features struct {
	m map[string]Value
}

// Pair is a key-value pair for Features construction.
type Pair struct {
	Key   string
	Value Value
}

// F is shorthand for a Pair. Plain Go strings, ints and bools are converted;
// anything else panics, so F is meant for literals in code and tests.
//
// Example: NewFeatures(F("number", "pl"), F("person", 3))
func F(key string, value any) Pair {
	v, err := ToValue(value)
	if err != nil {
		panic(fmt.Sprintf("ir.F(%q): %v", key, err))
	}
	return Pair{Key: key, Value: v}
}

// NewFeatures creates a bundle from pairs. Later pairs win on duplicate keys.
func NewFeatures(pairs ...Pair) Features {
	if len(pairs) == 0 {
		return Features{}
	}
	m := make(map[string]Value, len(pairs))
	for _, p := range pairs {
		if p.Value == nil {
			continue
		}
		m[p.Key] = p.Value
	}
	return Features{m: m}
}

// FeaturesFromMap converts a decoded map (YAML, JSON) into a bundle.
func FeaturesFromMap(raw map[string]any) (Features, error) {
	if len(raw) == 0 {
		return Features{}, nil
	}
	m := make(map[string]Value, len(raw))
	for k, v := range raw {
		val, err := ToValue(v)
		if err != nil {
			return Features{}, fmt.Errorf("feature %q: %w", k, err)
		}
		m[k] = val
	}
	return Features{m: m}, nil
}

// ParseFeatureArgs parses "key=value" tokens as given on the command line.
func ParseFeatureArgs(args []string) (Features, error) {
	pairs := make([]Pair, 0, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return Features{}, fmt.Errorf("feature %q: expected key=value", arg)
		}
		pairs = append(pairs, Pair{Key: strings.TrimSpace(k), Value: ParseValue(strings.TrimSpace(v))})
	}
	return NewFeatures(pairs...), nil
}

// With returns a copy of f with the given pairs added or replaced.
func (f Features) With(pairs ...Pair) Features {
	m := make(map[string]Value, len(f.m)+len(pairs))
	for k, v := range f.m {
		m[k] = v
	}
	for _, p := range pairs {
		if p.Value == nil {
			delete(m, p.Key)
			continue
		}
		m[p.Key] = p.Value
	}
	return Features{m: m}
}

// Len returns the number of features in the bundle.
func (f Features) Len() int { return len(f.m) }

// Has reports whether key is specified.
func (f Features) Has(key string) bool {
	_, ok := f.m[key]
	return ok
}

// Get returns the raw value for key.
func (f Features) Get(key string) (Value, bool) {
	v, ok := f.m[key]
	return v, ok
}

// Keys returns the feature names in sorted order.
func (f Features) Keys() []string {
	keys := make([]string, 0, len(f.m))
	for k := range f.m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// String returns the textual value of key, or "" when unspecified.
func (f Features) String(key string) string {
	v, ok := f.m[key]
	if !ok {
		return ""
	}
	return v.Text()
}

// Int returns the integer value of key. Numeric strings are accepted.
func (f Features) Int(key string) (int64, bool) {
	switch v := f.m[key].(type) {
	case IntValue:
		return int64(v), true
	case StringValue:
		if n, err := strconv.ParseInt(string(v), 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Bool returns the boolean value of key. The strings "true" and "yes" count
// as true; an unspecified key is false.
func (f Features) Bool(key string) bool {
	switch v := f.m[key].(type) {
	case BoolValue:
		return bool(v)
	case StringValue:
		s := strings.ToLower(string(v))
		return s == "true" || s == "yes"
	case IntValue:
		return v != 0
	}
	return false
}

// Map returns a plain map copy, for serialization.
func (f Features) Map() map[string]any {
	out := make(map[string]any, len(f.m))
	for k, v := range f.m {
		switch val := v.(type) {
		case StringValue:
			out[k] = string(val)
		case IntValue:
			out[k] = int64(val)
		case BoolValue:
			out[k] = bool(val)
		}
	}
	return out
}

// Format renders the bundle as "k=v k=v" in key order.
func (f Features) Format() string {
	keys := f.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + f.m[k].Text()
	}
	return strings.Join(parts, " ")
}

// POS returns the part of speech, defaulting to noun.
func (f Features) POS() string {
	if pos := strings.ToLower(f.String(KeyPOS)); pos != "" {
		return pos
	}
	return POSNoun
}

// Person returns the person code for key ("1", "2", "3", ...).
// Spelled-out forms are mapped; any other value is returned unchanged so
// that agreement keys never assume a fixed alphabet.
func (f Features) Person(key string) string {
	return PersonCode(f.String(key))
}

// Number returns the number code for key ("sg", "pl", "du", ...).
func (f Features) Number(key string) string {
	return NumberCode(f.String(key))
}

// Gender returns the gender code for key ("m", "f", "n", "c", ...).
func (f Features) Gender(key string) string {
	return GenderCode(f.String(key))
}

// Plural reports whether the number feature is plural.
func (f Features) Plural() bool {
	return f.Number(KeyNumber) == "pl"
}

// Negative reports whether polarity is negative.
func (f Features) Negative() bool {
	switch strings.ToLower(f.String(KeyPolarity)) {
	case "negative", "neg":
		return true
	}
	return false
}

// PersonCode normalizes a person value.
func PersonCode(s string) string {
	switch strings.ToLower(s) {
	case "first", "1st":
		return "1"
	case "second", "2nd":
		return "2"
	case "third", "3rd":
		return "3"
	}
	return s
}

// NumberCode normalizes a number value.
func NumberCode(s string) string {
	switch strings.ToLower(s) {
	case "singular", "sing", "s":
		return "sg"
	case "plural", "plur", "p":
		return "pl"
	case "dual":
		return "du"
	}
	return strings.ToLower(s)
}

// GenderCode normalizes a gender value.
func GenderCode(s string) string {
	switch strings.ToLower(s) {
	case "masculine", "masc", "male":
		return "m"
	case "feminine", "fem", "female":
		return "f"
	case "neuter", "neut":
		return "n"
	case "common":
		return "c"
	}
	return strings.ToLower(s)
}

// AgreementKey builds the "{person}{number}" table key used by agreement
// and copula tables. Both parts are concatenated as given, so two-digit
// persons or non-Latin number labels pass through untouched.
func AgreementKey(person, number string) string {
	return person + number
}
