package ir

import (
	"fmt"
	"strconv"
)

// Value is a sealed interface representing a feature value.
// Only StringValue, IntValue and BoolValue implement it.
// NO float values - feature tables are keyed by exact strings.
type Value interface {
	featureValue() // Sealed - only these types implement it

	// Text renders the value the way table keys are written.
	Text() string
}

// StringValue is a string feature value ("plural", "past", "3").
type StringValue string

func (StringValue) featureValue() {}

// Text returns the string itself.
func (v StringValue) Text() string { return string(v) }

// IntValue is a small integer feature value (person, quantity).
// Always int64, never float64.
type IntValue int64

func (IntValue) featureValue() {}

// Text returns the decimal rendering.
func (v IntValue) Text() string { return strconv.FormatInt(int64(v), 10) }

// BoolValue is a boolean feature value (honorific, human, negative).
type BoolValue bool

func (BoolValue) featureValue() {}

// Text returns "true" or "false".
func (v BoolValue) Text() string { return strconv.FormatBool(bool(v)) }

// ToValue converts a decoded Go value (YAML, JSON, CLI) to a Value.
// Floats with an integral value are accepted as IntValue since JSON decoders
// produce float64 for every number; fractional numbers are rejected.
func ToValue(v any) (Value, error) {
	switch val := v.(type) {
	case Value:
		return val, nil
	case string:
		return StringValue(val), nil
	case bool:
		return BoolValue(val), nil
	case int:
		return IntValue(val), nil
	case int64:
		return IntValue(val), nil
	case int32:
		return IntValue(val), nil
	case uint64:
		return IntValue(int64(val)), nil
	case float64:
		if val != float64(int64(val)) {
			return nil, fmt.Errorf("fractional numbers are not feature values: %v", val)
		}
		return IntValue(int64(val)), nil
	case nil:
		return nil, fmt.Errorf("null is not a feature value")
	default:
		return nil, fmt.Errorf("unsupported feature value type: %T", v)
	}
}

// ParseValue interprets a command-line token: integers become IntValue,
// true/false become BoolValue, everything else is a StringValue.
func ParseValue(s string) Value {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntValue(n)
	}
	switch s {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	return StringValue(s)
}
