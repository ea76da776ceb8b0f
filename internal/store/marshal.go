package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/morphsynth/internal/ir"
)

// marshalFeatures converts a bundle to canonical JSON TEXT for storage.
// Uses RFC 8785 canonical JSON for deterministic serialization.
func marshalFeatures(f ir.Features) (string, error) {
	data, err := ir.MarshalCanonical(f)
	if err != nil {
		return "", fmt.Errorf("marshal features: %w", err)
	}
	return string(data), nil
}

// marshalTrace converts a rule trace to a JSON array TEXT.
// Uses json.Encoder with HTML escaping disabled so rule ids such as
// "celtic.mutation:soft:c->g" are stored verbatim.
func marshalTrace(trace []string) (string, error) {
	if trace == nil {
		trace = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // CRITICAL: keep ">" literal instead of \u003e
	if err := enc.Encode(trace); err != nil {
		return "", fmt.Errorf("marshal trace: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalFeatures parses canonical JSON TEXT to a bundle.
func unmarshalFeatures(data string) (ir.Features, error) {
	if data == "" || data == "{}" {
		return ir.Features{}, nil
	}
	var f ir.Features
	if err := json.Unmarshal([]byte(data), &f); err != nil {
		return ir.Features{}, fmt.Errorf("unmarshal features: %w", err)
	}
	return f, nil
}

// unmarshalTrace parses a JSON array TEXT to a rule trace.
func unmarshalTrace(data string) ([]string, error) {
	trace := []string{}
	if data == "" || data == "[]" {
		return trace, nil
	}
	if err := json.Unmarshal([]byte(data), &trace); err != nil {
		return nil, fmt.Errorf("unmarshal trace: %w", err)
	}
	return trace, nil
}
