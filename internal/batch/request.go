package batch

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/morphsynth/internal/ir"
)

// File is a parsed batch file.
//
// Format:
//
//	requests:
//	  - language: tr
//	    lemma: ev
//	    features: {number: pl}
type File struct {
	Path     string    `yaml:"-"`
	Requests []Request `yaml:"requests"`
}

// Request is one synthesis request of a batch file.
type Request struct {
	Language string      `yaml:"language"`
	Lemma    string      `yaml:"lemma"`
	Features ir.Features `yaml:"-"`

	RawFeatures map[string]any `yaml:"features"`
}

// LoadFile reads and parses a batch file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	f, err := ParseFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// ParseFile parses batch YAML with strict field validation.
func ParseFile(data []byte) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(f.Requests) == 0 {
		return nil, fmt.Errorf("requests list is required and must be non-empty")
	}
	for i := range f.Requests {
		req := &f.Requests[i]
		req.Language = strings.TrimSpace(req.Language)
		if req.Language == "" {
			return nil, fmt.Errorf("requests[%d]: language is required", i)
		}
		req.Lemma = ir.NormalizeText(req.Lemma)
		if req.Lemma == "" {
			return nil, fmt.Errorf("requests[%d]: lemma is required", i)
		}
		features, err := ir.FeaturesFromMap(req.RawFeatures)
		if err != nil {
			return nil, fmt.Errorf("requests[%d]: %w", i, err)
		}
		req.Features = features
	}
	return &f, nil
}
