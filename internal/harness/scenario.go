package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/morphsynth/internal/ir"
)

// Scenario defines a conformance test scenario: a set of cards and the
// surface forms they must produce.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Cards lists card files or directories of cards to compile and load.
	// Paths are relative to the scenario file location.
	Cards []string `yaml:"cards"`

	// Cases are synthesized in order against the loaded cards.
	Cases []Case `yaml:"cases"`
}

// Case is one synthesis request and its expectations.
type Case struct {
	// Name is an optional label shown in failure messages.
	Name string `yaml:"name,omitempty"`

	Language string         `yaml:"language"`
	Lemma    string         `yaml:"lemma"`
	Features map[string]any `yaml:"features,omitempty"`

	// Expect is optional; a case without one is only snapshotted.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies what a case must produce.
type Expect struct {
	// Text is the exact surface form. A nil Text is not checked; an empty
	// string expects empty output.
	Text *string `yaml:"text,omitempty"`

	// TraceContains lists rule id prefixes that must each have fired.
	TraceContains []string `yaml:"trace_contains,omitempty"`

	// TraceExcludes lists rule id prefixes that must not have fired.
	TraceExcludes []string `yaml:"trace_excludes,omitempty"`

	// Trace is the exact rule trace in firing order.
	Trace []string `yaml:"trace,omitempty"`
}

// label returns the case name or its 1-based position.
func (c Case) label(index int) string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("cases[%d]", index)
}

// LoadScenario reads and parses a scenario YAML file.
// Card paths are resolved relative to the scenario file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving card paths relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data, basePath)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte, basePath string) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve card paths relative to base path BEFORE validation
	for i, cardPath := range scenario.Cards {
		if !filepath.IsAbs(cardPath) && basePath != "" {
			scenario.Cards[i] = filepath.Join(basePath, cardPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Cards) == 0 {
		return fmt.Errorf("cards list is required and must be non-empty")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for _, cardPath := range s.Cards {
		if _, err := os.Stat(cardPath); os.IsNotExist(err) {
			return fmt.Errorf("card file not found: %s", cardPath)
		}
	}

	for i, c := range s.Cases {
		if c.Language == "" {
			return fmt.Errorf("cases[%d]: language is required", i)
		}
		if c.Lemma == "" {
			return fmt.Errorf("cases[%d]: lemma is required", i)
		}
		if _, err := ir.FeaturesFromMap(c.Features); err != nil {
			return fmt.Errorf("cases[%d]: %w", i, err)
		}
	}
	return nil
}
