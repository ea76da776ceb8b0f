package ir

import (
	"encoding/json"
	"fmt"
)

// Run is one batch execution recorded in the quality log.
//
// Runs are ordered by Seq, a logical counter assigned by the store, never
// by StartedAt.
type Run struct {
	ID            string `json:"id"`
	Seq           int64  `json:"seq"`
	Source        string `json:"source"`    // batch file the requests came from
	CardsDir      string `json:"cards_dir"` // registry directory at run time
	EngineVersion string `json:"engine_version"`
	SchemaVersion string `json:"schema_version"`
	StartedAt     string `json:"started_at"` // RFC 3339, informational only
	Total         int64  `json:"total"`
	Degraded      int64  `json:"degraded"`
}

// Degradation reasons recorded with an Outcome.
const (
	ReasonNone            = ""
	ReasonUnknownLanguage = "unknown-language"
	ReasonIdentity        = "identity" // features were given but nothing fired
)

// Outcome is one synthesized request within a run.
type Outcome struct {
	ID       string   `json:"id"` // content-addressed, see OutcomeID
	RunID    string   `json:"run_id"`
	Seq      int64    `json:"seq"`
	Language string   `json:"language"`
	Family   Family   `json:"family,omitempty"`
	Lemma    string   `json:"lemma"`
	Features Features `json:"features"`
	Text     string   `json:"text"`
	Trace    []string `json:"trace"`
	Degraded bool     `json:"degraded"`
	Reason   string   `json:"reason,omitempty"`
	CardHash string   `json:"card_hash,omitempty"`
}

// MarshalJSON writes the bundle as canonical JSON.
func (f Features) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(f)
}

// UnmarshalJSON reads a JSON object of scalar feature values.
func (f *Features) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("features: %w", err)
	}
	parsed, err := FeaturesFromMap(raw)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
