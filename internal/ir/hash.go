package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainCard    = "morphsynth/card/v1"
	DomainOutcome = "morphsynth/outcome/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CardHash fingerprints a compiled card. encoding/json sorts map keys, so
// equal cards always hash equally.
func CardHash(card *LanguageCard) (string, error) {
	data, err := json.Marshal(card)
	if err != nil {
		return "", fmt.Errorf("CardHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCard, data), nil
}

// OutcomeID computes the content-addressed ID of one synthesis outcome
// inside a run. The ID is stable across reruns of the same request list.
func OutcomeID(runID, language, lemma string, features Features, seq int64) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"run_id":   runID,
		"language": language,
		"lemma":    lemma,
		"features": features.Map(),
		"seq":      seq,
	})
	if err != nil {
		return "", fmt.Errorf("OutcomeID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainOutcome, canonical), nil
}
