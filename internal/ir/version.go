package ir

// Version constants for the card schema and engine.
const (
	// SchemaVersion is the LanguageCard schema version.
	SchemaVersion = "1"

	// EngineVersion is the morphsynth engine version.
	EngineVersion = "0.1.0"
)
