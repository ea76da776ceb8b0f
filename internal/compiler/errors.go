package compiler

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Compile diagnostic codes (E120-E129). Diagnostics never stop a card from
// loading; the offending section or value is dropped instead.
const (
	DiagMalformedSection = "E120" // section failed to decode, treated as absent
	DiagUnknownKey       = "E121" // top-level key not part of the card schema
	DiagInvalidTag       = "E122" // code is not a valid BCP 47 tag
	DiagInvalidEnum      = "E123" // enumerated value unknown, reset to unset
	DiagMalformedField   = "E124" // scalar field has the wrong type
)

// CompileError represents a compilation error with source position.
// Only unreadable syntax, a missing code or an unknown family are fatal.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
	Line    int // YAML sources carry a line instead of a CUE position
	File    string
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Diagnostic is a non-fatal compile finding.
type Diagnostic struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	if d.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", d.Code, d.Line, d.Field, d.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", d.Code, d.Field, d.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
