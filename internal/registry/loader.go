package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/morphsynth/internal/compiler"
)

// LoadMode controls how errors are handled during card loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Error code constants - unified across the registry and all CLI commands.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeScanError     = "E002" // Directory scan error
	ErrCodeNoFiles       = "E003" // No card files found
	ErrCodeCompileFailed = "E004" // Card failed to compile
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeDuplicateCode = "E006" // Two files declare the same language code
	ErrCodeWriteFailed   = "E007" // File write error

	// Compile errors mapped from compiler fields
	ErrCodeMissingCode   = "E010" // Card has no language code
	ErrCodeUnknownFamily = "E011" // Card names an unknown family
)

// LoadError represents an error that occurred during card loading.
type LoadError struct {
	Code    string
	Message string
	File    string
	Line    int
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Code, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load compiles every card under dir into a Snapshot.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors and keeps every card
// that did compile.
func Load(dir string, mode LoadMode) (*Snapshot, []error) {
	var errs []error

	// Verify directory exists
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("cards directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing cards directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	files, err := FindCardFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(files) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no card files found in %s", dir)}}
	}

	snap := newSnapshot(dir)
	for _, path := range files {
		card, diags, compileErr := compiler.CompileFile(path)
		if compileErr != nil {
			errs = append(errs, convertCompileError(compileErr, path))
			if mode == LoadModeFailFast {
				return snap, errs
			}
			continue
		}

		if err := snap.add(&Entry{Path: path, Card: card, Diagnostics: diags}); err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return snap, errs
			}
		}
	}

	return snap, errs
}

// FindCardFiles walks the directory and returns all card source paths,
// sorted so load order never depends on the filesystem.
func FindCardFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if compiler.IsCardFile(path) {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, path string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			File:    path,
			Line:    compileErr.Line,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeCompileFailed,
		Message: err.Error(),
		File:    path,
	}
}

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "code":
		return ErrCodeMissingCode
	case "family":
		return ErrCodeUnknownFamily
	default:
		return ErrCodeCompileFailed
	}
}
