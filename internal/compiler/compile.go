package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/morphsynth/internal/ir"
)

// IsCardFile reports whether path has a card source extension.
func IsCardFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue", ".yaml", ".yml":
		return true
	}
	return false
}

// Compile dispatches on the file extension of filename.
func Compile(filename string, src []byte) (*ir.LanguageCard, []Diagnostic, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".cue":
		return CompileCUEBytes(filename, src)
	case ".yaml", ".yml":
		return CompileYAML(filename, src)
	default:
		return nil, nil, fmt.Errorf("compile %s: unsupported card format", filename)
	}
}

// CompileFile reads and compiles one card file.
func CompileFile(path string) (*ir.LanguageCard, []Diagnostic, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read card: %w", err)
	}
	return Compile(path, src)
}
