package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes src to dir/name, creating parent directories, and returns
// the full path.
func WriteFile(t testing.TB, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// CardsDir creates a temporary cards directory holding the given files,
// keyed by path relative to the directory.
func CardsDir(t testing.TB, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		WriteFile(t, dir, name, src)
	}
	return dir
}

// TurkishYAML is a minimal agglutinative card with front/back plural
// allomorphs.
const TurkishYAML = `code: tr
name: Turkish
family: agglutinative
phonetics:
  vowels: aeıioöuü
  harmony_groups:
    front: [e, i, ö, ü]
    back: [a, ı, o, u]
agglutinative:
  buffer_consonant: "y"
  suffixes:
    plural: {front: ler, back: lar}
    locative: {front: de, back: da}
`

// WelshCUE is a minimal Celtic card with soft mutation.
const WelshCUE = `
code:   "cy"
name:   "Welsh"
family: "celtic"
celtic: {
	mutations: soft: [
		{from: "ll", to: "l"},
		{from: "g", to: ""},
		{from: "c", to: "g"},
		{from: "p", to: "b"},
		{from: "t", to: "d"},
	]
	definite_feminine_mutation: "soft"
}
`
