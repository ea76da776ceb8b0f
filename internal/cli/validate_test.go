package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/morphsynth/internal/compiler"
	"github.com/roach88/morphsynth/internal/testutil"
)

const uncoveredSuffixYAML = `code: fi
family: agglutinative
phonetics:
  vowels: aeiouyäö
  harmony_groups:
    front: [ä, ö, y]
    back: [a, o, u]
agglutinative:
  suffixes:
    inessive: {back: ssa}
`

func TestValidate_ValidCards(t *testing.T) {
	dir := standardCards(t)

	stdout, _, err := executeCommand(t, nil, "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ All 2 card(s) valid")

	stdout, _, err = executeCommand(t, nil, "--format", "json", "validate", dir)
	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidate_Lints(t *testing.T) {
	dir := testutil.CardsDir(t, map[string]string{
		"tr.yaml": testutil.TurkishYAML,
		"fi.yaml": uncoveredSuffixYAML,
	})

	stdout, _, err := executeCommand(t, nil, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ Validation failed")
	assert.Contains(t, stdout, "fi.yaml")
	assert.Contains(t, stdout, compiler.ErrSuffixGroupUncovered)
}

func TestValidate_LintsJSON(t *testing.T) {
	dir := testutil.CardsDir(t, map[string]string{
		"fi.yaml":  uncoveredSuffixYAML,
		"bad.yaml": "code: zz\nfamily: martian\n",
	})

	stdout, _, err := executeCommand(t, nil, "--format", "json", "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	assert.Equal(t, 1, resp.Data.Cards)

	var files []string
	for _, issue := range resp.Data.Errors {
		files = append(files, issue.File)
	}
	assert.Contains(t, files, "bad.yaml")
	assert.Contains(t, files, "fi.yaml")
}

func TestValidate_DirectoryErrors(t *testing.T) {
	stdout, _, err := executeCommand(t, nil, "validate", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005")
	assert.Contains(t, stdout, "not found")

	_, _, err = executeCommand(t, nil, "validate", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E003")
}
