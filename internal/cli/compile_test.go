package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/morphsynth/internal/testutil"
)

func TestCompile_Text(t *testing.T) {
	dir := standardCards(t)

	stdout, _, err := executeCommand(t, nil, "compile", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Compiled 2 card(s)")
	assert.Contains(t, stdout, "  cy: celtic (Welsh) [")
	assert.Contains(t, stdout, "  tr: agglutinative (Turkish) [")
}

func TestCompile_JSON(t *testing.T) {
	dir := standardCards(t)

	stdout, _, err := executeCommand(t, nil, "--format", "json", "compile", dir)
	require.NoError(t, err)

	var resp struct {
		Status string            `json:"status"`
		Data   CompilationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1", resp.Data.SchemaVersion)
	require.Len(t, resp.Data.Cards, 2)
	assert.Equal(t, "celtic/cy.cue", resp.Data.Cards[0].File)
	assert.Equal(t, "tr.yaml", resp.Data.Cards[1].File)
	assert.Len(t, resp.Data.Cards[1].Hash, 64)
}

func TestCompile_StableHash(t *testing.T) {
	first := standardCards(t)
	second := standardCards(t)

	hashes := make([]string, 0, 2)
	for _, dir := range []string{first, second} {
		stdout, _, err := executeCommand(t, nil, "--format", "json", "compile", dir)
		require.NoError(t, err)
		var resp struct {
			Data CompilationResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
		hashes = append(hashes, resp.Data.Cards[1].Hash)
	}
	assert.Equal(t, hashes[0], hashes[1])
}

func TestCompile_OutputFile(t *testing.T) {
	dir := standardCards(t)
	out := filepath.Join(t.TempDir(), "cards.json")

	stdout, _, err := executeCommand(t, nil, "compile", dir, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote compiled cards to "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var result CompilationResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Len(t, result.Cards, 2)
}

func TestCompile_Errors(t *testing.T) {
	_, _, err := executeCommand(t, nil, "compile", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	dir := testutil.CardsDir(t, map[string]string{
		"tr.yaml":  testutil.TurkishYAML,
		"bad.yaml": "family: celtic\n",
		"zz.yaml":  "code: zz\nfamily: martian\n",
	})
	stdout, _, err := executeCommand(t, nil, "--format", "json", "compile", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   []CLIError `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Len(t, resp.Data, 2, "every broken card is reported")
}
