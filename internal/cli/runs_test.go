package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/morphsynth/internal/ir"
)

// recordedDB runs the fixture batch twice and returns the database path.
func recordedDB(t *testing.T) string {
	t.Helper()
	cards, requests, db := batchFixture(t)
	opts := testOptions()
	for i := 0; i < 2; i++ {
		_, _, err := executeCommand(t, opts, "--cards", cards, "batch", requests, "--db", db)
		require.NoError(t, err)
	}
	return db
}

func TestRuns_List(t *testing.T) {
	db := recordedDB(t)

	stdout, _, err := executeCommand(t, nil, "runs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1  run-1  ")
	assert.Contains(t, stdout, "2  run-2  ")
	assert.Contains(t, stdout, "4 output(s), 2 degraded")

	stdout, _, err = executeCommand(t, nil, "--format", "json", "runs", "--db", db)
	require.NoError(t, err)
	var resp struct {
		Status string   `json:"status"`
		Data   []ir.Run `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "run-1", resp.Data[0].ID)
	assert.Equal(t, int64(2), resp.Data[1].Seq)
}

func TestRuns_Outcomes(t *testing.T) {
	db := recordedDB(t)

	stdout, _, err := executeCommand(t, nil, "runs", "--db", db, "--run", "run-2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Run run-2")
	assert.Contains(t, stdout, `✓ 1  tr ev [number=pl] -> "evler"`)
	assert.Contains(t, stdout, `✗ 4  xx ev [] -> "ev" (unknown-language)`)

	stdout, _, err = executeCommand(t, nil, "--format", "json", "runs", "--db", db, "--run", "run-1", "--degraded")
	require.NoError(t, err)
	var resp struct {
		RunID string      `json:"run_id"`
		Data  RunOutcomes `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "run-1", resp.RunID)
	require.Len(t, resp.Data.Outcomes, 2)
	for _, o := range resp.Data.Outcomes {
		assert.True(t, o.Degraded)
	}

	stdout, _, err = executeCommand(t, nil, "runs", "--db", db, "--run", "run-1", "--family", "celtic")
	require.NoError(t, err)
	assert.Contains(t, stdout, `✓ 2  cy cath [definiteness=definite gender=f] -> "gath"`)
	assert.NotContains(t, stdout, "evler")
}

func TestRuns_Errors(t *testing.T) {
	_, _, err := executeCommand(t, nil, "runs", "--db", filepath.Join(t.TempDir(), "none.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	db := recordedDB(t)
	_, _, err = executeCommand(t, nil, "runs", "--db", db, "--run", "run-9")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, _, err = executeCommand(t, nil, "runs", "--db", db, "--degraded")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
