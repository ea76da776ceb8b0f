package harness

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// FormatTable renders a result as a deterministic text table, one row per
// case:
//
//	seq | language | lemma | features | text | trace | status
//
// Empty features and traces render as "-"; text is quoted so that empty
// output stays visible.
func FormatTable(name string, result *Result) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "scenario: %s\n", name)
	fmt.Fprintf(&buf, "seq | language | lemma | features | text | trace | status\n")
	for _, c := range result.Cases {
		status := "PASS"
		if !c.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(&buf, "%d | %s | %s | %s | %q | %s | %s\n",
			c.Index, c.Language, c.Lemma, orDash(c.Features), c.Text, orDash(strings.Join(c.Trace, ", ")), status)
	}
	fmt.Fprintf(&buf, "pass: %t\n", result.Pass)
	return buf.Bytes()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// RunWithGolden executes a scenario and compares its table against a golden
// file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the table doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an already computed result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, FormatTable(scenarioName, result))
}
