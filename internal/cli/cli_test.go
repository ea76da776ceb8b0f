package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/roach88/morphsynth/internal/testutil"
)

// executeCommand runs the root command with args and returns stdout, stderr
// and the command error.
func executeCommand(t *testing.T, opts *RootOptions, args ...string) (string, string, error) {
	t.Helper()
	return executeCommandContext(t, context.Background(), opts, args...)
}

func executeCommandContext(t *testing.T, ctx context.Context, opts *RootOptions, args ...string) (string, string, error) {
	t.Helper()
	if opts == nil {
		opts = &RootOptions{}
	}
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := newRootCommand(opts)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

// testOptions pins run ids and timestamps.
func testOptions() *RootOptions {
	clock := testutil.NewDeterministicClock()
	return &RootOptions{
		IDs: testutil.NewSequentialIDs("run"),
		Now: clock.Now,
	}
}

func standardCards(t *testing.T) string {
	t.Helper()
	return testutil.CardsDir(t, map[string]string{
		"tr.yaml":       testutil.TurkishYAML,
		"celtic/cy.cue": testutil.WelshCUE,
	})
}

// syncBuffer is a bytes.Buffer safe for a writer and a polling reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
