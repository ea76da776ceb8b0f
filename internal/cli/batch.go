package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/morphsynth/internal/batch"
	"github.com/roach88/morphsynth/internal/ir"
	"github.com/roach88/morphsynth/internal/registry"
	"github.com/roach88/morphsynth/internal/store"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	Database       string
	DryRun         bool // synthesize without recording
	FailOnDegraded bool
}

// BatchResult is the JSON payload of the batch command.
type BatchResult struct {
	Run      ir.Run       `json:"run"`
	Outcomes []ir.Outcome `json:"outcomes"`
	Recorded bool         `json:"recorded"`
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch <requests-file>",
		Short: "Synthesize a file of requests and record the run",
		Long: `Synthesize every request in a YAML batch file against the cards directory
and record the run and its outcomes in a SQLite database.

Outputs whose text equals the lemma although features were given, and
requests for unknown languages, are flagged as degraded.

Exit codes:
  0 - Batch completed
  1 - Degraded outputs and --fail-on-degraded, or the run was interrupted
  2 - Command error (cards failed to load, bad batch file, database error)

Examples:
  morphsynth batch requests.yaml --db ./morphsynth.db
  morphsynth batch requests.yaml --dry-run --format json
  morphsynth batch requests.yaml --fail-on-degraded`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from MORPHSYNTH_DB)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "synthesize without recording the run")
	cmd.Flags().BoolVar(&opts.FailOnDegraded, "fail-on-degraded", false, "exit 1 when any output is degraded")

	return cmd
}

func runBatch(opts *BatchOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := opts.logger()

	f, err := batch.LoadFile(path)
	if err != nil {
		_ = formatter.Error(registry.ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid batch file", err)
	}

	reg, errs := registry.Open(opts.CardsDir, registry.WithLogger(logger))
	if len(errs) > 0 {
		return outputLoadErrors(formatter, errs)
	}
	formatter.VerboseLog("Loaded %d card(s) from %s", reg.Current().Len(), opts.CardsDir)

	runnerOpts := []batch.RunnerOption{
		batch.WithLogger(logger),
		batch.WithIDGenerator(opts.IDs),
		batch.WithNow(opts.Now),
	}

	if !opts.DryRun {
		dbPath := opts.Database
		if dbPath == "" {
			dbPath = opts.Config.DB
		}
		logger.Debug("opening database", "path", dbPath)
		st, err := store.Open(dbPath)
		if err != nil {
			_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		runnerOpts = append(runnerOpts, batch.WithRecorder(st))
	}

	ctx, cancel := signalContext(cmd, logger)
	defer cancel()

	report, runErr := batch.NewRunner(reg, runnerOpts...).Run(ctx, f)
	if report == nil {
		_ = formatter.Error(ErrCodeStoreFailed, runErr.Error(), nil)
		return WrapExitError(ExitCommandError, "batch failed", runErr)
	}

	result := BatchResult{Run: report.Run, Outcomes: report.Outcomes, Recorded: !opts.DryRun}
	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result, RunID: report.Run.ID}
		switch {
		case runErr != nil:
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeBatchFailed, Message: runErr.Error()}
		case opts.FailOnDegraded && report.Run.Degraded > 0:
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeDegraded, Message: fmt.Sprintf("%d degraded output(s)", report.Run.Degraded)}
		}
		if err := formatter.Respond(resp); err != nil {
			return err
		}
	} else {
		outputBatchText(formatter, report, runErr, !opts.DryRun)
	}

	if runErr != nil {
		code := ExitCommandError
		if ctx.Err() != nil && errors.Is(runErr, ctx.Err()) {
			code = ExitFailure
		}
		return WrapExitError(code, "batch did not complete", runErr)
	}
	if opts.FailOnDegraded && report.Run.Degraded > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d degraded output(s)", report.Run.Degraded))
	}
	return nil
}

func outputBatchText(formatter *OutputFormatter, report *batch.Report, runErr error, recorded bool) {
	w := formatter.Writer
	run := report.Run

	if runErr != nil {
		fmt.Fprintf(w, "✗ Run %s stopped after %d output(s): %v\n", run.ID, run.Total, runErr)
	} else {
		fmt.Fprintf(w, "✓ Run %s: %d output(s), %d degraded\n", run.ID, run.Total, run.Degraded)
	}

	for _, out := range report.Outcomes {
		formatter.VerboseLog("  %d %s %s [%s] -> %s", out.Seq, out.Language, out.Lemma, out.Features.Format(), out.Text)
	}

	if degraded := report.Degraded(); len(degraded) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Degraded:")
		for _, out := range degraded {
			fmt.Fprintf(w, "  %d  %s %s [%s] -> %q (%s)\n",
				out.Seq, out.Language, out.Lemma, out.Features.Format(), out.Text, out.Reason)
		}
	}

	if !recorded {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Dry run: nothing recorded")
	}
}
