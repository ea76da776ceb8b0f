package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/morphsynth/internal/ir"
	"github.com/roach88/morphsynth/internal/registry"
	"github.com/roach88/morphsynth/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
	RunID    string // show the outcomes of one run
	Degraded bool   // only degraded outcomes (requires --run)
	Language string // only outcomes for this language (requires --run)
	Family   string // only outcomes for this family (requires --run)
}

// RunOutcomes is the JSON payload for a single run.
type RunOutcomes struct {
	Run      ir.Run       `json:"run"`
	Outcomes []ir.Outcome `json:"outcomes"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded batch runs",
		Long: `List recorded batch runs, or the outcomes of one run.

Examples:
  morphsynth runs --db ./morphsynth.db
  morphsynth runs --db ./morphsynth.db --run 0190c3e2-...
  morphsynth runs --db ./morphsynth.db --run 0190c3e2-... --degraded --format json
  morphsynth runs --db ./morphsynth.db --run 0190c3e2-... --family celtic`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from MORPHSYNTH_DB)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to show outcomes for")
	cmd.Flags().BoolVar(&opts.Degraded, "degraded", false, "only show degraded outcomes")
	cmd.Flags().StringVar(&opts.Language, "language", "", "only show outcomes for this language code")
	cmd.Flags().StringVar(&opts.Family, "family", "", "only show outcomes for this family")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.RunID == "" && (opts.Degraded || opts.Language != "" || opts.Family != "") {
		_ = formatter.Error(registry.ErrCodeGeneric, "outcome filters require --run", nil)
		return NewExitError(ExitCommandError, "outcome filters require --run")
	}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = opts.Config.DB
	}
	// Reading never creates a database
	if _, err := os.Stat(dbPath); err != nil {
		_ = formatter.Error(ErrCodeDBNotFound, fmt.Sprintf("database not found: %s", dbPath), nil)
		return WrapExitError(ExitCommandError, "database not found", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.RunID == "" {
		runs, err := st.Runs(ctx)
		if err != nil {
			_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		return outputRuns(formatter, runs)
	}

	run, err := st.ReadRun(ctx, opts.RunID)
	if errors.Is(err, sql.ErrNoRows) {
		_ = formatter.Error(ErrCodeStoreFailed, fmt.Sprintf("no run %q", opts.RunID), nil)
		return NewExitError(ExitFailure, fmt.Sprintf("no run %q", opts.RunID))
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	outcomes, err := st.QueryOutcomes(ctx, opts.outcomeFilter())
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read outcomes", err)
	}
	return outputRunOutcomes(formatter, RunOutcomes{Run: run, Outcomes: outcomes})
}

func outputRuns(formatter *OutputFormatter, runs []ir.Run) error {
	if formatter.Format == "json" {
		return formatter.Respond(CLIResponse{Status: "ok", Data: runs})
	}

	w := formatter.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%d  %s  %s  %d output(s), %d degraded  %s\n",
			r.Seq, r.ID, r.StartedAt, r.Total, r.Degraded, r.Source)
	}
	return nil
}

func outputRunOutcomes(formatter *OutputFormatter, ro RunOutcomes) error {
	if formatter.Format == "json" {
		return formatter.Respond(CLIResponse{Status: "ok", Data: ro, RunID: ro.Run.ID})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Run %s (%s)\n", ro.Run.ID, ro.Run.Source)
	fmt.Fprintf(w, "  cards %s, engine %s, %d output(s), %d degraded\n",
		ro.Run.CardsDir, ro.Run.EngineVersion, ro.Run.Total, ro.Run.Degraded)
	fmt.Fprintln(w)
	for _, out := range ro.Outcomes {
		mark := "✓"
		if out.Degraded {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %d  %s %s [%s] -> %q", mark, out.Seq, out.Language, out.Lemma, out.Features.Format(), out.Text)
		if out.Reason != "" {
			fmt.Fprintf(w, " (%s)", out.Reason)
		}
		fmt.Fprintln(w)
		for _, rule := range out.Trace {
			formatter.VerboseLog("    %s", rule)
		}
	}
	return nil
}

// outcomeFilter builds the store predicate for the selected run.
func (opts *RunsOptions) outcomeFilter() store.Predicate {
	preds := []store.Predicate{store.Eq(store.FieldRunID, opts.RunID)}
	if opts.Degraded {
		preds = append(preds, store.Equals{Field: store.FieldDegraded, Value: ir.BoolValue(true)})
	}
	if opts.Language != "" {
		preds = append(preds, store.Eq(store.FieldLanguage, opts.Language))
	}
	if opts.Family != "" {
		preds = append(preds, store.Eq(store.FieldFamily, opts.Family))
	}
	return store.Where(preds...)
}
