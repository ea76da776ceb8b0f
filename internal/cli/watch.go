package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/morphsynth/internal/registry"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Debounce time.Duration
}

// ReloadReport is the JSON line written for every reload.
type ReloadReport struct {
	Trigger string   `json:"trigger"`
	OK      bool     `json:"ok"`
	Cards   int      `json:"cards"`
	Codes   []string `json:"codes"`
	Errors  []string `json:"errors,omitempty"`
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch [cards-dir]",
		Short: "Reload cards as they change",
		Long: `Watch a cards directory and reload it whenever a card file changes.

A reload that fails to load keeps the previous set of cards in service and
reports the errors. With --format json one response is written per line.

Examples:
  morphsynth watch ./cards
  morphsynth watch --debounce 1s --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := rootOpts.CardsDir
			if len(args) == 1 {
				dir = args[0]
			}
			return runWatch(opts, dir, cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 0, "quiet period before reloading (default from MORPHSYNTH_WATCH_DEBOUNCE)")

	return cmd
}

func runWatch(opts *WatchOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := opts.logger()

	reg, errs := registry.Open(dir, registry.WithLogger(logger))
	if len(errs) > 0 {
		return outputLoadErrors(formatter, errs)
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = opts.Config.WatchDebounce
	}

	w, err := registry.NewWatcher(reg, dir, registry.WithDebounce(debounce), registry.WithWatcherLogger(logger))
	if err != nil {
		_ = formatter.Error(registry.ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to create watcher", err)
	}
	defer w.Stop()

	ctx, cancel := signalContext(cmd, logger)
	defer cancel()

	if err := w.Start(ctx); err != nil {
		_ = formatter.Error(registry.ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to start watcher", err)
	}

	if opts.Format != "json" {
		fmt.Fprintf(formatter.Writer, "Watching %s (%d card(s)). Press Ctrl-C to stop.\n", dir, reg.Current().Len())
	}

	// The channel closes once ctx is cancelled.
	for ev := range w.Reloads() {
		if err := outputReload(formatter, dir, ev); err != nil {
			return err
		}
	}
	return nil
}

func outputReload(formatter *OutputFormatter, dir string, ev registry.ReloadEvent) error {
	report := ReloadReport{
		Trigger: relPath(dir, ev.Trigger),
		OK:      ev.OK(),
		Cards:   ev.Snapshot.Len(),
		Codes:   ev.Snapshot.Codes(),
	}
	for _, err := range ev.Errors {
		report.Errors = append(report.Errors, err.Error())
	}

	if formatter.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: report}
		if !report.OK {
			code, message := loadErrorCode(ev.Errors[0])
			resp.Status = "error"
			resp.Error = &CLIError{Code: code, Message: message}
		}
		enc := json.NewEncoder(formatter.Writer)
		enc.SetEscapeHTML(false)
		return enc.Encode(resp)
	}

	w := formatter.Writer
	if report.OK {
		fmt.Fprintf(w, "✓ Reloaded %d card(s) after change to %s\n", report.Cards, report.Trigger)
		return nil
	}
	fmt.Fprintf(w, "✗ Reload rejected after change to %s; keeping %d card(s)\n", report.Trigger, report.Cards)
	for _, e := range report.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
	return nil
}
