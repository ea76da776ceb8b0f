package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/morphsynth/internal/batch"
	"github.com/roach88/morphsynth/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	CardsDir string

	// Config is loaded from the environment before any subcommand runs.
	// Flags that were set explicitly take precedence over it.
	Config config.Config

	// Logger writes to stderr at the configured level. Nil until the root
	// command runs; use logger().
	Logger *slog.Logger

	// IDs and Now override run ids and timestamps (for testing).
	IDs batch.IDGenerator
	Now func() time.Time
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{config.FormatText, config.FormatJSON}

// NewRootCommand creates the root command for the morphsynth CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "morphsynth",
		Short: "morphsynth - typology-aware morphological synthesis",
		Long: `Realize inflected word forms from a lemma and a feature bundle, driven by
declarative language cards for seven morphological families.

Configuration is read from the environment (MORPHSYNTH_CARDS_DIR,
MORPHSYNTH_DB, MORPHSYNTH_LOG_LEVEL, MORPHSYNTH_FORMAT); flags override it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.CardsDir, "cards", "cards", "language cards directory")

	// Add subcommands
	cmd.AddCommand(NewSynthCommand(opts))
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewBatchCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// init merges environment configuration under explicitly set flags and
// builds the logger.
func (opts *RootOptions) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	opts.Config = cfg

	flags := cmd.Flags()
	if !flags.Changed("format") {
		opts.Format = cfg.Format
	}
	if !flags.Changed("cards") {
		opts.CardsDir = cfg.CardsDir
	}

	// Validate format flag
	if !isValidFormat(opts.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}
	opts.Logger = config.NewLogger(cmd.ErrOrStderr(), level)
	return nil
}

// logger returns the configured logger, discarding output when the root
// command has not run.
func (opts *RootOptions) logger() *slog.Logger {
	if opts.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return opts.Logger
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
