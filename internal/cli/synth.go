package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/morphsynth/internal/ir"
	"github.com/roach88/morphsynth/internal/registry"
)

// SynthOptions holds flags for the synth command.
type SynthOptions struct {
	*RootOptions
	Features []string // key=value
}

// SynthResult is the JSON payload of the synth command.
type SynthResult struct {
	Language string         `json:"language"`
	Family   ir.Family      `json:"family,omitempty"`
	Lemma    string         `json:"lemma"`
	Features map[string]any `json:"features"`
	Text     string         `json:"text"`
	Trace    []string       `json:"trace"`
}

// NewSynthCommand creates the synth command.
func NewSynthCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SynthOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "synth <language> <lemma>",
		Short: "Synthesize one word form",
		Long: `Synthesize one surface form from a lemma and a feature bundle.

The language code is resolved against the cards directory (--cards); a
regional tag such as de-AT falls back to the de card.

Exit codes:
  0 - Form synthesized
  1 - Unknown language (the bare lemma is printed)
  2 - Command error (cards failed to load, bad feature syntax)

Examples:
  morphsynth synth tr ev -f number=pl -f case=locative
  morphsynth synth cy cath -f gender=f -f definiteness=definite --verbose
  morphsynth synth zh 书 -f quantity=3 --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynth(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Features, "feature", "f", nil, "feature as key=value (repeatable)")

	return cmd
}

func runSynth(opts *SynthOptions, language, lemma string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	features, err := ir.ParseFeatureArgs(opts.Features)
	if err != nil {
		_ = formatter.Error(registry.ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid feature", err)
	}

	reg, errs := registry.Open(opts.CardsDir, registry.WithLogger(opts.logger()))
	if len(errs) > 0 {
		return outputLoadErrors(formatter, errs)
	}
	formatter.VerboseLog("Loaded %d card(s) from %s", reg.Current().Len(), opts.CardsDir)

	lemma = ir.NormalizeText(lemma)
	form, known := reg.Synthesize(language, lemma, features)
	for _, rule := range form.Trace {
		formatter.VerboseLog("  %s", rule)
	}

	result := SynthResult{
		Language: language,
		Lemma:    lemma,
		Features: features.Map(),
		Text:     form.Text,
		Trace:    form.Trace,
	}
	if result.Trace == nil {
		result.Trace = []string{}
	}
	if card, ok := reg.Lookup(language); ok {
		result.Family = card.Family
	}

	if !known {
		if formatter.Format == "json" {
			if err := formatter.Respond(CLIResponse{
				Status: "error",
				Data:   result,
				Error:  &CLIError{Code: registry.ErrCodeNotFound, Message: fmt.Sprintf("no card for language %q", language)},
			}); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(formatter.Writer, form.Text)
			fmt.Fprintf(formatter.GetErrWriter(), "warning: no card for language %q (known: %s)\n",
				language, strings.Join(reg.Current().Codes(), ", "))
		}
		return NewExitError(ExitFailure, fmt.Sprintf("unknown language %q", language))
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintln(formatter.Writer, form.Text)
	return nil
}
