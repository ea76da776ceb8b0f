package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/morphsynth/internal/compiler"
	"github.com/roach88/morphsynth/internal/ir"
	"github.com/roach88/morphsynth/internal/registry"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompiledCard is one card in the compile output.
type CompiledCard struct {
	File        string                `json:"file"`
	Hash        string                `json:"hash"`
	Diagnostics []compiler.Diagnostic `json:"diagnostics,omitempty"`
	Card        *ir.LanguageCard      `json:"card"`
}

// CompilationResult holds the compiled cards in code order.
type CompilationResult struct {
	SchemaVersion string         `json:"schema_version"`
	Cards         []CompiledCard `json:"cards"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <cards-dir>",
		Short: "Compile language cards to canonical JSON",
		Long: `Compile CUE and YAML language cards to their resolved JSON form.

Every card is NFC-normalized, its language tag parsed and its rule lists
sorted. Malformed sections are reported as diagnostics and dropped; they do
not fail the compilation.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, cardsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	// Collect-all mode reports every broken card at once
	snap, loadErrors := registry.Load(cardsDir, registry.LoadModeCollectAll)
	if len(loadErrors) > 0 {
		return outputLoadErrors(formatter, loadErrors)
	}

	result := &CompilationResult{SchemaVersion: ir.SchemaVersion, Cards: []CompiledCard{}}
	for _, entry := range snap.Entries() {
		formatter.VerboseLog("Compiled %s from %s", entry.Card.Code, entry.Path)
		hash, err := ir.CardHash(entry.Card)
		if err != nil {
			return WrapExitError(ExitCommandError, "hashing card", err)
		}
		rel, err := filepath.Rel(cardsDir, entry.Path)
		if err != nil {
			rel = entry.Path
		}
		result.Cards = append(result.Cards, CompiledCard{
			File:        filepath.ToSlash(rel),
			Hash:        hash,
			Diagnostics: entry.Diagnostics,
			Card:        entry.Card,
		})
	}

	// Write to file if --output specified
	if opts.Output != "" {
		if err := writeCardsToFile(result, opts.Output); err != nil {
			_ = formatter.Error(registry.ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, registry.ErrCodeWriteFailed, err)
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %d card(s)\n\n", len(result.Cards))

	fmt.Fprintln(w, "Cards:")
	for _, c := range result.Cards {
		name := ""
		if c.Card.Name != "" {
			name = " (" + c.Card.Name + ")"
		}
		fmt.Fprintf(w, "  %s: %s%s [%s]\n", c.Card.Code, c.Card.Family, name, c.Hash[:12])
		for _, d := range c.Diagnostics {
			fmt.Fprintf(w, "    warning %s\n", d.Error())
		}
	}
	fmt.Fprintln(w)

	if outputFile != "" {
		fmt.Fprintf(w, "Wrote compiled cards to %s\n", outputFile)
	}
	return nil
}

// writeCardsToFile writes the compilation result as indented JSON.
func writeCardsToFile(result *CompilationResult, filename string) error {
	// Indented for readability; hashing uses its own compact encoding
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cards: %w", err)
	}

	if err := os.WriteFile(filename, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
