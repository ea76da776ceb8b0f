package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/morphsynth/internal/compiler"
	"github.com/roach88/morphsynth/internal/registry"
)

// CardIssue is one problem found in a card file.
type CardIssue struct {
	File string `json:"file"`
	compiler.ValidationError
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool        `json:"valid"`
	Cards  int         `json:"cards"`
	Errors []CardIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <cards-dir>",
		Short: "Lint language cards",
		Long: `Validate every language card in a directory.

Reports compile failures, sections dropped as malformed, and lints such as
suffix tables that do not cover every harmony group or Isolating particles
without a position. Lints never stop a card from loading; validate exists to
surface them.

Exit codes:
  0 - All cards valid
  1 - One or more issues found
  2 - Command error (directory not found, no cards)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, cardsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	issues, cards, err := ValidateCardsDir(cardsDir, formatter)
	if err != nil {
		code, message := loadErrorCode(err)
		_ = formatter.Error(code, message, nil)
		// Directory-level problems are command errors (exit code 2)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
	}

	if len(issues) > 0 {
		return outputValidationErrors(formatter, cards, issues)
	}
	return outputValidateSuccess(formatter, cards)
}

// ValidateCardsDir validates all cards in a directory. Directory-level
// failures (not found, no card files) are returned as an error; everything
// else becomes a CardIssue.
func ValidateCardsDir(cardsDir string, formatter *OutputFormatter) ([]CardIssue, int, error) {
	snap, loadErrors := registry.Load(cardsDir, registry.LoadModeCollectAll)
	if snap == nil {
		return nil, 0, loadErrors[0]
	}

	var issues []CardIssue

	// Files that did not compile at all
	for _, err := range loadErrors {
		issue := CardIssue{ValidationError: compiler.ValidationError{Field: "load", Message: err.Error(), Code: registry.ErrCodeGeneric}}
		if code, message := loadErrorCode(err); code != registry.ErrCodeGeneric {
			issue.Code = code
			issue.Message = message
		}
		if le := asLoadError(err); le != nil {
			issue.File = relPath(cardsDir, le.File)
			issue.Line = le.Line
			if le.Pos.IsValid() {
				issue.Line = le.Pos.Line()
			}
		}
		issues = append(issues, issue)
	}

	for _, entry := range snap.Entries() {
		file := relPath(cardsDir, entry.Path)
		formatter.VerboseLog("Validating card: %s (%s)", entry.Card.Code, file)

		for _, d := range entry.Diagnostics {
			issues = append(issues, CardIssue{
				File:            file,
				ValidationError: compiler.ValidationError{Field: d.Field, Message: d.Message, Code: d.Code, Line: d.Line},
			})
		}
		for _, v := range compiler.Validate(entry.Card) {
			issues = append(issues, CardIssue{File: file, ValidationError: v})
		}
	}
	return issues, snap.Len(), nil
}

func asLoadError(err error) *registry.LoadError {
	var le *registry.LoadError
	if errors.As(err, &le) {
		return le
	}
	return nil
}

func relPath(base, path string) string {
	if path == "" {
		return ""
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, cards int) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Cards: cards})
	}

	fmt.Fprintf(formatter.Writer, "✓ All %d card(s) valid\n", cards)
	return nil
}

// outputValidationErrors outputs every issue.
func outputValidationErrors(formatter *OutputFormatter, cards int, issues []CardIssue) error {
	if formatter.Format == "json" {
		if err := formatter.Respond(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Cards: cards, Errors: issues},
			Error: &CLIError{
				Code:    issues[0].Code,
				Message: issues[0].Message,
			},
		}); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d issue(s)", len(issues)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, issue := range issues {
		loc := issue.File
		if issue.Line > 0 {
			loc = fmt.Sprintf("%s:%d", loc, issue.Line)
		}
		if loc != "" {
			fmt.Fprintln(formatter.Writer, loc)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", issue.Code, issue.Field, issue.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d issue(s)", len(issues)))
}
