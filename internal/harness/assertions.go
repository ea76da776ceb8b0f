package harness

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/roach88/morphsynth/internal/ir"
)

// Assertion types reported in AssertionError.
const (
	AssertText          = "text"
	AssertTraceContains = "trace_contains"
	AssertTraceExcludes = "trace_excludes"
	AssertTrace         = "trace"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Case     string   // Case label
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Trace    []string // Full rule trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "%s: assertion failed: %s\n", e.Case, e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for i, rule := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, rule)
		}
	}
	return buf.String()
}

// evaluate checks form against expect and returns every failure.
func evaluate(label string, expect *Expect, form ir.SurfaceForm) []error {
	if expect == nil {
		return nil
	}
	var errs []error
	if err := assertText(label, expect, form); err != nil {
		errs = append(errs, err)
	}
	for _, prefix := range expect.TraceContains {
		if !form.Fired(prefix) {
			errs = append(errs, &AssertionError{
				Case:     label,
				Type:     AssertTraceContains,
				Expected: fmt.Sprintf("rule %q fired", prefix),
				Actual:   "not found in trace",
				Trace:    form.Trace,
			})
		}
	}
	for _, prefix := range expect.TraceExcludes {
		if form.Fired(prefix) {
			errs = append(errs, &AssertionError{
				Case:     label,
				Type:     AssertTraceExcludes,
				Expected: fmt.Sprintf("rule %q not fired", prefix),
				Actual:   "found in trace",
				Trace:    form.Trace,
			})
		}
	}
	if err := assertTrace(label, expect, form); err != nil {
		errs = append(errs, err)
	}
	return errs
}

func assertText(label string, expect *Expect, form ir.SurfaceForm) error {
	if expect.Text == nil || *expect.Text == form.Text {
		return nil
	}
	return &AssertionError{
		Case:     label,
		Type:     AssertText,
		Expected: fmt.Sprintf("%q", *expect.Text),
		Actual:   fmt.Sprintf("%q", form.Text),
		Trace:    form.Trace,
	}
}

// assertTrace compares the full trace in order.
func assertTrace(label string, expect *Expect, form ir.SurfaceForm) error {
	if expect.Trace == nil {
		return nil
	}
	diff := cmp.Diff(expect.Trace, form.Trace, cmpopts.EquateEmpty())
	if diff == "" {
		return nil
	}
	return &AssertionError{
		Case:     label,
		Type:     AssertTrace,
		Expected: strings.Join(expect.Trace, ", "),
		Actual:   "trace differs (-want +got):\n" + diff,
		Trace:    form.Trace,
	}
}
