package morph

import (
	"fmt"

	"github.com/roach88/morphsynth/internal/ir"
)

// trace records the identifiers of the rules that fired during one call.
// A nil *trace discards everything, which is how the public string-returning
// helpers share code with the traced Realize* paths.
type trace struct {
	rules []string
}

func newTrace() *trace {
	return &trace{}
}

func (t *trace) add(format string, args ...any) {
	if t == nil {
		return
	}
	t.rules = append(t.rules, fmt.Sprintf(format, args...))
}

func (t *trace) form(text string) ir.SurfaceForm {
	if t == nil {
		return ir.SurfaceForm{Text: text}
	}
	return ir.SurfaceForm{Text: text, Trace: t.rules}
}
