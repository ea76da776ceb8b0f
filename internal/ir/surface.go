package ir

// SurfaceForm is the result of one synthesis call.
type SurfaceForm struct {
	Text  string   `json:"text"`
	Trace []string `json:"trace,omitempty"` // Rule identifiers in firing order
}

// Bare returns a SurfaceForm holding text with a single trace entry.
func Bare(text, rule string) SurfaceForm {
	return SurfaceForm{Text: text, Trace: []string{rule}}
}

// Fired reports whether a rule with the given identifier prefix fired.
func (s SurfaceForm) Fired(prefix string) bool {
	for _, r := range s.Trace {
		if len(r) >= len(prefix) && r[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}
