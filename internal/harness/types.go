package harness

// CaseResult is the outcome of one case.
type CaseResult struct {
	Index    int      `json:"index"` // 1-based
	Name     string   `json:"name,omitempty"`
	Language string   `json:"language"`
	Lemma    string   `json:"lemma"`
	Features string   `json:"features"` // key=value, sorted by key
	Text     string   `json:"text"`
	Trace    []string `json:"trace"`
	Pass     bool     `json:"pass"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every case met its expectations.
	Pass bool `json:"pass"`

	// Cases holds one entry per scenario case, in order.
	Cases []CaseResult `json:"cases"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Failed returns the cases that did not pass.
func (r *Result) Failed() []CaseResult {
	var out []CaseResult
	for _, c := range r.Cases {
		if !c.Pass {
			out = append(out, c)
		}
	}
	return out
}
