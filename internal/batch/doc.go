// Package batch runs files of synthesis requests against a card registry and
// appends the results to the quality log.
//
// A run resolves every request against one registry snapshot, stamps outcomes
// with a logical seq in request order, and flags degraded output: a request
// whose language has no card, or whose features changed nothing.
//
// # Batch Format
//
//	requests:
//	  - language: tr
//	    lemma: ev
//	    features: {number: pl, case: locative}
//
// Unknown fields are rejected. Feature values are strings, integers or
// booleans.
//
// # Usage
//
//	reg, _ := registry.Open("cards")
//	st, _ := store.Open("quality.db")
//	runner := batch.NewRunner(reg, batch.WithRecorder(st), batch.WithLogger(logger))
//	report, err := runner.RunFile(ctx, "requests.yaml")
package batch
