// Package harness provides conformance testing for language cards.
//
// The harness compiles the cards a scenario names, synthesizes each case and
// checks the surface form and rule trace it produced.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	cards:
//	  - cards/tr.yaml
//	  - cards/celtic        # every card file under a directory
//	cases:
//	  - name: front plural
//	    language: tr
//	    lemma: ev
//	    features: { number: pl }
//	    expect:
//	      text: evler
//	      trace_contains: [agglutinative.suffix:plural]
//	      trace_excludes: [agglutinative.buffer]
//	      trace: [agglutinative.suffix:plural/front=ler]
//
// Card paths are relative to the scenario file. Unknown fields are rejected.
//
// # Expectations
//
//   - text: exact surface form
//   - trace_contains: every listed rule id prefix fired
//   - trace_excludes: no listed rule id prefix fired
//   - trace: the exact trace in firing order (reported as a go-cmp diff)
//
// A case without expect is only recorded, which is useful together with
// golden files.
//
// # Golden Files
//
// RunWithGolden renders the result with FormatTable and compares it against
// testdata/golden/{name}.golden through goldie.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/turkish.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
