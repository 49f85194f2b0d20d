// Package harness runs YAML conformance scenarios against the analysis
// engine.
//
// A scenario names a backend, gives one constraint system inline and lists
// expectations about the normalized result of each constraint or of the
// objective. Each scenario runs in a fresh in-memory store: the system is
// analyzed, the run is written, and expectations are checked against the
// results read back, so a scenario also exercises persistence.
//
// Expected numbers are compared in the scenario's backend, so "0.5" matches
// "1/2" under the rational backend.
//
// Golden files hold the canonical JSON of a run's results (without content
// ids) under testdata/golden. Regenerate them with:
//
//	go test ./internal/harness -update
package harness
