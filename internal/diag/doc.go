// Package diag defines the diagnostic model shared by symbol construction,
// lazy signature binding and the driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error.
//   - Code: numeric identifier (see codes.go) with a stable string form.
//   - Message: short text for the user.
//   - Primary: the source.Span the finding is about.
//   - Notes: optional secondary spans with messages.
//
// # Emitting diagnostics
//
// Phases report through a diag.Reporter. BagReporter collects into a Bag,
// DedupReporter drops repeats of the same code at the same span.
//
// # Deferred diagnostics
//
// Symbols bind their signatures lazily, long after the phase that created
// them has finished reporting. Such producers push into an Accumulator, a
// lock-free append-only store. Exactly one consumer drains it (the driver,
// after forcing every lazy fact) and forwards the records to a Reporter.
// Concurrent first access may bind the same fact twice and push the same
// diagnostic twice; the driver routes drained records through DedupReporter,
// which removes those repeats by code and span.
//
// # Consumers
//
//   - internal/diagfmt: pretty, JSON and msgpack output.
//   - FormatShortDiagnostics: the one-line-per-finding format used by golden tests.
//   - internal/driver: drains symbol accumulators into per-file bags.
package diag
