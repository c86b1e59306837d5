// Package trace records what a bind run is doing: phases, fixtures and the
// goroutines racing to bind each symbol.
//
// Tracing is switched on from the command line:
//
//	localfn bind --trace=- --trace-level=symbol testdata/
//	localfn bind --trace=run.ndjson --trace-mode=both testdata/
//
// Events go to a stream (written at once), a ring (the last N events, dumped
// when the process panics) or both. Every event carries the goroutine that
// emitted it, so interleaved racers can be told apart.
//
//	t := trace.FromContext(ctx)
//	span := trace.Begin(t, trace.ScopePhase, "bind", trace.ParentFrom(ctx))
//	defer span.End("")
package trace
