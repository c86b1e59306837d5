package diag

import "localfn/internal/source"

// dedupKey identifies a finding independently of which goroutine reported it.
type dedupKey struct {
	code Code
	span source.Span
}

// DedupReporter wraps another Reporter and suppresses diagnostics that repeat
// an already forwarded code at the same primary span. Lazy symbol binding may
// report the same finding from several goroutines; this is where such
// repeats collapse.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedupReporter returns a Reporter that filters out duplicates while
// forwarding unique diagnostics to the provided reporter.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil {
		return
	}
	key := dedupKey{code: code, span: primary}
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}
