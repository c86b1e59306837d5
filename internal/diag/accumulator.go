package diag

import "sync/atomic"

// Accumulator is an append-only, lock-free store of diagnostics that are
// produced before anyone is ready to emit them (lazy symbol binding). Any
// number of goroutines may Push; the owner calls Drain once, after forcing
// whatever computations feed the accumulator.
//
// The current contents are an immutable snapshot behind an atomic pointer.
// Push builds a new snapshot and publishes it with compare-and-swap, retrying
// when another push won the race, so concurrent pushes never lose records.
type Accumulator struct {
	cur atomic.Pointer[[]Diagnostic]
}

// emptyDiagnostics is the sentinel left behind by Drain.
var emptyDiagnostics = []Diagnostic{}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	a := &Accumulator{}
	a.cur.Store(&emptyDiagnostics)
	return a
}

// Push merges batch into the accumulator. Order inside batch is kept; the
// relative order of batches pushed concurrently is unspecified.
func (a *Accumulator) Push(batch ...Diagnostic) {
	if len(batch) == 0 {
		return
	}
	for {
		old := a.cur.Load()
		var prev []Diagnostic
		if old != nil {
			prev = *old
		}
		next := make([]Diagnostic, 0, len(prev)+len(batch))
		next = append(next, prev...)
		next = append(next, batch...)
		if a.cur.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Drain swaps the contents for the empty sentinel and returns what was
// there. Each diagnostic is handed to exactly one Drain call. A Push racing
// with Drain lands either in this result or in the accumulator afterwards.
func (a *Accumulator) Drain() []Diagnostic {
	old := a.cur.Swap(&emptyDiagnostics)
	if old == nil {
		return nil
	}
	return *old
}

// Len reports how many diagnostics are currently stored.
func (a *Accumulator) Len() int {
	cur := a.cur.Load()
	if cur == nil {
		return 0
	}
	return len(*cur)
}
