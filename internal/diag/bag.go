package diag

import (
	"cmp"
	"slices"

	"fortio.org/safecast"
)

// initialBagCap bounds the up-front allocation; large limits grow on demand.
const initialBagCap = 64

// Unlimited is the largest limit a Bag accepts.
const Unlimited = int(^uint16(0))

// Bag is a bounded, single-owner list of diagnostics.
type Bag struct {
	items []Diagnostic
	max   uint16
}

func NewBag(limit int) *Bag {
	capped := clampLimit(limit)
	return &Bag{
		items: make([]Diagnostic, 0, min(capped, initialBagCap)),
		max:   capped,
	}
}

// Add appends d unless the limit is reached; false means d was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// HasErrors reports whether any diagnostic is an error.
func (b *Bag) HasErrors() bool { return b.hasAtLeast(SevError) }

// HasWarnings reports whether any diagnostic is a warning or worse.
func (b *Bag) HasWarnings() bool { return b.hasAtLeast(SevWarning) }

func (b *Bag) hasAtLeast(sev Severity) bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= sev })
}

func (b *Bag) Len() int { return len(b.items) }

// Items returns the backing slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

// Merge appends other's diagnostics, raising the limit so none are lost.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total := len(b.items) + len(other.items); total > int(b.max) {
		b.max = clampLimit(total)
	}
	b.items = append(b.items, other.items...)
}

func clampLimit(n int) uint16 {
	v, err := safecast.Conv[uint16](n)
	if err != nil {
		return ^uint16(0)
	}
	return v
}

// Sort orders diagnostics by file, start, end, severity (errors first) and
// code, so output does not depend on which racer reported first.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Dedup drops diagnostics repeating an earlier code and primary span.
func (b *Bag) Dedup() {
	seen := make(map[dedupKey]struct{}, len(b.items))
	kept := b.items[:0]
	for _, d := range b.items {
		k := dedupKey{code: d.Code, span: d.Primary}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, d)
	}
	clear(b.items[len(kept):])
	b.items = kept
}
