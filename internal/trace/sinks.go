package trace

import (
	"errors"
	"io"
	"os"
	"sync"
	"time"
)

// StreamTracer writes every event as soon as it arrives.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
	start  time.Time
	depth  map[uint64]int // open span -> nesting depth
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{w: w, level: level, format: format, depth: make(map[uint64]int)}
}

func (t *StreamTracer) Emit(ev *Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.start.IsZero() {
		t.start = ev.Time
	}
	var data []byte
	if t.format == FormatNDJSON {
		data = encodeNDJSON(ev)
	} else {
		data = encodeText(ev, ev.Time.Sub(t.start), t.depthOf(ev))
	}
	// ошибки записи трассы не роняют прогон
	_, _ = t.w.Write(data)
}

// depthOf tracks open spans; called with mu held.
func (t *StreamTracer) depthOf(ev *Event) int {
	parent, hasParent := t.depth[ev.ParentID]
	if !hasParent {
		parent = -1
	}
	switch ev.Kind {
	case KindBegin:
		t.depth[ev.SpanID] = parent + 1
		return parent + 1
	case KindEnd:
		d, ok := t.depth[ev.SpanID]
		delete(t.depth, ev.SpanID)
		if !ok {
			return parent + 1
		}
		return d
	case KindPoint:
		return parent + 1
	default:
		return 0
	}
}

func (t *StreamTracer) Flush() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if t.w == os.Stderr || t.w == os.Stdout {
		return nil
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level { return t.level }

// RingTracer keeps the last events in memory for a crash dump.
type RingTracer struct {
	mu     sync.Mutex
	events []Event
	next   int
	filled bool
	level  Level
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	t.mu.Lock()
	t.events[t.next] = *ev
	t.next++
	if t.next == len(t.events) {
		t.next = 0
		t.filled = true
	}
	t.mu.Unlock()
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.filled {
		return append([]Event(nil), t.events[:t.next]...)
	}
	out := make([]Event, 0, len(t.events))
	out = append(out, t.events[t.next:]...)
	return append(out, t.events[:t.next]...)
}

// Dump writes the snapshot to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	var start time.Time
	if len(events) > 0 {
		start = events[0].Time
	}
	for i := range events {
		ev := &events[i]
		var data []byte
		if format == FormatNDJSON {
			data = encodeNDJSON(ev)
		} else {
			data = encodeText(ev, ev.Time.Sub(start), 0)
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }
func (t *RingTracer) Level() Level { return t.level }

type fanout struct {
	level   Level
	tracers []Tracer
}

// Fanout sends every event to all tracers.
func Fanout(level Level, tracers ...Tracer) Tracer {
	return &fanout{level: level, tracers: tracers}
}

func (f *fanout) Emit(ev *Event) {
	for _, t := range f.tracers {
		t.Emit(ev)
	}
}

func (f *fanout) Flush() error {
	var errs []error
	for _, t := range f.tracers {
		errs = append(errs, t.Flush())
	}
	return errors.Join(errs...)
}

func (f *fanout) Close() error {
	var errs []error
	for _, t := range f.tracers {
		errs = append(errs, t.Close())
	}
	return errors.Join(errs...)
}

func (f *fanout) Level() Level { return f.level }

// DumpRing writes the ring buffer of t (directly or inside a fanout) to w.
// It reports whether a ring was found.
func DumpRing(t Tracer, w io.Writer) bool {
	switch tt := t.(type) {
	case *RingTracer:
		_ = tt.Dump(w, FormatText)
		return true
	case *fanout:
		for _, inner := range tt.tracers {
			if DumpRing(inner, w) {
				return true
			}
		}
	}
	return false
}
