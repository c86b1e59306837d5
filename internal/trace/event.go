package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"time"
)

// Kind of an event.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindPoint
	// KindHeartbeat is emitted by Heartbeat regardless of level.
	KindHeartbeat
)

var kindNames = [...]string{
	KindBegin:     "begin",
	KindEnd:       "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event; later scopes are finer.
type Scope uint8

const (
	// ScopeRun is one Bind call.
	ScopeRun Scope = iota + 1
	// ScopePhase is load, collect, bind or drain.
	ScopePhase
	// ScopeFixture is work on one fixture file.
	ScopeFixture
	// ScopeSymbol is work on one local function symbol.
	ScopeSymbol
)

var scopeNames = [...]string{
	ScopeRun:     "run",
	ScopePhase:   "phase",
	ScopeFixture: "fixture",
	ScopeSymbol:  "symbol",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Attr is one key/value pair attached to an end event.
type Attr struct {
	Key   string `json:"k"`
	Value string `json:"v"`
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	GID      uint64 // emitting goroutine
	Name     string
	Detail   string
	Attrs    []Attr // in the order they were added
}

// goid reads the current goroutine id from the stack header
// ("goroutine 17 [running]:"). It returns 0 if the header is unexpected.
func goid() uint64 {
	var buf [64]byte
	header := buf[:runtime.Stack(buf[:], false)]
	header, ok := bytes.CutPrefix(header, []byte("goroutine "))
	if !ok {
		return 0
	}
	if i := bytes.IndexByte(header, ' '); i >= 0 {
		header = header[:i]
	}
	id, err := strconv.ParseUint(string(header), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
