package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreamTracerTextNestsSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelFixture, FormatText)

	run := Begin(tr, ScopeRun, "bind_run", 0)
	phase := Begin(tr, ScopePhase, "bind", run.ID())
	Point(tr, ScopeFixture, "fixture", phase.ID(), "decls/a.lfn.toml")
	Begin(tr, ScopeSymbol, "bind_symbol", phase.ID()).End("") // filtered at fixture level
	phase.WithExtra("race", "4").WithExtra("jobs", "2").End("ok")
	run.End("")
	require.NoError(t, tr.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	require.Contains(t, lines[0], "] g")
	require.True(t, strings.HasSuffix(lines[0], " → bind_run"))
	require.True(t, strings.HasSuffix(lines[1], "   → bind"), lines[1])
	require.True(t, strings.HasSuffix(lines[2], "    • fixture (decls/a.lfn.toml)"), lines[2])
	require.True(t, strings.HasSuffix(lines[3], "  ← bind (ok) {race=4, jobs=2}"), lines[3])
	require.True(t, strings.HasSuffix(lines[4], " ← bind_run"), lines[4])
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelSymbol, FormatNDJSON)
	span := Begin(tr, ScopeSymbol, "bind_symbol", 0).WithExtra("symbol", "Outer.F")
	span.End("F() -> void")
	require.Zero(t, span.End("again"), "second End is a no-op")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var ev jsonEvent
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &ev))
	require.Equal(t, "end", ev.Kind)
	require.Equal(t, "symbol", ev.Scope)
	require.Equal(t, []Attr{{Key: "symbol", Value: "Outer.F"}}, ev.Attrs)
	require.NotZero(t, ev.GID)
}

func TestRingTracerKeepsLastEvents(t *testing.T) {
	tr := NewRingTracer(2, LevelSymbol)
	for _, name := range []string{"load", "collect", "bind"} {
		Point(tr, ScopePhase, name, 0, "")
	}
	events := tr.Snapshot()
	require.Len(t, events, 2)
	require.Equal(t, "collect", events[0].Name)
	require.Equal(t, "bind", events[1].Name)

	var buf bytes.Buffer
	require.NoError(t, tr.Dump(&buf, FormatNDJSON))
	require.Contains(t, buf.String(), `"name":"bind"`)
}

func TestRacingGoroutinesAreTold(t *testing.T) {
	tr := NewRingTracer(64, LevelSymbol)
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Point(tr, ScopeSymbol, "racer", 0, "")
		}()
	}
	wg.Wait()
	gids := make(map[uint64]struct{})
	for _, ev := range tr.Snapshot() {
		gids[ev.GID] = struct{}{}
	}
	require.Len(t, gids, 4)
}

func TestNewFanoutAndDumpRing(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	require.NoError(t, err)
	require.Equal(t, Nop, tr)

	var stream bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &stream})
	require.NoError(t, err)
	Point(tr, ScopePhase, "load", 0, "")
	Point(tr, ScopeFixture, "fixture", 0, "") // below phase level
	require.NoError(t, tr.Flush())
	require.Contains(t, stream.String(), "• load")

	var dump bytes.Buffer
	require.True(t, DumpRing(tr, &dump))
	require.Contains(t, dump.String(), "load")
	require.NotContains(t, dump.String(), "fixture")
	require.False(t, DumpRing(Nop, &dump))
}

func TestLevelsAndContext(t *testing.T) {
	l, err := ParseLevel("debug")
	require.NoError(t, err)
	require.Equal(t, LevelSymbol, l)
	_, err = ParseLevel("loud")
	require.Error(t, err)
	require.True(t, LevelError.Records(ScopePhase))
	require.False(t, LevelError.Records(ScopeFixture))
	require.False(t, LevelOff.Records(ScopeRun))

	f, err := ParseFormat("json")
	require.NoError(t, err)
	require.Equal(t, FormatNDJSON, f)

	tr := NewRingTracer(4, LevelPhase)
	ctx := WithParent(WithTracer(context.Background(), tr), 42)
	require.Same(t, tr, FromContext(ctx))
	require.Equal(t, uint64(42), ParentFrom(ctx))
	require.Equal(t, Nop, FromContext(context.Background()))
	require.Zero(t, ParentFrom(context.Background()))
}
