package driver

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"localfn/internal/diag"
)

const brokenDecls = `
[[container]]
name = "Outer"
  [[container.local]]
  name = "F"
  returns = "Missing"
    [[container.local.param]]
    name = "x"
    type = "Unknown"
  [[container.local]]
  name = "G"
  returns = "var"
  [[container.local]]
  name = "H"
  returns = "void"
    [[container.local.param]]
    name = "n"
    type = "int"
`

const cleanDecls = `
[[container]]
name = "Main"
static = true
  [[container.local]]
  name = "Sum"
  returns = "int"
    [[container.local.param]]
    name = "xs"
    type = "int[]"
    modifiers = ["params"]
`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func codes(ds []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, 0, len(ds))
	for i := range ds {
		out = append(out, ds[i].Code)
	}
	return out
}

func TestBindDrainsDeduplicated(t *testing.T) {
	dir := t.TempDir()
	p := writeFixture(t, dir, "broken.lfn.toml", brokenDecls)

	res, err := Bind(context.Background(), []string{p}, BindOptions{Jobs: 2, Race: 8})
	require.NoError(t, err)
	require.Len(t, res.Symbols, 3)
	require.Len(t, res.Methods, 1)
	require.True(t, res.Bag.HasErrors())
	require.Equal(t, []diag.Code{
		diag.SemaUnresolvedSymbol,
		diag.SemaUnresolvedSymbol,
		diag.SemaLocalFnInferredReturn,
	}, codes(res.Bag.Items()))

	require.Len(t, res.Symbols[0].Diagnostics, 2)
	require.Len(t, res.Symbols[1].Diagnostics, 1)
	require.Empty(t, res.Symbols[2].Diagnostics)
	require.False(t, res.Symbols[2].HasErrors())
	require.Equal(t, "H(int n) -> void", res.Symbols[2].Symbol.Signature())

	for i := range res.Symbols {
		require.Empty(t, res.Symbols[i].Symbol.DrainDiagnostics(), "drained twice")
		require.Equal(t, p, res.Symbols[i].Path)
	}
}

func TestBindRaceWidthDoesNotChangeResult(t *testing.T) {
	dir := t.TempDir()
	p := writeFixture(t, dir, "broken.lfn.toml", brokenDecls)

	one, err := Bind(context.Background(), []string{p}, BindOptions{Race: 1, Jobs: 1})
	require.NoError(t, err)
	many, err := Bind(context.Background(), []string{p}, BindOptions{Race: 16})
	require.NoError(t, err)

	require.Equal(t, one.Bag.Items(), many.Bag.Items())
	require.Equal(t, one.Signatures(), many.Signatures())
}

func TestBindMaxDiagnostics(t *testing.T) {
	dir := t.TempDir()
	p := writeFixture(t, dir, "broken.lfn.toml", brokenDecls)

	res, err := Bind(context.Background(), []string{p}, BindOptions{MaxDiagnostics: 1})
	require.NoError(t, err)
	require.Equal(t, 1, res.Bag.Len())
	require.Len(t, res.Symbols[0].Diagnostics, 2, "per-symbol lists are not capped")
}

func TestBindSeveralFixtures(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.lfn.toml", brokenDecls)
	b := writeFixture(t, dir, "b.lfn.toml", cleanDecls)

	res, err := Bind(context.Background(), []string{a, b}, BindOptions{Race: 4})
	require.NoError(t, err)
	require.Len(t, res.Fixtures, 2)
	require.Len(t, res.Symbols, 4)
	require.Equal(t, b, res.Symbols[3].Path)
	require.Equal(t, "Sum(params int[] xs) -> int", res.Symbols[3].Symbol.Signature())
	require.True(t, res.Symbols[3].Symbol.IsStatic())
}

func TestBindCache(t *testing.T) {
	dir := t.TempDir()
	p := writeFixture(t, dir, "broken.lfn.toml", brokenDecls)
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	require.NoError(t, err)

	first, err := Bind(context.Background(), []string{p}, BindOptions{Cache: cache})
	require.NoError(t, err)
	require.False(t, first.CacheHit)

	second, err := Bind(context.Background(), []string{p}, BindOptions{Cache: cache})
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.Key, second.Key)
	require.Equal(t, first.Bag.Items(), second.Bag.Items())
	require.Equal(t, first.Signatures(), second.Signatures())
	require.Len(t, second.Symbols, len(first.Symbols))
	for i := range second.Symbols {
		require.Equal(t, first.Symbols[i].Diagnostics, second.Symbols[i].Diagnostics, first.Symbols[i].QualifiedName())
		require.Equal(t, first.Symbols[i].HasErrors(), second.Symbols[i].HasErrors())
		require.Zero(t, second.Symbols[i].Symbol.PendingDiagnostics(), "a hit does not force binding")
	}
	require.True(t, second.Symbols[0].HasErrors())

	var payload DiskPayload
	ok, err := cache.Get(first.Key, &payload)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{p}, payload.FilePaths)
	require.Len(t, payload.Symbols, 3)
	require.Equal(t, "Outer.F", payload.Symbols[0].Name)
	require.Equal(t, first.Symbols[0].Signature, payload.Symbols[0].Signature)

	require.NoError(t, cache.DropAll())
	third, err := Bind(context.Background(), []string{p}, BindOptions{Cache: cache})
	require.NoError(t, err)
	require.False(t, third.CacheHit)
}

func TestBindCacheIgnoresMismatchedSymbols(t *testing.T) {
	dir := t.TempDir()
	p := writeFixture(t, dir, "broken.lfn.toml", brokenDecls)
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	require.NoError(t, err)

	first, err := Bind(context.Background(), []string{p}, BindOptions{Cache: cache})
	require.NoError(t, err)

	// an entry under the right key that names other symbols is not trusted
	var payload DiskPayload
	ok, err := cache.Get(first.Key, &payload)
	require.NoError(t, err)
	require.True(t, ok)
	payload.Symbols[1].Name = "Outer.Renamed"
	payload.Symbols[1].Diagnostics = nil
	require.NoError(t, cache.Put(first.Key, &payload))

	second, err := Bind(context.Background(), []string{p}, BindOptions{Cache: cache})
	require.NoError(t, err)
	require.False(t, second.CacheHit)
	require.Equal(t, first.Bag.Items(), second.Bag.Items())
	require.Equal(t, first.Symbols[1].Diagnostics, second.Symbols[1].Diagnostics)

	third, err := Bind(context.Background(), []string{p}, BindOptions{Cache: cache})
	require.NoError(t, err)
	require.True(t, third.CacheHit, "the rebind rewrote the entry")
}

func TestBindCacheKeyFollowsContent(t *testing.T) {
	dir := t.TempDir()
	p := writeFixture(t, dir, "decls.lfn.toml", brokenDecls)
	first, err := Bind(context.Background(), []string{p}, BindOptions{})
	require.NoError(t, err)

	writeFixture(t, dir, "decls.lfn.toml", cleanDecls)
	second, err := Bind(context.Background(), []string{p}, BindOptions{})
	require.NoError(t, err)
	require.NotEqual(t, first.Key, second.Key)
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

func TestBindReportsProgressAndPhases(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.lfn.toml", brokenDecls)
	b := writeFixture(t, dir, "b.lfn.toml", cleanDecls)

	sink := &recordingSink{}
	var phases []PhaseEvent
	_, err := Bind(context.Background(), []string{a, b}, BindOptions{
		Race:     2,
		Progress: sink,
		Phases:   func(ev PhaseEvent) { phases = append(phases, ev) },
	})
	require.NoError(t, err)

	names := make([]string, 0, len(phases))
	for _, ev := range phases {
		if ev.Status == PhaseEnd {
			names = append(names, ev.Name)
		}
	}
	require.Equal(t, []string{"load", "collect", "bind", "drain"}, names)

	final := map[string]Status{}
	for _, ev := range sink.events {
		final[ev.File] = ev.Status
	}
	require.Equal(t, StatusError, final[a])
	require.Equal(t, StatusDone, final[b])
}

func TestBindTimings(t *testing.T) {
	dir := t.TempDir()
	p := writeFixture(t, dir, "clean.lfn.toml", cleanDecls)

	res, err := Bind(context.Background(), []string{p}, BindOptions{EnableTimings: true, MaxDiagnostics: 1})
	require.NoError(t, err)
	require.NotNil(t, res.Timing)
	require.Len(t, res.Timing.Phases, 4)
	items := res.Bag.Items()
	require.Equal(t, diag.ObsTimings, items[len(items)-1].Code)
	require.False(t, res.Bag.HasErrors())
}

func TestBindErrors(t *testing.T) {
	_, err := Bind(context.Background(), nil, BindOptions{})
	require.ErrorIs(t, err, ErrNoFixtures)

	_, err = Bind(context.Background(), []string{filepath.Join(t.TempDir(), "missing.lfn.toml")}, BindOptions{})
	require.ErrorIs(t, err, os.ErrNotExist)

	dir := t.TempDir()
	p := writeFixture(t, dir, "a.lfn.toml", cleanDecls)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Bind(ctx, []string{p}, BindOptions{})
	require.ErrorIs(t, err, context.Canceled)
}
