package symbols_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"localfn/internal/ast"
	"localfn/internal/diag"
	"localfn/internal/fixture"
	"localfn/internal/sema"
	"localfn/internal/source"
	"localfn/internal/symbols"
	"localfn/internal/types"
)

type env struct {
	loader *fixture.Loader
	types  *types.Interner
	binder *sema.SignatureBinder
}

func newEnv(t *testing.T, src string) *env {
	t.Helper()
	l := fixture.NewLoader(nil, nil)
	_, err := l.LoadBytes("decls/test.lfn.toml", []byte(src))
	require.NoError(t, err)
	in := types.NewInterner(l.Builder.StringsInterner)
	return &env{
		loader: l,
		types:  in,
		binder: sema.NewSignatureBinder(l.Builder, in, l.NamedTypes()),
	}
}

func (e *env) builder() *ast.Builder { return e.loader.Builder }

func (e *env) method(t *testing.T, idx int) *symbols.OuterMethod {
	t.Helper()
	m, ok := symbols.NewOuterMethod(e.builder(), e.loader.Methods()[idx])
	require.True(t, ok)
	return m
}

func (e *env) local(t *testing.T, method, idx int) *symbols.LocalFunctionSymbol {
	t.Helper()
	return e.localWith(t, method, idx, e.binder)
}

func (e *env) localWith(t *testing.T, method, idx int, binder symbols.Binder) *symbols.LocalFunctionSymbol {
	t.Helper()
	m := e.method(t, method)
	sym, err := symbols.NewLocalFunction(e.builder(), m.Locals()[idx], m, binder)
	require.NoError(t, err)
	return sym
}

func (e *env) text(sp source.Span) string {
	f := e.loader.Files.Get(sp.File)
	return string(f.Content[sp.Start:sp.End])
}

func countCode(ds []diag.Diagnostic, code diag.Code) int {
	n := 0
	for _, d := range ds {
		if d.Code == code {
			n++
		}
	}
	return n
}

func only(t *testing.T, ds []diag.Diagnostic, code diag.Code) diag.Diagnostic {
	t.Helper()
	var found []diag.Diagnostic
	for _, d := range ds {
		if d.Code == code {
			found = append(found, d)
		}
	}
	require.Len(t, found, 1, "diagnostics with code %s: %v", code.ID(), ds)
	return found[0]
}

// countingBinder records how often the binder is asked to do work.
type countingBinder struct {
	symbols.Binder
	params *atomic.Int32
	types  *atomic.Int32
}

func newCountingBinder(next symbols.Binder) *countingBinder {
	return &countingBinder{Binder: next, params: &atomic.Int32{}, types: &atomic.Int32{}}
}

func (c *countingBinder) BindParameters(ids []ast.FnParamID, r diag.Reporter) ([]*symbols.ParameterSymbol, bool) {
	c.params.Add(1)
	return c.Binder.BindParameters(ids, r)
}

func (c *countingBinder) BindType(id ast.TypeID, r diag.Reporter) types.TypeID {
	c.types.Add(1)
	return c.Binder.BindType(id, r)
}

func (c *countingBinder) WithTypeParameters(tps []*symbols.TypeParameterSymbol) symbols.Binder {
	return &countingBinder{Binder: c.Binder.WithTypeParameters(tps), params: c.params, types: c.types}
}
