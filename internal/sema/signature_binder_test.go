package sema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"localfn/internal/ast"
	"localfn/internal/diag"
	"localfn/internal/fixture"
	"localfn/internal/symbols"
	"localfn/internal/types"
)

func setup(t *testing.T, src string) (*fixture.Loader, *SignatureBinder, *ast.LocalFnItem) {
	t.Helper()
	l := fixture.NewLoader(nil, nil)
	_, err := l.LoadBytes("decls/binder.lfn.toml", []byte(src))
	require.NoError(t, err)
	in := types.NewInterner(l.Builder.StringsInterner)
	m, ok := l.Builder.Items.Method(l.Methods()[0])
	require.True(t, ok)
	fn, ok := l.Builder.Items.LocalFn(m.Locals[0])
	require.True(t, ok)
	return l, NewSignatureBinder(l.Builder, in, l.NamedTypes()), fn
}

func bindAll(sb *SignatureBinder, l *fixture.Loader, fn *ast.LocalFnItem) ([]*symbols.ParameterSymbol, bool, *diag.Bag) {
	bag := diag.NewBag(100)
	params, vararg := sb.BindParameters(l.Builder.Items.GetFnParamIDs(fn), diag.BagReporter{Bag: bag})
	return params, vararg, bag
}

func TestBindTypes(t *testing.T) {
	l, sb, fn := setup(t, `
types = ["List"]
[[container]]
name = "M"
  [[container.local]]
  name = "F"
  returns = "void"
    [[container.local.param]]
    name = "a"
    type = "int32"
    [[container.local.param]]
    name = "b"
    type = "List[]?"
    [[container.local.param]]
    name = "c"
    type = "float"
`)
	params, vararg, bag := bindAll(sb, l, fn)
	require.Zero(t, bag.Len())
	require.False(t, vararg)
	require.Len(t, params, 3)

	in := sb.Types()
	require.Equal(t, "int32", types.Label(in, params[0].Type))
	require.Equal(t, "List[]?", types.Label(in, params[1].Type))
	require.Equal(t, in.Builtins().Float, params[2].Type)
	require.Equal(t, in.Builtins().Void, sb.BindType(fn.ReturnType, nil))
}

func TestBindTypeErrors(t *testing.T) {
	l, sb, fn := setup(t, `
[[container]]
name = "M"
  [[container.local]]
  name = "F"
  returns = "void"
    [[container.local.param]]
    name = "a"
    type = "Nope"
    [[container.local.param]]
    name = "b"
    type = "var"
    [[container.local.param]]
    name = "c"
    type = "void"
    [[container.local.param]]
    name = "d"
    type = "void[]"
    [[container.local.param]]
    name = "e"
    type = "int"
    modifiers = ["params"]
`)
	params, _, bag := bindAll(sb, l, fn)
	require.Len(t, params, 5)
	errType := sb.Types().Builtins().Error
	for _, p := range params[:4] {
		require.Equal(t, errType, p.Type, p.Label)
	}
	require.True(t, params[4].IsParams)

	bag.Sort()
	codes := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		codes = append(codes, d.Code)
	}
	require.ElementsMatch(t, []diag.Code{
		diag.SemaUnresolvedSymbol,
		diag.SynExpectType,
		diag.SemaError, // void parameter
		diag.SemaError, // void element
		diag.SemaError, // params on a non-array
	}, codes)
}

func TestBindParamModifiers(t *testing.T) {
	l, sb, fn := setup(t, `
[[container]]
name = "M"
  [[container.local]]
  name = "F"
  returns = "void"
    [[container.local.param]]
    name = "a"
    type = "int"
    modifiers = ["ref", "out"]
    [[container.local.param]]
    name = "b"
    type = "int[]"
    modifiers = ["in", "this", "params"]
`)
	params, _, bag := bindAll(sb, l, fn)
	require.Equal(t, symbols.RefRef, params[0].RefKind)
	require.Equal(t, symbols.RefIn, params[1].RefKind)
	require.True(t, params[1].IsParams)
	require.False(t, params[1].IsThis)

	require.Equal(t, 2, bag.Len())
	require.Equal(t, diag.SynModifierNotAllowed, bag.Items()[0].Code)
	require.Equal(t, diag.SemaThisParamNotFirst, bag.Items()[1].Code)
}

func TestWithTypeParameters(t *testing.T) {
	l, sb, fn := setup(t, `
[[container]]
name = "M"
  [[container.local]]
  name = "F"
  type_params = ["T", "T"]
  returns = "T"
`)
	ids := l.Builder.Items.GetLocalFnTypeParamIDs(fn)
	tps := make([]*symbols.TypeParameterSymbol, 0, len(ids))
	for i, id := range ids {
		tp := l.Builder.Items.TypeParam(id)
		tps = append(tps, symbols.NewTypeParameter(tp.Name, "T", uint32(i), tp.NameSpan, ast.ItemID(7)))
	}

	bag := diag.NewBag(10)
	require.True(t, sb.Types().IsError(sb.BindType(fn.ReturnType, diag.BagReporter{Bag: bag})))
	require.Equal(t, diag.SemaUnresolvedSymbol, bag.Items()[0].Code)

	generic := sb.WithTypeParameters(tps)
	ret := generic.BindType(fn.ReturnType, nil)
	tt := sb.Types().MustLookup(ret)
	require.Equal(t, types.KindTypeParam, tt.Kind)
	require.EqualValues(t, 0, tt.Index, "first declaration wins")
	require.Equal(t, ast.ItemID(7), tt.Owner)

	// same name and ordinal under another owner is a distinct type
	other := make([]*symbols.TypeParameterSymbol, 0, len(tps))
	for _, tp := range tps {
		other = append(other, symbols.NewTypeParameter(tp.NameID(), tp.Name(), tp.Ordinal(), tp.Location(), ast.ItemID(8)))
	}
	require.NotEqual(t, ret, sb.WithTypeParameters(other).BindType(fn.ReturnType, nil))

	// the original binder is untouched
	require.True(t, sb.Types().IsError(sb.BindType(fn.ReturnType, nil)))
	require.Same(t, sb, sb.WithTypeParameters(nil))
}
