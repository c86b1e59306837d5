package ast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"localfn/internal/source"
)

func TestLocalFnAllocation(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	outer := b.Items.NewMethod(MethodSpec{
		Name:            b.StringsInterner.Intern("Outer"),
		OuterTypeParams: []TypeParamSpec{{Name: b.StringsInterner.Intern("T")}},
	})
	intType := b.Types.NewPath(b.StringsInterner.Intern("int"), source.Span{})
	voidType := b.Types.NewPath(b.StringsInterner.Intern("void"), source.Span{})

	fnID := b.Items.NewLocalFn(outer, LocalFnSpec{
		Name: b.StringsInterner.Intern("F"),
		TypeParams: []TypeParamSpec{
			{Name: b.StringsInterner.Intern("U")},
			{Name: b.StringsInterner.Intern("V")},
		},
		Params: []FnParam{
			{Name: b.StringsInterner.Intern("x"), Type: intType, Modifiers: []ParamModifier{{Kind: ParamModThis}}},
			{ArgList: true},
		},
		ReturnType: voidType,
	})

	fn, ok := b.Items.LocalFn(fnID)
	require.True(t, ok)
	require.Equal(t, "F", b.Name(fn.Name))
	require.Equal(t, outer, fn.Owner)

	tps := b.Items.GetLocalFnTypeParamIDs(fn)
	require.Len(t, tps, 2)
	require.Equal(t, "V", b.Name(b.Items.TypeParam(tps[1]).Name))

	params := b.Items.GetFnParamIDs(fn)
	require.Len(t, params, 2)
	_, isThis := b.Items.FnParam(params[0]).HasModifier(ParamModThis)
	require.True(t, isThis)
	require.True(t, b.Items.FnParam(params[1]).ArgList)

	m, ok := b.Items.Method(outer)
	require.True(t, ok)
	require.Equal(t, []ItemID{fnID}, m.Locals)

	_, ok = b.Items.Method(fnID)
	require.False(t, ok)
}

func TestInferredType(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	v := b.Types.NewInferred(source.Span{})
	arr := b.Types.NewArray(b.Types.NewPath(b.StringsInterner.Intern("int"), source.Span{}), source.Span{})
	require.True(t, b.Types.IsInferred(v))
	require.False(t, b.Types.IsInferred(arr))
	require.False(t, b.Types.IsInferred(NoTypeID))
}

func TestParseModifiers(t *testing.T) {
	k, ok := ParseModifier("async")
	require.True(t, ok)
	require.Equal(t, ModAsync, k)
	_, ok = ParseModifier("bogus")
	require.False(t, ok)

	pk, ok := ParseParamModifier(" this ")
	require.True(t, ok)
	require.Equal(t, ParamModThis, pk)
	require.Equal(t, "params", ParamModParams.String())
}
