package symbols_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"localfn/internal/diag"
)

func TestNoTypeParameters(t *testing.T) {
	e := newEnv(t, `
[[container]]
name = "Outer"
  [[container.local]]
  name = "F"
  returns = "void"
`)
	sym := e.local(t, 0, 0)
	require.Empty(t, sym.TypeParameters())
	require.Equal(t, 0, sym.Arity())
	require.False(t, sym.IsGeneric())
	require.Empty(t, sym.DrainDiagnostics())
}

func TestTypeParameterClauseIsUnsupported(t *testing.T) {
	e := newEnv(t, `
[[container]]
name = "Outer"
  [[container.local]]
  name = "F"
  type_params = ["A", "B", "C"]
  returns = "void"
`)
	sym := e.local(t, 0, 0)
	require.Equal(t, 3, sym.Arity())

	ds := sym.DrainDiagnostics()
	d := only(t, ds, diag.FutGenericLocalFnNotSupported)
	require.Equal(t, diag.SevError, d.Severity)
	require.Equal(t, "<A, B, C>", e.text(d.Primary))
	require.Len(t, ds, 1)

	names := make([]string, 0, 3)
	for i, tp := range sym.TypeParameters() {
		names = append(names, tp.Name())
		require.EqualValues(t, i, tp.Ordinal())
		require.Equal(t, sym.Item(), tp.Owner())
	}
	require.Equal(t, []string{"A", "B", "C"}, names)
}

func TestTypeParameterSameAsParent(t *testing.T) {
	e := newEnv(t, `
[[container]]
name = "Outer"
  [[container.local]]
  name = "F"
  type_params = ["T", "F"]
  returns = "void"
`)
	sym := e.local(t, 0, 0)
	ds := sym.DrainDiagnostics()

	d := only(t, ds, diag.SemaTypeParamSameAsParent)
	require.Equal(t, diag.SevError, d.Severity)
	require.Equal(t, sym.TypeParameters()[1].Location(), d.Primary)
	require.Len(t, d.Notes, 1)
	require.Equal(t, sym.Location(), d.Notes[0].Span)

	require.Len(t, sym.TypeParameters(), 2)
	require.Equal(t, "F", sym.TypeParameters()[1].Name())
}

func TestDuplicateTypeParameter(t *testing.T) {
	e := newEnv(t, `
[[container]]
name = "Outer"
  [[container.local]]
  name = "F"
  type_params = ["T", "U", "T"]
  returns = "void"
`)
	sym := e.local(t, 0, 0)
	ds := sym.DrainDiagnostics()

	tps := sym.TypeParameters()
	require.Len(t, tps, 3)
	require.Equal(t, []string{"T", "U", "T"}, []string{tps[0].Name(), tps[1].Name(), tps[2].Name()})

	d := only(t, ds, diag.SemaDuplicateTypeParam)
	require.Equal(t, tps[2].Location(), d.Primary)
	require.Equal(t, tps[0].Location(), d.Notes[0].Span)
	require.False(t, tps[0].Equal(tps[2]))
}

func TestDuplicateTypeParameterReportedPerLaterOccurrence(t *testing.T) {
	e := newEnv(t, `
[[container]]
name = "Outer"
  [[container.local]]
  name = "F"
  type_params = ["T", "T", "T"]
  returns = "void"
`)
	sym := e.local(t, 0, 0)
	ds := sym.DrainDiagnostics()
	require.Equal(t, 2, countCode(ds, diag.SemaDuplicateTypeParam))

	tps := sym.TypeParameters()
	var primaries []string
	for _, d := range ds {
		if d.Code == diag.SemaDuplicateTypeParam {
			primaries = append(primaries, d.Primary.String())
			// always points back at the first occurrence
			require.Equal(t, tps[0].Location(), d.Notes[0].Span)
		}
	}
	require.Equal(t, []string{tps[1].Location().String(), tps[2].Location().String()}, primaries)
}

func TestTypeParameterShadowsEnclosing(t *testing.T) {
	e := newEnv(t, `
[[container]]
name = "Outer"
type_params = ["T"]
  [[container.local]]
  name = "F"
  type_params = ["T"]
  returns = "T"
    [[container.local.param]]
    name = "x"
    type = "T"
`)
	sym := e.local(t, 0, 0)
	ds := sym.DrainDiagnostics()
	d := only(t, ds, diag.SemaTypeParamShadow)
	require.Equal(t, diag.SevWarning, d.Severity)
	require.Equal(t, sym.TypeParameters()[0].Location(), d.Primary)
	require.Equal(t, e.method(t, 0).EnclosingTypeParameters()[0].Location(), d.Notes[0].Span)
	require.Equal(t, 2, len(ds), "only the unsupported-generic error besides the warning")

	// binding proceeds and resolves to the local type parameter
	sym.ForceComplete()
	require.Empty(t, sym.DrainDiagnostics())
	require.Equal(t, "F<T>(T x) -> T", sym.Signature())
	require.Equal(t, sym.ReturnType(), sym.Parameters()[0].Type)
}

func TestTypeParameterRulesCombine(t *testing.T) {
	e := newEnv(t, `
[[container]]
name = "Outer"
type_params = ["F"]
  [[container.local]]
  name = "F"
  type_params = ["F", "F"]
  returns = "void"
`)
	ds := e.local(t, 0, 0).DrainDiagnostics()
	require.Equal(t, 2, countCode(ds, diag.SemaTypeParamSameAsParent))
	require.Equal(t, 1, countCode(ds, diag.SemaDuplicateTypeParam))
	require.Equal(t, 2, countCode(ds, diag.SemaTypeParamShadow))
	require.Equal(t, 1, countCode(ds, diag.FutGenericLocalFnNotSupported))
}
