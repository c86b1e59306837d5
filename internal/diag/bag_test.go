package diag

import (
	"testing"

	"github.com/stretchr/testify/require"

	"localfn/internal/source"
)

func TestBagLimitAndSeverity(t *testing.T) {
	bag := NewBag(2)
	require.True(t, bag.Add(NewWarning(SemaTypeParamShadow, source.Span{}, "shadow")))
	require.False(t, bag.HasErrors())
	require.True(t, bag.HasWarnings())
	require.True(t, bag.Add(errAt(SemaError, 0)))
	require.False(t, bag.Add(errAt(SemaError, 1)))
	require.True(t, bag.HasErrors())
	require.Equal(t, 2, bag.Len())
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(10)
	bag.Add(errAt(SemaLocalFnExtension, 9))
	bag.Add(errAt(SemaDuplicateTypeParam, 3))
	bag.Add(NewWarning(SemaTypeParamShadow, source.Span{File: 1, Start: 3, End: 4}, "shadow"))
	bag.Add(errAt(SemaDuplicateTypeParam, 3))

	bag.Sort()
	items := bag.Items()
	require.Equal(t, SemaDuplicateTypeParam, items[0].Code)
	require.Equal(t, SemaTypeParamShadow, items[2].Code)
	require.Equal(t, SemaLocalFnExtension, items[3].Code)

	bag.Dedup()
	require.Equal(t, 3, bag.Len())
}

func TestBagMergeGrowsLimit(t *testing.T) {
	a := NewBag(1)
	a.Add(errAt(SemaError, 0))
	b := NewBag(2)
	b.Add(errAt(SemaError, 1))
	b.Add(errAt(SemaError, 2))
	a.Merge(b)
	require.Equal(t, 3, a.Len())
	require.Equal(t, uint16(3), a.Cap())
}

func TestDedupReporterByCodeAndSpan(t *testing.T) {
	bag := NewBag(10)
	rep := NewDedupReporter(BagReporter{Bag: bag})
	d := errAt(SemaLocalFnInferredReturn, 4)
	Forward(rep, []Diagnostic{d, d, errAt(SemaLocalFnInferredReturn, 5)})
	require.Equal(t, 2, bag.Len())
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	b := ReportError(BagReporter{Bag: bag}, SemaUnresolvedSymbol, source.Span{File: 1, Start: 1, End: 2}, "unknown type 'Foo'").
		WithNote(source.Span{File: 1, Start: 0, End: 1}, "while binding 'F'")
	b.Emit()
	b.Emit()
	require.Equal(t, 1, bag.Len())
	require.Len(t, bag.Items()[0].Notes, 1)
}

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("./decls/sample.lfn.toml", []byte("a\nb\n"))

	diags := []Diagnostic{
		NewError(SemaLocalFnInferredReturn, source.Span{File: file, Start: 0, End: 1}, "first line\nsecond").
			WithNote(source.Span{File: file, Start: 2, End: 3}, "note line"),
		NewWarning(SemaTypeParamShadow, source.Span{File: file, Start: 2, End: 3}, "another"),
	}

	expected := "error SEM3143 decls/sample.lfn.toml:1:1 first line second\n" +
		"note SEM3143 decls/sample.lfn.toml:2:1 note line\n" +
		"warning SEM3112 decls/sample.lfn.toml:2:1 another"
	require.Equal(t, expected, FormatShortDiagnostics(diags, fs, true))
}

func TestCodeID(t *testing.T) {
	require.Equal(t, "FUT7007", FutGenericLocalFnNotSupported.ID())
	require.Equal(t, "SYN2015", SynModifierNotAllowed.ID())
	require.Equal(t, "Unknown error", Code(9999).Title())
}
