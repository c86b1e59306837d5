package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"localfn/internal/ast"
	"localfn/internal/diag"
	"localfn/internal/source"
)

// TypeParameterSymbol is a generic parameter declared by Owner.
// It is immutable once created.
type TypeParameterSymbol struct {
	name    source.StringID
	label   string
	ordinal uint32
	span    source.Span
	owner   ast.ItemID
}

// NewTypeParameter builds the ordinal-th type parameter of owner.
func NewTypeParameter(name source.StringID, label string, ordinal uint32, span source.Span, owner ast.ItemID) *TypeParameterSymbol {
	return &TypeParameterSymbol{name: name, label: label, ordinal: ordinal, span: span, owner: owner}
}

func (tp *TypeParameterSymbol) Kind() SymbolKind        { return SymbolTypeParam }
func (tp *TypeParameterSymbol) Name() string            { return tp.label }
func (tp *TypeParameterSymbol) NameID() source.StringID { return tp.name }
func (tp *TypeParameterSymbol) Ordinal() uint32         { return tp.ordinal }
func (tp *TypeParameterSymbol) Location() source.Span   { return tp.span }
func (tp *TypeParameterSymbol) Owner() ast.ItemID       { return tp.owner }

func (tp *TypeParameterSymbol) Hash() uint64 {
	return hashNode(SymbolTypeParam, uint32(tp.owner), tp.ordinal)
}

// Equal compares by owner, ordinal, name and declaration span.
func (tp *TypeParameterSymbol) Equal(other *TypeParameterSymbol) bool {
	if tp == other {
		return true
	}
	if tp == nil || other == nil {
		return false
	}
	return tp.owner == other.owner &&
		tp.ordinal == other.ordinal &&
		tp.name == other.name &&
		tp.span == other.span
}

// typeParametersFromSyntax builds symbols for ids without validation.
func typeParametersFromSyntax(b *ast.Builder, ids []ast.TypeParamID, owner ast.ItemID) []*TypeParameterSymbol {
	if len(ids) == 0 {
		return nil
	}
	result := make([]*TypeParameterSymbol, 0, len(ids))
	for idx, id := range ids {
		syn := b.Items.TypeParam(id)
		if syn == nil {
			continue
		}
		ordinal, err := safecast.Conv[uint32](idx)
		if err != nil {
			panic(fmt.Errorf("type param ordinal overflow: %w", err))
		}
		result = append(result, NewTypeParameter(syn.Name, b.Name(syn.Name), ordinal, syn.NameSpan, owner))
	}
	return result
}

// makeTypeParameters builds the type parameters of a local function and
// reports name collisions. Every declared parameter produces a symbol even
// when it collides.
//
// Rules, per parameter in declaration order:
//   - named after the function itself: error;
//   - named like an earlier parameter of the same list: error on the later one;
//   - named like a type parameter of the enclosing type: warning.
func makeTypeParameters(b *ast.Builder, fnID ast.ItemID, fn *ast.LocalFnItem, container Container, r diag.Reporter) []*TypeParameterSymbol {
	ids := b.Items.GetLocalFnTypeParamIDs(fn)
	result := typeParametersFromSyntax(b, ids, fnID)
	if len(result) == 0 {
		return result
	}

	// generic local functions are not supported beyond these checks
	clause := fn.TypeParamsSpan
	if clause.Empty() {
		clause = result[0].span.Cover(result[len(result)-1].span)
	}
	diag.ReportError(r, diag.FutGenericLocalFnNotSupported, clause,
		fmt.Sprintf("generic local function '%s' is not supported", b.Name(fn.Name))).Emit()

	var enclosing []*TypeParameterSymbol
	if container != nil {
		enclosing = container.EnclosingTypeParameters()
	}

	for i, tp := range result {
		if tp.name == fn.Name {
			diag.ReportError(r, diag.SemaTypeParamSameAsParent, tp.span,
				fmt.Sprintf("type parameter '%s' has the same name as the containing local function", tp.label)).
				WithNote(fn.NameSpan, "local function declared here").
				Emit()
		}
		for _, prev := range result[:i] {
			if prev.name == tp.name {
				diag.ReportError(r, diag.SemaDuplicateTypeParam, tp.span,
					fmt.Sprintf("duplicate type parameter '%s'", tp.label)).
					WithNote(prev.span, "previous declaration here").
					Emit()
				break
			}
		}
		if outer := findTypeParameter(enclosing, tp.name); outer != nil {
			owner := "enclosing type"
			if container != nil {
				owner = container.Name()
			}
			diag.ReportWarning(r, diag.SemaTypeParamShadow, tp.span,
				fmt.Sprintf("type parameter '%s' has the same name as the type parameter from outer '%s'", tp.label, owner)).
				WithNote(outer.span, "outer type parameter declared here").
				Emit()
		}
	}
	return result
}

func findTypeParameter(tps []*TypeParameterSymbol, name source.StringID) *TypeParameterSymbol {
	for _, tp := range tps {
		if tp.name == name {
			return tp
		}
	}
	return nil
}
