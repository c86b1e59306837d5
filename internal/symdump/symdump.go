// Package symdump renders bound local function symbols as a tree.
package symdump

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"

	"localfn/internal/driver"
	"localfn/internal/symbols"
	"localfn/internal/types"
)

// Options controls what each symbol node shows.
type Options struct {
	// Hashes adds the identity hash of every symbol.
	Hashes bool
	// Diagnostics lists drained diagnostics under their symbol.
	Diagnostics bool
}

// FromBind builds the tree of a bind run: fixture, enclosing method, local
// function. Rendering forces every lazy fact of every symbol; for a cached
// result the diagnostics this produces are dropped in favour of the restored ones.
func FromBind(res *driver.BindResult, opts Options) treeprint.Tree {
	tree := treeprint.New()
	if res == nil {
		return tree
	}
	tree.SetValue(fmt.Sprintf("%d fixtures, %d local functions", len(res.Fixtures), len(res.Symbols)))

	fileNodes := make(map[string]treeprint.Tree, len(res.Fixtures))
	for i := range res.Fixtures {
		fileNodes[res.Fixtures[i].Path] = tree.AddBranch(res.Fixtures[i].Path)
	}

	methodNodes := make(map[*symbols.OuterMethod]treeprint.Tree, len(res.Methods))
	for _, m := range res.Methods {
		parent := tree
		if f := res.FileSet.Get(m.Location().File); f != nil {
			if node, ok := fileNodes[f.Path]; ok {
				parent = node
			}
		}
		methodNodes[m] = AddMethod(parent, m)
	}

	for i := range res.Symbols {
		sr := &res.Symbols[i]
		node, ok := methodNodes[sr.Method]
		if !ok {
			node = tree
		}
		local := AddLocal(node, res.Types, sr.Symbol, opts)
		if res.CacheHit {
			// the restored sr.Diagnostics already hold what rendering just produced
			sr.Symbol.DrainDiagnostics()
		}
		if opts.Diagnostics {
			for j := range sr.Diagnostics {
				d := &sr.Diagnostics[j]
				local.AddMetaNode(d.Severity.Label(), d.Code.ID()+" "+d.Message)
			}
		}
	}
	return tree
}

// AddMethod adds an enclosing method branch.
func AddMethod(tree treeprint.Tree, m *symbols.OuterMethod) treeprint.Tree {
	value := m.Name()
	if m.IsStatic() {
		value = "static " + value
	}
	return tree.AddMetaBranch("method", value)
}

// AddLocal adds the branch of one local function with its bound signature.
func AddLocal(tree treeprint.Tree, in *types.Interner, sym *symbols.LocalFunctionSymbol, opts Options) treeprint.Tree {
	branch := tree.AddMetaBranch("local", sym.Signature())

	if mods := sym.Modifiers().Strings(); len(mods) > 0 {
		branch.AddMetaNode("modifiers", strings.Join(mods, " "))
	}
	branch.AddMetaNode("access", sym.Accessibility().String())
	branch.AddMetaNode("convention", sym.CallingConvention().String())

	if sym.IsGeneric() {
		tps := branch.AddMetaBranch("type params", sym.Arity())
		for _, tp := range sym.TypeParameters() {
			tps.AddMetaNode(tp.Ordinal(), tp.Name())
		}
	}

	params := sym.Parameters()
	if len(params) > 0 || sym.IsVararg() {
		pb := branch.AddMetaBranch("params", len(params))
		for _, p := range params {
			pb.AddMetaNode(p.Ordinal, paramValue(in, p))
		}
		if sym.IsVararg() {
			pb.AddNode("__arglist")
		}
	}
	branch.AddMetaNode("returns", types.Label(in, sym.ReturnType()))

	if opts.Hashes {
		branch.AddMetaNode("hash", fmt.Sprintf("%016x", sym.Hash()))
	}
	return branch
}

func paramValue(in *types.Interner, p *symbols.ParameterSymbol) string {
	var sb strings.Builder
	if p.IsThis {
		sb.WriteString("this ")
	}
	if p.IsParams {
		sb.WriteString("params ")
	}
	if p.RefKind != symbols.RefNone {
		sb.WriteString(p.RefKind.String())
		sb.WriteByte(' ')
	}
	sb.WriteString(types.Label(in, p.Type))
	if p.Label != "" {
		sb.WriteByte(' ')
		sb.WriteString(p.Label)
	}
	return sb.String()
}
