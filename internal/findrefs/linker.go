package findrefs

import (
	"context"
	"sync"

	"localfn/internal/symbols"
)

// DeclarationLinker links local function symbols created from the same
// declaration node. Lookup goes through Hash, which never forces binding;
// Equal is only consulted on hash hits.
type DeclarationLinker struct {
	mu     sync.RWMutex
	byHash map[uint64][]*symbols.LocalFunctionSymbol
}

var _ Linker = (*DeclarationLinker)(nil)

func NewDeclarationLinker() *DeclarationLinker {
	return &DeclarationLinker{byHash: make(map[uint64][]*symbols.LocalFunctionSymbol)}
}

// Add registers sym.
func (l *DeclarationLinker) Add(sym *symbols.LocalFunctionSymbol) {
	if sym == nil {
		return
	}
	h := sym.Hash()
	l.mu.Lock()
	l.byHash[h] = append(l.byHash[h], sym)
	l.mu.Unlock()
}

// LinkedSymbols returns the other registered symbols equal to sym.
func (l *DeclarationLinker) LinkedSymbols(ctx context.Context, sym symbols.Symbol) ([]symbols.Symbol, error) {
	local, ok := sym.(*symbols.LocalFunctionSymbol)
	if !ok || local == nil {
		return nil, nil
	}
	l.mu.RLock()
	candidates := append([]*symbols.LocalFunctionSymbol(nil), l.byHash[local.Hash()]...)
	l.mu.RUnlock()

	var out []symbols.Symbol
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c == local || !c.Equal(local) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
