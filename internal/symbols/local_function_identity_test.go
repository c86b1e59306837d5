package symbols_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"localfn/internal/sema"
	"localfn/internal/symbols"
)

const twoLocals = `
types = ["List"]

[[container]]
name = "Outer"
type_params = ["T"]
  [[container.local]]
  name = "F"
  returns = "List"
    [[container.local.param]]
    name = "x"
    type = "int"
  [[container.local]]
  name = "F"
  returns = "List"
    [[container.local.param]]
    name = "x"
    type = "int"
`

func TestHashStableAcrossBinding(t *testing.T) {
	e := newEnv(t, twoLocals)
	counting := newCountingBinder(e.binder)
	sym := e.localWith(t, 0, 0, counting)

	before := sym.Hash()
	require.Zero(t, counting.params.Load())
	require.Zero(t, counting.types.Load())

	sym.ForceComplete()
	sym.SetIteratorElementType(e.types.Builtins().Int)
	require.Equal(t, before, sym.Hash())
}

func TestHashUsableAsKeyBeforeBinding(t *testing.T) {
	e := newEnv(t, twoLocals)
	counting := newCountingBinder(e.binder)
	a := e.localWith(t, 0, 0, counting)
	b := e.localWith(t, 0, 1, counting)

	set := map[uint64]*symbols.LocalFunctionSymbol{a.Hash(): a, b.Hash(): b}
	require.Len(t, set, 2)
	require.Zero(t, counting.params.Load())
}

func TestEqualityReflexiveAndSymmetric(t *testing.T) {
	e := newEnv(t, twoLocals)
	a := e.local(t, 0, 0)
	require.True(t, a.Equal(a))

	again := e.local(t, 0, 0)
	require.True(t, a.Equal(again))
	require.True(t, again.Equal(a))
	require.Equal(t, a.Hash(), again.Hash())

	// same shape, different declaration node
	other := e.local(t, 0, 1)
	require.False(t, a.Equal(other))
	require.False(t, other.Equal(a))
	require.NotEqual(t, a.Hash(), other.Hash())

	require.False(t, a.Equal(nil))
}

func TestEqualityComparesBoundFacts(t *testing.T) {
	e := newEnv(t, twoLocals)
	a := e.local(t, 0, 0)

	// a binder that does not know List binds the return type to the error type
	blind := sema.NewSignatureBinder(e.builder(), e.types, nil)
	b := e.localWith(t, 0, 0, blind)
	require.True(t, e.types.IsError(b.ReturnType()))
	require.False(t, a.Equal(b))
	require.False(t, b.Equal(a))
	require.Equal(t, a.Hash(), b.Hash())
}

func TestEqualityComparesContainers(t *testing.T) {
	e := newEnv(t, twoLocals)
	m := e.method(t, 0)
	id := m.Locals()[0]

	a, err := symbols.NewLocalFunction(e.builder(), id, m, e.binder)
	require.NoError(t, err)
	b, err := symbols.NewLocalFunction(e.builder(), id, nil, e.binder)
	require.NoError(t, err)
	require.False(t, a.Equal(b))

	// a second wrapper of the same method is the same container
	c, err := symbols.NewLocalFunction(e.builder(), id, e.method(t, 0), e.binder)
	require.NoError(t, err)
	require.True(t, a.Equal(c))
	require.True(t, m.Equal(e.method(t, 0)))
}

func TestEqualityComparesTypeParameters(t *testing.T) {
	in := `
[[container]]
name = "Outer"
  [[container.local]]
  name = "F"
  type_params = ["A"]
  returns = "void"
`
	e := newEnv(t, in)
	a := e.local(t, 0, 0)
	b := e.local(t, 0, 0)
	require.True(t, a.Equal(b))
	require.True(t, a.TypeParameters()[0].Equal(b.TypeParameters()[0]))
	require.NotSame(t, a.TypeParameters()[0], b.TypeParameters()[0])
	require.Equal(t, a.TypeParameters()[0].Hash(), b.TypeParameters()[0].Hash())
}
