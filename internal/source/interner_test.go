package source

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestInternerBasic(t *testing.T) {
	interner := NewInterner()

	s, ok := interner.Lookup(NoStringID)
	require.True(t, ok)
	require.Empty(t, s)

	id1 := interner.Intern("hello")
	require.NotEqual(t, NoStringID, id1)
	require.Equal(t, id1, interner.Intern("hello"))
	require.Equal(t, "hello", interner.MustLookup(id1))

	id3 := interner.Intern("world")
	require.NotEqual(t, id1, id3)
	require.Equal(t, 3, interner.Len()) // "", "hello", "world"
}

func TestInternerNormalizesToNFC(t *testing.T) {
	interner := NewInterner()

	composed := interner.Intern("caf\u00e9")
	decomposed := interner.Intern("cafe\u0301")
	require.Equal(t, composed, decomposed)

	id, ok := interner.Find("cafe\u0301")
	require.True(t, ok)
	require.Equal(t, composed, id)
	require.Equal(t, "caf\u00e9", interner.MustLookup(id))
}

func TestInternerFindDoesNotIntern(t *testing.T) {
	interner := NewInterner()
	_, ok := interner.Find("missing")
	require.False(t, ok)
	require.Equal(t, 1, interner.Len())
}

func TestInternerMustLookupPanics(t *testing.T) {
	interner := NewInterner()
	require.Panics(t, func() { interner.MustLookup(StringID(42)) })
}

func TestInternerConcurrent(t *testing.T) {
	interner := NewInterner()
	var g errgroup.Group
	ids := make([][]StringID, 8)
	for w := range ids {
		g.Go(func() error {
			local := make([]StringID, 0, 64)
			for i := range 64 {
				local = append(local, interner.Intern(fmt.Sprintf("name%d", i)))
			}
			ids[w] = local
			return nil
		})
	}
	require.NoError(t, g.Wait())
	for w := 1; w < len(ids); w++ {
		require.Equal(t, ids[0], ids[w])
	}
	require.Equal(t, 65, interner.Len())
}
