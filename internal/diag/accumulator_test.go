package diag

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"localfn/internal/source"
)

func errAt(code Code, start uint32) Diagnostic {
	return NewError(code, source.Span{File: 1, Start: start, End: start + 1}, code.Title())
}

func TestAccumulatorDrainReturnsPushedInOrder(t *testing.T) {
	acc := NewAccumulator()
	acc.Push(errAt(SemaDuplicateTypeParam, 1), errAt(SemaTypeParamSameAsParent, 2))
	acc.Push(errAt(SemaLocalFnExtension, 3))
	require.Equal(t, 3, acc.Len())

	got := acc.Drain()
	require.Len(t, got, 3)
	require.Equal(t, SemaDuplicateTypeParam, got[0].Code)
	require.Equal(t, SemaTypeParamSameAsParent, got[1].Code)
	require.Equal(t, SemaLocalFnExtension, got[2].Code)
}

func TestAccumulatorSecondDrainIsEmpty(t *testing.T) {
	acc := NewAccumulator()
	acc.Push(errAt(SemaError, 0))
	require.Len(t, acc.Drain(), 1)
	require.Empty(t, acc.Drain())
	require.Zero(t, acc.Len())
}

func TestAccumulatorEmptyPushIsNoop(t *testing.T) {
	acc := NewAccumulator()
	acc.Push()
	require.Empty(t, acc.Drain())
}

func TestAccumulatorZeroValueUsable(t *testing.T) {
	var acc Accumulator
	require.Empty(t, acc.Drain())
	acc.Push(errAt(SemaError, 0))
	require.Len(t, acc.Drain(), 1)
}

func TestAccumulatorConcurrentPushLosesNothing(t *testing.T) {
	const (
		workers = 16
		perG    = 200
	)
	acc := NewAccumulator()
	var g errgroup.Group
	for w := range workers {
		g.Go(func() error {
			for i := range perG {
				acc.Push(errAt(SemaError, uint32(w*perG+i)))
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	got := acc.Drain()
	require.Len(t, got, workers*perG)
	seen := make(map[uint32]bool, len(got))
	for _, d := range got {
		require.False(t, seen[d.Primary.Start], "duplicate record at %d", d.Primary.Start)
		seen[d.Primary.Start] = true
	}
}

func TestAccumulatorDrainRacingPushHandsOutEachOnce(t *testing.T) {
	acc := NewAccumulator()
	const total = 1000
	var g errgroup.Group
	g.Go(func() error {
		for i := range total {
			acc.Push(errAt(SemaError, uint32(i)))
		}
		return nil
	})
	var drained []Diagnostic
	g.Go(func() error {
		for range 50 {
			drained = append(drained, acc.Drain()...)
		}
		return nil
	})
	require.NoError(t, g.Wait())
	drained = append(drained, acc.Drain()...)

	require.Len(t, drained, total)
	seen := make(map[uint32]bool, total)
	for _, d := range drained {
		require.False(t, seen[d.Primary.Start])
		seen[d.Primary.Start] = true
	}
}
