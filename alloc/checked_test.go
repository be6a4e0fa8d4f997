package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecked_DoubleFree(t *testing.T) {
	a, _ := newTestAllocator(t, 1<<20, 64, true)

	ref, _ := mustAlloc(t, a, 24)
	mustFree(t, a, ref)
	require.ErrorIs(t, a.Free(ref), ErrDoubleFree)
	require.NoError(t, a.Check())
	require.Equal(t, 1, a.Stats().FreeCalls)
}

func TestChecked_DoubleFreeAfterMerge(t *testing.T) {
	a, _ := newTestAllocator(t, 1<<20, 6, true)

	r1, _ := mustAlloc(t, a, 32)
	r2, _ := mustAlloc(t, a, 32)
	mustFree(t, a, r2)
	mustFree(t, a, r1) // absorbed into r2's block or absorbs it

	require.ErrorIs(t, a.Free(r1), ErrDoubleFree)
	require.ErrorIs(t, a.Free(r2), ErrDoubleFree)
	require.Len(t, a.FreeBlocks(), 1)
}

func TestChecked_BadRefs(t *testing.T) {
	a, seg := newTestAllocator(t, 1<<20, 64, true)

	require.ErrorIs(t, a.Free(unitSize), ErrBadRef, "free before any allocation")

	ref, _ := mustAlloc(t, a, 8)
	tests := []struct {
		name string
		ref  Ref
	}{
		{"nil", NilRef},
		{"misaligned", ref + 3},
		{"past break", Ref(seg.Len()) + unitSize},
		{"far away", 1 << 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, a.Free(tt.ref), ErrBadRef)
		})
	}

	// A free block inside the segment has no canary.
	free := a.FreeBlocks()
	require.NotEmpty(t, free)
	require.ErrorIs(t, a.Free(Ref(free[0].Offset+unitSize)), ErrDoubleFree)

	require.NoError(t, a.Check())
	mustFree(t, a, ref)
}

func TestChecked_CanaryDoesNotLeakIntoList(t *testing.T) {
	a, _ := newTestAllocator(t, 1<<20, 8, true)

	// Exact fit and split paths both tag the block.
	r1, _ := mustAlloc(t, a, 16)
	r2, _ := mustAlloc(t, a, 80)
	require.Equal(t, canary, a.next(addrOf(r1)))
	require.Equal(t, canary, a.next(addrOf(r2)))
	require.NoError(t, a.Check())

	mustFree(t, a, r1)
	mustFree(t, a, r2)
	for _, b := range a.FreeBlocks() {
		require.NotEqual(t, canary, a.next(addr(b.Offset/unitSize)+1))
	}
}

func TestUnchecked_FreeAlwaysNil(t *testing.T) {
	a, _ := newTestAllocator(t, 1<<20, 64, false)

	ref, _ := mustAlloc(t, a, 8)
	require.NoError(t, a.Free(ref))
	require.NoError(t, a.Check())
}
