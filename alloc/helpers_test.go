package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/kralloc/segment"
)

// countingSegment records every Sbrk request so tests can check growth policy.
type countingSegment struct {
	*segment.Segment
	requests []int
}

func (c *countingSegment) Sbrk(n int) (int, error) {
	if n > 0 {
		c.requests = append(c.requests, n)
	}
	return c.Segment.Sbrk(n)
}

// newTestAllocator builds an allocator over a heap-backed segment of segSize bytes.
func newTestAllocator(t testing.TB, segSize, minGrowUnits int, checked bool) (*FreeListAllocator, *countingSegment) {
	t.Helper()

	seg := &countingSegment{Segment: segment.FromBytes(make([]byte, segSize))}
	a, err := New(seg, &Config{MinGrowUnits: minGrowUnits, Checked: checked})
	require.NoError(t, err)
	return a, seg
}

// blockOf returns the header offset and total size of the live block ref.
func blockOf(a *FreeListAllocator, ref Ref) Block {
	p := addrOf(ref)
	return Block{Offset: hdrOff(p), Size: int(a.size(p)) * unitSize}
}

// mustAlloc allocates n bytes and fails the test on error.
func mustAlloc(t testing.TB, a Allocator, n int) (Ref, []byte) {
	t.Helper()
	ref, payload, err := a.Alloc(n)
	require.NoError(t, err, "Alloc(%d)", n)
	require.NotEqual(t, NilRef, ref)
	require.GreaterOrEqual(t, len(payload), n)
	return ref, payload
}

// mustFree frees ref and verifies the free list afterwards.
func mustFree(t testing.TB, a *FreeListAllocator, ref Ref) {
	t.Helper()
	require.NoError(t, a.Free(ref))
	require.NoError(t, a.Check())
}
