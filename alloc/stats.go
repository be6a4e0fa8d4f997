package alloc

// Stats holds allocator counters for testing and instrumentation.
type Stats struct {
	AllocCalls       int   // Total Alloc() calls
	AllocFastPath    int   // Allocations served without growth
	AllocSlowPath    int   // Allocations that required growth
	AllocFailures    int   // Allocations that returned ErrNoSpace
	FreeCalls        int   // Total successful Free() calls
	Splits           int   // Free blocks split to serve a request
	CoalesceForward  int   // Released blocks merged with their successor
	CoalesceBackward int   // Released blocks merged into their predecessor
	GrowCalls        int   // Successful segment growths
	GrowBytes        int64 // Total bytes obtained from the segment
	BytesInUse       int64 // Bytes held by live blocks, headers included
}

// Stats returns a snapshot of the allocator counters.
func (a *FreeListAllocator) Stats() Stats {
	return a.stats
}

// FreeBytes returns the total size of all free blocks, headers included.
func (a *FreeListAllocator) FreeBytes() int64 {
	var n int64
	for _, b := range a.FreeBlocks() {
		n += int64(b.Size)
	}
	return n
}
