package alloc

import "sync"

var (
	_ Allocator = (*FreeListAllocator)(nil)
	_ Allocator = (*SyncAllocator)(nil)
)

// SyncAllocator serializes every call into a FreeListAllocator with one mutex.
type SyncAllocator struct {
	mu sync.Mutex
	a  *FreeListAllocator
}

// Synchronized wraps a for use from multiple goroutines. a must not be used
// directly afterwards.
func Synchronized(a *FreeListAllocator) *SyncAllocator {
	return &SyncAllocator{a: a}
}

// Alloc calls FreeListAllocator.Alloc under the lock.
func (s *SyncAllocator) Alloc(n int) (Ref, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Alloc(n)
}

// Free calls FreeListAllocator.Free under the lock.
func (s *SyncAllocator) Free(ref Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Free(ref)
}

// Stats returns a snapshot of the wrapped allocator's counters.
func (s *SyncAllocator) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.stats
}

// Check runs FreeListAllocator.Check under the lock.
func (s *SyncAllocator) Check() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Check()
}
