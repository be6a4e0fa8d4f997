// Package alloc implements a next-fit free-list allocator with boundary
// coalescing over a grow-only heap segment.
//
// # Overview
//
// Every block starts with a 16-byte header holding two little-endian words:
// the address of the next free block and the block size. Sizes are counted
// in units, where one unit is the header size, so a block of size n spans
// n*16 bytes including its own header. The payload handed to a caller starts
// immediately after the header.
//
// Free blocks are threaded through their own headers into a circular list
// ordered by address. The list has exactly one wrap edge, from the highest
// free block back to the lowest, and a zero-size sentinel that lives in the
// allocator value below every heap block.
//
// # Allocation
//
// Alloc walks the list from a roving cursor and takes the first block that
// fits. An exact fit is unlinked; a larger block shrinks in place and the
// tail is returned, so the predecessor's link never changes. The cursor is
// left at the predecessor, so the next search resumes where this one ended.
// When a full circle finds nothing, the allocator asks the segment for at
// least Config.MinGrowUnits units and retries.
//
// # Release
//
// Free scans from the cursor for the pair (p, p.next) that brackets the
// block by address, or for the wrap edge when the block lies beyond either
// end of the list. The block is then merged with p.next and/or p when they
// are physically adjacent.
//
// # Usage Example
//
//	seg, err := segment.Reserve(64 << 20)
//	if err != nil {
//	    return err
//	}
//	defer seg.Close()
//
//	a, err := alloc.New(seg, nil)
//	if err != nil {
//	    return err
//	}
//
//	ref, payload, err := a.Alloc(128)
//	if err != nil {
//	    return err // alloc.ErrNoSpace when the segment is exhausted
//	}
//	copy(payload, data)
//
//	_ = a.Free(ref)
//
// # Misuse
//
// Freeing a Ref that did not come from Alloc, or freeing it twice, corrupts
// the free list. The default configuration does not detect this. With
// Config.Checked set, allocated blocks carry a canary in their unused link
// word and Free reports ErrBadRef or ErrDoubleFree instead.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must synchronize access
// externally, for example with Synchronized.
package alloc
