package alloc

import "github.com/joshuapare/kralloc/internal/buf"

// Header access. These are the only functions that read or write block
// metadata; everything above them works in addresses and unit counts.
// An address must be the sentinel or lie inside the segment.

// hdrOff returns the byte offset of p's header in the segment.
func hdrOff(p addr) int {
	return int(p-1) * unitSize
}

// refOf returns the payload offset of block p.
func refOf(p addr) Ref {
	return Ref(p) * unitSize
}

// addrOf returns the block whose payload starts at ref.
func addrOf(ref Ref) addr {
	return addr(ref / unitSize)
}

func (a *FreeListAllocator) next(p addr) addr {
	if p == base {
		return a.base.next
	}
	return addr(buf.ReadU64(a.seg.Bytes(), hdrOff(p)+nextField))
}

func (a *FreeListAllocator) setNext(p, q addr) {
	if p == base {
		a.base.next = q
		return
	}
	buf.PutU64(a.seg.Bytes(), hdrOff(p)+nextField, uint64(q))
}

func (a *FreeListAllocator) size(p addr) uint64 {
	if p == base {
		return a.base.size
	}
	return buf.ReadU64(a.seg.Bytes(), hdrOff(p)+sizeField)
}

func (a *FreeListAllocator) setSize(p addr, n uint64) {
	if p == base {
		a.base.size = n
		return
	}
	buf.PutU64(a.seg.Bytes(), hdrOff(p)+sizeField, n)
}

// payload returns the usable bytes of block p, capacity clipped to the block.
func (a *FreeListAllocator) payload(p addr) []byte {
	b, _ := buf.Slice(a.seg.Bytes(), int(refOf(p)), int(a.size(p)-1)*unitSize)
	return b
}

// inSegment reports whether a block of n units at p lies inside the segment.
func (a *FreeListAllocator) inSegment(p addr, n uint64) bool {
	if p == base || n == 0 {
		return false
	}
	limit := uint64(len(a.seg.Bytes()) / unitSize)
	return uint64(p-1) < limit && n <= limit-uint64(p-1)
}
