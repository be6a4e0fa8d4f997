package alloc

import "fmt"

// FreeBlocks returns the free blocks in ascending address order.
// The sentinel is not included.
func (a *FreeListAllocator) FreeBlocks() []Block {
	if !a.ready {
		return nil
	}
	var out []Block
	limit := len(a.seg.Bytes())/unitSize + 1
	for p := a.next(base); p != base && len(out) <= limit; p = a.next(p) {
		out = append(out, Block{Offset: hdrOff(p), Size: int(a.size(p)) * unitSize})
	}
	return out
}

// Cursor returns the header offset of the block the next search starts
// after, or -1 while the cursor is on the sentinel.
func (a *FreeListAllocator) Cursor() int {
	if a.freep == base {
		return -1
	}
	return hdrOff(a.freep)
}

// Check walks the free list and verifies its structure:
//   - the list is a closed cycle through the sentinel and the cursor
//   - addresses ascend with exactly one wrap edge
//   - every block lies inside the segment
//   - no two blocks overlap or touch without having been merged
func (a *FreeListAllocator) Check() error {
	if !a.ready {
		return nil
	}

	limit := len(a.seg.Bytes())/unitSize + 1
	wraps := 0
	sawCursor := false
	var prev Block
	havePrev := false

	p := base
	for steps := 0; ; steps++ {
		if steps > limit {
			return &InvariantError{"free list does not return to the sentinel"}
		}
		if p == a.freep {
			sawCursor = true
		}

		q := a.next(p)
		if p >= q {
			wraps++
		}
		if q == base {
			break
		}
		if !a.inSegment(q, 1) || !a.inSegment(q, a.size(q)) {
			return &InvariantError{fmt.Sprintf("block at unit %d outside segment", q)}
		}

		b := Block{Offset: hdrOff(q), Size: int(a.size(q)) * unitSize}
		if havePrev {
			switch {
			case b.Offset < prev.End():
				return &InvariantError{fmt.Sprintf("blocks at 0x%X and 0x%X overlap", prev.Offset, b.Offset)}
			case b.Offset == prev.End():
				return &InvariantError{fmt.Sprintf("adjacent blocks at 0x%X and 0x%X not coalesced", prev.Offset, b.Offset)}
			}
		}
		prev, havePrev = b, true
		p = q
	}

	if wraps != 1 {
		return &InvariantError{fmt.Sprintf("free list has %d wrap points, want 1", wraps)}
	}
	if !sawCursor {
		return &InvariantError{"cursor is not on the free list"}
	}
	return nil
}
