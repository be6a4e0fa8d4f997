package alloc

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/kralloc/internal/buf"
)

// FreeListAllocator is a next-fit allocator over an address-ordered,
// circular free list with coalescing on release.
type FreeListAllocator struct {
	seg Segment
	log *slog.Logger

	// base is the zero-size sentinel; its address is 0.
	base struct {
		next addr
		size uint64
	}
	freep addr // cursor: where the next search or insertion starts
	ready bool // sentinel and cursor initialised

	minGrow uint64
	checked bool

	stats Stats
}

// New creates an allocator over seg. seg must not be grown by anyone else.
//
// Parameters:
//   - seg: the segment to grow into
//   - cfg: tuning (use nil for DefaultConfig)
func New(seg Segment, cfg *Config) (*FreeListAllocator, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	if cfg.MinGrowUnits < 1 {
		return nil, fmt.Errorf("%w: MinGrowUnits %d < 1", ErrBadConfig, cfg.MinGrowUnits)
	}

	// Align the break so every block starts on a unit boundary.
	top, err := seg.Sbrk(0)
	if err != nil {
		return nil, fmt.Errorf("alloc: read break: %w", err)
	}
	if pad := top % unitSize; pad != 0 {
		if _, err := seg.Sbrk(unitSize - pad); err != nil {
			return nil, fmt.Errorf("alloc: align break: %w", err)
		}
	}

	return &FreeListAllocator{
		seg:     seg,
		log:     cfg.logger(),
		minGrow: uint64(cfg.MinGrowUnits),
		checked: cfg.Checked,
	}, nil
}

// unitsFor converts a byte count to the units needed for payload plus header.
func unitsFor(n int) (uint64, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	rounded, ok := buf.AddOverflowSafe(n, unitSize-1)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	return uint64(rounded/unitSize) + 1, nil
}

// Alloc returns a block of at least n usable bytes. The storage is not zeroed.
// On ErrNoSpace the free list is left as it was.
func (a *FreeListAllocator) Alloc(n int) (Ref, []byte, error) {
	a.stats.AllocCalls++

	units, err := unitsFor(n)
	if err != nil {
		return NilRef, nil, err
	}

	if !a.ready {
		a.base.next = base
		a.base.size = 0
		a.freep = base
		a.ready = true
	}

	grew := false
	prevp := a.freep
	for p := a.next(prevp); ; prevp, p = p, a.next(p) {
		if sz := a.size(p); sz >= units {
			if sz == units {
				a.setNext(prevp, a.next(p))
			} else {
				// Carve the tail so prevp's link stays valid.
				a.setSize(p, sz-units)
				p += addr(sz - units)
				a.setSize(p, units)
				a.stats.Splits++
			}
			a.freep = prevp
			if a.checked {
				a.setNext(p, canary)
			}

			if grew {
				a.stats.AllocSlowPath++
			} else {
				a.stats.AllocFastPath++
			}
			a.stats.BytesInUse += int64(units) * unitSize
			return refOf(p), a.payload(p), nil
		}

		if p == a.freep {
			// Walked the whole circle without a fit.
			if p, err = a.grow(units); err != nil {
				a.stats.AllocFailures++
				return NilRef, nil, err
			}
			grew = true
		}
	}
}

// Free returns ref to the free list, merging it with address-adjacent free
// neighbours. Without Config.Checked it performs no validation and always
// returns nil; ref must come from Alloc and must not have been freed.
func (a *FreeListAllocator) Free(ref Ref) error {
	bp := addrOf(ref)
	if a.checked {
		if err := a.checkLive(ref, bp); err != nil {
			return err
		}
	}
	a.stats.FreeCalls++
	a.stats.BytesInUse -= int64(a.size(bp)) * unitSize
	a.release(bp)
	return nil
}

// release inserts block bp into the free list at its address position.
func (a *FreeListAllocator) release(bp addr) {
	p := a.freep
	for !(bp > p && bp < a.next(p)) {
		// p is the wrap point: bp goes past the top or below the bottom.
		if p >= a.next(p) && (bp > p || bp < a.next(p)) {
			break
		}
		p = a.next(p)
	}

	if q := a.next(p); bp+addr(a.size(bp)) == q {
		a.setSize(bp, a.size(bp)+a.size(q))
		a.setNext(bp, a.next(q))
		a.stats.CoalesceForward++
	} else {
		a.setNext(bp, q)
	}

	if p+addr(a.size(p)) == bp {
		a.setSize(p, a.size(p)+a.size(bp))
		a.setNext(p, a.next(bp))
		a.stats.CoalesceBackward++
	} else {
		a.setNext(p, bp)
	}

	a.freep = p
}

// checkLive validates a checked-mode Free.
func (a *FreeListAllocator) checkLive(ref Ref, bp addr) error {
	if !a.ready || ref == NilRef || ref%unitSize != 0 {
		return fmt.Errorf("%w: 0x%X", ErrBadRef, ref)
	}
	if !a.inSegment(bp, 1) || !a.inSegment(bp, a.size(bp)) {
		return fmt.Errorf("%w: 0x%X outside segment", ErrBadRef, ref)
	}
	if a.next(bp) != canary {
		return fmt.Errorf("%w: 0x%X", ErrDoubleFree, ref)
	}
	return nil
}

// Size returns the usable payload bytes of the live block ref.
func (a *FreeListAllocator) Size(ref Ref) int {
	return int(a.size(addrOf(ref))-1) * unitSize
}

// Bytes returns the payload slice of the live block ref.
func (a *FreeListAllocator) Bytes(ref Ref) []byte {
	return a.payload(addrOf(ref))
}
