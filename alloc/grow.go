package alloc

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/kralloc/internal/buf"
)

// grow asks the segment for at least max(units, minGrow) units, formats the
// region as one block and releases it into the free list. It returns the
// cursor, which sits just before the new (possibly merged) block.
func (a *FreeListAllocator) grow(units uint64) (addr, error) {
	nu := max(units, a.minGrow)

	nbytes, ok := buf.MulOverflowSafe(int(nu), unitSize)
	if !ok {
		return 0, fmt.Errorf("%w: %d units", ErrNoSpace, nu)
	}

	off, err := a.seg.Sbrk(nbytes)
	if err != nil {
		a.log.Debug("grow failed",
			slog.Uint64("units", nu),
			slog.Int("bytes", nbytes),
			slog.Any("err", err))
		return 0, fmt.Errorf("%w: %w", ErrNoSpace, err)
	}
	if off%unitSize != 0 {
		return 0, fmt.Errorf("%w: segment break 0x%X not %d-byte aligned", ErrGrowFail, off, unitSize)
	}

	a.stats.GrowCalls++
	a.stats.GrowBytes += int64(nbytes)
	a.log.Debug("grow",
		slog.Uint64("need_units", units),
		slog.Uint64("units", nu),
		slog.Int("offset", off),
		slog.Int("segment_len", len(a.seg.Bytes())))

	bp := addr(off/unitSize) + 1
	a.setSize(bp, nu)
	a.release(bp)
	return a.freep, nil
}
