// Package segment provides the heap segment an allocator grows into.
//
// A Segment behaves like a process data segment: it has a break (the top of
// the in-use region) that only moves up, and Sbrk hands out the region
// directly above the previous break. Memory is reserved once up front, so
// the base address never moves and slices into the segment stay valid
// across growth.
//
// On Linux and Darwin the reservation is an anonymous PROT_NONE mapping whose
// pages are made readable and writable as the break passes them. Other
// platforms reserve a plain Go byte slice.
//
// A Segment is not safe for concurrent use.
package segment

import (
	"errors"
	"fmt"
	"os"

	"github.com/joshuapare/kralloc/internal/buf"
)

var (
	// ErrNoMemory is returned by Sbrk when the reservation cannot cover the request.
	ErrNoMemory = errors.New("segment: out of memory")

	// ErrShrink is returned by Sbrk for negative increments.
	ErrShrink = errors.New("segment: cannot shrink")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("segment: closed")

	// ErrBadLimit is returned by Reserve for a non-positive limit.
	ErrBadLimit = errors.New("segment: limit must be positive")
)

// Segment is a contiguous, grow-only heap region.
type Segment struct {
	mem       []byte // whole reservation; len(mem) is the limit
	brk       int    // current break
	committed int    // bytes made accessible so far (page aligned when mapped)
	mapped    bool   // mem came from reserve and must be committed/unreserved
	pageSize  int
}

// Reserve reserves limit bytes of address space (rounded up to a page) and
// returns an empty segment whose break is at offset 0.
func Reserve(limit int) (*Segment, error) {
	if limit <= 0 {
		return nil, ErrBadLimit
	}
	ps := os.Getpagesize()
	size, ok := buf.AddOverflowSafe(limit, ps-1)
	if !ok {
		return nil, fmt.Errorf("segment: limit %d too large: %w", limit, ErrNoMemory)
	}
	size &^= ps - 1

	mem, err := reserve(size)
	if err != nil {
		return nil, fmt.Errorf("segment: reserve %d bytes: %w", size, err)
	}
	return &Segment{
		mem:      mem,
		mapped:   true,
		pageSize: ps,
	}, nil
}

// FromBytes returns a segment that grows into b. The caller keeps ownership
// of b; Close does not release it.
func FromBytes(b []byte) *Segment {
	return &Segment{
		mem:       b,
		committed: len(b),
		pageSize:  os.Getpagesize(),
	}
}

// Sbrk moves the break up by n bytes and returns the offset of the old
// break, which is the start of the new region. Sbrk(0) reports the current
// break. On failure the break is unchanged.
func (s *Segment) Sbrk(n int) (int, error) {
	if s.mem == nil {
		return 0, ErrClosed
	}
	if n < 0 {
		return 0, ErrShrink
	}
	old := s.brk
	end, ok := buf.AddOverflowSafe(old, n)
	if !ok || end > len(s.mem) {
		return 0, fmt.Errorf("%w: need %d bytes, %d of %d in use", ErrNoMemory, n, old, len(s.mem))
	}
	if s.mapped && end > s.committed {
		hi := (end + s.pageSize - 1) &^ (s.pageSize - 1)
		if hi > len(s.mem) {
			hi = len(s.mem)
		}
		if err := commit(s.mem[s.committed:hi]); err != nil {
			return 0, fmt.Errorf("segment: commit [%d,%d): %w", s.committed, hi, err)
		}
		s.committed = hi
	}
	s.brk = end
	return old, nil
}

// Bytes returns the in-use region [0, break).
func (s *Segment) Bytes() []byte {
	return s.mem[:s.brk]
}

// Len returns the current break.
func (s *Segment) Len() int { return s.brk }

// Cap returns the reservation size.
func (s *Segment) Cap() int { return len(s.mem) }

// Close releases the reservation. Slices previously obtained from Bytes must
// not be used afterwards. Close is idempotent.
func (s *Segment) Close() error {
	if s.mem == nil {
		return nil
	}
	mem := s.mem
	s.mem = nil
	s.brk = 0
	s.committed = 0
	if !s.mapped {
		return nil
	}
	return unreserve(mem)
}
