package alloc

import "errors"

var (
	// ErrNoSpace indicates that no free block was large enough and the segment could not grow.
	ErrNoSpace = errors.New("alloc: out of memory")

	// ErrBadSize indicates a negative request or one whose unit count overflows.
	ErrBadSize = errors.New("alloc: bad request size")

	// ErrBadRef indicates a reference that does not name a block in the segment.
	ErrBadRef = errors.New("alloc: bad block reference")

	// ErrDoubleFree indicates a checked Free of a block that is not currently allocated.
	ErrDoubleFree = errors.New("alloc: block is not allocated")

	// ErrGrowFail indicates that the segment returned memory the allocator cannot use.
	ErrGrowFail = errors.New("alloc: grow failed")

	// ErrBadConfig indicates an invalid Config.
	ErrBadConfig = errors.New("alloc: bad config")
)

// InvariantError describes a free-list structure violation found by Check.
type InvariantError struct {
	msg string
}

func (e *InvariantError) Error() string {
	return "alloc: invariant violation: " + e.msg
}
