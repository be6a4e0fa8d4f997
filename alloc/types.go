package alloc

// Ref is the byte offset of a payload inside the segment.
// The block header occupies the unitSize bytes just below it.
type Ref = uint64

// NilRef is never returned by a successful Alloc.
const NilRef Ref = 0

const (
	// unitSize is the header size and the allocation granularity.
	// Two 8-byte words; large enough that every payload is 16-byte aligned.
	unitSize = 16

	// nextField and sizeField are the word offsets inside a header.
	nextField = 0
	sizeField = 8

	// base is the address of the sentinel header.
	base addr = 0

	// canary marks the link word of an allocated block in checked mode.
	// It can never be a real address.
	canary addr = 0xA110C8ED_5AFE_B10C
)

// addr is a block address in units: heap unit k has address k+1,
// address 0 is the sentinel.
type addr uint64

// Segment is the memory collaborator an allocator grows into.
// *segment.Segment implements it.
type Segment interface {
	// Sbrk extends the segment by n bytes and returns the offset of the
	// new region, which must immediately follow the previous top.
	Sbrk(n int) (int, error)

	// Bytes returns the in-use region of the segment.
	Bytes() []byte
}

// Allocator is the request/release surface shared by FreeListAllocator and
// its Synchronized wrapper.
type Allocator interface {
	// Alloc returns a block of at least n usable bytes.
	// Returns the block reference, a slice over its payload, and any error.
	Alloc(n int) (Ref, []byte, error)

	// Free returns a block obtained from Alloc to the free list.
	Free(ref Ref) error
}

// Block describes one free block.
type Block struct {
	Offset int // byte offset of the header in the segment
	Size   int // bytes, header included
}

// End returns the offset just past the block.
func (b Block) End() int { return b.Offset + b.Size }
