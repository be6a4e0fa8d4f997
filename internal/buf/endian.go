// Package buf contains bounds and endian helpers for reading and writing
// fixed-width words inside a heap segment.
package buf

import "encoding/binary"

// ReadU64 reads the little-endian uint64 at b[off:off+8].
// It panics when the word is out of range, like any slice index.
func ReadU64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}

// PutU64 writes v as a little-endian uint64 at b[off:off+8].
func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}
