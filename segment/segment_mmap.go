//go:build linux || darwin

package segment

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// reserve maps size bytes of inaccessible anonymous memory.
func reserve(size int) ([]byte, error) {
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON|unix.MAP_NORESERVE)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}
	return mem, nil
}

// commit makes b readable and writable. b must start on a page boundary.
func commit(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if err := unix.Mprotect(b, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		if errors.Is(err, unix.ENOMEM) || errors.Is(err, unix.EAGAIN) {
			return fmt.Errorf("mprotect: %w: %w", ErrNoMemory, err)
		}
		return fmt.Errorf("mprotect: %w", err)
	}
	return nil
}

// unreserve unmaps a reservation returned by reserve.
func unreserve(mem []byte) error {
	err := unix.Munmap(mem)
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}
