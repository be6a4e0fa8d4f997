package segment

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReserveRoundsToPage(t *testing.T) {
	s, err := Reserve(1)
	require.NoError(t, err)
	defer s.Close()

	require.Equal(t, os.Getpagesize(), s.Cap())
	require.Equal(t, 0, s.Len())
	require.Empty(t, s.Bytes())
}

func TestReserveRejectsBadLimit(t *testing.T) {
	_, err := Reserve(0)
	require.ErrorIs(t, err, ErrBadLimit)
	_, err = Reserve(-5)
	require.ErrorIs(t, err, ErrBadLimit)
}

func TestSbrkIsContiguous(t *testing.T) {
	s, err := Reserve(1 << 20)
	require.NoError(t, err)
	defer s.Close()

	off, err := s.Sbrk(100)
	require.NoError(t, err)
	require.Equal(t, 0, off)

	off, err = s.Sbrk(5000)
	require.NoError(t, err)
	require.Equal(t, 100, off, "new region must start at the old break")

	top, err := s.Sbrk(0)
	require.NoError(t, err)
	require.Equal(t, 5100, top)
	require.Len(t, s.Bytes(), 5100)
}

func TestSbrkMemoryIsWritable(t *testing.T) {
	s, err := Reserve(64 * 1024)
	require.NoError(t, err)
	defer s.Close()

	ps := os.Getpagesize()
	_, err = s.Sbrk(ps + 1)
	require.NoError(t, err)

	b := s.Bytes()
	for i := range b {
		b[i] = byte(i)
	}
	require.Equal(t, byte(ps%256), b[ps])
}

func TestSbrkKeepsBaseAddress(t *testing.T) {
	s, err := Reserve(1 << 20)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Sbrk(16)
	require.NoError(t, err)
	first := s.Bytes()
	first[0] = 0x5A

	_, err = s.Sbrk(256 * 1024)
	require.NoError(t, err)
	require.Same(t, &first[0], &s.Bytes()[0])
	require.Equal(t, byte(0x5A), s.Bytes()[0])
}

func TestSbrkOutOfMemory(t *testing.T) {
	s, err := Reserve(4096)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Sbrk(s.Cap())
	require.NoError(t, err)

	_, err = s.Sbrk(1)
	require.ErrorIs(t, err, ErrNoMemory)
	require.Equal(t, s.Cap(), s.Len(), "failed Sbrk must not move the break")
}

func TestSbrkRejectsShrink(t *testing.T) {
	s := FromBytes(make([]byte, 64))
	_, err := s.Sbrk(-1)
	require.ErrorIs(t, err, ErrShrink)
}

func TestFromBytes(t *testing.T) {
	backing := make([]byte, 48)
	s := FromBytes(backing)

	off, err := s.Sbrk(32)
	require.NoError(t, err)
	require.Equal(t, 0, off)
	s.Bytes()[31] = 7
	require.Equal(t, byte(7), backing[31])

	_, err = s.Sbrk(32)
	require.ErrorIs(t, err, ErrNoMemory)

	require.NoError(t, s.Close())
	_, err = s.Sbrk(1)
	require.ErrorIs(t, err, ErrClosed)
}

func TestCloseIsIdempotent(t *testing.T) {
	s, err := Reserve(4096)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}
