package artistpath

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// errTruncated is returned by every cursor reader when the requested bytes
// run past the end of the slice, and by str when the string bytes are not
// valid UTF-8. Readers never panic (spec §4.A).
var errTruncated = errors.New("truncated or invalid record")

// cursor reads fixed-endian primitives from a byte slice without copying
// it, mirroring zoekt's reader over an IndexFile (read.go) but operating
// directly on an already-sliced []byte rather than indirecting through a
// Read(off, sz) call — the mmap region is already addressable memory.
type cursor struct {
	data []byte
	off  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

func (c *cursor) take(n int) ([]byte, error) {
	if n < 0 || c.off+n > len(c.data) || c.off+n < c.off {
		return nil, errTruncated
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) u16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) u32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) u64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *cursor) f32() (float32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

func (c *cursor) uuid() (uuid.UUID, error) {
	b, err := c.take(16)
	if err != nil {
		return uuid.UUID{}, err
	}
	var id uuid.UUID
	copy(id[:], b)
	return id, nil
}

// str reads a u16le length-prefixed UTF-8 string, rejecting invalid UTF-8.
func (c *cursor) str() (string, error) {
	n, err := c.u16()
	if err != nil {
		return "", err
	}
	b, err := c.take(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errTruncated
	}
	return string(b), nil
}
