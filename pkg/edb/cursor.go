// Package edb provides read-only parsing of EngineX EDB geometry databases.
//
// An EDB file is a directory of typed record arrays addressed by absolute
// file offsets. Every structure returned by this package is a projection
// over one in-memory byte image; nothing is decoded until asked for, and
// every offset- or count-derived read is bounds-checked against the image
// before any byte is touched.
package edb

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Cursor is a seekable, endian-aware reader over an EDB byte image.
//
// The position is shared mutable state: one logical decode (a header, one
// array, one entity, one texture frame) must run to completion before
// another begins on the same cursor. Concurrent decodes must each use their
// own cursor obtained via Fork.
type Cursor struct {
	data  []byte
	order binary.ByteOrder
	pos   int
}

// NewCursor creates a cursor over data using the given byte order.
func NewCursor(data []byte, order binary.ByteOrder) *Cursor {
	return &Cursor{data: data, order: order}
}

// Fork returns an independent cursor over the same bytes, positioned at 0.
func (c *Cursor) Fork() *Cursor {
	return &Cursor{data: c.data, order: c.order}
}

// Order returns the byte order used for multi-byte reads.
func (c *Cursor) Order() binary.ByteOrder { return c.order }

// Size returns the total length of the underlying byte image.
func (c *Cursor) Size() uint32 { return uint32(len(c.data)) }

// Pos returns the current read position.
func (c *Cursor) Pos() uint32 { return uint32(c.pos) }

// Remaining returns the number of bytes between the position and the end.
func (c *Cursor) Remaining() int { return len(c.data) - c.pos }

// Seek moves the position to an absolute offset.
func (c *Cursor) Seek(offset uint32) error {
	if int64(offset) > int64(len(c.data)) {
		return fmt.Errorf("%w: seek to 0x%x beyond file size 0x%x", ErrInvalidReference, offset, len(c.data))
	}
	c.pos = int(offset)
	return nil
}

// Bytes reads n bytes and advances the position. The returned slice aliases
// the underlying image and must not be modified.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, fmt.Errorf("%w: read of %d bytes at 0x%x exceeds file size 0x%x",
			ErrInvalidReference, n, c.pos, len(c.data))
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// U8 reads one unsigned byte.
func (c *Cursor) U8() (uint8, error) {
	b, err := c.Bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads an unsigned 16-bit integer.
func (c *Cursor) U16() (uint16, error) {
	b, err := c.Bytes(2)
	if err != nil {
		return 0, err
	}
	return c.order.Uint16(b), nil
}

// I16 reads a signed 16-bit integer.
func (c *Cursor) I16() (int16, error) {
	v, err := c.U16()
	return int16(v), err
}

// U32 reads an unsigned 32-bit integer.
func (c *Cursor) U32() (uint32, error) {
	b, err := c.Bytes(4)
	if err != nil {
		return 0, err
	}
	return c.order.Uint32(b), nil
}

// I32 reads a signed 32-bit integer.
func (c *Cursor) I32() (int32, error) {
	v, err := c.U32()
	return int32(v), err
}

// F32 reads a 32-bit float.
func (c *Cursor) F32() (float32, error) {
	v, err := c.U32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// Vec3 reads three consecutive 32-bit floats.
func (c *Cursor) Vec3() ([3]float32, error) {
	var v [3]float32
	for i := 0; i < 3; i++ {
		f, err := c.F32()
		if err != nil {
			return v, err
		}
		v[i] = f
	}
	return v, nil
}

// RelPtr reads a signed 32-bit offset stored relative to its own position
// and returns the absolute address it designates.
func (c *Cursor) RelPtr() (uint32, error) {
	base := int64(c.pos)
	v, err := c.I32()
	if err != nil {
		return 0, err
	}
	abs := base + int64(v)
	if abs < 0 || abs > int64(len(c.data)) {
		return 0, fmt.Errorf("%w: relative pointer at 0x%x resolves to 0x%x outside file",
			ErrInvalidReference, base, abs)
	}
	return uint32(abs), nil
}
