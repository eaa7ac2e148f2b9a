package edb

import "fmt"

// Texture is a decoded texture record header. Pixel payloads stay on disk
// until ReadFrame pulls a single frame's bytes.
type Texture struct {
	Hashcode   uint32
	Width      uint16
	Height     uint16
	Depth      uint16
	FrameCount uint16
	Format     uint8
	MipCount   uint8
	Flags      uint16
	Color      uint32
	ScrollU    int16
	ScrollV    int16
	DataSize   uint32 // v248+

	// FrameOffsets are absolute file offsets of each frame's pixel data.
	FrameOffsets []uint32
}

// DecodeTexture decodes the texture record named by a ListTextures entry.
func (f *File) DecodeTexture(c *Cursor, entry ArrayEntry) (*Texture, error) {
	if err := c.Seek(entry.Address); err != nil {
		return nil, fmt.Errorf("texture 0x%x: %w", entry.Hashcode, err)
	}

	t := &Texture{Hashcode: entry.Hashcode}
	var err error
	if t.Width, err = c.U16(); err != nil {
		return nil, fmt.Errorf("texture 0x%x: reading width: %w", entry.Hashcode, err)
	}
	if t.Height, err = c.U16(); err != nil {
		return nil, fmt.Errorf("texture 0x%x: reading height: %w", entry.Hashcode, err)
	}
	if t.Depth, err = c.U16(); err != nil {
		return nil, fmt.Errorf("texture 0x%x: reading depth: %w", entry.Hashcode, err)
	}
	if t.FrameCount, err = c.U16(); err != nil {
		return nil, fmt.Errorf("texture 0x%x: reading frame count: %w", entry.Hashcode, err)
	}
	if t.Format, err = c.U8(); err != nil {
		return nil, fmt.Errorf("texture 0x%x: reading format: %w", entry.Hashcode, err)
	}
	if t.MipCount, err = c.U8(); err != nil {
		return nil, fmt.Errorf("texture 0x%x: reading mip count: %w", entry.Hashcode, err)
	}
	if t.Flags, err = c.U16(); err != nil {
		return nil, fmt.Errorf("texture 0x%x: reading flags: %w", entry.Hashcode, err)
	}
	if t.Color, err = c.U32(); err != nil {
		return nil, fmt.Errorf("texture 0x%x: reading color: %w", entry.Hashcode, err)
	}
	if t.ScrollU, err = c.I16(); err != nil {
		return nil, fmt.Errorf("texture 0x%x: reading scroll u: %w", entry.Hashcode, err)
	}
	if t.ScrollV, err = c.I16(); err != nil {
		return nil, fmt.Errorf("texture 0x%x: reading scroll v: %w", entry.Hashcode, err)
	}
	if f.header.Version.AtLeast(248) {
		if t.DataSize, err = c.U32(); err != nil {
			return nil, fmt.Errorf("texture 0x%x: reading data size: %w", entry.Hashcode, err)
		}
	}

	if t.Width == 0 || t.Height == 0 {
		return nil, fmt.Errorf("%w: texture 0x%x has zero dimension %dx%d",
			ErrInvalidReference, entry.Hashcode, t.Width, t.Height)
	}
	if int64(t.FrameCount)*4 > int64(c.Remaining()) {
		return nil, fmt.Errorf("%w: texture 0x%x declares %d frames",
			ErrInvalidReference, entry.Hashcode, t.FrameCount)
	}

	t.FrameOffsets = make([]uint32, t.FrameCount)
	for i := range t.FrameOffsets {
		if t.FrameOffsets[i], err = c.RelPtr(); err != nil {
			return nil, fmt.Errorf("texture 0x%x: frame %d offset: %w", entry.Hashcode, i, err)
		}
	}
	return t, nil
}

// ReadFrame returns the raw encoded bytes of one frame. size is the exact
// encoded length for the texture's format and dimensions; the caller
// computes it from the platform codec.
func (t *Texture) ReadFrame(c *Cursor, frame int, size int) ([]byte, error) {
	if frame < 0 || frame >= len(t.FrameOffsets) {
		return nil, fmt.Errorf("%w: texture 0x%x frame %d out of range (has %d)",
			ErrInvalidReference, t.Hashcode, frame, len(t.FrameOffsets))
	}
	if err := c.Seek(t.FrameOffsets[frame]); err != nil {
		return nil, fmt.Errorf("texture 0x%x frame %d: %w", t.Hashcode, frame, err)
	}
	data, err := c.Bytes(size)
	if err != nil {
		return nil, fmt.Errorf("texture 0x%x frame %d: %w", t.Hashcode, frame, err)
	}
	return data, nil
}
