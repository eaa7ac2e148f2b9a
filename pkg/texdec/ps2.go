package texdec

import "fmt"

// ps2Codec decodes the PlayStation 2 encodings: paletted 4- and 8-bit
// images with GS-swizzled index planes and an appended CLUT, plus plain
// RGBA8. GS alpha is stored in the 0–128 range and is doubled on output.
type ps2Codec struct{}

const (
	ps2RawP4    = 0
	ps2RawP8    = 1
	ps2RawRGBA8 = 2
)

const (
	ps2ClutP4 = 16 * 4
	ps2ClutP8 = 256 * 4
)

func (ps2Codec) Format(raw uint8) (Format, error) {
	switch raw {
	case ps2RawP4:
		return FormatP4, nil
	case ps2RawP8:
		return FormatP8, nil
	case ps2RawRGBA8:
		return FormatRGBA8, nil
	default:
		return 0, fmt.Errorf("%w: ps2 format byte 0x%02x", ErrUnsupportedFormat, raw)
	}
}

func (ps2Codec) DataSize(width, height, depth uint16, f Format) (int, error) {
	px := pixelCount(width, height, depth)
	switch f {
	case FormatP4:
		return px/2 + ps2ClutP4, nil
	case FormatP8:
		return px + ps2ClutP8, nil
	case FormatRGBA8:
		return px * 4, nil
	default:
		return 0, fmt.Errorf("%w: %s on ps2 codec", ErrUnsupportedFormat, f)
	}
}

func (c ps2Codec) Decode(dst, src []byte, width, height, depth uint16, f Format) error {
	w, h := int(width), int(height)
	plane := w * h * 4
	px := pixelCount(width, height, depth)

	need, err := c.DataSize(width, height, depth, f)
	if err != nil {
		return err
	}
	if len(src) < need {
		return fmt.Errorf("%w: %s needs %d bytes, have %d", ErrDecode, f, need, len(src))
	}

	switch f {
	case FormatRGBA8:
		for i := 0; i < px; i++ {
			dst[i*4+0] = src[i*4+0]
			dst[i*4+1] = src[i*4+1]
			dst[i*4+2] = src[i*4+2]
			dst[i*4+3] = doubleAlpha(src[i*4+3])
		}
		return nil

	case FormatP8:
		clut := decodeClut(src[px:px+ps2ClutP8], true)
		for z := 0; z < int(depth); z++ {
			indices := src[z*w*h : (z+1)*w*h]
			if ps2Swizzled(w, h) {
				indices = unswizzle8(indices, w, h)
			}
			writeIndexed(dst[z*plane:(z+1)*plane], indices, clut)
		}
		return nil

	case FormatP4:
		clut := decodeClut(src[px/2:px/2+ps2ClutP4], false)
		for z := 0; z < int(depth); z++ {
			indices := expandNibbles(src[z*w*h/2:(z+1)*w*h/2], w*h)
			if ps2Swizzled(w, h) {
				indices = unswizzle8(indices, w, h)
			}
			writeIndexed(dst[z*plane:(z+1)*plane], indices, clut)
		}
		return nil

	default:
		return fmt.Errorf("%w: %s on ps2 codec", ErrUnsupportedFormat, f)
	}
}

// ps2Swizzled reports whether an index plane of the given dimensions is
// GS-swizzled. Planes too small for a full swizzle block are stored linear.
func ps2Swizzled(w, h int) bool {
	return w >= 16 && h >= 4
}

// doubleAlpha maps the GS 0–128 alpha range onto 0–255.
func doubleAlpha(a uint8) uint8 {
	v := int(a) * 2
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// decodeClut reads an RGBA CLUT, doubling alpha. 256-entry CLUTs are stored
// CSM1-shuffled: within each 32-entry group the second and third runs of 8
// are swapped.
func decodeClut(src []byte, csm1 bool) [][4]uint8 {
	n := len(src) / 4
	out := make([][4]uint8, n)
	for i := 0; i < n; i++ {
		j := i
		if csm1 {
			j = (i &^ 0x18) | (i & 0x08 << 1) | (i & 0x10 >> 1)
		}
		out[i] = [4]uint8{
			src[j*4+0],
			src[j*4+1],
			src[j*4+2],
			doubleAlpha(src[j*4+3]),
		}
	}
	return out
}

// expandNibbles unpacks a 4bpp index plane to one byte per pixel, low
// nibble first.
func expandNibbles(src []byte, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n/2; i++ {
		out[i*2] = src[i] & 0xF
		out[i*2+1] = src[i] >> 4
	}
	return out
}

// unswizzle8 undoes the GS block swizzle of an 8bpp index plane. Source
// positions that a partial swizzle block pushes past the plane are skipped,
// leaving those pixels at index zero.
func unswizzle8(src []byte, w, h int) []byte {
	out := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			blockLoc := (y&^0xF)*w + (x&^0xF)*2
			swapSel := ((y + 2) >> 2 & 1) * 4
			posY := ((y&^3)>>1 + y&1) & 0x7
			colLoc := posY*w*2 + ((x+swapSel)&7)*4
			byteNum := (y >> 1 & 1) + (x >> 2 & 2)
			if pos := blockLoc + colLoc + byteNum; pos < len(src) {
				out[y*w+x] = src[pos]
			}
		}
	}
	return out
}

func writeIndexed(dst, indices []byte, clut [][4]uint8) {
	for i, idx := range indices {
		c := clut[int(idx)%len(clut)]
		dst[i*4+0] = c[0]
		dst[i*4+1] = c[1]
		dst[i*4+2] = c[2]
		dst[i*4+3] = c[3]
	}
}
