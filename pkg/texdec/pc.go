package texdec

import (
	"encoding/binary"
	"fmt"
)

// pcCodec decodes the PC, Xbox and Xbox 360 encodings. Color words are
// little-endian on all three.
type pcCodec struct{}

// Raw format bytes used by PC-family files.
const (
	pcRawRGB565 = 0
	pcRawDXT1   = 1
	pcRawDXT5   = 2
	pcRawRGBA8  = 3
)

func (pcCodec) Format(raw uint8) (Format, error) {
	switch raw {
	case pcRawRGB565:
		return FormatRGB565, nil
	case pcRawDXT1:
		return FormatDXT1, nil
	case pcRawDXT5:
		return FormatDXT5, nil
	case pcRawRGBA8:
		return FormatRGBA8, nil
	default:
		return 0, fmt.Errorf("%w: pc format byte 0x%02x", ErrUnsupportedFormat, raw)
	}
}

func (pcCodec) DataSize(width, height, depth uint16, f Format) (int, error) {
	size := pcPlaneSize(width, height, f)
	if size == 0 {
		return 0, fmt.Errorf("%w: %s on pc codec", ErrUnsupportedFormat, f)
	}
	return size * int(depth), nil
}

// pcPlaneSize is the encoded byte length of one depth slice. DXT slices are
// whole 4x4 blocks, so dimensions round up to block granularity.
func pcPlaneSize(width, height uint16, f Format) int {
	w, h := int(width), int(height)
	switch f {
	case FormatRGBA8:
		return w * h * 4
	case FormatRGB565:
		return w * h * 2
	case FormatDXT1:
		return tileRound(w, 4) * tileRound(h, 4) / 2
	case FormatDXT5:
		return tileRound(w, 4) * tileRound(h, 4)
	}
	return 0
}

func (pcCodec) Decode(dst, src []byte, width, height, depth uint16, f Format) error {
	w, h := int(width), int(height)
	plane := w * h * 4
	srcPlane := pcPlaneSize(width, height, f)
	if srcPlane == 0 {
		return fmt.Errorf("%w: %s on pc codec", ErrUnsupportedFormat, f)
	}
	if len(src) < srcPlane*int(depth) {
		return fmt.Errorf("%w: %s needs %d bytes, have %d", ErrDecode, f, srcPlane*int(depth), len(src))
	}
	for z := 0; z < int(depth); z++ {
		dp := dst[z*plane : (z+1)*plane]
		sp := src[z*srcPlane : (z+1)*srcPlane]
		switch f {
		case FormatRGBA8:
			copy(dp, sp)
		case FormatRGB565:
			decodeRGB565(dp, sp, w, h)
		case FormatDXT1:
			decodeDXT1(dp, sp, w, h)
		case FormatDXT5:
			decodeDXT5(dp, sp, w, h)
		}
	}
	return nil
}

func decodeRGB565(dst, src []byte, w, h int) {
	for i := 0; i < w*h; i++ {
		r, g, b := expand565(binary.LittleEndian.Uint16(src[i*2:]))
		dst[i*4+0] = r
		dst[i*4+1] = g
		dst[i*4+2] = b
		dst[i*4+3] = 0xFF
	}
}

// expand565 widens RGB565 channels to 8 bits, replicating the high bits
// into the low ones so full white stays full white.
func expand565(v uint16) (r, g, b uint8) {
	r5 := uint8(v >> 11 & 0x1F)
	g6 := uint8(v >> 5 & 0x3F)
	b5 := uint8(v & 0x1F)
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// dxtPalette builds the 4-entry RGBA palette of a DXT color block.
// opaque forces 4-color mode regardless of the c0<=c1 comparison, which is
// how the color block behaves inside DXT5.
func dxtPalette(c0, c1 uint16, opaque bool) [4][4]uint8 {
	var p [4][4]uint8
	r0, g0, b0 := expand565(c0)
	r1, g1, b1 := expand565(c1)
	p[0] = [4]uint8{r0, g0, b0, 0xFF}
	p[1] = [4]uint8{r1, g1, b1, 0xFF}
	if c0 > c1 || opaque {
		p[2] = [4]uint8{
			uint8((2*int(r0) + int(r1)) / 3),
			uint8((2*int(g0) + int(g1)) / 3),
			uint8((2*int(b0) + int(b1)) / 3),
			0xFF,
		}
		p[3] = [4]uint8{
			uint8((int(r0) + 2*int(r1)) / 3),
			uint8((int(g0) + 2*int(g1)) / 3),
			uint8((int(b0) + 2*int(b1)) / 3),
			0xFF,
		}
	} else {
		p[2] = [4]uint8{
			uint8((int(r0) + int(r1)) / 2),
			uint8((int(g0) + int(g1)) / 2),
			uint8((int(b0) + int(b1)) / 2),
			0xFF,
		}
		p[3] = [4]uint8{0, 0, 0, 0}
	}
	return p
}

// writeBlockPixel stores one RGBA pixel at block-relative (bx+px, by+py),
// skipping pixels that fall outside the image when w or h is not a
// multiple of 4.
func writeBlockPixel(dst []byte, w, h, x, y int, c [4]uint8) {
	if x >= w || y >= h {
		return
	}
	off := (y*w + x) * 4
	dst[off+0] = c[0]
	dst[off+1] = c[1]
	dst[off+2] = c[2]
	dst[off+3] = c[3]
}

func decodeDXT1(dst, src []byte, w, h int) {
	blocksX := (w + 3) / 4
	blocksY := (h + 3) / 4
	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			block := src[(by*blocksX+bx)*8:]
			c0 := binary.LittleEndian.Uint16(block)
			c1 := binary.LittleEndian.Uint16(block[2:])
			pal := dxtPalette(c0, c1, false)
			for py := 0; py < 4; py++ {
				row := block[4+py]
				for px := 0; px < 4; px++ {
					idx := row >> (uint(px) * 2) & 0x3
					writeBlockPixel(dst, w, h, bx*4+px, by*4+py, pal[idx])
				}
			}
		}
	}
}

func decodeDXT5(dst, src []byte, w, h int) {
	blocksX := (w + 3) / 4
	blocksY := (h + 3) / 4
	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			block := src[(by*blocksX+bx)*16:]
			alpha := dxt5AlphaPalette(block[0], block[1])

			// 48 bits of 3-bit alpha indices, little-endian bit order.
			bits := uint64(0)
			for i := 5; i >= 0; i-- {
				bits = bits<<8 | uint64(block[2+i])
			}

			c0 := binary.LittleEndian.Uint16(block[8:])
			c1 := binary.LittleEndian.Uint16(block[10:])
			pal := dxtPalette(c0, c1, true)
			for py := 0; py < 4; py++ {
				row := block[12+py]
				for px := 0; px < 4; px++ {
					ci := row >> (uint(px) * 2) & 0x3
					ai := bits >> (uint(py*4+px) * 3) & 0x7
					c := pal[ci]
					c[3] = alpha[ai]
					writeBlockPixel(dst, w, h, bx*4+px, by*4+py, c)
				}
			}
		}
	}
}

// dxt5AlphaPalette builds the 8-entry alpha ramp: 7 interpolated steps when
// a0 > a1, otherwise 5 steps plus forced 0 and 255.
func dxt5AlphaPalette(a0, a1 uint8) [8]uint8 {
	var p [8]uint8
	p[0], p[1] = a0, a1
	if a0 > a1 {
		for i := 1; i <= 6; i++ {
			p[i+1] = uint8(((7-i)*int(a0) + i*int(a1)) / 7)
		}
	} else {
		for i := 1; i <= 4; i++ {
			p[i+1] = uint8(((5-i)*int(a0) + i*int(a1)) / 5)
		}
		p[6] = 0
		p[7] = 0xFF
	}
	return p
}
