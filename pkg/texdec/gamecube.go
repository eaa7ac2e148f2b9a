package texdec

import (
	"encoding/binary"
	"fmt"
)

// gcCodec decodes the GameCube and Wii encodings. All of them are tiled and
// all multi-byte values are big-endian, matching the GPU's texture cache
// layout.
type gcCodec struct{}

const (
	gcRawI8     = 0
	gcRawRGB5A3 = 1
	gcRawCMPR   = 2
)

func (gcCodec) Format(raw uint8) (Format, error) {
	switch raw {
	case gcRawI8:
		return FormatI8, nil
	case gcRawRGB5A3:
		return FormatRGB5A3, nil
	case gcRawCMPR:
		return FormatCMPR, nil
	default:
		return 0, fmt.Errorf("%w: gamecube format byte 0x%02x", ErrUnsupportedFormat, raw)
	}
}

func (gcCodec) DataSize(width, height, depth uint16, f Format) (int, error) {
	size := gcPlaneSize(width, height, f)
	if size == 0 {
		return 0, fmt.Errorf("%w: %s on gamecube codec", ErrUnsupportedFormat, f)
	}
	return size * int(depth), nil
}

// gcPlaneSize is the encoded byte length of one depth slice. Every GameCube
// format stores complete tiles, so dimensions round up to tile granularity.
func gcPlaneSize(width, height uint16, f Format) int {
	w, h := int(width), int(height)
	switch f {
	case FormatI8:
		return tileRound(w, 8) * tileRound(h, 4)
	case FormatRGB5A3:
		return tileRound(w, 4) * tileRound(h, 4) * 2
	case FormatCMPR:
		return tileRound(w, 8) * tileRound(h, 8) / 2
	}
	return 0
}

func (gcCodec) Decode(dst, src []byte, width, height, depth uint16, f Format) error {
	w, h := int(width), int(height)
	plane := w * h * 4
	srcPlane := gcPlaneSize(width, height, f)
	if srcPlane == 0 {
		return fmt.Errorf("%w: %s on gamecube codec", ErrUnsupportedFormat, f)
	}
	if len(src) < srcPlane*int(depth) {
		return fmt.Errorf("%w: %s needs %d bytes, have %d", ErrDecode, f, srcPlane*int(depth), len(src))
	}
	for z := 0; z < int(depth); z++ {
		dp := dst[z*plane : (z+1)*plane]
		sp := src[z*srcPlane : (z+1)*srcPlane]
		switch f {
		case FormatI8:
			decodeI8(dp, sp, w, h)
		case FormatRGB5A3:
			decodeRGB5A3(dp, sp, w, h)
		case FormatCMPR:
			decodeCMPR(dp, sp, w, h)
		}
	}
	return nil
}

// decodeI8 reads intensity bytes stored in 8x4 tiles.
func decodeI8(dst, src []byte, w, h int) {
	i := 0
	for ty := 0; ty < h; ty += 4 {
		for tx := 0; tx < w; tx += 8 {
			for py := 0; py < 4; py++ {
				for px := 0; px < 8; px++ {
					v := src[i]
					i++
					writeBlockPixel(dst, w, h, tx+px, ty+py, [4]uint8{v, v, v, 0xFF})
				}
			}
		}
	}
}

// decodeRGB5A3 reads 16bpp pixels stored in 4x4 tiles. The top bit selects
// between opaque RGB555 and A3RGB444.
func decodeRGB5A3(dst, src []byte, w, h int) {
	i := 0
	for ty := 0; ty < h; ty += 4 {
		for tx := 0; tx < w; tx += 4 {
			for py := 0; py < 4; py++ {
				for px := 0; px < 4; px++ {
					v := binary.BigEndian.Uint16(src[i*2:])
					i++
					writeBlockPixel(dst, w, h, tx+px, ty+py, expandRGB5A3(v))
				}
			}
		}
	}
}

func expandRGB5A3(v uint16) [4]uint8 {
	if v&0x8000 != 0 {
		r := uint8(v >> 10 & 0x1F)
		g := uint8(v >> 5 & 0x1F)
		b := uint8(v & 0x1F)
		return [4]uint8{r<<3 | r>>2, g<<3 | g>>2, b<<3 | b>>2, 0xFF}
	}
	a := uint8(v >> 12 & 0x7)
	r := uint8(v >> 8 & 0xF)
	g := uint8(v >> 4 & 0xF)
	b := uint8(v & 0xF)
	return [4]uint8{r<<4 | r, g<<4 | g, b<<4 | b, a<<5 | a<<2 | a>>1}
}

// decodeCMPR reads 8x8 tiles, each holding four DXT1-style subblocks in
// top-left, top-right, bottom-left, bottom-right order. Unlike PC DXT1 the
// color words are big-endian and the 2-bit indices run MSB first.
func decodeCMPR(dst, src []byte, w, h int) {
	i := 0
	for ty := 0; ty < h; ty += 8 {
		for tx := 0; tx < w; tx += 8 {
			for sub := 0; sub < 4; sub++ {
				block := src[i : i+8]
				i += 8
				bx := tx + sub%2*4
				by := ty + sub/2*4
				c0 := binary.BigEndian.Uint16(block)
				c1 := binary.BigEndian.Uint16(block[2:])
				pal := dxtPalette(c0, c1, false)
				for py := 0; py < 4; py++ {
					row := block[4+py]
					for px := 0; px < 4; px++ {
						idx := row >> ((3 - uint(px)) * 2) & 0x3
						writeBlockPixel(dst, w, h, bx+px, by+py, pal[idx])
					}
				}
			}
		}
	}
}
