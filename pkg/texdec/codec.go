// Package texdec decodes platform-specific EDB texture encodings into RGBA8
// pixel buffers. Each supported platform has one Codec; all of them produce
// exactly width*height*depth*4 output bytes per frame.
package texdec

import (
	"errors"
	"fmt"

	"github.com/Faultbox/eurogeo/pkg/edb"
)

var (
	// ErrUnsupportedFormat means the format byte is not one the platform's
	// codec can decode.
	ErrUnsupportedFormat = errors.New("texdec: unsupported texture format")
	// ErrDecode means the encoded payload is inconsistent with the declared
	// dimensions or format.
	ErrDecode = errors.New("texdec: malformed texture data")
)

// Format is a platform-independent pixel encoding. Codecs translate the raw
// per-platform format byte into this enum via Format().
type Format int

const (
	FormatRGBA8 Format = iota
	FormatRGB565
	FormatDXT1
	FormatDXT5
	FormatP4
	FormatP8
	FormatCMPR
	FormatRGB5A3
	FormatI8
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatRGB565:
		return "RGB565"
	case FormatDXT1:
		return "DXT1"
	case FormatDXT5:
		return "DXT5"
	case FormatP4:
		return "P4"
	case FormatP8:
		return "P8"
	case FormatCMPR:
		return "CMPR"
	case FormatRGB5A3:
		return "RGB5A3"
	case FormatI8:
		return "I8"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Codec decodes one platform family's texture encodings.
type Codec interface {
	// Format translates the raw format byte from a texture record.
	Format(raw uint8) (Format, error)
	// DataSize returns the exact encoded byte length of one frame.
	DataSize(width, height, depth uint16, f Format) (int, error)
	// Decode fills dst (len width*height*depth*4) with RGBA8 pixels
	// decoded from src (len DataSize(...)).
	Decode(dst, src []byte, width, height, depth uint16, f Format) error
}

// ForPlatform returns the codec for a platform tag.
func ForPlatform(p edb.Platform) (Codec, error) {
	switch p {
	case edb.PlatformPC, edb.PlatformXbox, edb.PlatformXbox360:
		return pcCodec{}, nil
	case edb.PlatformPS2:
		return ps2Codec{}, nil
	case edb.PlatformGameCube, edb.PlatformWii:
		return gcCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: no codec for platform %s", edb.ErrUnsupportedPlatform, p)
	}
}

// DecodeFrame is the common entry point: it maps the raw format byte,
// validates sizes and returns a freshly allocated RGBA8 buffer.
func DecodeFrame(c Codec, src []byte, width, height, depth uint16, raw uint8) ([]byte, error) {
	f, err := c.Format(raw)
	if err != nil {
		return nil, err
	}
	want, err := c.DataSize(width, height, depth, f)
	if err != nil {
		return nil, err
	}
	if len(src) < want {
		return nil, fmt.Errorf("%w: %s frame needs %d bytes, have %d", ErrDecode, f, want, len(src))
	}
	dst := make([]byte, int(width)*int(height)*int(depth)*4)
	if err := c.Decode(dst, src[:want], width, height, depth, f); err != nil {
		return nil, err
	}
	return dst, nil
}

// pixelCount is a small helper shared by the codecs.
func pixelCount(width, height, depth uint16) int {
	return int(width) * int(height) * int(depth)
}

// tileRound rounds a dimension up to a whole number of tiles. Tiled formats
// always store complete tiles, so encoded sizes are computed from the
// rounded dimensions, not the pixel count.
func tileRound(n, tile int) int {
	return (n + tile - 1) / tile * tile
}
