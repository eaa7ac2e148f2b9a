// Package export implements bulk extraction of EDB contents to disk.
// Individual records that fail to decode are logged and skipped so one
// corrupt asset cannot abort a whole archive dump.
package export

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"go.uber.org/zap"

	"github.com/Faultbox/eurogeo/internal/logger"
	"github.com/Faultbox/eurogeo/pkg/edb"
	"github.com/Faultbox/eurogeo/pkg/texdec"
)

// Summary reports the outcome of one bulk extraction run.
type Summary struct {
	Exported int
	Skipped  int
}

// encoderFor maps a config image format to a bild encoder and extension.
func encoderFor(format string) (imgio.Encoder, string, error) {
	switch format {
	case "", "png":
		return imgio.PNGEncoder(), "png", nil
	case "jpg", "jpeg":
		return imgio.JPEGEncoder(90), "jpg", nil
	case "bmp":
		return imgio.BMPEncoder(), "bmp", nil
	default:
		return nil, "", fmt.Errorf("unknown image format %q", format)
	}
}

// Textures decodes every texture in the file and writes each frame as an
// image named <hashcode>_frame<N>.<ext> under outDir.
func Textures(f *edb.File, outDir, imageFormat string) (Summary, error) {
	var sum Summary

	encoder, ext, err := encoderFor(imageFormat)
	if err != nil {
		return sum, err
	}

	codec, err := texdec.ForPlatform(f.Header().Platform)
	if err != nil {
		return sum, err
	}

	entries, err := f.List(edb.ListTextures)
	if err != nil {
		return sum, fmt.Errorf("reading texture list: %w", err)
	}
	if len(entries) == 0 {
		return sum, nil
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return sum, fmt.Errorf("creating output dir: %w", err)
	}

	for _, entry := range entries {
		n, err := exportTexture(f, codec, entry, outDir, ext, encoder)
		if err != nil {
			logger.Warn("skipping texture",
				zap.String("hashcode", fmt.Sprintf("0x%08x", entry.Hashcode)),
				zap.Error(err))
			sum.Skipped++
			continue
		}
		sum.Exported += n
	}
	return sum, nil
}

// exportTexture writes all frames of one texture and returns how many it
// wrote.
func exportTexture(f *edb.File, codec texdec.Codec, entry edb.ArrayEntry, outDir, ext string, encoder imgio.Encoder) (int, error) {
	c := f.Cursor()
	tex, err := f.DecodeTexture(c, entry)
	if err != nil {
		return 0, err
	}

	format, err := codec.Format(tex.Format)
	if err != nil {
		return 0, err
	}
	size, err := codec.DataSize(tex.Width, tex.Height, tex.Depth, format)
	if err != nil {
		return 0, err
	}
	// A stored data size, when present, overrides the computed one.
	if tex.DataSize != 0 {
		size = int(tex.DataSize)
	}

	written := 0
	for frame := range tex.FrameOffsets {
		src, err := tex.ReadFrame(c, frame, size)
		if err != nil {
			return written, fmt.Errorf("frame %d: %w", frame, err)
		}
		pixels, err := texdec.DecodeFrame(codec, src, tex.Width, tex.Height, tex.Depth, tex.Format)
		if err != nil {
			return written, fmt.Errorf("frame %d: %w", frame, err)
		}

		img := rgbaImage(pixels, int(tex.Width), int(tex.Height)*int(tex.Depth))
		name := fmt.Sprintf("0x%08x_frame%d.%s", tex.Hashcode, frame, ext)
		if err := imgio.Save(filepath.Join(outDir, name), img, encoder); err != nil {
			return written, fmt.Errorf("frame %d: %w", frame, err)
		}
		written++

		logger.Debug("wrote texture frame",
			zap.String("file", name),
			zap.Uint16("width", tex.Width),
			zap.Uint16("height", tex.Height))
	}
	return written, nil
}

// rgbaImage wraps a decoded RGBA8 buffer as an image. Depth slices are
// stacked vertically.
func rgbaImage(pixels []byte, w, h int) *image.RGBA {
	return &image.RGBA{
		Pix:    pixels,
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}
}
