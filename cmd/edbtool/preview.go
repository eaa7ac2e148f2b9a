package main

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/eurogeo/pkg/edb"
	"github.com/Faultbox/eurogeo/pkg/texdec"
)

func init() {
	// SDL calls must be made from the main thread.
	runtime.LockOSThread()

	previewCmd.Flags().Int("frame", 0, "Frame index to display")
	previewCmd.Flags().Int("scale", 0, "Integer zoom factor (default: config)")
}

var previewCmd = &cobra.Command{
	Use:   "preview <file.edb> <texture-hashcode>",
	Short: "Show one texture in a window",
	Long: `Decode a single texture and display it in an SDL window.

The hashcode accepts decimal or 0x-prefixed hex. Close the window or press
Escape/Q to exit.`,
	Args: cobra.ExactArgs(2),
	RunE: runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	f, err := edb.Open(args[0])
	if err != nil {
		return err
	}

	hashcode, err := parseHashcode(args[1])
	if err != nil {
		return err
	}
	frame, _ := cmd.Flags().GetInt("frame")
	scale, _ := cmd.Flags().GetInt("scale")
	if scale <= 0 {
		scale = cfg.Preview.Scale
	}
	if scale <= 0 {
		scale = 1
	}

	tex, pixels, err := decodeOneTexture(f, hashcode, frame)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("edbtool - 0x%08x frame %d (%dx%d)", hashcode, frame, tex.Width, tex.Height)
	return showRGBA(title, pixels, int(tex.Width), int(tex.Height)*int(tex.Depth), scale)
}

func parseHashcode(s string) (uint32, error) {
	ls := strings.ToLower(s)
	if strings.HasPrefix(ls, "0x") {
		v, err := strconv.ParseUint(ls[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid hashcode %q: %w", s, err)
		}
		return uint32(v), nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid hashcode %q: %w", s, err)
	}
	return uint32(v), nil
}

// decodeOneTexture finds a texture by hashcode and decodes one frame.
func decodeOneTexture(f *edb.File, hashcode uint32, frame int) (*edb.Texture, []byte, error) {
	entries, err := f.List(edb.ListTextures)
	if err != nil {
		return nil, nil, err
	}

	for _, entry := range entries {
		if entry.Hashcode != hashcode {
			continue
		}

		c := f.Cursor()
		tex, err := f.DecodeTexture(c, entry)
		if err != nil {
			return nil, nil, err
		}

		codec, err := texdec.ForPlatform(f.Header().Platform)
		if err != nil {
			return nil, nil, err
		}
		format, err := codec.Format(tex.Format)
		if err != nil {
			return nil, nil, err
		}
		size, err := codec.DataSize(tex.Width, tex.Height, tex.Depth, format)
		if err != nil {
			return nil, nil, err
		}
		if tex.DataSize != 0 {
			size = int(tex.DataSize)
		}

		src, err := tex.ReadFrame(c, frame, size)
		if err != nil {
			return nil, nil, err
		}
		pixels, err := texdec.DecodeFrame(codec, src, tex.Width, tex.Height, tex.Depth, tex.Format)
		if err != nil {
			return nil, nil, err
		}
		return tex, pixels, nil
	}
	return nil, nil, fmt.Errorf("no texture with hashcode 0x%08x", hashcode)
}

// showRGBA opens a window and blits an RGBA8 buffer until the user closes it.
func showRGBA(title string, pixels []byte, w, h, scale int) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("SDL_Init failed: %w", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(w*scale),
		int32(h*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		return fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return fmt.Errorf("SDL_CreateRenderer failed: %w", err)
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(
		uint32(sdl.PIXELFORMAT_ABGR8888), // matches RGBA byte order in memory
		sdl.TEXTUREACCESS_STATIC,
		int32(w),
		int32(h),
	)
	if err != nil {
		return fmt.Errorf("SDL_CreateTexture failed: %w", err)
	}
	defer texture.Destroy()

	if err := texture.Update(nil, pixels, w*4); err != nil {
		return fmt.Errorf("uploading pixels: %w", err)
	}
	if err := texture.SetBlendMode(sdl.BLENDMODE_BLEND); err != nil {
		return err
	}

	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				return nil
			case *sdl.KeyboardEvent:
				if e.Type == sdl.KEYDOWN &&
					(e.Keysym.Sym == sdl.K_ESCAPE || e.Keysym.Sym == sdl.K_q) {
					return nil
				}
			}
		}

		renderer.SetDrawColor(40, 40, 40, 255)
		renderer.Clear()
		renderer.Copy(texture, nil, nil)
		renderer.Present()
		sdl.Delay(16)
	}
}
