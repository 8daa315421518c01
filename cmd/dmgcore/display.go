package main

import (
	"fmt"
	"log"
	"unsafe"

	"github.com/spf13/cobra"
	"github.com/veandco/go-sdl2/sdl"

	"dmgcore/pkg/system"
)

const (
	screenWidth  = 160
	screenHeight = 144
)

// dmgShades is the classic four-shade green-tinted palette, the host's own
// choice of how to render the core's 2-bit shade values (§6: the core hands
// back a resolved shade, the host owns the mapping to a display color) —
// grounded on andrewthecodertx-go-nes-emulator's HardwarePalette lookup in
// cmd/sdl-display, one table indexed by the value the core produces each
// pixel.
var dmgShades = [4][3]byte{
	{0x9b, 0xbc, 0x0f},
	{0x8b, 0xac, 0x0f},
	{0x30, 0x62, 0x30},
	{0x0f, 0x38, 0x0f},
}

var displayScale int

var displayCmd = &cobra.Command{
	Use:   "display <rom>",
	Short: "Run the core in an SDL2 window",
	Args:  cobra.ExactArgs(1),
	RunE:  runDisplay,
}

func init() {
	displayCmd.Flags().IntVar(&displayScale, "scale", 4, "window scale factor")
	addBootFlags(displayCmd.Flags())
}

// framebuffer accumulates the PPU's sequential per-pixel shade callback into
// a 160x144 grid, tracking its own x/y cursor since the callback only ever
// hands back one shade value at a time in scan order.
type framebuffer struct {
	pixels []byte // RGB24, screenWidth*screenHeight*3
	x, y   int
}

func newFramebuffer() *framebuffer {
	return &framebuffer{pixels: make([]byte, screenWidth*screenHeight*3)}
}

func (f *framebuffer) write(_ any, shade uint8) {
	if f.y >= screenHeight {
		return
	}
	rgb := dmgShades[shade&0x03]
	off := (f.y*screenWidth + f.x) * 3
	f.pixels[off+0] = rgb[0]
	f.pixels[off+1] = rgb[1]
	f.pixels[off+2] = rgb[2]

	f.x++
	if f.x >= screenWidth {
		f.x = 0
		f.y++
		if f.y >= screenHeight {
			f.y = 0
		}
	}
}

func runDisplay(cmd *cobra.Command, args []string) error {
	bootROM, _ := cmd.Flags().GetString("boot-rom")

	fb := newFramebuffer()
	sys, err := bootFromArgs(args[0], bootROM, fb.write, nil)
	if err != nil {
		return err
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		log.Fatalf("failed to initialize SDL: %v", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(
		"dmgcore - "+args[0],
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(screenWidth*displayScale),
		int32(screenHeight*displayScale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		log.Fatalf("failed to create window: %v", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		log.Fatalf("failed to create renderer: %v", err)
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGB24,
		sdl.TEXTUREACCESS_STREAMING,
		screenWidth,
		screenHeight,
	)
	if err != nil {
		log.Fatalf("failed to create texture: %v", err)
	}
	defer texture.Destroy()

	fmt.Println("ESC=quit  P=pause  SPACE=step one frame while paused")

	running := true
	paused := false
	frameCount := 0

	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if e.Type != sdl.KEYDOWN {
					continue
				}
				switch e.Keysym.Sym {
				case sdl.K_ESCAPE:
					running = false
				case sdl.K_p:
					paused = !paused
				case sdl.K_SPACE:
					if paused {
						system.RunFrame(sys)
						frameCount++
					}
				}
			}
		}

		if !paused {
			system.RunFrame(sys)
			frameCount++
		}

		texture.Update(nil, unsafe.Pointer(&fb.pixels[0]), screenWidth*3)
		renderer.Clear()
		renderer.Copy(texture, nil, nil)
		renderer.Present()

		if !paused {
			sdl.Delay(16)
		} else {
			sdl.Delay(100)
		}
	}

	fmt.Printf("Total frames rendered: %d\n", frameCount)
	return nil
}
