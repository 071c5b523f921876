// Package gui implements the SDL presentation layer. It renders the
// emulator's display snapshots, translates keyboard events into
// keypad events and plays a beep while the sound timer is active. It
// only consumes the emulator's public snapshot and input boundary.
package gui

import (
	"context"
	"fmt"

	"github.com/retroenv/chip8emu/internal/display"
	"github.com/retroenv/chip8emu/internal/emulator"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	windowTitle = "chip8emu"

	// pixelDepth is the number of bytes per texture pixel (ABGR8888).
	pixelDepth = 4

	// frameDelay paces the render loop at roughly 60 frames per second.
	frameDelay = 16 // milliseconds
)

// background and foreground colors as ABGR components.
var (
	colorOff = [pixelDepth]byte{0x1E, 0x23, 0x1A, 0xFF}
	colorOn  = [pixelDepth]byte{0xDA, 0xA8, 0x9F, 0xFF}
)

// GUI is the SDL window, renderer and audio device of the emulator.
type GUI struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	audio     sdl.AudioDeviceID
	audioSpec sdl.AudioSpec
	beep      []byte

	emu    *emulator.Emulator
	logger *log.Logger
	pixels []byte
}

// New initializes SDL and creates the window, renderer, display
// texture and audio device. The window scales the 64x32 display by
// the given factor.
func New(logger *log.Logger, emu *emulator.Emulator, scale int) (*GUI, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("initializing SDL: %w", err)
	}

	g := &GUI{
		emu:    emu,
		logger: logger,
		pixels: make([]byte, display.Width*display.Height*pixelDepth),
	}

	var err error
	g.window, err = sdl.CreateWindow(windowTitle,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(display.Width*scale), int32(display.Height*scale),
		sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	g.renderer, err = sdl.CreateRenderer(g.window, -1,
		sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	// the texture has the native display size, the renderer scales it
	// to the window
	g.texture, err = g.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888),
		int(sdl.TEXTUREACCESS_STREAMING), display.Width, display.Height)
	if err != nil {
		return nil, fmt.Errorf("creating texture: %w", err)
	}

	if err := g.setupAudio(); err != nil {
		return nil, err
	}
	return g, nil
}

// Run processes SDL events and renders emulator snapshots until the
// window is closed, escape is pressed or the context is cancelled.
func (g *GUI) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch ev := event.(type) {
			case *sdl.QuitEvent:
				return nil

			case *sdl.KeyboardEvent:
				if ev.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
					return nil
				}
				g.handleKey(ev)
			}
		}

		if err := g.render(); err != nil {
			return err
		}

		sdl.Delay(frameDelay)
	}
}

// Close releases all SDL resources.
func (g *GUI) Close() {
	sdl.CloseAudioDevice(g.audio)
	_ = g.texture.Destroy()
	_ = g.renderer.Destroy()
	_ = g.window.Destroy()
	sdl.Quit()
}

// handleKey forwards a mapped key press or release to the emulator.
func (g *GUI) handleKey(ev *sdl.KeyboardEvent) {
	key, ok := keymap(ev.Keysym.Scancode)
	if !ok {
		return
	}

	switch ev.GetType() {
	case sdl.KEYDOWN:
		g.emu.SetKey(key, true)
	case sdl.KEYUP:
		g.emu.SetKey(key, false)
	}
}

// render copies the current snapshot into the display texture and
// tops up the beep audio queue while sound is active.
func (g *GUI) render() error {
	snapshot := g.emu.Snapshot()

	for y := range display.Height {
		for x := range display.Width {
			color := colorOff
			if snapshot.Pixels[y][x] {
				color = colorOn
			}
			copy(g.pixels[(y*display.Width+x)*pixelDepth:], color[:])
		}
	}

	if err := g.texture.Update(nil, g.pixels, display.Width*pixelDepth); err != nil {
		return fmt.Errorf("updating texture: %w", err)
	}
	if err := g.renderer.Copy(g.texture, nil, nil); err != nil {
		return fmt.Errorf("copying texture: %w", err)
	}
	g.renderer.Present()

	g.queueBeep(snapshot.SoundActive)
	return nil
}

// keymap maps keyboard scancodes to the CHIP-8 keypad:
//
//	+--------+--------+--------+--------+
//	| 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
//	| Q -> 4 | W -> 5 | E -> 6 | R -> D |
//	| A -> 7 | S -> 8 | D -> 9 | F -> E |
//	| Z -> A | X -> 0 | C -> B | V -> F |
//	+--------+--------+--------+--------+
func keymap(code sdl.Scancode) (byte, bool) {
	switch code {
	case sdl.SCANCODE_1:
		return 0x1, true
	case sdl.SCANCODE_2:
		return 0x2, true
	case sdl.SCANCODE_3:
		return 0x3, true
	case sdl.SCANCODE_4:
		return 0xC, true
	case sdl.SCANCODE_Q:
		return 0x4, true
	case sdl.SCANCODE_W:
		return 0x5, true
	case sdl.SCANCODE_E:
		return 0x6, true
	case sdl.SCANCODE_R:
		return 0xD, true
	case sdl.SCANCODE_A:
		return 0x7, true
	case sdl.SCANCODE_S:
		return 0x8, true
	case sdl.SCANCODE_D:
		return 0x9, true
	case sdl.SCANCODE_F:
		return 0xE, true
	case sdl.SCANCODE_Z:
		return 0xA, true
	case sdl.SCANCODE_X:
		return 0x0, true
	case sdl.SCANCODE_C:
		return 0xB, true
	case sdl.SCANCODE_V:
		return 0xF, true
	default:
		return 0, false
	}
}
