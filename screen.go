package main

import (
	"fmt"

	"github.com/afoley/chip8/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

/// Bytes per texel of the screen texture.
///
const screenDepth = 4

var (
	/// Colors of lit and unlit CHIP-8 pixels.
	///
	OnColor  = sdl.Color{R: 17, G: 29, B: 43, A: 255}
	OffColor = sdl.Color{R: 143, G: 145, B: 133, A: 255}
)

/// Screen is a streaming texture the size of the CHIP-8 display that is
/// stretched over the whole window.
///
type Screen struct {
	renderer *sdl.Renderer
	texture  *sdl.Texture

	// texels in RGB888 (BGRX in memory) order
	pixels []byte
}

/// NewScreen creates the screen texture for a renderer.
///
func NewScreen(renderer *sdl.Renderer) (*Screen, error) {
	texture, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_RGB888), int(sdl.TEXTUREACCESS_STREAMING), chip8.Width, chip8.Height)
	if err != nil {
		return nil, fmt.Errorf("creating screen texture: %w", err)
	}

	return &Screen{
		renderer: renderer,
		texture:  texture,
		pixels:   make([]byte, chip8.Width*chip8.Height*screenDepth),
	}, nil
}

/// Destroy the screen texture.
///
func (scr *Screen) Destroy() {
	_ = scr.texture.Destroy()
}

/// Refresh the texture from CHIP-8 video memory and present it. A nil
/// machine shows a blank screen.
///
func (scr *Screen) Refresh(vm *chip8.Machine) error {
	for p := 0; p < chip8.Width*chip8.Height; p++ {
		c := OffColor
		if vm != nil && vm.Video[p] == chip8.PixelOn {
			c = OnColor
		}

		i := p * screenDepth

		scr.pixels[i+0] = c.B
		scr.pixels[i+1] = c.G
		scr.pixels[i+2] = c.R
		scr.pixels[i+3] = 0xFF
	}

	if err := scr.texture.Update(nil, scr.pixels, chip8.Width*screenDepth); err != nil {
		return fmt.Errorf("updating screen texture: %w", err)
	}

	_ = scr.renderer.SetDrawColor(OffColor.R, OffColor.G, OffColor.B, OffColor.A)
	_ = scr.renderer.Clear()

	if err := scr.renderer.Copy(scr.texture, nil, nil); err != nil {
		return fmt.Errorf("copying screen texture: %w", err)
	}

	scr.renderer.Present()

	return nil
}
