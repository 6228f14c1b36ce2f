package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/afoley/chip8/chip8"
	"github.com/afoley/chip8/internal/config"
	"github.com/afoley/chip8/internal/emulator"
	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
)

/// Time between CHIP-8 cycles and between video frames.
///
const (
	clockRate = time.Millisecond * 3
	frameRate = time.Second / 60
)

/// sdlHost runs the emulator in a window.
///
type sdlHost struct {
	emu    *emulator.Emulator
	logger *log.Logger

	window   *sdl.Window
	renderer *sdl.Renderer
	screen   *Screen
	beeper   *Beeper
}

/// runSDL opens a window and runs the emulator until the window is
/// closed or the context is cancelled.
///
func runSDL(ctx context.Context, emu *emulator.Emulator, logger *log.Logger, opts config.Options) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("initializing SDL: %w", err)
	}
	defer sdl.Quit()

	h := &sdlHost{
		emu:    emu,
		logger: logger,
	}

	if err := h.open(opts.Scale); err != nil {
		return err
	}
	defer h.close()

	// ask for a program if none was given
	program := opts.Program
	if program == "" {
		file, err := LoadDialog()
		if err != nil {
			if errors.Is(err, dialog.ErrCancelled) {
				return nil
			}
			return fmt.Errorf("choosing program: %w", err)
		}
		program = file
	}

	if err := emu.Load(program); err != nil {
		return err
	}
	h.updateTitle()

	// set processor speed and refresh rate
	clock := time.NewTicker(clockRate)
	defer clock.Stop()
	video := time.NewTicker(frameRate)
	defer video.Stop()

	// loop until window closed or user quit
	for h.ProcessEvents() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-video.C:
			h.refresh()
		case <-clock.C:
			// faults are logged and pause the emulator
			_ = emu.Cycle()
		}
	}

	return nil
}

func (h *sdlHost) open(scale int) error {
	var err error

	w, ht := int32(chip8.Width*scale), int32(chip8.Height*scale)

	h.window, err = sdl.CreateWindow("CHIP-8", sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, w, ht, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}

	h.renderer, err = sdl.CreateRenderer(h.window, -1, uint32(sdl.RENDERER_ACCELERATED)|uint32(sdl.RENDERER_PRESENTVSYNC))
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	h.screen, err = NewScreen(h.renderer)
	if err != nil {
		return err
	}

	// run silent rather than not at all
	h.beeper, err = NewBeeper()
	if err != nil {
		h.logger.Warn("Sound disabled", log.Err(err))
	}

	return nil
}

func (h *sdlHost) close() {
	if h.beeper != nil {
		h.beeper.Close()
	}
	if h.screen != nil {
		h.screen.Destroy()
	}
	if h.renderer != nil {
		_ = h.renderer.Destroy()
	}
	if h.window != nil {
		_ = h.window.Destroy()
	}
}

/// Present a frame and feed the beeper.
///
func (h *sdlHost) refresh() {
	vm := h.emu.Machine()

	if err := h.screen.Refresh(vm); err != nil {
		h.logger.Error("Refreshing screen failed", log.Err(err))
	}

	if h.beeper != nil {
		on := vm != nil && vm.Beeping() && !h.emu.Paused()

		if err := h.beeper.Update(on); err != nil {
			h.logger.Error("Queueing audio failed", log.Err(err))
		}
	}
}

func (h *sdlHost) updateTitle() {
	h.window.SetTitle(fmt.Sprintf("CHIP-8 - %s", filepath.Base(h.emu.File())))
}
