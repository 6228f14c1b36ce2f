package main

import (
	"errors"

	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	/// Mapping of modern keyboard to CHIP-8 keys.
	///
	KeyMap = map[sdl.Scancode]uint{
		sdl.SCANCODE_X: 0x0,
		sdl.SCANCODE_1: 0x1,
		sdl.SCANCODE_2: 0x2,
		sdl.SCANCODE_3: 0x3,
		sdl.SCANCODE_Q: 0x4,
		sdl.SCANCODE_W: 0x5,
		sdl.SCANCODE_E: 0x6,
		sdl.SCANCODE_A: 0x7,
		sdl.SCANCODE_S: 0x8,
		sdl.SCANCODE_D: 0x9,
		sdl.SCANCODE_Z: 0xA,
		sdl.SCANCODE_C: 0xB,
		sdl.SCANCODE_4: 0xC,
		sdl.SCANCODE_R: 0xD,
		sdl.SCANCODE_F: 0xE,
		sdl.SCANCODE_V: 0xF,
	}
)

/// ProcessEvents from SDL and map keys to the CHIP-8 VM. Returns false
/// once the window is closed or the user quits.
///
func (h *sdlHost) ProcessEvents() bool {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			if key, ok := KeyMap[ev.Keysym.Scancode]; ok {
				h.emu.SetKey(key, ev.Type == sdl.KEYDOWN)
				continue
			}

			// everything else only acts on the initial press
			if ev.Type != sdl.KEYDOWN || ev.Repeat != 0 {
				continue
			}

			switch ev.Keysym.Scancode {
			case sdl.SCANCODE_ESCAPE:
				return false
			case sdl.SCANCODE_BACKSPACE:
				h.emu.Reset()
			case sdl.SCANCODE_SPACE, sdl.SCANCODE_F5:
				h.emu.TogglePause()
			case sdl.SCANCODE_F3:
				h.loadDialog()
			}
		}
	}

	return true
}

/// Ask for a new program and run it. Errors are logged, the current
/// program keeps running.
///
func (h *sdlHost) loadDialog() {
	file, err := LoadDialog()
	if err != nil {
		if !errors.Is(err, dialog.ErrCancelled) {
			h.logger.Error("Open dialog failed", log.Err(err))
		}
		return
	}

	if err := h.emu.Load(file); err != nil {
		h.logger.Error("Loading program failed", log.Err(err))
		return
	}

	h.updateTitle()
}
