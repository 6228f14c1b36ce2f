package main

import (
	"context"
	"fmt"
	"time"
	"unicode"

	"github.com/afoley/chip8/chip8"
	"github.com/afoley/chip8/internal/config"
	"github.com/afoley/chip8/internal/emulator"
	"github.com/nsf/termbox-go"
	"github.com/retroenv/retrogolib/log"
)

/// Terminals only report key presses. A key stays down for this many
/// frames after the last press (or auto repeat) of it.
///
const keyHold = 8

var (
	/// Mapping of terminal characters to CHIP-8 keys, same layout as the
	/// window.
	///
	TermKeyMap = map[rune]uint{
		'x': 0x0,
		'1': 0x1,
		'2': 0x2,
		'3': 0x3,
		'q': 0x4,
		'w': 0x5,
		'e': 0x6,
		'a': 0x7,
		's': 0x8,
		'd': 0x9,
		'z': 0xA,
		'c': 0xB,
		'4': 0xC,
		'r': 0xD,
		'f': 0xE,
		'v': 0xF,
	}
)

/// runTerm runs the emulator inside the terminal until ESC or Ctrl-C.
///
func runTerm(ctx context.Context, emu *emulator.Emulator, logger *log.Logger, opts config.Options) error {
	if err := emu.Load(opts.Program); err != nil {
		return err
	}

	if err := termbox.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer termbox.Close()

	termbox.SetInputMode(termbox.InputEsc)

	events := make(chan termbox.Event)
	done := make(chan struct{})

	go pollTerm(termbox.PollEvent, events, done)

	// Interrupt blocks until a PollEvent receives it, so the poller must
	// be released from the hand over first
	defer func() {
		close(done)
		termbox.Interrupt()
	}()

	var held [chip8.KeyCount]int

	clock := time.NewTicker(clockRate)
	defer clock.Stop()
	video := time.NewTicker(frameRate)
	defer video.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			switch {
			case ev.Type == termbox.EventError:
				return fmt.Errorf("reading terminal: %w", ev.Err)
			case ev.Type != termbox.EventKey:
			case ev.Key == termbox.KeyEsc, ev.Key == termbox.KeyCtrlC:
				return nil
			case ev.Key == termbox.KeyBackspace, ev.Key == termbox.KeyBackspace2:
				emu.Reset()
			case ev.Key == termbox.KeySpace:
				emu.TogglePause()
			default:
				if key, ok := TermKeyMap[unicode.ToLower(ev.Ch)]; ok {
					emu.SetKey(key, true)
					held[key] = keyHold
				}
			}

		case <-clock.C:
			if err := emu.Cycle(); err != nil {
				logger.Debug("Cycle failed", log.Err(err))
			}

		case <-video.C:
			for key := range held {
				if held[key] > 0 {
					if held[key]--; held[key] == 0 {
						emu.SetKey(uint(key), false)
					}
				}
			}

			drawTerm(emu)
		}
	}
}

/// pollTerm hands events from poll (termbox.PollEvent) to the emulation
/// loop, since polling blocks. Events arriving after done is closed are dropped. It only
/// returns on EventInterrupt, so termbox.Interrupt always has a receiver.
///
func pollTerm(poll func() termbox.Event, events chan<- termbox.Event, done <-chan struct{}) {
	for {
		ev := poll()
		if ev.Type == termbox.EventInterrupt {
			return
		}

		select {
		case events <- ev:
		case <-done:
		}
	}
}

/// Character cell for two vertically stacked pixels.
///
func halfBlock(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	}
	return ' '
}

/// Draw the CHIP-8 display, two pixel rows per line, with a status line
/// underneath.
///
func drawTerm(emu *emulator.Emulator) {
	vm := emu.Machine()

	_ = termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)

	for y := 0; y < chip8.Height; y += 2 {
		for x := 0; x < chip8.Width; x++ {
			c := halfBlock(vm.Pixel(x, y), vm.Pixel(x, y+1))

			termbox.SetCell(x, y/2, c, termbox.ColorWhite, termbox.ColorDefault)
		}
	}

	status := "ESC quit  BACKSPACE reset  SPACE pause"
	if emu.Paused() {
		status = "PAUSED - " + vm.Disassemble(vm.PC)
	}

	for i, c := range status {
		termbox.SetCell(i, chip8.Height/2, c, termbox.ColorYellow, termbox.ColorDefault)
	}

	_ = termbox.Flush()
}
