// Package emulator ties a CHIP-8 machine to a host: it loads programs,
// tracks the paused state and turns machine faults into a paused session
// instead of a crash.
package emulator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/afoley/chip8/chip8"
	"github.com/retroenv/retrogolib/log"
)

// ErrNotLoaded is returned by Cycle before any program was loaded.
var ErrNotLoaded = errors.New("no program loaded")

// Emulator is a single emulation session. It is not safe for concurrent
// use; hosts hand input over to the goroutine that calls Cycle.
type Emulator struct {
	logger *log.Logger
	opts   []chip8.Option

	vm     *chip8.Machine
	file   string
	paused bool
}

// New returns an emulator with nothing loaded. The options are passed to
// every machine it creates.
func New(logger *log.Logger, opts ...chip8.Option) *Emulator {
	return &Emulator{
		logger: logger,
		opts:   append([]chip8.Option{chip8.WithLogger(logger)}, opts...),
	}
}

// IsSource returns whether a file is treated as assembly source.
func IsSource(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".asm", ".c8s":
		return true
	}
	return false
}

// Load replaces the running program. Assembly source is assembled first,
// anything else is loaded as a raw program image. On failure the current
// program keeps running.
func (e *Emulator) Load(file string) error {
	var (
		vm  *chip8.Machine
		err error
	)

	if IsSource(file) {
		vm, err = e.assemble(file)
	} else {
		vm, err = chip8.LoadFile(file, e.opts...)
	}
	if err != nil {
		return err
	}

	e.vm = vm
	e.file = file
	e.paused = false

	e.logger.Info("Running program", log.String("file", filepath.Base(file)))
	return nil
}

func (e *Emulator) assemble(file string) (*chip8.Machine, error) {
	source, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading source '%s': %w", file, err)
	}

	asm, err := chip8.Assemble(source)
	if err != nil {
		return nil, fmt.Errorf("assembling '%s': %w", file, err)
	}

	e.logger.Debug("Assembled program",
		log.String("file", filepath.Base(file)),
		log.Int("size", len(asm.ROM)),
		log.Int("labels", len(asm.Labels)))

	vm, err := chip8.LoadROM(asm.ROM, e.opts...)
	if err != nil {
		return nil, fmt.Errorf("loading '%s': %w", file, err)
	}
	return vm, nil
}

// Machine returns the running machine, or nil before a program is loaded.
func (e *Emulator) Machine() *chip8.Machine {
	return e.vm
}

// File returns the path of the running program.
func (e *Emulator) File() string {
	return e.file
}

// Loaded returns whether a program has been loaded.
func (e *Emulator) Loaded() bool {
	return e.vm != nil
}

// Paused returns whether emulation is stopped.
func (e *Emulator) Paused() bool {
	return e.paused
}

// TogglePause stops or resumes emulation.
func (e *Emulator) TogglePause() {
	if e.vm == nil {
		return
	}

	e.paused = !e.paused
	if e.paused {
		e.logger.Info("Paused", log.String("at", e.vm.Disassemble(e.vm.PC)))
	} else {
		e.logger.Info("Resumed")
	}
}

// Reset restarts the running program, clearing a fault.
func (e *Emulator) Reset() {
	if e.vm == nil {
		return
	}

	e.vm.Reset()
	e.paused = false

	e.logger.Info("Reset", log.String("file", filepath.Base(e.file)))
}

// SetKey forwards a key change to the machine.
func (e *Emulator) SetKey(key uint, down bool) {
	if e.vm != nil {
		e.vm.SetKey(key, down)
	}
}

// Cycle runs a single machine cycle unless paused. A fault pauses the
// session and is returned; Reset or Load resumes it.
func (e *Emulator) Cycle() error {
	if e.vm == nil {
		return ErrNotLoaded
	}
	if e.paused {
		return nil
	}

	err := e.vm.Cycle()
	if err == nil {
		return nil
	}

	e.paused = true

	e.logger.Error("Machine fault",
		log.Err(err),
		log.Int("cycles", int(e.vm.Cycles)))

	return err
}
