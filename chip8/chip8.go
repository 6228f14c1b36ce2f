// Package chip8 implements the CHIP-8 virtual machine: memory, registers,
// stack, timers, the 16-key latch and the 64x32 framebuffer, along with an
// instruction decoder, a disassembler and a small assembler.
//
// The host drives the machine by calling Cycle once per tick, writing the
// key latch between calls and reading Video and ST whenever it presents a
// frame.
package chip8

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"
)

const (
	/// MemorySize is the size of the CHIP-8 address space.
	///
	MemorySize = 0x1000

	/// FontAddress is where the built-in hex digit sprites live.
	///
	FontAddress = 0x50

	/// ProgramAddress is where all programs are loaded and begin.
	///
	ProgramAddress = 0x200

	/// MaxProgramSize is the largest program image that can be loaded.
	///
	MaxProgramSize = MemorySize - ProgramAddress

	/// StackSize is the number of return addresses the stack can hold.
	///
	StackSize = 16

	/// KeyCount is the number of keys on the hex keypad.
	///
	KeyCount = 16

	/// Width and Height of the display in pixels.
	///
	Width  = 64
	Height = 32

	/// PixelOn and PixelOff are the only values a Video cell may hold.
	///
	PixelOn  uint32 = 0xFFFFFFFF
	PixelOff uint32 = 0
)

/// Machine is the CHIP-8 virtual machine.
///
type Machine struct {
	/// ROM is the pristine memory image (font and program) that Memory
	/// is restored from on Reset.
	///
	ROM [MemorySize]byte

	/// Memory addressable by CHIP-8. The font lives at 0x50 and the
	/// program begins at 0x200.
	///
	Memory [MemorySize]byte

	/// Video memory (64x32), row-major. Each cell is PixelOn or PixelOff
	/// so it can be handed directly to a 32-bit surface.
	///
	Video [Width * Height]uint32

	/// V are the 16 virtual registers. VF doubles as the carry, borrow
	/// and collision flag.
	///
	V [16]byte

	/// I is the address register.
	///
	I uint16

	/// PC is the program counter. All programs begin at 0x200.
	///
	PC uint16

	/// Stack of return addresses and the number of entries on it.
	///
	Stack [StackSize]uint16
	SP    uint8

	/// DT and ST are the delay and sound timers. Both count down once
	/// per cycle while non-zero.
	///
	DT byte
	ST byte

	/// Keys hold the current state for the 16-key pad keys.
	///
	Keys [KeyCount]bool

	/// Cycles is how many instructions have been executed.
	///
	Cycles uint64

	rand   *rand.Rand
	logger *log.Logger
}

/// Option configures a Machine when it is created.
///
type Option func(vm *Machine)

/// WithLogger sets the logger used by the virtual machine.
///
func WithLogger(logger *log.Logger) Option {
	return func(vm *Machine) {
		vm.logger = logger
	}
}

/// WithSeed seeds the RND instruction's random source, making it
/// deterministic.
///
func WithSeed(seed int64) Option {
	return func(vm *Machine) {
		vm.rand = rand.New(rand.NewSource(seed))
	}
}

/// WithRand sets the random source used by the RND instruction.
///
func WithRand(r *rand.Rand) Option {
	return func(vm *Machine) {
		vm.rand = r
	}
}

/// LoadROM creates a new CHIP-8 virtual machine from a program image.
///
func LoadROM(program []byte, opts ...Option) (*Machine, error) {
	if len(program) > MaxProgramSize {
		return nil, fmt.Errorf("%w: %d bytes, at most %d allowed", ErrProgramTooLarge, len(program), MaxProgramSize)
	}

	vm := &Machine{}
	for _, opt := range opts {
		opt(vm)
	}

	if vm.logger == nil {
		cfg := log.DefaultConfig()
		cfg.Level = log.ErrorLevel
		vm.logger = log.NewWithConfig(cfg)
	}
	if vm.rand == nil {
		vm.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	// install the font, glyph k at FontAddress+5k
	copy(vm.ROM[FontAddress:], font[:])

	// copy the program into the CHIP-8
	copy(vm.ROM[ProgramAddress:], program)

	vm.Reset()

	vm.logger.Info("Program loaded",
		log.Int("size", len(program)),
		log.Hex("start", ProgramAddress))

	return vm, nil
}

/// LoadFile reads a program image from disk and loads it.
///
func LoadFile(file string, opts ...Option) (*Machine, error) {
	program, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading program '%s': %w", file, err)
	}

	vm, err := LoadROM(program, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading program '%s': %w", file, err)
	}

	return vm, nil
}

/// Reset the CHIP-8 virtual machine to its freshly loaded state.
///
func (vm *Machine) Reset() {
	vm.Memory = vm.ROM

	// reset video memory and keys
	vm.Video = [Width * Height]uint32{}
	vm.Keys = [KeyCount]bool{}

	// reset program counter and stack
	vm.PC = ProgramAddress
	vm.Stack = [StackSize]uint16{}
	vm.SP = 0

	// reset address and virtual registers
	vm.I = 0
	vm.V = [16]byte{}

	// reset timer registers
	vm.DT = 0
	vm.ST = 0

	vm.Cycles = 0
}

/// PressKey emulates a CHIP-8 key being pressed.
///
func (vm *Machine) PressKey(key uint) {
	vm.SetKey(key, true)
}

/// ReleaseKey emulates a CHIP-8 key being released.
///
func (vm *Machine) ReleaseKey(key uint) {
	vm.SetKey(key, false)
}

/// SetKey sets the latch for a key. Keys outside 0x0-0xF are ignored.
///
func (vm *Machine) SetKey(key uint, down bool) {
	if key < KeyCount {
		vm.Keys[key] = down
	}
}

/// Pixel returns true if the pixel at x, y is on. Coordinates wrap.
///
func (vm *Machine) Pixel(x, y int) bool {
	x = ((x % Width) + Width) % Width
	y = ((y % Height) + Height) % Height

	return vm.Video[y*Width+x] == PixelOn
}

/// Beeping is true while the sound timer is running.
///
func (vm *Machine) Beeping() bool {
	return vm.ST > 0
}

/// Cycle executes a single instruction and then ticks both timers. When
/// the instruction faults the timers are left alone.
///
func (vm *Machine) Cycle() error {
	if err := vm.Step(); err != nil {
		return err
	}

	vm.tick()

	return nil
}

/// Step the CHIP-8 virtual machine a single instruction. On a fault the
/// program counter is restored and no other state has changed.
///
func (vm *Machine) Step() error {
	pc := vm.PC

	// fetch the next instruction
	word, err := vm.fetch()
	if err != nil {
		return &Fault{Address: pc, Err: err}
	}

	inst := Decode(word)

	if err := vm.execute(inst); err != nil {
		vm.PC = pc

		return &Fault{Address: pc, Instruction: inst, Err: err}
	}

	vm.Cycles++

	return nil
}

/// Fetch the next 16-bit instruction to execute and advance the program
/// counter past it.
///
func (vm *Machine) fetch() (uint16, error) {
	if err := checkRange(vm.PC, 2); err != nil {
		return 0, err
	}

	i := vm.PC

	// advance the program counter
	vm.PC += 2

	return uint16(vm.Memory[i])<<8 | uint16(vm.Memory[i+1]), nil
}

/// Count both timers down, stopping at zero.
///
func (vm *Machine) tick() {
	if vm.DT > 0 {
		vm.DT--
	}
	if vm.ST > 0 {
		vm.ST--
	}
}
