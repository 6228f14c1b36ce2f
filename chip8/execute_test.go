package chip8

import (
	"math/rand"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// run executes a single instruction word against the machine.
func run(t *testing.T, vm *Machine, word uint16) {
	t.Helper()

	vm.Memory[vm.PC] = byte(word >> 8)
	vm.Memory[vm.PC+1] = byte(word)

	assert.NoError(t, vm.Step())
}

func TestAddCarry(t *testing.T) {
	vm := newMachine(t)

	for a := 0; a < 0x100; a++ {
		for b := 0; b < 0x100; b++ {
			vm.PC = ProgramAddress
			vm.V[1] = byte(a)
			vm.V[2] = byte(b)

			run(t, vm, 0x8124)

			var carry byte
			if a+b > 0xFF {
				carry = 1
			}

			if vm.V[1] != byte(a+b) || vm.V[0xF] != carry {
				t.Fatalf("ADD %d + %d: got V1=%d VF=%d", a, b, vm.V[1], vm.V[0xF])
			}
		}
	}
}

func TestSubBorrow(t *testing.T) {
	vm := newMachine(t)

	for a := 0; a < 0x100; a++ {
		for b := 0; b < 0x100; b++ {
			var noBorrow byte
			if a >= b {
				noBorrow = 1
			}

			// SUB V1, V2
			vm.PC = ProgramAddress
			vm.V[1] = byte(a)
			vm.V[2] = byte(b)

			run(t, vm, 0x8125)

			if vm.V[1] != byte(a-b) || vm.V[0xF] != noBorrow {
				t.Fatalf("SUB %d - %d: got V1=%d VF=%d", a, b, vm.V[1], vm.V[0xF])
			}

			// SUBN V2, V1 computes the same difference into V2
			vm.PC = ProgramAddress
			vm.V[1] = byte(a)
			vm.V[2] = byte(b)

			run(t, vm, 0x8217)

			if vm.V[2] != byte(a-b) || vm.V[0xF] != noBorrow {
				t.Fatalf("SUBN %d - %d: got V2=%d VF=%d", a, b, vm.V[2], vm.V[0xF])
			}
		}
	}
}

func TestFlagRegisterTarget(t *testing.T) {
	tests := []struct {
		name string
		word uint16
		vf   byte
		v1   byte
		want byte
	}{
		{"add carry", 0x8F14, 0xFF, 0x02, 1},
		{"add no carry", 0x8F14, 0x01, 0x02, 0},
		{"sub no borrow", 0x8F15, 0x05, 0x02, 1},
		{"sub borrow", 0x8F15, 0x01, 0x02, 0},
		{"subn no borrow", 0x8F17, 0x01, 0x02, 1},
		{"shr", 0x8F06, 0x03, 0x00, 1},
		{"shl", 0x8F0E, 0x40, 0x00, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newMachine(t)
			vm.V[0xF] = tt.vf
			vm.V[1] = tt.v1

			run(t, vm, tt.word)

			// the flag is written last, so it is all that remains
			assert.Equal(t, tt.want, vm.V[0xF])
		})
	}
}

func TestShifts(t *testing.T) {
	vm := newMachine(t)

	for a := 0; a < 0x100; a++ {
		vm.PC = ProgramAddress
		vm.V[3] = byte(a)
		run(t, vm, 0x8306)

		assert.Equal(t, byte(a)>>1, vm.V[3])
		assert.Equal(t, byte(a)&1, vm.V[0xF])

		vm.PC = ProgramAddress
		vm.V[3] = byte(a)
		run(t, vm, 0x830E)

		assert.Equal(t, byte(a)<<1, vm.V[3])
		assert.Equal(t, byte(a)>>7, vm.V[0xF])
	}
}

func TestLogic(t *testing.T) {
	vm := newMachine(t)

	vm.V[1], vm.V[2] = 0xF0, 0x3C
	run(t, vm, 0x8121)
	assert.Equal(t, byte(0xFC), vm.V[1])

	vm.V[1], vm.V[2] = 0xF0, 0x3C
	run(t, vm, 0x8122)
	assert.Equal(t, byte(0x30), vm.V[1])

	vm.V[1], vm.V[2] = 0xF0, 0x3C
	run(t, vm, 0x8123)
	assert.Equal(t, byte(0xCC), vm.V[1])

	vm.V[1], vm.V[2] = 0xF0, 0x3C
	run(t, vm, 0x8120)
	assert.Equal(t, byte(0x3C), vm.V[1])
}

func TestAddByteWraps(t *testing.T) {
	vm := newMachine(t)
	vm.V[4] = 0xFE
	vm.V[0xF] = 7

	run(t, vm, 0x7405)

	assert.Equal(t, byte(0x03), vm.V[4])

	// no carry for 7xkk
	assert.Equal(t, byte(7), vm.V[0xF])
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name string
		word uint16
		skip bool
	}{
		{"SE byte equal", 0x3111, true},
		{"SE byte not equal", 0x3112, false},
		{"SNE byte equal", 0x4111, false},
		{"SNE byte not equal", 0x4112, true},
		{"SE equal", 0x5120, true},
		{"SE not equal", 0x5130, false},
		{"SNE equal", 0x9120, false},
		{"SNE not equal", 0x9130, true},
		{"SKP up", 0xE19E, false},
		{"SKP down", 0xE39E, true},
		{"SKNP up", 0xE1A1, true},
		{"SKNP down", 0xE3A1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newMachine(t)
			vm.V[1] = 0x11
			vm.V[2] = 0x11
			vm.V[3] = 0x25

			// V3 & 0xF selects key 5
			vm.PressKey(5)

			run(t, vm, tt.word)

			want := uint16(0x202)
			if tt.skip {
				want = 0x204
			}
			assert.Equal(t, want, vm.PC)
		})
	}
}

func TestJumps(t *testing.T) {
	vm := newMachine(t)

	run(t, vm, 0x1456)
	assert.Equal(t, uint16(0x456), vm.PC)

	vm.V[0] = 0x10
	run(t, vm, 0xB300)
	assert.Equal(t, uint16(0x310), vm.PC)
}

func TestIndex(t *testing.T) {
	vm := newMachine(t)

	run(t, vm, 0xA123)
	assert.Equal(t, uint16(0x123), vm.I)

	vm.V[2] = 0x0F
	run(t, vm, 0xF21E)
	assert.Equal(t, uint16(0x132), vm.I)

	// wraps at 16 bits rather than faulting
	vm.I = 0xFFFF
	vm.V[2] = 2
	run(t, vm, 0xF21E)
	assert.Equal(t, uint16(0x0001), vm.I)

	vm.V[2] = 0xA
	run(t, vm, 0xF229)
	assert.Equal(t, uint16(FontAddress+0xA*GlyphSize), vm.I)

	// only the low nibble selects the glyph
	vm.V[2] = 0x1A
	run(t, vm, 0xF229)
	assert.Equal(t, uint16(FontAddress+0xA*GlyphSize), vm.I)
}

func TestTimerRegisters(t *testing.T) {
	vm := newMachine(t)
	vm.V[6] = 0x40

	run(t, vm, 0xF615)
	assert.Equal(t, byte(0x40), vm.DT)

	run(t, vm, 0xF618)
	assert.Equal(t, byte(0x40), vm.ST)

	vm.DT = 0x33
	run(t, vm, 0xF707)
	assert.Equal(t, byte(0x33), vm.V[7])
}

func TestBCD(t *testing.T) {
	vm := newMachine(t)
	vm.I = 0x300
	vm.V[5] = 245

	run(t, vm, 0xF533)

	assert.Equal(t, byte(2), vm.Memory[0x300])
	assert.Equal(t, byte(4), vm.Memory[0x301])
	assert.Equal(t, byte(5), vm.Memory[0x302])
	assert.Equal(t, uint16(0x300), vm.I)
}

func TestStoreLoadRoundTrip(t *testing.T) {
	for x := uint16(0); x < 16; x++ {
		vm := newMachine(t)
		vm.I = 0x400

		for r := range vm.V {
			vm.V[r] = byte(0xA0 + r)
		}
		saved := vm.V

		run(t, vm, 0xF055|x<<8)

		vm.V = [16]byte{}
		run(t, vm, 0xF065|x<<8)

		for r := uint16(0); r < 16; r++ {
			if r <= x {
				assert.Equal(t, saved[r], vm.V[r])
			} else {
				assert.Equal(t, byte(0), vm.V[r])
			}
		}

		// I is left alone
		assert.Equal(t, uint16(0x400), vm.I)
		assert.Equal(t, byte(0), vm.Memory[0x400+x+1])
	}
}

func TestRandom(t *testing.T) {
	vm, err := LoadROM(nil, WithLogger(log.NewTestLogger(t)), WithRand(rand.New(rand.NewSource(42))))
	assert.NoError(t, err)

	r := rand.New(rand.NewSource(42))

	for i := 0; i < 32; i++ {
		run(t, vm, 0xC10F)
		assert.Equal(t, byte(r.Intn(0x100))&0x0F, vm.V[1])
	}

	vm.V[1] = 0xFF
	run(t, vm, 0xC100)
	assert.Equal(t, byte(0), vm.V[1])
}

func TestSeedIsDeterministic(t *testing.T) {
	a := newMachine(t)
	b := newMachine(t)

	for i := 0; i < 16; i++ {
		run(t, a, 0xC0FF)
		run(t, b, 0xC0FF)
		assert.Equal(t, a.V[0], b.V[0])
	}
}
