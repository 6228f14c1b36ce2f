package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDrawTwiceClears(t *testing.T) {
	vm := newMachine(t)
	vm.V[0] = 10
	vm.V[1] = 4
	vm.I = FontAddress + 8*GlyphSize

	run(t, vm, 0xD015)
	assert.Equal(t, byte(0), vm.V[0xF])
	assert.Equal(t, Glyph(8), glyphAt(vm, 10, 4))

	run(t, vm, 0xD015)
	assert.Equal(t, byte(1), vm.V[0xF])

	for i := range vm.Video {
		assert.Equal(t, PixelOff, vm.Video[i])
	}
}

func TestDrawCollisionOnlyWhenTurnedOff(t *testing.T) {
	vm := newMachine(t)
	vm.I = 0x300
	vm.Memory[0x300] = 0x0F

	// the sprite row 00001111 lands next to, not on, the lit pixel
	vm.Video[0] = PixelOn

	run(t, vm, 0xD011)
	assert.Equal(t, byte(0), vm.V[0xF])
	assert.True(t, vm.Pixel(0, 0))
	assert.True(t, vm.Pixel(4, 0))
	assert.False(t, vm.Pixel(3, 0))
}

func TestDrawWraps(t *testing.T) {
	vm := newMachine(t)
	vm.I = 0x300
	vm.Memory[0x300] = 0xFF
	vm.Memory[0x301] = 0x81

	// 60, 31 wraps both across the right edge and the bottom edge
	vm.V[2] = 60
	vm.V[3] = 31

	run(t, vm, 0xD232)

	for x := 60; x < 68; x++ {
		assert.True(t, vm.Pixel(x, 31))
	}
	assert.True(t, vm.Pixel(60, 0))
	assert.True(t, vm.Pixel(3, 0))
	assert.False(t, vm.Pixel(61, 0))
	assert.False(t, vm.Pixel(2, 0))
	assert.Equal(t, PixelOn, vm.Video[31*Width+3])
}

func TestDrawOriginWraps(t *testing.T) {
	vm := newMachine(t)
	vm.I = FontAddress

	// 64+2, 32+1 draws at 2, 1
	vm.V[0] = 66
	vm.V[1] = 33

	run(t, vm, 0xD015)
	assert.Equal(t, Glyph(0), glyphAt(vm, 2, 1))
}

func TestDrawZeroRows(t *testing.T) {
	vm := newMachine(t)
	vm.V[0xF] = 1
	vm.Video[5] = PixelOn

	run(t, vm, 0xD010)

	assert.Equal(t, byte(0), vm.V[0xF])
	assert.Equal(t, PixelOn, vm.Video[5])
}

func TestClear(t *testing.T) {
	vm := newMachine(t)
	for i := range vm.Video {
		vm.Video[i] = PixelOn
	}

	run(t, vm, 0x00E0)

	for i := range vm.Video {
		assert.Equal(t, PixelOff, vm.Video[i])
	}
}

func TestGlyphCopy(t *testing.T) {
	g := Glyph(0x1F)
	assert.Equal(t, Glyph(0xF), g)

	// a returned glyph can be changed without touching the font
	g[0] = 0
	assert.Equal(t, byte(0xF0), Glyph(0xF)[0])
}
