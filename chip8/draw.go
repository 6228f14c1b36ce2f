package chip8

/// Clear the video display memory.
///
func (vm *Machine) cls() {
	for i := range vm.Video {
		vm.Video[i] = PixelOff
	}
}

/// draw an n-row sprite at I to video memory at vx, vy. Pixels that fall
/// off an edge wrap around to the opposite edge. VF is set if any pixel
/// that was on gets turned off.
///
func (vm *Machine) drw(x, y uint, n byte) error {
	if err := checkRange(vm.I, int(n)); err != nil {
		return err
	}

	// origin is wrapped onto the screen first
	x0 := uint(vm.V[x]) % Width
	y0 := uint(vm.V[y]) % Height

	c := byte(0)

	for row, s := range vm.Memory[vm.I : uint(vm.I)+uint(n)] {
		py := (y0 + uint(row)) % Height

		for col := uint(0); col < 8; col++ {
			if s&(0x80>>col) == 0 {
				continue
			}

			p := py*Width + (x0+col)%Width

			// was a pixel turned off?
			if vm.Video[p] == PixelOn {
				c = 1
			}

			vm.Video[p] ^= PixelOn
		}
	}

	vm.V[0xF] = c

	return nil
}
