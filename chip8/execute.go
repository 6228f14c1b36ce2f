package chip8

import (
	"github.com/retroenv/retrogolib/log"
)

/// Execute a decoded instruction. The program counter has already been
/// advanced past it.
///
func (vm *Machine) execute(inst Instruction) error {
	x, y := inst.X(), inst.Y()

	switch inst.Op {
	case OpCLS:
		vm.cls()
	case OpRET:
		return vm.ret()
	case OpJP:
		vm.jump(inst.NNN())
	case OpCALL:
		return vm.call(inst.NNN())
	case OpSEByte:
		vm.skipIf(x, inst.KK())
	case OpSNEByte:
		vm.skipIfNot(x, inst.KK())
	case OpSE:
		vm.skipIfXY(x, y)
	case OpLDByte:
		vm.loadX(x, inst.KK())
	case OpADDByte:
		vm.addX(x, inst.KK())
	case OpLD:
		vm.loadXY(x, y)
	case OpOR:
		vm.or(x, y)
	case OpAND:
		vm.and(x, y)
	case OpXOR:
		vm.xor(x, y)
	case OpADD:
		vm.addXY(x, y)
	case OpSUB:
		vm.subXY(x, y)
	case OpSHR:
		vm.shr(x)
	case OpSUBN:
		vm.subYX(x, y)
	case OpSHL:
		vm.shl(x)
	case OpSNE:
		vm.skipIfNotXY(x, y)
	case OpLDI:
		vm.loadI(inst.NNN())
	case OpJPV0:
		vm.jumpV0(inst.NNN())
	case OpRND:
		vm.rnd(x, inst.KK())
	case OpDRW:
		return vm.drw(x, y, inst.N())
	case OpSKP:
		vm.skipIfPressed(x)
	case OpSKNP:
		vm.skipIfNotPressed(x)
	case OpLDVxDT:
		vm.loadXDT(x)
	case OpLDVxK:
		vm.loadXK(x)
	case OpLDDTVx:
		vm.loadDTX(x)
	case OpLDSTVx:
		vm.loadSTX(x)
	case OpADDI:
		vm.addIX(x)
	case OpLDF:
		vm.loadF(x)
	case OpLDB:
		return vm.loadB(x)
	case OpSTORE:
		return vm.saveRegs(x)
	case OpLOAD:
		return vm.loadRegs(x)
	default:
		vm.logger.Debug("Undefined opcode",
			log.Hex("address", vm.PC-2),
			log.Hex("opcode", inst.Word))
	}

	return nil
}

/// pop the return address off the stack.
///
func (vm *Machine) ret() error {
	if vm.SP == 0 {
		return ErrStackUnderflow
	}

	vm.SP--
	vm.PC = vm.Stack[vm.SP]

	return nil
}

/// jump to address.
///
func (vm *Machine) jump(address uint16) {
	vm.PC = address
}

/// push the program counter and jump to address.
///
func (vm *Machine) call(address uint16) error {
	if vm.SP >= StackSize {
		return ErrStackOverflow
	}

	vm.Stack[vm.SP] = vm.PC
	vm.SP++

	vm.PC = address

	return nil
}

/// jump to v0 plus address.
///
func (vm *Machine) jumpV0(address uint16) {
	vm.PC = address + uint16(vm.V[0])
}

/// skip if vx equals the byte.
///
func (vm *Machine) skipIf(x uint, b byte) {
	if vm.V[x] == b {
		vm.PC += 2
	}
}

/// skip if vx differs from the byte.
///
func (vm *Machine) skipIfNot(x uint, b byte) {
	if vm.V[x] != b {
		vm.PC += 2
	}
}

/// skip if vx equals vy.
///
func (vm *Machine) skipIfXY(x, y uint) {
	if vm.V[x] == vm.V[y] {
		vm.PC += 2
	}
}

/// skip if vx differs from vy.
///
func (vm *Machine) skipIfNotXY(x, y uint) {
	if vm.V[x] != vm.V[y] {
		vm.PC += 2
	}
}

/// skip if the key in the low nibble of vx is down.
///
func (vm *Machine) skipIfPressed(x uint) {
	if vm.Keys[vm.V[x]&0xF] {
		vm.PC += 2
	}
}

/// skip if the key in the low nibble of vx is up.
///
func (vm *Machine) skipIfNotPressed(x uint) {
	if !vm.Keys[vm.V[x]&0xF] {
		vm.PC += 2
	}
}

/// load n into vx.
///
func (vm *Machine) loadX(x uint, b byte) {
	vm.V[x] = b
}

/// copy vy into vx.
///
func (vm *Machine) loadXY(x, y uint) {
	vm.V[x] = vm.V[y]
}

/// read the delay timer.
///
func (vm *Machine) loadXDT(x uint) {
	vm.V[x] = vm.DT
}

/// set the delay timer.
///
func (vm *Machine) loadDTX(x uint) {
	vm.DT = vm.V[x]
}

/// set the sound timer, beeping while it is non-zero.
///
func (vm *Machine) loadSTX(x uint) {
	vm.ST = vm.V[x]
}

/// load vx with the lowest pressed key. If no key is down the program
/// counter is moved back so this instruction runs again next cycle.
///
func (vm *Machine) loadXK(x uint) {
	for k, down := range vm.Keys {
		if down {
			vm.V[x] = byte(k)
			return
		}
	}

	vm.PC -= 2
}

/// set I.
///
func (vm *Machine) loadI(address uint16) {
	vm.I = address
}

/// add vx to i, wrapping at 16 bits.
///
func (vm *Machine) addIX(x uint) {
	vm.I += uint16(vm.V[x])
}

/// point I at the font glyph for the low nibble of vx.
///
func (vm *Machine) loadF(x uint) {
	vm.I = FontAddress + uint16(vm.V[x]&0xF)*GlyphSize
}

/// store the BCD of vx at I, I+1 and I+2.
///
func (vm *Machine) loadB(x uint) error {
	if err := checkRange(vm.I, 3); err != nil {
		return err
	}

	n := vm.V[x]

	vm.Memory[vm.I+0] = n / 100
	vm.Memory[vm.I+1] = n / 10 % 10
	vm.Memory[vm.I+2] = n % 10

	return nil
}

/// vx |= vy
///
func (vm *Machine) or(x, y uint) {
	vm.V[x] |= vm.V[y]
}

/// vx &= vy
///
func (vm *Machine) and(x, y uint) {
	vm.V[x] &= vm.V[y]
}

/// vx ^= vy
///
func (vm *Machine) xor(x, y uint) {
	vm.V[x] ^= vm.V[y]
}

/// shift vx left, vf gets the bit shifted out.
///
func (vm *Machine) shl(x uint) {
	msb := vm.V[x] >> 7

	vm.V[x] <<= 1
	vm.V[0xF] = msb
}

/// shift vx right, vf gets the bit shifted out.
///
func (vm *Machine) shr(x uint) {
	lsb := vm.V[x] & 1

	vm.V[x] >>= 1
	vm.V[0xF] = lsb
}

/// add n to vx, no carry.
///
func (vm *Machine) addX(x uint, b byte) {
	vm.V[x] += b
}

/// vx += vy, vf is the carry.
///
func (vm *Machine) addXY(x, y uint) {
	sum := uint(vm.V[x]) + uint(vm.V[y])

	vm.V[x] = byte(sum)

	if sum > 0xFF {
		vm.V[0xF] = 1
	} else {
		vm.V[0xF] = 0
	}
}

/// vx -= vy, vf is 1 unless it borrowed.
///
func (vm *Machine) subXY(x, y uint) {
	vx, vy := vm.V[x], vm.V[y]

	vm.V[x] = vx - vy

	if vx >= vy {
		vm.V[0xF] = 1
	} else {
		vm.V[0xF] = 0
	}
}

/// vx = vy - vx, vf is 1 unless it borrowed.
///
func (vm *Machine) subYX(x, y uint) {
	vx, vy := vm.V[x], vm.V[y]

	vm.V[x] = vy - vx

	if vy >= vx {
		vm.V[0xF] = 1
	} else {
		vm.V[0xF] = 0
	}
}

/// random byte masked with kk.
///
func (vm *Machine) rnd(x uint, b byte) {
	vm.V[x] = byte(vm.rand.Intn(0x100)) & b
}

/// write v0 through vx to memory at I. I is unchanged.
///
func (vm *Machine) saveRegs(x uint) error {
	if err := checkRange(vm.I, int(x)+1); err != nil {
		return err
	}

	for i := uint(0); i <= x; i++ {
		vm.Memory[uint(vm.I)+i] = vm.V[i]
	}

	return nil
}

/// read v0 through vx from memory at I. I is unchanged.
///
func (vm *Machine) loadRegs(x uint) error {
	if err := checkRange(vm.I, int(x)+1); err != nil {
		return err
	}

	for i := uint(0); i <= x; i++ {
		vm.V[i] = vm.Memory[uint(vm.I)+i]
	}

	return nil
}
