package chip8

import (
	"fmt"
)

// mnemonic pads an instruction name out to the operand column
func mnemonic(name string) string {
	return fmt.Sprintf("%-6s", name)
}

/// String returns the assembly form of the instruction.
///
func (i Instruction) String() string {
	x, y := i.X(), i.Y()

	switch i.Op {
	case OpCLS:
		return "CLS"
	case OpRET:
		return "RET"
	case OpJP:
		return fmt.Sprintf("%s #%04X", mnemonic("JP"), i.NNN())
	case OpCALL:
		return fmt.Sprintf("%s #%04X", mnemonic("CALL"), i.NNN())
	case OpSEByte:
		return fmt.Sprintf("%s V%X, #%02X", mnemonic("SE"), x, i.KK())
	case OpSNEByte:
		return fmt.Sprintf("%s V%X, #%02X", mnemonic("SNE"), x, i.KK())
	case OpSE:
		return fmt.Sprintf("%s V%X, V%X", mnemonic("SE"), x, y)
	case OpLDByte:
		return fmt.Sprintf("%s V%X, #%02X", mnemonic("LD"), x, i.KK())
	case OpADDByte:
		return fmt.Sprintf("%s V%X, #%02X", mnemonic("ADD"), x, i.KK())
	case OpLD:
		return fmt.Sprintf("%s V%X, V%X", mnemonic("LD"), x, y)
	case OpOR:
		return fmt.Sprintf("%s V%X, V%X", mnemonic("OR"), x, y)
	case OpAND:
		return fmt.Sprintf("%s V%X, V%X", mnemonic("AND"), x, y)
	case OpXOR:
		return fmt.Sprintf("%s V%X, V%X", mnemonic("XOR"), x, y)
	case OpADD:
		return fmt.Sprintf("%s V%X, V%X", mnemonic("ADD"), x, y)
	case OpSUB:
		return fmt.Sprintf("%s V%X, V%X", mnemonic("SUB"), x, y)
	case OpSHR:
		return fmt.Sprintf("%s V%X", mnemonic("SHR"), x)
	case OpSUBN:
		return fmt.Sprintf("%s V%X, V%X", mnemonic("SUBN"), x, y)
	case OpSHL:
		return fmt.Sprintf("%s V%X", mnemonic("SHL"), x)
	case OpSNE:
		return fmt.Sprintf("%s V%X, V%X", mnemonic("SNE"), x, y)
	case OpLDI:
		return fmt.Sprintf("%s I, #%04X", mnemonic("LD"), i.NNN())
	case OpJPV0:
		return fmt.Sprintf("%s V0, #%04X", mnemonic("JP"), i.NNN())
	case OpRND:
		return fmt.Sprintf("%s V%X, #%02X", mnemonic("RND"), x, i.KK())
	case OpDRW:
		return fmt.Sprintf("%s V%X, V%X, %d", mnemonic("DRW"), x, y, i.N())
	case OpSKP:
		return fmt.Sprintf("%s V%X", mnemonic("SKP"), x)
	case OpSKNP:
		return fmt.Sprintf("%s V%X", mnemonic("SKNP"), x)
	case OpLDVxDT:
		return fmt.Sprintf("%s V%X, DT", mnemonic("LD"), x)
	case OpLDVxK:
		return fmt.Sprintf("%s V%X, K", mnemonic("LD"), x)
	case OpLDDTVx:
		return fmt.Sprintf("%s DT, V%X", mnemonic("LD"), x)
	case OpLDSTVx:
		return fmt.Sprintf("%s ST, V%X", mnemonic("LD"), x)
	case OpADDI:
		return fmt.Sprintf("%s I, V%X", mnemonic("ADD"), x)
	case OpLDF:
		return fmt.Sprintf("%s F, V%X", mnemonic("LD"), x)
	case OpLDB:
		return fmt.Sprintf("%s B, V%X", mnemonic("LD"), x)
	case OpSTORE:
		return fmt.Sprintf("%s [I], V%X", mnemonic("LD"), x)
	case OpLOAD:
		return fmt.Sprintf("%s V%X, [I]", mnemonic("LD"), x)
	}

	// unknown instruction
	return fmt.Sprintf("?? #%04X", i.Word)
}

/// Disassemble the CHIP-8 instruction at an address.
///
func (vm *Machine) Disassemble(address uint16) string {
	if checkRange(address, 2) != nil {
		return ""
	}

	inst := Decode(uint16(vm.Memory[address])<<8 | uint16(vm.Memory[address+1]))

	return fmt.Sprintf("%04X - %s", address, inst)
}
