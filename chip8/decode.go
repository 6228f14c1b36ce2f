package chip8

/// Op identifies a decoded CHIP-8 instruction.
///
type Op uint8

/// All CHIP-8 operations. OpNone is what any undefined selector decodes
/// to, and it executes as a no-op.
///
const (
	OpNone      Op = iota
	OpCLS          // 00E0
	OpRET          // 00EE
	OpJP           // 1nnn
	OpCALL         // 2nnn
	OpSEByte       // 3xkk
	OpSNEByte      // 4xkk
	OpSE           // 5xy0
	OpLDByte       // 6xkk
	OpADDByte      // 7xkk
	OpLD           // 8xy0
	OpOR           // 8xy1
	OpAND          // 8xy2
	OpXOR          // 8xy3
	OpADD          // 8xy4
	OpSUB          // 8xy5
	OpSHR          // 8xy6
	OpSUBN         // 8xy7
	OpSHL          // 8xyE
	OpSNE          // 9xy0
	OpLDI          // Annn
	OpJPV0         // Bnnn
	OpRND          // Cxkk
	OpDRW          // Dxyn
	OpSKP          // Ex9E
	OpSKNP         // ExA1
	OpLDVxDT       // Fx07
	OpLDVxK        // Fx0A
	OpLDDTVx       // Fx15
	OpLDSTVx       // Fx18
	OpADDI         // Fx1E
	OpLDF          // Fx29
	OpLDB          // Fx33
	OpSTORE        // Fx55
	OpLOAD         // Fx65
)

/// Instruction is a decoded 16-bit instruction word.
///
type Instruction struct {
	Word uint16
	Op   Op
}

/// X is the register operand in bits 8-11.
///
func (i Instruction) X() uint {
	return uint(i.Word>>8) & 0xF
}

/// Y is the register operand in bits 4-7.
///
func (i Instruction) Y() uint {
	return uint(i.Word>>4) & 0xF
}

/// N is the nibble operand in bits 0-3.
///
func (i Instruction) N() byte {
	return byte(i.Word & 0xF)
}

/// KK is the byte operand in bits 0-7.
///
func (i Instruction) KK() byte {
	return byte(i.Word & 0xFF)
}

/// NNN is the 12-bit address operand.
///
func (i Instruction) NNN() uint16 {
	return i.Word & 0xFFF
}

// families without a secondary selector, indexed by the top nibble
var families = [16]Op{
	0x1: OpJP,
	0x2: OpCALL,
	0x3: OpSEByte,
	0x4: OpSNEByte,
	0x5: OpSE,
	0x6: OpLDByte,
	0x7: OpADDByte,
	0x9: OpSNE,
	0xA: OpLDI,
	0xB: OpJPV0,
	0xC: OpRND,
	0xD: OpDRW,
}

// family 0, indexed by the low nibble
var family0 = [16]Op{
	0x0: OpCLS,
	0xE: OpRET,
}

// family 8, indexed by the low nibble
var family8 = [16]Op{
	0x0: OpLD,
	0x1: OpOR,
	0x2: OpAND,
	0x3: OpXOR,
	0x4: OpADD,
	0x5: OpSUB,
	0x6: OpSHR,
	0x7: OpSUBN,
	0xE: OpSHL,
}

// family E, indexed by the low nibble
var familyE = [16]Op{
	0x1: OpSKNP,
	0xE: OpSKP,
}

// family F, indexed by the low byte
var familyF = [256]Op{
	0x07: OpLDVxDT,
	0x0A: OpLDVxK,
	0x15: OpLDDTVx,
	0x18: OpLDSTVx,
	0x1E: OpADDI,
	0x29: OpLDF,
	0x33: OpLDB,
	0x55: OpSTORE,
	0x65: OpLOAD,
}

/// Decode an instruction word. The top nibble selects the family; the
/// 0, 8 and E families are further selected by the low nibble and the F
/// family by the low byte.
///
func Decode(word uint16) Instruction {
	family := word >> 12

	var op Op
	switch family {
	case 0x0:
		op = family0[word&0xF]
	case 0x8:
		op = family8[word&0xF]
	case 0xE:
		op = familyE[word&0xF]
	case 0xF:
		op = familyF[word&0xFF]
	default:
		op = families[family]
	}

	return Instruction{Word: word, Op: op}
}
