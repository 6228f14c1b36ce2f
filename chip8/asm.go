/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

// Altered version: the assembler was rewritten around per-instruction
// operand forms and a line parser.

package chip8

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"
)

/// Assembly is a completely assembled source file.
///
type Assembly struct {
	/// ROM is the program image, to be loaded at ProgramAddress.
	///
	ROM []byte

	/// Labels maps each label to its address.
	///
	Labels map[string]int

	// addresses of instructions waiting on a label defined later
	fixups map[int]string
}

/// An encoder builds the instruction word for a matched operand list. It
/// returns false if an operand value is out of range.
///
type encoder func(ops []operand) (uint16, bool)

/// A form is one accepted operand pattern of an instruction.
///
type form struct {
	kinds  []operandKind
	encode encoder
}

// shorthand for the form tables
const (
	reg = operandV
	lit = operandLit
)

var forms = map[string][]form{
	"CLS":  {{nil, word(0x00E0)}},
	"RET":  {{nil, word(0x00EE)}},
	"SYS":  {{[]operandKind{lit}, address(0x0000, 0)}},
	"JP":   {{[]operandKind{lit}, address(0x1000, 0)}, {[]operandKind{reg, lit}, jumpV0}},
	"CALL": {{[]operandKind{lit}, address(0x2000, 0)}},
	"SE":   {{[]operandKind{reg, lit}, registerByte(0x3000)}, {[]operandKind{reg, reg}, registers(0x5000)}},
	"SNE":  {{[]operandKind{reg, lit}, registerByte(0x4000)}, {[]operandKind{reg, reg}, registers(0x9000)}},
	"ADD": {
		{[]operandKind{reg, lit}, registerByte(0x7000)},
		{[]operandKind{reg, reg}, registers(0x8004)},
		{[]operandKind{operandI, reg}, register(0xF01E, 1)},
	},
	"OR":   {{[]operandKind{reg, reg}, registers(0x8001)}},
	"AND":  {{[]operandKind{reg, reg}, registers(0x8002)}},
	"XOR":  {{[]operandKind{reg, reg}, registers(0x8003)}},
	"SUB":  {{[]operandKind{reg, reg}, registers(0x8005)}},
	"SUBN": {{[]operandKind{reg, reg}, registers(0x8007)}},
	"SHR":  {{[]operandKind{reg}, shift(0x8006)}, {[]operandKind{reg, reg}, registers(0x8006)}},
	"SHL":  {{[]operandKind{reg}, shift(0x800E)}, {[]operandKind{reg, reg}, registers(0x800E)}},
	"RND":  {{[]operandKind{reg, lit}, registerByte(0xC000)}},
	"DRW":  {{[]operandKind{reg, reg, lit}, sprite}},
	"SKP":  {{[]operandKind{reg}, register(0xE09E, 0)}},
	"SKNP": {{[]operandKind{reg}, register(0xE0A1, 0)}},
	"LD": {
		{[]operandKind{reg, lit}, registerByte(0x6000)},
		{[]operandKind{reg, reg}, registers(0x8000)},
		{[]operandKind{operandI, lit}, address(0xA000, 1)},
		{[]operandKind{reg, operandDT}, register(0xF007, 0)},
		{[]operandKind{reg, operandK}, register(0xF00A, 0)},
		{[]operandKind{operandDT, reg}, register(0xF015, 1)},
		{[]operandKind{operandST, reg}, register(0xF018, 1)},
		{[]operandKind{operandF, reg}, register(0xF029, 1)},
		{[]operandKind{operandB, reg}, register(0xF033, 1)},
		{[]operandKind{operandIndirect, reg}, register(0xF055, 1)},
		{[]operandKind{reg, operandIndirect}, register(0xF065, 0)},
	},
	"WORD": {{[]operandKind{lit}, literalWord}},
}

/// Assemble an input CHIP-8 source code file.
///
func Assemble(program []byte) (out *Assembly, err error) {
	var line int

	out = &Assembly{
		ROM:    make([]byte, ProgramAddress, MemorySize),
		Labels: make(map[string]int),
		fixups: make(map[int]string),
	}

	// errors panic during assembly
	defer func() {
		if r := recover(); r != nil {
			if line > 0 {
				err = fmt.Errorf("line %d - %v", line, r)
			} else {
				err = fmt.Errorf("%v", r)
			}

			out = nil
		}
	}()

	scanner := bufio.NewScanner(bytes.NewReader(bytes.ToUpper(program)))

	for line = 1; scanner.Scan(); line++ {
		out.assemble(parseLine(scanner.Bytes()))
	}

	// done with the source, later errors have no line
	line = 0

	out.resolve()

	if len(out.ROM) > MemorySize {
		return nil, fmt.Errorf("%w: assembled %d bytes", ErrProgramTooLarge, len(out.ROM)-ProgramAddress)
	}

	// drop the reserved 512 bytes from the rom
	out.ROM = out.ROM[ProgramAddress:]

	return out, nil
}

/// Compile a single statement into the assembly.
///
func (a *Assembly) assemble(st statement) {
	if st.label != "" {
		if _, exists := a.Labels[st.label]; exists {
			panic(fmt.Errorf("duplicate label: %s", st.label))
		}

		a.Labels[st.label] = len(a.ROM)
	}

	switch st.mnemonic {
	case "":
	case "BYTE":
		a.ROM = append(a.ROM, assembleBytes(st.operands)...)
	default:
		w := a.assembleInstruction(st.mnemonic, st.operands)
		a.ROM = append(a.ROM, byte(w>>8), byte(w))
	}
}

/// Find the form matching the operands and encode it.
///
func (a *Assembly) assembleInstruction(mnemonic string, ops []operand) uint16 {
	for _, f := range forms[mnemonic] {
		if !matches(f.kinds, ops) {
			continue
		}

		resolved, ref := a.expandLabels(ops)

		w, ok := f.encode(resolved)
		if !ok {
			break
		}

		if ref != "" {
			a.fixups[len(a.ROM)] = ref
		}

		return w
	}

	panic("illegal instruction")
}

/// Operand kinds must match exactly, except that a label may stand in for
/// a literal.
///
func matches(kinds []operandKind, ops []operand) bool {
	if len(kinds) != len(ops) {
		return false
	}

	for i, k := range kinds {
		if ops[i].kind != k && !(k == operandLit && ops[i].kind == operandLabel) {
			return false
		}
	}

	return true
}

/// Replace label references with their address. A label that isn't
/// defined yet assembles as ProgramAddress and is returned so it can be
/// patched once every label is known.
///
func (a *Assembly) expandLabels(ops []operand) ([]operand, string) {
	var ref string

	out := make([]operand, len(ops))
	for i, op := range ops {
		if op.kind == operandLabel {
			address, ok := a.Labels[op.label]
			if !ok {
				address, ref = ProgramAddress, op.label
			}

			op = operand{kind: operandLit, n: address}
		}

		out[i] = op
	}

	return out, ref
}

/// Patch the low 12 bits of every instruction that referenced a label
/// before it was defined.
///
func (a *Assembly) resolve() {
	addresses := make([]int, 0, len(a.fixups))
	for address := range a.fixups {
		addresses = append(addresses, address)
	}

	// report the first unresolved label in source order
	sort.Ints(addresses)

	for _, address := range addresses {
		label := a.fixups[address]

		target, ok := a.Labels[label]
		if !ok {
			panic(fmt.Errorf("unresolved label: %s", label))
		}

		a.ROM[address] = a.ROM[address]&0xF0 | byte(target>>8&0xF)
		a.ROM[address+1] = byte(target)
	}
}

/// BYTE takes one or more literal bytes.
///
func assembleBytes(ops []operand) []byte {
	if len(ops) == 0 {
		panic("expected operand")
	}

	out := make([]byte, 0, len(ops))

	for _, op := range ops {
		b, ok := byteValue(op)
		if !ok || op.kind != operandLit {
			panic("illegal byte")
		}

		out = append(out, b)
	}

	return out
}

/// Literal bytes may be given signed.
///
func byteValue(op operand) (byte, bool) {
	if op.n < -0x80 || op.n > 0xFF {
		return 0, false
	}
	return byte(op.n), true
}

/// A fixed instruction word.
///
func word(w uint16) encoder {
	return func([]operand) (uint16, bool) {
		return w, true
	}
}

/// op | nnn, where nnn is operand i.
///
func address(op uint16, i int) encoder {
	return func(ops []operand) (uint16, bool) {
		n := ops[i].n
		if n < 0 || n >= MemorySize {
			return 0, false
		}
		return op | uint16(n), true
	}
}

/// op | x, where x is the register in operand i.
///
func register(op uint16, i int) encoder {
	return func(ops []operand) (uint16, bool) {
		return op | uint16(ops[i].n)<<8, true
	}
}

/// op | x | y.
///
func registers(op uint16) encoder {
	return func(ops []operand) (uint16, bool) {
		return op | uint16(ops[0].n)<<8 | uint16(ops[1].n)<<4, true
	}
}

/// op | x | kk.
///
func registerByte(op uint16) encoder {
	return func(ops []operand) (uint16, bool) {
		b, ok := byteValue(ops[1])
		return op | uint16(ops[0].n)<<8 | uint16(b), ok
	}
}

/// Single register shifts use the register as both x and y.
///
func shift(op uint16) encoder {
	return func(ops []operand) (uint16, bool) {
		return op | uint16(ops[0].n)<<8 | uint16(ops[0].n)<<4, true
	}
}

/// JP V0, nnn; no other register is allowed.
///
func jumpV0(ops []operand) (uint16, bool) {
	if ops[0].n != 0 {
		return 0, false
	}
	return address(0xB000, 1)(ops)
}

/// DRW Vx, Vy, n with a sprite height under 16.
///
func sprite(ops []operand) (uint16, bool) {
	n := ops[2].n
	if n < 0 || n > 0xF {
		return 0, false
	}
	return 0xD000 | uint16(ops[0].n)<<8 | uint16(ops[1].n)<<4 | uint16(n), true
}

/// WORD takes any 16-bit value or a label.
///
func literalWord(ops []operand) (uint16, bool) {
	n := ops[0].n
	if n < 0 || n > 0xFFFF {
		return 0, false
	}
	return uint16(n), true
}
