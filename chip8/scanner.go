package chip8

import (
	"fmt"
	"strconv"
	"strings"
)

/// Kinds of instruction operands.
///
type operandKind uint8

const (
	operandV        operandKind = iota // V0-VF
	operandI                           // I
	operandIndirect                    // [I]
	operandB                           // B
	operandF                           // F
	operandK                           // K
	operandDT                          // DT
	operandST                          // ST
	operandLit                         // numeric literal
	operandLabel                       // label reference
)

/// A single instruction operand. Registers and literals keep their
/// value in n, label references their name.
///
type operand struct {
	kind  operandKind
	n     int
	label string
}

/// statement is one parsed line of source. Any part may be empty.
///
type statement struct {
	label    string
	mnemonic string
	operands []operand
}

// every instruction and directive the assembler knows
var mnemonics = map[string]bool{
	"CLS": true, "RET": true, "SYS": true, "JP": true, "CALL": true,
	"SE": true, "SNE": true, "SKP": true, "SKNP": true, "LD": true,
	"OR": true, "AND": true, "XOR": true, "ADD": true, "SUB": true,
	"SUBN": true, "SHR": true, "SHL": true, "RND": true, "DRW": true,
	"BYTE": true, "WORD": true,
}

// reserved operand names
var keywords = map[string]operandKind{
	"I":  operandI,
	"B":  operandB,
	"F":  operandF,
	"K":  operandK,
	"DT": operandDT,
	"ST": operandST,
}

/// Scans a single, upper-cased line of source. Problems panic with a
/// message that the assembler reports along with the line number.
///
type lineScanner struct {
	line []byte
	pos  int
}

/// parseLine splits a line into its label, mnemonic and operands. Labels
/// start in the first column with a '.', statements must be indented and
/// a ';' comments out the rest of the line.
///
func parseLine(line []byte) (st statement) {
	s := &lineScanner{line: line}

	if s.peek() == '.' {
		s.pos++

		if !isLetter(s.peek()) {
			panic("expected label")
		}
		st.label = s.identifier()

		// a reference to it would parse as the register or keyword
		if _, ok := parseRegister(st.label); ok {
			panic(fmt.Errorf("reserved label: %s", st.label))
		}
		if _, ok := keywords[st.label]; ok {
			panic(fmt.Errorf("reserved label: %s", st.label))
		}
	} else if s.pos == 0 && !s.atEnd() && !isSpace(s.peek()) {
		panic("expected .label")
	}

	if s.skipSpace(); s.atEnd() {
		return st
	}

	if !isLetter(s.peek()) {
		panic("expected instruction")
	}

	st.mnemonic = s.identifier()
	if !mnemonics[st.mnemonic] {
		panic(fmt.Errorf("unknown instruction: %s", st.mnemonic))
	}

	if s.skipSpace(); s.atEnd() {
		return st
	}

	for {
		st.operands = append(st.operands, s.operand())

		if s.skipSpace(); s.atEnd() {
			return st
		}
		if s.peek() != ',' {
			panic("unexpected token")
		}

		s.pos++

		// a comma must be followed by another operand
		if s.skipSpace(); s.atEnd() {
			panic("expected operand")
		}
	}
}

/// The next character, or 0 at the end of the line.
///
func (s *lineScanner) peek() byte {
	if s.pos < len(s.line) {
		return s.line[s.pos]
	}
	return 0
}

/// True at the end of the line or the start of a comment.
///
func (s *lineScanner) atEnd() bool {
	return s.pos >= len(s.line) || s.line[s.pos] == ';'
}

func (s *lineScanner) skipSpace() {
	for s.pos < len(s.line) && isSpace(s.line[s.pos]) {
		s.pos++
	}
}

/// Scan a run of identifier characters.
///
func (s *lineScanner) identifier() string {
	start := s.pos

	for s.pos < len(s.line) {
		if c := s.line[s.pos]; !isLetter(c) && !isDigit(c) && c != '_' {
			break
		}
		s.pos++
	}

	return string(s.line[start:s.pos])
}

/// Scan a single operand.
///
func (s *lineScanner) operand() operand {
	switch c := s.peek(); {
	case c == '[':
		return s.indirection()
	case c == '#':
		return s.literal(16, "0123456789ABCDEF", "hex")
	case c == '$':
		return s.literal(2, ".01", "binary")
	case c == '-' || isDigit(c):
		return s.decimal()
	case isLetter(c):
		id := s.identifier()

		if n, ok := parseRegister(id); ok {
			return operand{kind: operandV, n: n}
		}
		if kind, ok := keywords[id]; ok {
			return operand{kind: kind}
		}
		return operand{kind: operandLabel, label: id}
	}

	panic("unexpected token")
}

/// Scan an indirect address. Only [I] is valid.
///
func (s *lineScanner) indirection() operand {
	s.pos++
	s.skipSpace()

	id := s.identifier()
	s.skipSpace()

	if id != "I" || s.peek() != ']' {
		panic("illegal indirection")
	}

	s.pos++

	return operand{kind: operandIndirect}
}

/// Scan a prefixed hex or binary literal. A '.' may be used in place of a
/// '0' in binary literals, which makes sprite data easier to read.
///
func (s *lineScanner) literal(base int, digits, name string) operand {
	start := s.pos

	for s.pos++; s.pos < len(s.line); s.pos++ {
		if strings.IndexByte(digits, s.line[s.pos]) < 0 {
			break
		}
	}

	text := s.line[start:s.pos]
	value := make([]byte, 0, len(text))
	for _, c := range text[1:] {
		if c == '.' {
			c = '0'
		}
		value = append(value, c)
	}

	n, err := strconv.ParseInt(string(value), base, 32)
	if err != nil {
		panic(fmt.Errorf("illegal %s value: %s", name, text))
	}

	return operand{kind: operandLit, n: int(n)}
}

/// Scan a decimal literal with an optional minus sign.
///
func (s *lineScanner) decimal() operand {
	start := s.pos

	if s.peek() == '-' {
		s.pos++
	}
	for s.pos < len(s.line) && isDigit(s.line[s.pos]) {
		s.pos++
	}

	text := string(s.line[start:s.pos])

	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		panic(fmt.Errorf("illegal decimal value: %s", text))
	}

	return operand{kind: operandLit, n: int(n)}
}

/// V0 through VF.
///
func parseRegister(id string) (int, bool) {
	if len(id) != 2 || id[0] != 'V' {
		return 0, false
	}

	n, err := strconv.ParseUint(id[1:], 16, 4)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}

func isLetter(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
