package chip8

import (
	"errors"
	"fmt"
)

var (
	/// ErrProgramTooLarge is returned when a program image does not fit
	/// between ProgramAddress and the end of memory.
	///
	ErrProgramTooLarge = errors.New("program too large to fit in memory")

	/// ErrAddressRange is returned when an instruction would touch memory
	/// outside of the 4K address space.
	///
	ErrAddressRange = errors.New("address out of range")

	/// ErrStackOverflow and ErrStackUnderflow both wrap ErrAddressRange.
	///
	ErrStackOverflow  = fmt.Errorf("stack overflow: %w", ErrAddressRange)
	ErrStackUnderflow = fmt.Errorf("stack underflow: %w", ErrAddressRange)
)

/// Fault is returned by Step and Cycle when an instruction could not be
/// executed. The machine is left exactly as it was before the instruction.
///
type Fault struct {
	Address     uint16
	Instruction Instruction
	Err         error
}

/// Error shows the faulting instruction, or just the address if it could
/// not be fetched.
///
func (f *Fault) Error() string {
	if f.Instruction.Word == 0 && f.Instruction.Op == OpNone {
		return fmt.Sprintf("fetch at #%04X: %v", f.Address, f.Err)
	}
	return fmt.Sprintf("%04X - %s: %v", f.Address, f.Instruction, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

/// checkRange verifies that n bytes starting at address are all inside
/// memory.
///
func checkRange(address uint16, n int) error {
	if int(address)+n > MemorySize {
		return fmt.Errorf("%w: #%04X+%d", ErrAddressRange, address, n)
	}
	return nil
}
