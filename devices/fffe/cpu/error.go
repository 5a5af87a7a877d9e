package cpu

import (
	"fmt"

	"github.com/pkg/errors"
)

// Known runtime failures.
var (
	ErrStackUnderflow = errors.New("return with empty call stack")
	ErrImageTooLarge  = errors.New("program image too large")
	ErrMisalignedJump = errors.New("jump to odd address")
)

// Error defines a runtime error. It carries the instruction which failed.
type Error struct {
	*Instruction
	Err error
}

// NewError creates a new error for the given instruction.
func NewError(instr *Instruction, err error) *Error {
	cp := *instr
	return &Error{
		Instruction: &cp,
		Err:         err,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%03x: %04x: %v", e.PC, e.Opcode.Raw, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
