package arch

import "fmt"

// Disassemble returns the assembly representation of the given word.
// Words outside the instruction set are rendered as data.
func Disassemble(raw uint16) string {
	instr, err := Decode(raw)
	if err != nil {
		return fmt.Sprintf("DW 0x%04X", raw)
	}
	return instr.String()
}

func (i Instruction) String() string {
	op := i.Opcode
	name := i.Class.String()

	switch i.Class {
	case HALT, CLS, RET:
		return name
	case JP, CALL:
		return fmt.Sprintf("%s 0x%03X", name, op.NNN)
	case JPV:
		return fmt.Sprintf("%s V0, 0x%03X", name, op.NNN)
	case LDI:
		return fmt.Sprintf("%s I, 0x%03X", name, op.NNN)
	case SEB, SNEB, LDB, ADDB, RND:
		return fmt.Sprintf("%s V%X, 0x%02X", name, op.X, op.KK)
	case DRW:
		return fmt.Sprintf("%s V%X, V%X, %d", name, op.X, op.Y, op.N)
	}

	return fmt.Sprintf("%s V%X, V%X", name, op.X, op.Y)
}
