package arch

import "github.com/pkg/errors"

// ErrUnknownOpcode is returned by Decode for words outside the instruction set.
var ErrUnknownOpcode = errors.New("unknown opcode")

// Class identifies an instruction variant.
type Class int

// Known instruction classes.
const (
	HALT Class = iota // 0000
	CLS               // 00E0
	RET               // 00EE
	JP                // 1nnn
	CALL              // 2nnn
	SEB               // 3xkk
	SNEB              // 4xkk
	SE                // 5xy0
	LDB               // 6xkk
	ADDB              // 7xkk
	LD                // 8xy0
	OR                // 8xy1
	AND               // 8xy2
	XOR               // 8xy3
	ADD               // 8xy4
	SUB               // 8xy5
	SHR               // 8xy6
	SUBN              // 8xy7
	SHL               // 8xyE
	SNE               // 9xy0
	LDI               // Annn
	JPV               // Bnnn
	RND               // Cxkk
	DRW               // Dxyn
)

// Instruction is a classified instruction word.
type Instruction struct {
	Class  Class
	Opcode Opcode
}

// Decode classifies the given word by its highest nibble. The 0x0 and 0x8
// families are further told apart by their low byte and low nibble.
// Returns ErrUnknownOpcode if the word matches no instruction class.
func Decode(raw uint16) (Instruction, error) {
	op := NewOpcode(raw)
	instr := Instruction{Opcode: op}

	switch op.Family() {
	case 0x0:
		switch raw {
		case 0x0000:
			instr.Class = HALT
		case 0x00e0:
			instr.Class = CLS
		case 0x00ee:
			instr.Class = RET
		default:
			return instr, ErrUnknownOpcode
		}
	case 0x1:
		instr.Class = JP
	case 0x2:
		instr.Class = CALL
	case 0x3:
		instr.Class = SEB
	case 0x4:
		instr.Class = SNEB
	case 0x5:
		instr.Class = SE
	case 0x6:
		instr.Class = LDB
	case 0x7:
		instr.Class = ADDB
	case 0x8:
		switch op.N {
		case 0x0:
			instr.Class = LD
		case 0x1:
			instr.Class = OR
		case 0x2:
			instr.Class = AND
		case 0x3:
			instr.Class = XOR
		case 0x4:
			instr.Class = ADD
		case 0x5:
			instr.Class = SUB
		case 0x6:
			instr.Class = SHR
		case 0x7:
			instr.Class = SUBN
		case 0xe:
			instr.Class = SHL
		default:
			return instr, ErrUnknownOpcode
		}
	case 0x9:
		instr.Class = SNE
	case 0xa:
		instr.Class = LDI
	case 0xb:
		instr.Class = JPV
	case 0xc:
		instr.Class = RND
	case 0xd:
		instr.Class = DRW
	default:
		return instr, ErrUnknownOpcode
	}

	return instr, nil
}

// Name returns the mnemonic for the given instruction class.
// Returns false if the class is not recognized.
func Name(c Class) (string, bool) {
	switch c {
	case HALT:
		return "HALT", true
	case CLS:
		return "CLS", true
	case RET:
		return "RET", true
	case JP, JPV:
		return "JP", true
	case CALL:
		return "CALL", true
	case SEB, SE:
		return "SE", true
	case SNEB, SNE:
		return "SNE", true
	case LDB, LD, LDI:
		return "LD", true
	case ADDB, ADD:
		return "ADD", true
	case OR:
		return "OR", true
	case AND:
		return "AND", true
	case XOR:
		return "XOR", true
	case SUB:
		return "SUB", true
	case SHR:
		return "SHR", true
	case SUBN:
		return "SUBN", true
	case SHL:
		return "SHL", true
	case RND:
		return "RND", true
	case DRW:
		return "DRW", true
	}
	return "", false
}

// IsSkip returns true for the conditional skip classes.
func (c Class) IsSkip() bool {
	switch c {
	case SEB, SNEB, SE, SNE:
		return true
	}
	return false
}

// SetsFlag returns true if executing the class overwrites register VF
// with a flag outcome.
func (c Class) SetsFlag() bool {
	switch c {
	case ADD, SUB, SHR, SUBN, SHL, DRW:
		return true
	}
	return false
}

func (c Class) String() string {
	name, ok := Name(c)
	if !ok {
		return "???"
	}
	return name
}
