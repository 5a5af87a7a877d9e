// Package arch defines the system's instruction set along with
// some related helper functions.
package arch

// Opcode holds the addressing fields of a single 16-bit instruction word.
// Every word decomposes validly; a given instruction class simply ignores
// the fields it has no use for.
type Opcode struct {
	Raw uint16 // Raw instruction word.
	NNN uint16 // Address in bits 0-11.
	X   uint8  // Register index in bits 8-11.
	Y   uint8  // Register index in bits 4-7.
	N   uint8  // Nibble in bits 0-3.
	KK  uint8  // Byte literal in bits 0-7.
}

// NewOpcode extracts the addressing fields from raw.
func NewOpcode(raw uint16) Opcode {
	return Opcode{
		Raw: raw,
		X:   uint8(raw>>8) & 0xf,
		Y:   uint8(raw>>4) & 0xf,
		N:   uint8(raw) & 0xf,
		NNN: raw & 0xfff,
		KK:  uint8(raw),
	}
}

// Family returns the highest nibble of the word.
func (o Opcode) Family() uint8 {
	return uint8(o.Raw >> 12)
}
