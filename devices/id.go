package devices

import "fmt"

// ID identifies a device.
// The upper 16 bits hold the device manufacturer id.
// The lower 16 bits hold the device serial number.
type ID uint32

// Well known device identifiers.
var (
	CPU           = NewID(0xfffe, 0x0001)
	GLDisplay     = NewID(0xfffe, 0x0002)
	TermDisplay   = NewID(0xfffe, 0x0003)
	EbitenDisplay = NewID(0xfffe, 0x0004)
	Clock         = NewID(0xfffe, 0x0005)
	Gamepad       = NewID(0xfffe, 0x0006)
)

// NewID creates a new id with the given components.
func NewID(manufacturer, serial int) ID {
	return ID(manufacturer&0xffff)<<16 | ID(serial&0xffff)
}

// Manufacturer returns the manufacturer component of the ID.
func (id ID) Manufacturer() int {
	return int(id>>16) & 0xffff
}

// Serial returns the device serial number component of the ID.
func (id ID) Serial() int {
	return int(id) & 0xffff
}

func (id ID) String() string {
	return fmt.Sprintf("%04x:%04x", id.Manufacturer(), id.Serial())
}
