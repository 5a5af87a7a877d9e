package arch

import "fmt"

// Memory layout.
const (
	MemorySize    = 0x1000                    // Size of the flat address space.
	ProgramStart  = 0x200                     // Address of the first loadable byte.
	ProgramSize   = MemorySize - ProgramStart // Capacity of the loadable region.
	InstrSize     = 2                         // Size of an instruction word in bytes.
	RegisterCount = 16                        // Number of general purpose registers.
	VF            = 0xf                       // Index of the flag register.
)

// RegisterName returns the name associated with the given general purpose
// register index. Returns "" if the index is not recognized.
func RegisterName(n int) string {
	if n < 0 || n >= RegisterCount {
		return ""
	}
	return fmt.Sprintf("V%X", n)
}
