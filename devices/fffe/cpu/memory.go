package cpu

import "github.com/hexaflex/c8vm/arch"

const addrMask = arch.MemorySize - 1

// Memory defines the system's memory bank.
// Addresses wrap around the end of the address space.
type Memory [arch.MemorySize]byte

// U8 returns the byte at the given address.
func (m *Memory) U8(addr int) byte {
	return m[addr&addrMask]
}

// SetU8 sets the byte at the given address.
func (m *Memory) SetU8(addr int, value byte) {
	m[addr&addrMask] = value
}

// U16 returns the big-endian 16-bit value at the given address.
func (m *Memory) U16(addr int) uint16 {
	return uint16(m.U8(addr))<<8 | uint16(m.U8(addr+1))
}

// Write writes len(p) bytes from p into memory, starting at the given address.
func (m *Memory) Write(addr int, p []byte) {
	for i, b := range p {
		m.SetU8(addr+i, b)
	}
}

// Read reads len(p) bytes from memory into p, starting at the given address.
func (m *Memory) Read(addr int, p []byte) {
	for i := range p {
		p[i] = m.U8(addr + i)
	}
}

// reset clears memory and installs the font table.
func (m *Memory) reset() {
	*m = Memory{}
	font := arch.Font()
	copy(m[arch.FontAddress:], font[:])
}
