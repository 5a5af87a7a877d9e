package cpu

import (
	"github.com/hexaflex/c8vm/arch"
	"github.com/hexaflex/c8vm/display"
)

// State is a point-in-time copy of the CPU registers.
type State struct {
	V      [arch.RegisterCount]byte
	Stack  []uint16
	I      uint16
	PC     uint16
	Delay  byte
	Sound  byte
	Halted bool
}

// State returns a copy of the current register state.
func (c *CPU) State() State {
	return State{
		V:      c.v,
		Stack:  append([]uint16(nil), c.stack...),
		I:      c.i,
		PC:     c.pc,
		Delay:  c.delay,
		Sound:  c.sound,
		Halted: c.halted,
	}
}

// PC returns the program counter.
func (c *CPU) PC() uint16 { return c.pc }

// I returns the address register.
func (c *CPU) I() uint16 { return c.i }

// V returns general purpose register n.
func (c *CPU) V(n int) byte { return c.v[n&0xf] }

// DelayTimer returns the delay timer.
func (c *CPU) DelayTimer() byte { return c.delay }

// SetDelayTimer sets the delay timer.
func (c *CPU) SetDelayTimer(v byte) { c.delay = v }

// SoundTimer returns the sound timer.
func (c *CPU) SoundTimer() byte { return c.sound }

// SetSoundTimer sets the sound timer.
func (c *CPU) SetSoundTimer(v byte) { c.sound = v }

// StackDepth returns the number of pending return addresses.
func (c *CPU) StackDepth() int { return len(c.stack) }

// Halted returns true once a HALT instruction has executed.
func (c *CPU) Halted() bool { return c.halted }

// Fault returns the error which ended execution, if any.
func (c *CPU) Fault() error { return c.fault }

// LegacyShift returns true if the legacy shift dialect is selected.
func (c *CPU) LegacyShift() bool { return c.legacyShift }

// Frame returns a snapshot of the frame buffer.
func (c *CPU) Frame() display.Buffer { return c.frame }

// ReadMemory reads len(p) bytes from memory into p, starting at the given address.
func (c *CPU) ReadMemory(addr int, p []byte) { c.memory.Read(addr, p) }
