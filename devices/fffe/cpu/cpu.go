// Package cpu implements the machine state and the instruction execution engine.
package cpu

import (
	"io"
	"log"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/hexaflex/c8vm/arch"
	"github.com/hexaflex/c8vm/devices"
	"github.com/hexaflex/c8vm/display"
)

// TraceFunc represents a callback handler for debug trace output.
// It is called for every decoded instruction, before it is executed.
type TraceFunc func(*Instruction)

// Instruction defines decoded instruction data.
type Instruction struct {
	arch.Instruction
	PC uint16 // Address the instruction was fetched from.
}

// CPU owns the complete machine state and executes instructions against it.
type CPU struct {
	devices     devices.Map    // Connected peripherals.
	trace       TraceFunc      // Handler for debug trace output.
	rng         *rand.Rand     // Source for RND.
	memory      Memory         // System memory.
	frame       display.Buffer // Frame buffer.
	stack       []uint16       // Return addresses.
	instr       Instruction    // Decoded instruction data.
	v           [arch.RegisterCount]byte
	i           uint16
	pc          uint16
	delay       byte
	sound       byte
	halted      bool
	fault       error  // Fatal error which ended execution.
	legacyShift bool   // Copy VY into VX before shifting.
	initialized uint32 // Have the peripherals been started?
}

// Option configures a CPU at creation time.
type Option func(*CPU)

// WithLegacyShift selects the shift dialect which first copies VY into VX.
func WithLegacyShift(v bool) Option {
	return func(c *CPU) {
		c.legacyShift = v
	}
}

// WithSeed seeds the random number source used by RND.
func WithSeed(seed int64) Option {
	return func(c *CPU) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand sets the random number source used by RND.
func WithRand(rng *rand.Rand) Option {
	return func(c *CPU) {
		c.rng = rng
	}
}

// WithTrace sets the debug trace handler.
func WithTrace(trace TraceFunc) Option {
	return func(c *CPU) {
		c.trace = trace
	}
}

// New creates a new CPU with the font table loaded and all registers cleared.
func New(opts ...Option) *CPU {
	c := &CPU{
		trace: func(*Instruction) { /* nop */ },
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.trace == nil {
		c.trace = func(*Instruction) { /* nop */ }
	}

	c.Reset()
	return c
}

// ID returns the cpu's device ID.
func (c *CPU) ID() devices.ID {
	return devices.CPU
}

// Connect connects the given hardware peripheral to the system.
// Returns false if the given device type is already connected.
func (c *CPU) Connect(dev devices.Device) bool {
	return c.devices.Connect(dev)
}

// Startup initializes connected peripherals.
// Returns an error if the cpu was already started. Use Shutdown() first.
func (c *CPU) Startup() error {
	if !atomic.CompareAndSwapUint32(&c.initialized, 0, 1) {
		return errors.New(c.ID().String() + " is already started")
	}

	log.Println(c.ID(), "startup")
	if err := c.devices.Startup(); err != nil {
		return err
	}

	c.devices.Refresh(&c.frame)
	return nil
}

// Shutdown cleans up peripheral resources.
func (c *CPU) Shutdown() error {
	if !atomic.CompareAndSwapUint32(&c.initialized, 1, 0) {
		return nil
	}
	log.Println(c.ID(), "shutdown")
	return c.devices.Shutdown()
}

// Reset returns the machine to its power-on state: memory holds only the font
// table, registers, timers and call stack are cleared, the frame buffer is
// blank and the program counter points at the program region.
// The shift dialect is retained. Connected screens receive the blank frame.
func (c *CPU) Reset() {
	c.memory.reset()
	c.frame.Clear()
	c.stack = c.stack[:0]
	c.v = [arch.RegisterCount]byte{}
	c.i = 0
	c.pc = arch.ProgramStart
	c.delay = 0
	c.sound = 0
	c.halted = false
	c.fault = nil
	c.devices.Refresh(&c.frame)
}

// Load copies the given program image into the program region.
// Images which do not fit are rejected and leave memory untouched.
func (c *CPU) Load(image []byte) error {
	if err := CheckImage(image); err != nil {
		return err
	}

	c.memory.Write(arch.ProgramStart, image)
	return nil
}

// CheckImage returns an error wrapping ErrImageTooLarge if image does not
// fit into the program region.
func CheckImage(image []byte) error {
	if len(image) > arch.ProgramSize {
		return errors.Wrapf(ErrImageTooLarge, "%d bytes exceeds the %d available", len(image), arch.ProgramSize)
	}
	return nil
}

// Step performs a single fetch-decode-execute cycle.
// Returns io.EOF if the program has halted. A failed instruction ends
// execution: every later call returns the same error until Reset.
func (c *CPU) Step() error {
	if c.halted {
		return io.EOF
	}
	if c.fault != nil {
		return c.fault
	}

	instr := &c.instr
	instr.PC = c.pc

	var err error
	instr.Instruction, err = arch.Decode(c.fetch())
	if err != nil {
		c.fault = NewError(instr, err)
		return c.fault
	}

	c.trace(instr)

	err = c.execute(instr)
	if err != nil && err != io.EOF {
		c.fault = err
	}
	return err
}

// TickTimers decrements the delay and sound timers, each stopping at zero.
func (c *CPU) TickTimers() {
	if c.delay > 0 {
		c.delay--
	}
	if c.sound > 0 {
		c.sound--
	}
}

// fetch reads the instruction word at the program counter and advances it.
func (c *CPU) fetch() uint16 {
	word := c.memory.U16(int(c.pc))
	c.pc += arch.InstrSize
	return word
}

// skip advances the program counter past the next instruction.
func (c *CPU) skip(cond bool) {
	if cond {
		c.pc += arch.InstrSize
	}
}

func (c *CPU) execute(instr *Instruction) error {
	op := instr.Opcode
	v := &c.v

	switch instr.Class {
	case arch.HALT:
		c.halted = true
		return io.EOF

	case arch.CLS:
		c.frame.Clear()
		c.devices.Refresh(&c.frame)

	case arch.RET:
		n := len(c.stack)
		if n == 0 {
			return NewError(instr, ErrStackUnderflow)
		}
		c.pc = c.stack[n-1]
		c.stack = c.stack[:n-1]

	case arch.JP:
		return c.jump(instr, op.NNN)
	case arch.CALL:
		if op.NNN&1 != 0 {
			return NewError(instr, ErrMisalignedJump)
		}
		c.stack = append(c.stack, c.pc)
		c.pc = op.NNN
	case arch.JPV:
		return c.jump(instr, op.NNN+uint16(v[0]))

	case arch.SEB:
		c.skip(v[op.X] == op.KK)
	case arch.SNEB:
		c.skip(v[op.X] != op.KK)
	case arch.SE:
		c.skip(v[op.X] == v[op.Y])
	case arch.SNE:
		c.skip(v[op.X] != v[op.Y])

	case arch.LDB:
		v[op.X] = op.KK
	case arch.ADDB:
		v[op.X] += op.KK
	case arch.LD:
		v[op.X] = v[op.Y]
	case arch.OR:
		v[op.X] |= v[op.Y]
	case arch.AND:
		v[op.X] &= v[op.Y]
	case arch.XOR:
		v[op.X] ^= v[op.Y]

	case arch.ADD:
		carry, sum := addCarry(v[op.X], v[op.Y])
		v[op.X] = sum
		v[arch.VF] = carry
	case arch.SUB:
		borrow, diff := subBorrow(v[op.X], v[op.Y])
		v[op.X] = diff
		v[arch.VF] = borrow ^ 1
	case arch.SUBN:
		borrow, diff := subBorrow(v[op.Y], v[op.X])
		v[op.X] = diff
		v[arch.VF] = borrow ^ 1
	case arch.SHR:
		if c.legacyShift {
			v[op.X] = v[op.Y]
		}
		val := v[op.X]
		out := shiftRight(&val)
		v[op.X] = val
		v[arch.VF] = out
	case arch.SHL:
		if c.legacyShift {
			v[op.X] = v[op.Y]
		}
		val := v[op.X]
		out := shiftLeft(&val)
		v[op.X] = val
		v[arch.VF] = out

	case arch.LDI:
		c.i = op.NNN
	case arch.RND:
		v[op.X] = byte(c.rng.Intn(256)) & op.KK

	case arch.DRW:
		var sprite [15]byte
		rows := sprite[:op.N]
		c.memory.Read(int(c.i), rows)

		x := int(v[op.X] % display.Width)
		y := int(v[op.Y] % display.Height)
		v[arch.VF] = _bool(c.frame.Draw(rows, x, y))
		c.devices.Refresh(&c.frame)

	default:
		return NewError(instr, arch.ErrUnknownOpcode)
	}

	return nil
}

// jump sets the program counter to addr. Odd targets are rejected since
// instructions are fetched from even addresses only.
func (c *CPU) jump(instr *Instruction, addr uint16) error {
	if addr&1 != 0 {
		return NewError(instr, ErrMisalignedJump)
	}
	c.pc = addr
	return nil
}

// IsHalt returns true if err reports a normal end of program.
func IsHalt(err error) bool {
	return errors.Is(err, io.EOF)
}
