// Package vm ties the CPU and its scheduler into a machine which can be
// started, paused, single-stepped and reloaded by a frontend.
package vm

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/hexaflex/c8vm/devices"
	"github.com/hexaflex/c8vm/devices/fffe/clock"
	"github.com/hexaflex/c8vm/devices/fffe/cpu"
	"github.com/hexaflex/c8vm/rom"
)

// Config defines machine configuration.
type Config struct {
	Rate        float64 // Instructions per second.
	TimerRate   float64 // Timer decrements per second.
	LegacyShift bool    // Shift Vy into Vx instead of shifting Vx in place.
	DelayGate   bool    // Suspend execution while the delay timer runs.
	Seed        int64   // Random number seed. Zero picks a time based seed.
	Trace       bool    // Log every executed instruction.
}

// DefaultConfig returns the reference machine configuration.
func DefaultConfig() Config {
	return Config{
		Rate:      clock.DefaultRate,
		TimerRate: clock.DefaultTimerRate,
		DelayGate: true,
	}
}

// VM runs a program on a CPU.
type VM struct {
	config   Config
	cpu      *cpu.CPU
	sched    *clock.Scheduler
	image    *rom.Image
	observer func(*cpu.CPU)
	trace    atomic.Bool

	m      sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// New creates a machine with the given peripherals connected.
// The observer, if not nil, is called on the scheduler goroutine after
// every clock event and may inspect the CPU.
func New(config Config, observer func(*cpu.CPU), devs ...devices.Device) *VM {
	v := &VM{
		config:   config,
		observer: observer,
	}

	opts := []cpu.Option{
		cpu.WithLegacyShift(config.LegacyShift),
		cpu.WithTrace(v.printTrace),
	}
	if config.Seed != 0 {
		opts = append(opts, cpu.WithSeed(config.Seed))
	}

	v.cpu = cpu.New(opts...)
	for _, dev := range devs {
		if !v.cpu.Connect(dev) {
			log.Println(dev.ID(), "already connected")
		}
	}

	v.sched = clock.New(v.cpu,
		clock.WithRate(config.Rate),
		clock.WithTimerRate(config.TimerRate),
		clock.WithDelayGate(config.DelayGate),
		clock.WithObserver(v.observe),
	)

	v.trace.Store(config.Trace)
	return v
}

// CPU returns the machine's CPU. It must not be used while the machine runs,
// except from the observer.
func (v *VM) CPU() *cpu.CPU {
	return v.cpu
}

// Startup initializes the CPU and its peripherals.
func (v *VM) Startup() error {
	return v.cpu.Startup()
}

// Shutdown stops the machine and disposes of peripheral resources.
func (v *VM) Shutdown() error {
	v.Stop()
	return v.cpu.Shutdown()
}

// Load stops the machine, resets it and copies img into memory.
func (v *VM) Load(img *rom.Image) error {
	v.Stop()

	if err := img.LoadInto(v.cpu); err != nil {
		return err
	}

	log.Printf("loaded %s (%d bytes)", img.Name, img.Size())
	v.image = img
	return nil
}

// Reload restarts the most recently loaded program.
func (v *VM) Reload(ctx context.Context) error {
	if v.image == nil {
		return errors.New("no program loaded")
	}

	if err := v.Load(v.image); err != nil {
		return err
	}

	return v.Start(ctx)
}

// Start runs the scheduler on a new goroutine. It fails if the machine
// is already running.
func (v *VM) Start(ctx context.Context) error {
	v.m.Lock()
	defer v.m.Unlock()

	if v.done != nil {
		select {
		case <-v.done:
		default:
			return errors.New("machine is already running")
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	v.cancel = cancel
	v.done = done
	v.err = nil

	go func() {
		err := v.sched.Run(ctx)

		switch {
		case err == nil:
			log.Println("program halted")
		case errors.Is(err, context.Canceled):
			err = nil
		default:
			log.Println(err)
		}

		v.m.Lock()
		v.err = err
		v.m.Unlock()
		close(done)
	}()

	return nil
}

// Stop ends a running scheduler and waits for it to return.
func (v *VM) Stop() {
	v.m.Lock()
	cancel, done := v.cancel, v.done
	v.cancel, v.done = nil, nil
	v.m.Unlock()

	if done == nil {
		return
	}

	cancel()
	<-done
}

// Done returns a channel which is closed when the current run ends.
// It returns nil if the machine is not running.
func (v *VM) Done() <-chan struct{} {
	v.m.Lock()
	defer v.m.Unlock()
	return v.done
}

// Err returns the error which ended the last run, if any.
// A halt or a Stop is not an error.
func (v *VM) Err() error {
	v.m.Lock()
	defer v.m.Unlock()
	return v.err
}

// TogglePause pauses or resumes instruction execution.
func (v *VM) TogglePause() {
	v.sched.TogglePause()
	if v.sched.Paused() {
		log.Println("paused")
	} else {
		log.Println("resumed")
	}
}

// Pause stops instruction execution. Timers keep running.
func (v *VM) Pause() { v.sched.Pause() }

// Paused returns true if instruction execution is paused.
func (v *VM) Paused() bool { return v.sched.Paused() }

// Step executes a single instruction while paused.
func (v *VM) Step() { v.sched.Step() }

// ToggleTrace enables or disables instruction tracing.
func (v *VM) ToggleTrace() {
	v.trace.Store(!v.trace.Load())
}

// Tracing returns true if instruction tracing is enabled.
func (v *VM) Tracing() bool {
	return v.trace.Load()
}

// Frequency returns the measured instruction rate in herz.
func (v *VM) Frequency() float64 {
	return v.sched.Frequency()
}

// Scheduler returns the machine's scheduler.
func (v *VM) Scheduler() *clock.Scheduler {
	return v.sched
}

func (v *VM) observe() {
	if v.observer != nil {
		v.observer(v.cpu)
	}
}

// printTrace logs the given instruction if tracing is enabled.
func (v *VM) printTrace(i *cpu.Instruction) {
	if !v.trace.Load() {
		return
	}

	log.Printf("%03x %04x  %s", i.PC, i.Opcode.Raw, i.Instruction.String())
}
