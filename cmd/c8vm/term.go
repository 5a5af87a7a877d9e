package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/hexaflex/c8vm/devices/fffe/cpu"
	"github.com/hexaflex/c8vm/devices/fffe/termdisplay"
	"github.com/hexaflex/c8vm/rom"
	"github.com/hexaflex/c8vm/vm"
)

// runTerminal runs the machine inside a terminal monitor.
func runTerminal(config *Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mon := termdisplay.New()

	// The observer runs on the scheduler goroutine for every clock event.
	// Only hand the monitor a new snapshot at its frame rate.
	var machine *vm.VM
	var lastInspect atomic.Int64
	observer := func(c *cpu.CPU) {
		now := time.Now().UnixNano()
		if now-lastInspect.Load() < int64(time.Second/termdisplay.DefaultFrameRate) {
			return
		}
		lastInspect.Store(now)
		mon.Inspect(c.State(), terminalStatus(machine))
	}

	machine = vm.New(config.Machine(), observer, mon)

	load := func() error {
		img, err := rom.Open(config.Image)
		if err != nil {
			return err
		}
		if err := machine.Load(img); err != nil {
			return err
		}
		if config.Paused {
			machine.Pause()
		}
		mon.Inspect(machine.CPU().State(), terminalStatus(machine))
		return machine.Start(ctx)
	}

	mon.Bind('q', machine.TogglePause)
	mon.Bind('e', machine.Step)
	mon.Bind('d', machine.ToggleTrace)
	mon.Bind('r', func() {
		if err := load(); err != nil {
			log.Println(err)
		}
	})

	log.SetOutput(mon.Log())
	defer log.SetOutput(os.Stderr)

	log.Println(Version())
	log.Println("keys: ESC quit, q pause/resume, e step, d trace, r reload")

	if err := machine.Startup(); err != nil {
		return err
	}

	defer func() {
		if err := machine.Shutdown(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}()

	if err := load(); err != nil {
		return err
	}

	return mon.Run()
}

// terminalStatus describes the machine state for the register pane.
func terminalStatus(v *vm.VM) string {
	var state string
	switch {
	case v.Paused():
		state = "paused"
	default:
		state = prettyFrequency(v.Frequency())
	}

	if v.Tracing() {
		state += ", tracing"
	}

	s := v.Scheduler()
	return fmt.Sprintf("%s\ncycles %d\nskipped %d\nticks %d", state, s.Cycles(), s.Skipped(), s.Ticks())
}
