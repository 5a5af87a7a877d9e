// Package clock implements the dual-clock scheduler which paces instruction
// execution and timer decrements.
package clock

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// Default clock rates in herz.
const (
	DefaultRate      = 700
	DefaultTimerRate = 60
)

// Machine is the part of the CPU driven by the scheduler.
type Machine interface {
	// Step performs one fetch-decode-execute cycle.
	// It returns io.EOF when the program halts.
	Step() error

	// TickTimers decrements the delay and sound timers.
	TickTimers()

	// DelayTimer returns the current delay timer value.
	DelayTimer() byte
}

// Ticker delivers periodic events.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Scheduler multiplexes the timer clock and the instruction clock onto a
// single goroutine. Every event is handled to completion before the next
// one is awaited, so the machine is never accessed concurrently.
type Scheduler struct {
	machine   Machine
	observer  func()
	newTicker func(time.Duration) Ticker
	timer     Ticker
	cpu       Ticker
	stepReq   chan struct{}
	rate      float64
	timerRate float64
	delayGate bool

	paused  atomic.Bool
	start   atomic.Int64
	cycles  atomic.Uint64
	skipped atomic.Uint64
	ticks   atomic.Uint64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithRate sets the instruction clock rate in instructions per second.
func WithRate(hz float64) Option {
	return func(s *Scheduler) {
		s.rate = hz
	}
}

// WithTimerRate sets the timer clock rate in herz.
func WithTimerRate(hz float64) Option {
	return func(s *Scheduler) {
		s.timerRate = hz
	}
}

// WithDelayGate determines if instruction clock events are ignored while the
// delay timer is nonzero.
func WithDelayGate(v bool) Option {
	return func(s *Scheduler) {
		s.delayGate = v
	}
}

// WithTickers replaces the wall clock tickers with the given event sources.
func WithTickers(timer, cpu Ticker) Option {
	return func(s *Scheduler) {
		s.timer = timer
		s.cpu = cpu
	}
}

// WithObserver sets a function which is called on the scheduler goroutine
// after every handled event. It may inspect the machine safely.
func WithObserver(f func()) Option {
	return func(s *Scheduler) {
		s.observer = f
	}
}

// New creates a scheduler for the given machine.
func New(m Machine, opts ...Option) *Scheduler {
	s := &Scheduler{
		machine:   m,
		observer:  func() { /* nop */ },
		newTicker: newTimeTicker,
		stepReq:   make(chan struct{}, 1),
		rate:      DefaultRate,
		timerRate: DefaultTimerRate,
		delayGate: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run drives the machine until it halts, fails or ctx is cancelled.
// A halt is a normal end of the run and yields a nil error.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.rate <= 0 || s.timerRate <= 0 {
		return errors.Errorf("invalid clock rates: %v Hz cpu, %v Hz timer", s.rate, s.timerRate)
	}

	timer, cpu := s.timer, s.cpu
	if timer == nil {
		timer = s.newTicker(period(s.timerRate))
	}
	if cpu == nil {
		cpu = s.newTicker(period(s.rate))
	}
	defer timer.Stop()
	defer cpu.Stop()

	s.reset()

	// Step requests made before this run are stale.
	select {
	case <-s.stepReq:
	default:
	}

	for {
		var err error

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C():
			s.ticks.Add(1)
			s.machine.TickTimers()
		case <-cpu.C():
			if !s.paused.Load() {
				err = s.step()
			}
		case <-s.stepReq:
			err = s.step()
		}

		s.observer()

		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// step executes one instruction unless the delay timer gates execution.
func (s *Scheduler) step() error {
	if s.delayGate && s.machine.DelayTimer() != 0 {
		s.skipped.Add(1)
		return nil
	}

	s.cycles.Add(1)
	return s.machine.Step()
}

// Step requests a single instruction while the scheduler is paused.
// It does not block; a request made while another is pending is dropped.
func (s *Scheduler) Step() {
	select {
	case s.stepReq <- struct{}{}:
	default:
	}
}

// Pause stops instruction clock events from executing instructions.
// The timer clock keeps running.
func (s *Scheduler) Pause() {
	s.paused.Store(true)
}

// Resume undoes Pause.
func (s *Scheduler) Resume() {
	s.reset()
	s.paused.Store(false)
}

// TogglePause pauses a running scheduler or resumes a paused one.
func (s *Scheduler) TogglePause() {
	if s.paused.Load() {
		s.Resume()
	} else {
		s.Pause()
	}
}

// Paused returns true if instruction execution is paused.
func (s *Scheduler) Paused() bool {
	return s.paused.Load()
}

// Cycles returns the number of executed instructions since the last start
// or resume.
func (s *Scheduler) Cycles() uint64 {
	return s.cycles.Load()
}

// Skipped returns the number of instruction clock events ignored because the
// delay timer was running.
func (s *Scheduler) Skipped() uint64 {
	return s.skipped.Load()
}

// Ticks returns the number of handled timer clock events.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks.Load()
}

// Frequency returns the measured instruction rate in herz.
func (s *Scheduler) Frequency() float64 {
	if s.paused.Load() {
		return 0
	}

	elapsed := time.Since(time.Unix(0, s.start.Load())).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(s.cycles.Load()) / elapsed
}

func (s *Scheduler) reset() {
	s.start.Store(time.Now().UnixNano())
	s.cycles.Store(0)
}

// period returns the interval between events of a clock running at hz.
func period(hz float64) time.Duration {
	return time.Duration(float64(time.Second) / hz)
}

type timeTicker struct {
	t *time.Ticker
}

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{time.NewTicker(d)}
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }
