package clock_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/hexaflex/c8vm/devices/fffe/clock"
	"github.com/hexaflex/c8vm/devices/fffe/cpu"
)

// manualTicker is an event source driven by the test.
type manualTicker struct {
	ch      chan time.Time
	stopped bool
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time)}
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               { t.stopped = true }

// fakeMachine counts calls and fails on demand.
type fakeMachine struct {
	steps int
	ticks int
	delay byte
	err   error
}

func (m *fakeMachine) Step() error {
	m.steps++
	return m.err
}

func (m *fakeMachine) TickTimers() {
	m.ticks++
	if m.delay > 0 {
		m.delay--
	}
}

func (m *fakeMachine) DelayTimer() byte { return m.delay }

var _ = Describe("Scheduler", func() {
	var (
		timer   *manualTicker
		instr   *manualTicker
		handled chan struct{}
		result  chan error
		ctx     context.Context
		cancel  context.CancelFunc
	)

	BeforeEach(func() {
		timer = newManualTicker()
		instr = newManualTicker()
		handled = make(chan struct{}, 64)
		result = make(chan error, 1)
		ctx, cancel = context.WithCancel(context.Background())
		DeferCleanup(cancel)
	})

	start := func(m clock.Machine, opts ...clock.Option) *clock.Scheduler {
		opts = append(opts,
			clock.WithTickers(timer, instr),
			clock.WithObserver(func() { handled <- struct{}{} }),
		)

		s := clock.New(m, opts...)
		go func() { result <- s.Run(ctx) }()
		return s
	}

	fire := func(t *manualTicker) {
		t.ch <- time.Time{}
		Eventually(handled).Should(Receive())
	}

	// program increments V0 in an endless loop.
	program := []byte{
		0x70, 0x01, // ADD V0, 0x01
		0x12, 0x00, // JP 0x200
	}

	newCPU := func() *cpu.CPU {
		c := cpu.New()
		Expect(c.Load(program)).To(Succeed())
		return c
	}

	Describe("delay gating", func() {
		It("holds the program counter while the delay timer runs", func() {
			c := newCPU()
			c.SetDelayTimer(3)
			s := start(c)

			for range 10 {
				fire(instr)
			}
			Expect(c.PC()).To(Equal(uint16(0x200)))
			Expect(s.Skipped()).To(Equal(uint64(10)))

			fire(timer)
			fire(timer)
			fire(instr)
			Expect(c.PC()).To(Equal(uint16(0x200)))
			Expect(c.DelayTimer()).To(Equal(byte(1)))

			fire(timer)
			Expect(c.DelayTimer()).To(BeZero())

			fire(instr)
			Expect(c.PC()).To(Equal(uint16(0x202)))
			Expect(c.V(0)).To(Equal(byte(1)))
			Expect(s.Cycles()).To(Equal(uint64(1)))
			Expect(s.Ticks()).To(Equal(uint64(3)))
		})

		It("keeps the delay timer at zero", func() {
			c := newCPU()
			start(c)

			for range 5 {
				fire(timer)
			}
			Expect(c.DelayTimer()).To(BeZero())
		})

		It("executes regardless of the delay timer when disabled", func() {
			c := newCPU()
			c.SetDelayTimer(200)
			s := start(c, clock.WithDelayGate(false))

			fire(instr)
			fire(instr)
			Expect(c.PC()).To(Equal(uint16(0x200)))
			Expect(c.V(0)).To(Equal(byte(1)))
			Expect(s.Skipped()).To(BeZero())
		})
	})

	Describe("termination", func() {
		It("treats a halt as a normal end of run", func() {
			c := cpu.New()
			Expect(c.Load([]byte{0x00, 0x00})).To(Succeed())
			start(c)

			instr.ch <- time.Time{}
			Eventually(result).Should(Receive(BeNil()))
			Expect(c.Halted()).To(BeTrue())
			Expect(timer.stopped).To(BeTrue())
			Expect(instr.stopped).To(BeTrue())
		})

		It("returns execution errors", func() {
			c := cpu.New()
			Expect(c.Load([]byte{0xf0, 0x0a})).To(Succeed())
			start(c)

			instr.ch <- time.Time{}

			var err error
			Eventually(result).Should(Receive(&err))

			var cerr *cpu.Error
			Expect(errors.As(err, &cerr)).To(BeTrue())
			Expect(cerr.Error()).To(Equal("200: f00a: unknown opcode"))
		})

		It("returns the machine error as is", func() {
			failure := errors.New("boom")
			start(&fakeMachine{err: failure})

			instr.ch <- time.Time{}
			Eventually(result).Should(Receive(MatchError(failure)))
		})

		It("stops when the context is cancelled", func() {
			start(&fakeMachine{})
			cancel()
			Eventually(result).Should(Receive(MatchError(context.Canceled)))
		})

		It("rejects invalid rates", func() {
			s := clock.New(&fakeMachine{}, clock.WithRate(0))
			Expect(s.Run(ctx)).To(MatchError(ContainSubstring("invalid clock rates")))

			s = clock.New(&fakeMachine{}, clock.WithTimerRate(-60))
			Expect(s.Run(ctx)).NotTo(Succeed())
		})
	})

	Describe("pausing", func() {
		It("ignores instruction events while paused", func() {
			m := &fakeMachine{}
			s := start(m)

			s.Pause()
			Expect(s.Paused()).To(BeTrue())
			fire(instr)
			fire(instr)
			fire(timer)
			Expect(m.steps).To(BeZero())
			Expect(m.ticks).To(Equal(1))
			Expect(s.Frequency()).To(BeZero())

			s.Step()
			Eventually(handled).Should(Receive())
			Expect(m.steps).To(Equal(1))

			s.TogglePause()
			Expect(s.Paused()).To(BeFalse())
			fire(instr)
			Expect(m.steps).To(Equal(2))
		})

		It("applies the delay gate to single steps", func() {
			m := &fakeMachine{delay: 1}
			s := start(m)
			s.Pause()

			s.Step()
			Eventually(handled).Should(Receive())
			Expect(m.steps).To(BeZero())
			Expect(s.Skipped()).To(Equal(uint64(1)))
		})

		It("discards step requests made before the run", func() {
			m := &fakeMachine{}
			s := clock.New(m,
				clock.WithTickers(timer, instr),
				clock.WithObserver(func() { handled <- struct{}{} }),
			)
			s.Pause()
			s.Step()

			go func() { result <- s.Run(ctx) }()
			fire(timer)
			fire(timer)
			Expect(m.steps).To(BeZero())
			Expect(m.ticks).To(Equal(2))

			s.Step()
			Eventually(handled).Should(Receive())
			Expect(m.steps).To(Equal(1))
		})
	})

	It("runs on wall clock tickers by default", func() {
		c := newCPU()
		s := clock.New(c, clock.WithRate(2000))

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		Expect(s.Run(ctx)).To(MatchError(context.DeadlineExceeded))
		Expect(s.Cycles()).To(BeNumerically(">", 0))
		Expect(s.Ticks()).To(BeNumerically(">", 0))
	})
})
