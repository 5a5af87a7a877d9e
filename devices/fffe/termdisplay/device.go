// Package termdisplay implements a terminal machine monitor. It presents the
// frame buffer next to the register state and a log pane.
package termdisplay

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/hexaflex/c8vm/arch"
	"github.com/hexaflex/c8vm/devices"
	"github.com/hexaflex/c8vm/devices/fffe/cpu"
	"github.com/hexaflex/c8vm/display"
)

// DefaultFrameRate is the number of screen updates per second.
const DefaultFrameRate = 30

// Device is a tview application hosting the monitor panes.
//
// Refresh and Inspect may be called from any goroutine. They only store
// the given snapshot; the application goroutine picks it up on its next
// frame.
type Device struct {
	mu     sync.Mutex
	frame  display.Buffer
	state  cpu.State
	status string
	dirty  bool

	app       *tview.Application
	screen    tcell.Screen
	frameView *tview.TextView
	stateView *tview.TextView
	logView   *tview.TextView
	keys      map[rune]func()
	onQuit    func()
	frameRate int
	stop      chan struct{}
	stopOnce  sync.Once
}

var _ devices.Screen = &Device{}

// Option configures a Device.
type Option func(*Device)

// WithScreen makes the monitor draw to the given screen instead of the
// controlling terminal.
func WithScreen(s tcell.Screen) Option {
	return func(d *Device) {
		d.screen = s
	}
}

// WithFrameRate sets the number of screen updates per second.
func WithFrameRate(fps int) Option {
	return func(d *Device) {
		d.frameRate = fps
	}
}

// WithQuit sets a function called when the user closes the monitor.
func WithQuit(f func()) Option {
	return func(d *Device) {
		d.onQuit = f
	}
}

// New creates a new monitor.
func New(opts ...Option) *Device {
	d := &Device{
		keys:      make(map[rune]func()),
		onQuit:    func() { /* nop */ },
		frameRate: DefaultFrameRate,
		stop:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(d)
	}

	d.frameView = tview.NewTextView().SetWrap(false)
	d.frameView.SetTitle("Display").SetBorder(true)

	d.stateView = tview.NewTextView().SetWrap(false)
	d.stateView.SetTitle("Registers").SetBorder(true)

	d.logView = tview.NewTextView().SetScrollable(true)
	d.logView.SetTitle("Log").SetBorder(true)
	d.logView.ScrollToEnd()

	top := tview.NewFlex().
		AddItem(d.frameView, display.Width+2, 0, false).
		AddItem(d.stateView, 0, 1, false)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(top, display.Height/2+2, 0, false).
		AddItem(d.logView, 0, 1, false)

	d.app = tview.NewApplication().SetRoot(root, true)
	d.app.SetInputCapture(d.handleKey)
	return d
}

// ID returns the device identifier.
func (d *Device) ID() devices.ID {
	return devices.TermDisplay
}

// Startup initializes device resources.
func (d *Device) Startup() error {
	if d.screen != nil {
		d.app.SetScreen(d.screen)
	}
	return nil
}

// Shutdown stops the monitor.
func (d *Device) Shutdown() error {
	d.Stop()
	return nil
}

// Bind sets the function called when key r is pressed.
func (d *Device) Bind(r rune, f func()) {
	d.keys[r] = f
}

// Log returns a writer whose output appears in the log pane.
func (d *Device) Log() io.Writer {
	return d.logView
}

// Refresh stores the given frame for the next screen update.
func (d *Device) Refresh(fb display.Buffer) {
	d.mu.Lock()
	d.frame = fb
	d.dirty = true
	d.mu.Unlock()
}

// Inspect stores the register state and a status line for the next
// screen update.
func (d *Device) Inspect(s cpu.State, status string) {
	d.mu.Lock()
	d.state = s
	d.status = status
	d.dirty = true
	d.mu.Unlock()
}

// Run presents the monitor until Stop is called or the user quits.
func (d *Device) Run() error {
	go d.poll()
	defer d.Stop()
	return d.app.Run()
}

// Stop ends Run.
func (d *Device) Stop() {
	d.stopOnce.Do(func() {
		close(d.stop)
		d.app.Stop()
	})
}

// poll schedules a redraw whenever new snapshots are pending.
func (d *Device) poll() {
	ticker := time.NewTicker(time.Second / time.Duration(max(d.frameRate, 1)))
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			d.app.QueueUpdateDraw(d.update)
		}
	}
}

// update copies pending snapshots into the views. It runs on the
// application goroutine.
func (d *Device) update() {
	d.mu.Lock()
	if !d.dirty {
		d.mu.Unlock()
		return
	}

	frame := d.frame
	state := d.state
	status := d.status
	d.dirty = false
	d.mu.Unlock()

	d.frameView.SetText(RenderFrame(&frame))
	d.stateView.SetText(RenderState(&state) + "\n" + status)
}

func (d *Device) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		d.onQuit()
		d.Stop()
		return nil
	case tcell.KeyRune:
		if f, ok := d.keys[ev.Rune()]; ok {
			f()
			return nil
		}
	}
	return ev
}

// halfBlocks maps a pair of vertically stacked pixels (top<<1 | bottom) to
// the character presenting them in one terminal cell.
var halfBlocks = [4]rune{' ', '▄', '▀', '█'}

// RenderFrame renders fb with two pixel rows per line of text.
func RenderFrame(fb *display.Buffer) string {
	var sb strings.Builder
	sb.Grow(display.Height / 2 * (display.Width*3 + 1))

	for y := 0; y < display.Height; y += 2 {
		for x := range display.Width {
			var n int
			if fb[y][x] {
				n |= 2
			}
			if fb[y+1][x] {
				n |= 1
			}
			sb.WriteRune(halfBlocks[n])
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

// RenderState renders the register state as text.
func RenderState(s *cpu.State) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "PC %03x   I %03x\n", s.PC, s.I)
	fmt.Fprintf(&sb, "DT %02x    ST %02x\n\n", s.Delay, s.Sound)

	for n := 0; n < arch.RegisterCount; n += 2 {
		fmt.Fprintf(&sb, "%-3s %02x   %-3s %02x\n",
			arch.RegisterName(n), s.V[n],
			arch.RegisterName(n+1), s.V[n+1])
	}

	fmt.Fprintf(&sb, "\nStack %d", len(s.Stack))
	for _, addr := range s.Stack {
		fmt.Fprintf(&sb, " %03x", addr)
	}

	if s.Halted {
		sb.WriteString("\n\nHALTED")
	}

	return sb.String()
}
