// Package ebitendisplay presents the frame buffer in an ebiten game window.
package ebitendisplay

import (
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/errors"

	"github.com/hexaflex/c8vm/devices"
	"github.com/hexaflex/c8vm/display"
)

// Default pixel colors.
var (
	DefaultOn  = color.RGBA{0xe0, 0xf0, 0xd0, 0xff}
	DefaultOff = color.RGBA{0x10, 0x18, 0x10, 0xff}
)

// ErrQuit is returned by Update when the user closes the window.
var ErrQuit = errors.New("quit")

// Device implements ebiten.Game over the most recent frame snapshot.
type Device struct {
	mu     sync.Mutex
	frame  display.Buffer
	dirty  bool
	pixels []byte
	image  *ebiten.Image
	on     color.RGBA
	off    color.RGBA
	keys   map[ebiten.Key]func()
	title  func() string
}

var (
	_ devices.Screen = &Device{}
	_ ebiten.Game    = &Device{}
)

// New creates a new device which draws lit pixels in color on and dark
// pixels in color off.
func New(on, off color.Color) *Device {
	return &Device{
		pixels: make([]byte, display.Width*display.Height*4),
		on:     color.RGBAModel.Convert(on).(color.RGBA),
		off:    color.RGBAModel.Convert(off).(color.RGBA),
		keys:   make(map[ebiten.Key]func()),
		dirty:  true,
	}
}

// ID returns the device identifier.
func (d *Device) ID() devices.ID {
	return devices.EbitenDisplay
}

// Startup initializes device resources.
func (d *Device) Startup() error {
	return nil
}

// Shutdown clears up device resources.
func (d *Device) Shutdown() error {
	if d.image != nil {
		d.image.Deallocate()
		d.image = nil
	}
	return nil
}

// Bind sets the function called when key k is pressed.
func (d *Device) Bind(k ebiten.Key, f func()) {
	d.keys[k] = f
}

// SetTitleFunc sets a function producing the window title. It is polled
// once per update.
func (d *Device) SetTitleFunc(f func() string) {
	d.title = f
}

// Refresh stores the given frame for the next Draw.
func (d *Device) Refresh(fb display.Buffer) {
	d.mu.Lock()
	d.frame = fb
	d.dirty = true
	d.mu.Unlock()
}

// Update handles input.
func (d *Device) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ErrQuit
	}

	for k, f := range d.keys {
		if inpututil.IsKeyJustPressed(k) {
			f()
		}
	}

	if d.title != nil {
		ebiten.SetWindowTitle(d.title())
	}

	return nil
}

// Draw renders the display contents.
func (d *Device) Draw(screen *ebiten.Image) {
	if d.image == nil {
		d.image = ebiten.NewImage(display.Width, display.Height)
	}

	d.mu.Lock()
	if d.dirty {
		d.pack(&d.frame)
		d.dirty = false
		d.mu.Unlock()
		d.image.WritePixels(d.pixels)
	} else {
		d.mu.Unlock()
	}

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(sw)/display.Width, float64(sh)/display.Height)
	screen.DrawImage(d.image, op)
}

// Layout returns a fixed logical screen size which is a whole multiple of
// the frame buffer.
func (d *Device) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := max(1, min(outsideWidth/display.Width, outsideHeight/display.Height))
	return display.Width * scale, display.Height * scale
}

// pack converts fb to RGBA pixels.
func (d *Device) pack(fb *display.Buffer) {
	for y := range display.Height {
		for x := range display.Width {
			c := d.off
			if fb[y][x] {
				c = d.on
			}

			i := (y*display.Width + x) * 4
			d.pixels[i+0] = c.R
			d.pixels[i+1] = c.G
			d.pixels[i+2] = c.B
			d.pixels[i+3] = c.A
		}
	}
}
