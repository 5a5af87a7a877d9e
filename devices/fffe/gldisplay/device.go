// Package gldisplay presents the frame buffer as an OpenGL texture.
package gldisplay

import (
	"image/color"
	"sync"

	"github.com/go-gl/gl/v4.2-core/gl"
	"github.com/pkg/errors"

	"github.com/hexaflex/c8vm/devices"
	"github.com/hexaflex/c8vm/display"
)

// Default pixel colors.
var (
	DefaultOn  = color.RGBA{0xe0, 0xf0, 0xd0, 0xff}
	DefaultOff = color.RGBA{0x10, 0x18, 0x10, 0xff}
)

// Device renders the most recent frame buffer snapshot.
//
// Refresh may be called from any goroutine. Startup, Shutdown and Draw
// must be called from the goroutine which owns the GL context.
type Device struct {
	mu          sync.Mutex
	frame       display.Buffer
	dirty       bool
	pixels      [display.Width * display.Height]byte
	on          [4]float32
	off         [4]float32
	shader      uint32
	vao         uint32
	vbo         uint32
	texture     uint32
	initialized bool
}

var _ devices.Screen = &Device{}

// New creates a new device which draws lit pixels in color on and dark
// pixels in color off.
func New(on, off color.Color) *Device {
	return &Device{
		on:  rgba(on),
		off: rgba(off),
	}
}

// ID returns the device identifier.
func (d *Device) ID() devices.ID {
	return devices.GLDisplay
}

// Refresh stores the given frame for the next Draw.
func (d *Device) Refresh(fb display.Buffer) {
	d.mu.Lock()
	d.frame = fb
	d.dirty = true
	d.mu.Unlock()
}

// Draw renders the display contents.
func (d *Device) Draw() {
	if !d.initialized {
		return
	}

	d.mu.Lock()
	if d.dirty {
		pack(d.pixels[:], &d.frame)
		d.dirty = false
		d.mu.Unlock()
		uploadTexture(d.texture, gl.RED, display.Width, display.Height, gl.RED, gl.UNSIGNED_BYTE, d.pixels[:])
	} else {
		d.mu.Unlock()
	}

	gl.UseProgram(d.shader)
	gl.BindVertexArray(d.vao)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, d.texture)

	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

// Startup initializes device resources.
func (d *Device) Startup() error {
	var err error

	d.shader, err = compileProgram(vertex, fragment)
	if err != nil {
		return errors.Wrapf(err, "failed to compile shaders")
	}

	gl.UseProgram(d.shader)
	gl.Uniform4fv(gl.GetUniformLocation(d.shader, glStr("on")), 1, &d.on[0])
	gl.Uniform4fv(gl.GetUniformLocation(d.shader, glStr("off")), 1, &d.off[0])

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	vertAttrib := uint32(gl.GetAttribLocation(d.shader, glStr("vertPos")))
	texCoordAttrib := uint32(gl.GetAttribLocation(d.shader, glStr("vertTexCoord")))

	gl.EnableVertexAttribArray(vertAttrib)
	gl.VertexAttribPointer(vertAttrib, 3, gl.FLOAT, false, 5*4, gl.PtrOffset(0))

	gl.EnableVertexAttribArray(texCoordAttrib)
	gl.VertexAttribPointer(texCoordAttrib, 2, gl.FLOAT, false, 5*4, gl.PtrOffset(3*4))

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	d.texture = makeTexture()

	d.mu.Lock()
	d.dirty = true
	d.mu.Unlock()

	d.initialized = true
	return nil
}

// Shutdown clears up device resources.
func (d *Device) Shutdown() error {
	if !d.initialized {
		return nil
	}

	d.initialized = false
	gl.DeleteTextures(1, &d.texture)
	gl.DeleteBuffers(1, &d.vbo)
	gl.DeleteVertexArrays(1, &d.vao)
	gl.DeleteProgram(d.shader)
	return nil
}

// pack writes fb into dst as one byte per pixel: 0xff for lit pixels and 0
// for dark ones, row by row from the top.
func pack(dst []byte, fb *display.Buffer) {
	for y := range display.Height {
		row := dst[y*display.Width:]
		for x := range display.Width {
			if fb[y][x] {
				row[x] = 0xff
			} else {
				row[x] = 0
			}
		}
	}
}

// rgba converts c to normalized RGBA components.
func rgba(c color.Color) [4]float32 {
	r, g, b, a := c.RGBA()
	return [4]float32{
		float32(r) / 0xffff,
		float32(g) / 0xffff,
		float32(b) / 0xffff,
		float32(a) / 0xffff,
	}
}

var quadVertices = []float32{
	//  X, Y, Z, U, V
	-1.0, -1.0, 0.0, 0.0, 1.0,
	1.0, -1.0, 0.0, 1.0, 1.0,
	-1.0, 1.0, 0.0, 0.0, 0.0,
	1.0, -1.0, 0.0, 1.0, 1.0,
	1.0, 1.0, 0.0, 1.0, 0.0,
	-1.0, 1.0, 0.0, 0.0, 0.0,
}
