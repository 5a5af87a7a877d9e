// Package display implements the monochrome frame buffer and the sprite
// compositor that draws into it.
package display

import "strings"

// Frame buffer dimensions.
const (
	Width       = 64 // Display width in pixels.
	Height      = 32 // Display height in pixels.
	SpriteWidth = 8  // Width in pixels of a single sprite row.
)

// Buffer is a row-major grid of single-bit pixels with the origin in the
// top-left corner. Buffers are plain values; copying one yields an
// independent snapshot.
type Buffer [Height][Width]bool

// Clear turns all pixels off.
func (b *Buffer) Clear() {
	*b = Buffer{}
}

// Pixel returns the state of the pixel at the given coordinates.
// Coordinates wrap around both edges.
func (b *Buffer) Pixel(x, y int) bool {
	return b[wrap(y, Height)][wrap(x, Width)]
}

// SetPixel sets the state of the pixel at the given coordinates.
// Coordinates wrap around both edges.
func (b *Buffer) SetPixel(x, y int, v bool) {
	b[wrap(y, Height)][wrap(x, Width)] = v
}

// Draw XORs the given sprite rows into the buffer with their top-left corner
// at (x, y). Each byte is one 8 pixel row, most significant bit first. Pixels
// that fall off an edge wrap to the opposite one.
//
// Returns true if any set pixel was turned off.
func (b *Buffer) Draw(sprite []byte, x, y int) bool {
	var collision bool

	for r, row := range sprite {
		dy := wrap(y+r, Height)

		for bit := 0; bit < SpriteWidth; bit++ {
			if row&(0x80>>uint(bit)) == 0 {
				continue
			}

			dx := wrap(x+bit, Width)
			if b[dy][dx] {
				collision = true
			}
			b[dy][dx] = !b[dy][dx]
		}
	}

	return collision
}

// Count returns the number of pixels which are on.
func (b Buffer) Count() int {
	var n int
	for y := range b {
		for x := range b[y] {
			if b[y][x] {
				n++
			}
		}
	}
	return n
}

// Render returns the buffer as text, one line per row, using on and off for
// the respective pixel states.
func (b *Buffer) Render(on, off rune) string {
	var sb strings.Builder
	sb.Grow(Height * (Width + 1))

	for y := range b {
		for x := range b[y] {
			if b[y][x] {
				sb.WriteRune(on)
			} else {
				sb.WriteRune(off)
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

func (b *Buffer) String() string {
	return b.Render('#', '.')
}

// wrap maps v into [0, n).
func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
