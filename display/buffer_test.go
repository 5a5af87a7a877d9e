package display

import (
	"strings"
	"testing"
)

func TestDrawCollision(t *testing.T) {
	var b Buffer
	for y := range b {
		for x := range b[y] {
			b[y][x] = true
		}
	}

	if !b.Draw([]byte{0xf8}, 63, 31) {
		t.Fatalf("expected collision")
	}
	if b.Draw([]byte{0x00}, 63, 31) {
		t.Fatalf("expected no collision for an empty sprite row")
	}

	for _, x := range []int{63, 0, 1, 2, 3} {
		if b[31][x] {
			t.Fatalf("expected pixel %d,31 to be off", x)
		}
	}
	if !b[31][4] {
		t.Fatalf("expected pixel 4,31 to remain on")
	}
}

func TestDrawTwiceRestores(t *testing.T) {
	var b Buffer
	b.SetPixel(10, 10, true)
	before := b

	sprite := []byte{0xff, 0x81, 0x81, 0xff}
	if !b.Draw(sprite, 10, 10) {
		t.Fatalf("expected collision on first draw")
	}
	// Every pixel lit by the first draw is turned off again.
	if !b.Draw(sprite, 10, 10) {
		t.Fatalf("expected collision on second draw")
	}
	if b != before {
		t.Fatalf("expected double draw to restore the buffer:\n%s", b.String())
	}
}

func TestDrawTwiceOnBlank(t *testing.T) {
	var b Buffer

	sprite := []byte{0x3c, 0x42}
	if b.Draw(sprite, 0, 0) {
		t.Fatalf("expected no collision on blank buffer")
	}
	if !b.Draw(sprite, 0, 0) {
		t.Fatalf("expected collision when erasing")
	}
	if b.Count() != 0 {
		t.Fatalf("expected blank buffer after double draw; have %d pixels on", b.Count())
	}
}

func TestDrawWrapsHorizontally(t *testing.T) {
	var b Buffer
	if b.Draw([]byte{0xff}, 63, 0) {
		t.Fatalf("unexpected collision on empty buffer")
	}

	if !b[0][63] {
		t.Fatalf("expected column 63 to be on")
	}
	for x := 0; x < 7; x++ {
		if !b[0][x] {
			t.Fatalf("expected wrapped column %d to be on", x)
		}
	}
	if b[0][7] {
		t.Fatalf("expected column 7 to be off")
	}
	if b.Count() != 8 {
		t.Fatalf("expected 8 pixels on; have %d", b.Count())
	}
}

func TestDrawWrapsVertically(t *testing.T) {
	var b Buffer
	b.Draw([]byte{0x80, 0x80, 0x80}, 0, 30)

	if !b[30][0] || !b[31][0] || !b[0][0] {
		t.Fatalf("expected sprite to wrap to the top row:\n%s", b.String())
	}
}

func TestClear(t *testing.T) {
	var b Buffer
	b.Draw([]byte{0xff, 0xff}, 5, 5)
	b.Clear()
	if b.Count() != 0 {
		t.Fatalf("expected empty buffer; have %d pixels on", b.Count())
	}
}

func TestRender(t *testing.T) {
	var b Buffer
	b.SetPixel(0, 0, true)
	b.SetPixel(-1, -1, true)

	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	if len(lines) != Height {
		t.Fatalf("expected %d lines; have %d", Height, len(lines))
	}
	if lines[0][0] != '#' || lines[0][1] != '.' {
		t.Fatalf("unexpected first row %q", lines[0])
	}
	if lines[Height-1][Width-1] != '#' {
		t.Fatalf("expected negative coordinates to wrap")
	}
}
