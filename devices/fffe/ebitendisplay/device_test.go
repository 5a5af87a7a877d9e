package ebitendisplay

import (
	"image/color"
	"testing"

	"github.com/hexaflex/c8vm/display"
)

var (
	on  = color.RGBA{0xff, 0xff, 0xff, 0xff}
	off = color.RGBA{0, 0, 0, 0xff}
)

func TestPack(t *testing.T) {
	d := New(on, off)

	var fb display.Buffer
	fb.SetPixel(3, 2, true)
	d.pack(&fb)

	at := func(x, y int) color.RGBA {
		i := (y*display.Width + x) * 4
		return color.RGBA{d.pixels[i], d.pixels[i+1], d.pixels[i+2], d.pixels[i+3]}
	}

	if at(3, 2) != on {
		t.Fatalf("lit pixel: have %v", at(3, 2))
	}

	if at(0, 0) != off || at(63, 31) != off {
		t.Fatalf("dark pixels must use the off color")
	}
}

func TestLayout(t *testing.T) {
	d := New(on, off)

	tests := []struct {
		w, h   int
		lw, lh int
	}{
		{640, 320, 640, 320},
		{800, 320, 640, 320},
		{10, 10, 64, 32},
		{1280, 1024, 1280, 640},
	}

	for _, tt := range tests {
		lw, lh := d.Layout(tt.w, tt.h)
		if lw != tt.lw || lh != tt.lh {
			t.Fatalf("Layout(%d, %d): want %dx%d; have %dx%d", tt.w, tt.h, tt.lw, tt.lh, lw, lh)
		}
	}
}

func TestRefreshMarksDirty(t *testing.T) {
	d := New(on, off)
	d.dirty = false

	var fb display.Buffer
	fb.SetPixel(0, 0, true)
	d.Refresh(fb)

	if !d.dirty || !d.frame.Pixel(0, 0) {
		t.Fatalf("expected stored snapshot")
	}
}
