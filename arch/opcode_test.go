package arch

import "testing"

func TestNewOpcode(t *testing.T) {
	tests := []struct {
		raw         uint16
		x, y, n, kk uint8
		nnn         uint16
	}{
		{0x8c74, 0xc, 0x7, 0x4, 0x74, 0xc74},
		{0xab12, 0xb, 0x1, 0x2, 0x12, 0xb12},
		{0x0000, 0x0, 0x0, 0x0, 0x00, 0x000},
		{0xffff, 0xf, 0xf, 0xf, 0xff, 0xfff},
		{0xd015, 0x0, 0x1, 0x5, 0x15, 0x015},
	}

	for _, tt := range tests {
		op := NewOpcode(tt.raw)
		if op.Raw != tt.raw {
			t.Fatalf("%04x: expected raw %04x; have %04x", tt.raw, tt.raw, op.Raw)
		}
		if op.X != tt.x || op.Y != tt.y || op.N != tt.n || op.KK != tt.kk || op.NNN != tt.nnn {
			t.Fatalf("%04x: expected x=%x y=%x n=%x kk=%02x nnn=%03x; have x=%x y=%x n=%x kk=%02x nnn=%03x",
				tt.raw, tt.x, tt.y, tt.n, tt.kk, tt.nnn, op.X, op.Y, op.N, op.KK, op.NNN)
		}
	}
}

func TestNewOpcodeDeterministic(t *testing.T) {
	for raw := 0; raw <= 0xffff; raw++ {
		a := NewOpcode(uint16(raw))
		b := NewOpcode(uint16(raw))
		if a != b {
			t.Fatalf("%04x: decoding is not deterministic: %+v != %+v", raw, a, b)
		}
		if a.X > 0xf || a.Y > 0xf || a.N > 0xf || a.NNN > 0xfff {
			t.Fatalf("%04x: field out of range: %+v", raw, a)
		}
	}
}
