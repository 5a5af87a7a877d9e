package arch

import "testing"

func TestDisassemble(t *testing.T) {
	tests := []struct {
		raw  uint16
		want string
	}{
		{0x0000, "HALT"},
		{0x00e0, "CLS"},
		{0x00ee, "RET"},
		{0x1228, "JP 0x228"},
		{0x2abc, "CALL 0xABC"},
		{0x3142, "SE V1, 0x42"},
		{0x4f00, "SNE VF, 0x00"},
		{0x5120, "SE V1, V2"},
		{0x6a2a, "LD VA, 0x2A"},
		{0x7001, "ADD V0, 0x01"},
		{0x8120, "LD V1, V2"},
		{0x8124, "ADD V1, V2"},
		{0x8126, "SHR V1, V2"},
		{0x812e, "SHL V1, V2"},
		{0x9120, "SNE V1, V2"},
		{0xa000, "LD I, 0x000"},
		{0xb300, "JP V0, 0x300"},
		{0xc3ff, "RND V3, 0xFF"},
		{0xd015, "DRW V0, V1, 5"},
		{0xf00a, "DW 0xF00A"},
		{0x0123, "DW 0x0123"},
	}

	for _, tt := range tests {
		have := Disassemble(tt.raw)
		if have != tt.want {
			t.Fatalf("%04x: expected %q; have %q", tt.raw, tt.want, have)
		}
	}
}

func TestGlyphAddress(t *testing.T) {
	if GlyphAddress(0) != 0 || GlyphAddress(0xa) != 50 || GlyphAddress(0x1f) != 75 {
		t.Fatalf("unexpected glyph addresses")
	}

	f := Font()
	f[0] = 0
	if Font()[0] != 0xf0 {
		t.Fatalf("font table must not be mutable through its copy")
	}
}
