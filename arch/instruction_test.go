package arch

import (
	"testing"

	"github.com/pkg/errors"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		raw   uint16
		class Class
	}{
		{0x0000, HALT},
		{0x00e0, CLS},
		{0x00ee, RET},
		{0x1234, JP},
		{0x2345, CALL},
		{0x3a12, SEB},
		{0x4a12, SNEB},
		{0x5ab0, SE},
		{0x6a12, LDB},
		{0x7a12, ADDB},
		{0x8ab0, LD},
		{0x8ab1, OR},
		{0x8ab2, AND},
		{0x8ab3, XOR},
		{0x8ab4, ADD},
		{0x8ab5, SUB},
		{0x8ab6, SHR},
		{0x8ab7, SUBN},
		{0x8abe, SHL},
		{0x9ab0, SNE},
		{0xa123, LDI},
		{0xb123, JPV},
		{0xca0f, RND},
		{0xd015, DRW},
	}

	for _, tt := range tests {
		instr, err := Decode(tt.raw)
		if err != nil {
			t.Fatalf("%04x: unexpected error: %v", tt.raw, err)
		}
		if instr.Class != tt.class {
			t.Fatalf("%04x: expected class %v; have %v", tt.raw, tt.class, instr.Class)
		}
		if instr.Opcode != NewOpcode(tt.raw) {
			t.Fatalf("%04x: opcode fields do not match", tt.raw)
		}
	}
}

func TestDecodeUnknown(t *testing.T) {
	for _, raw := range []uint16{0x0001, 0x00e1, 0x0123, 0x8ab8, 0x8abd, 0x8abf, 0xe09e, 0xf00a, 0xffff} {
		_, err := Decode(raw)
		if !errors.Is(err, ErrUnknownOpcode) {
			t.Fatalf("%04x: expected ErrUnknownOpcode; have %v", raw, err)
		}
	}
}

func TestDecodeTotal(t *testing.T) {
	for raw := 0; raw <= 0xffff; raw++ {
		a, errA := Decode(uint16(raw))
		b, errB := Decode(uint16(raw))
		if a != b || errA != errB {
			t.Fatalf("%04x: decoding is not deterministic", raw)
		}
	}
}

func TestName(t *testing.T) {
	for c := HALT; c <= DRW; c++ {
		if _, ok := Name(c); !ok {
			t.Fatalf("class %d has no name", c)
		}
	}

	if _, ok := Name(DRW + 1); ok {
		t.Fatalf("expected unknown class to have no name")
	}
}

func TestClassProperties(t *testing.T) {
	if !SEB.IsSkip() || !SNE.IsSkip() || JP.IsSkip() {
		t.Fatalf("unexpected skip classification")
	}
	if !ADD.SetsFlag() || !DRW.SetsFlag() || ADDB.SetsFlag() {
		t.Fatalf("unexpected flag classification")
	}
}
