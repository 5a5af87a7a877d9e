package rom

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/hexaflex/c8vm/arch"
	"github.com/hexaflex/c8vm/devices/fffe/cpu"
)

func TestRead(t *testing.T) {
	img, err := Read(bytes.NewReader([]byte{0x60, 0x2a, 0x00}), "test")
	if err != nil {
		t.Fatal(err)
	}

	if img.Name != "test" || img.Size() != 3 {
		t.Fatalf("unexpected image %q of %d bytes", img.Name, img.Size())
	}

	if w := img.Word(0); w != 0x602a {
		t.Fatalf("word 0: want 602a; have %04x", w)
	}

	if w := img.Word(2); w != 0x0000 {
		t.Fatalf("word 2: want 0000; have %04x", w)
	}
}

func TestReadLimits(t *testing.T) {
	full := make([]byte, arch.ProgramSize)
	if _, err := Read(bytes.NewReader(full), "full"); err != nil {
		t.Fatalf("image filling the program region must load: %v", err)
	}

	_, err := Read(bytes.NewReader(append(full, 0)), "big")
	if !errors.Is(err, cpu.ErrImageTooLarge) {
		t.Fatalf("want ErrImageTooLarge; have %v", err)
	}
}

func TestOpen(t *testing.T) {
	file := filepath.Join(t.TempDir(), "prog.ch8")
	if err := os.WriteFile(file, []byte{0x12, 0x00}, 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := Open(file)
	if err != nil {
		t.Fatal(err)
	}

	if img.Name != "prog.ch8" || img.Word(0) != 0x1200 {
		t.Fatalf("unexpected image %+v", img)
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadInto(t *testing.T) {
	c := cpu.New()
	c.SetDelayTimer(9)

	img := &Image{Name: "x", Data: []byte{0xa1, 0x23}}
	if err := img.LoadInto(c); err != nil {
		t.Fatal(err)
	}

	if c.DelayTimer() != 0 || c.PC() != arch.ProgramStart {
		t.Fatalf("expected machine reset")
	}

	var p [2]byte
	c.ReadMemory(arch.ProgramStart, p[:])
	if p != [2]byte{0xa1, 0x23} {
		t.Fatalf("unexpected memory %x", p)
	}
}

func TestLoadIntoRejectsLargeImage(t *testing.T) {
	c := cpu.New()
	if err := c.Load([]byte{0x60, 0x07}); err != nil {
		t.Fatal(err)
	}
	if err := c.Step(); err != nil {
		t.Fatal(err)
	}
	c.SetDelayTimer(9)
	before := c.State()

	img := &Image{Name: "big", Data: make([]byte, arch.ProgramSize+1)}
	err := img.LoadInto(c)
	if !errors.Is(err, cpu.ErrImageTooLarge) {
		t.Fatalf("want ErrImageTooLarge; have %v", err)
	}

	after := c.State()
	if after.PC != before.PC || after.V != before.V || after.Delay != before.Delay {
		t.Fatalf("rejected image modified the machine:\nbefore %+v\nafter  %+v", before, after)
	}

	var p [2]byte
	c.ReadMemory(arch.ProgramStart, p[:])
	if p != [2]byte{0x60, 0x07} {
		t.Fatalf("rejected image modified memory: %x", p)
	}
}
