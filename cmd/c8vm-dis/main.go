package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hexaflex/c8vm/arch"
	"github.com/hexaflex/c8vm/rom"
)

func main() {
	config := parseArgs()

	img, err := rom.Open(config.Input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	w, close := makeWriter(config)
	defer close()

	if err := disassemble(w, img, config.Origin); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// disassemble writes one line per instruction word in img: the address the
// word is loaded at, the word itself and its mnemonic.
func disassemble(w io.Writer, img *rom.Image, origin int) error {
	for offset := 0; offset < img.Size(); offset += arch.InstrSize {
		word := img.Word(offset)
		addr := (origin + offset) & (arch.MemorySize - 1)

		if _, err := fmt.Fprintf(w, "%03x  %04x  %s\n", addr, word, arch.Disassemble(word)); err != nil {
			return err
		}
	}
	return nil
}

// makeWriter creates an output writer and a cleanup function for it.
func makeWriter(c *Config) (io.Writer, func()) {
	if c.Output == "" {
		return os.Stdout, func() {}
	}

	dir, _ := filepath.Split(c.Output)
	if dir != "" {
		if err := os.MkdirAll(dir, 0744); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	fd, err := os.Create(c.Output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	return fd, func() { fd.Close() }
}
