// Package rom reads program images.
package rom

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/hexaflex/c8vm/arch"
	"github.com/hexaflex/c8vm/devices/fffe/cpu"
)

// Image is a program image destined for the program region of memory.
type Image struct {
	Name string
	Data []byte
}

// Read reads an image from r. Images larger than the program region yield
// an error wrapping cpu.ErrImageTooLarge.
func Read(r io.Reader, name string) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, arch.ProgramSize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}

	if err := cpu.CheckImage(data); err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}

	return &Image{Name: name, Data: data}, nil
}

// Open reads the image stored in the given file.
func Open(file string) (*Image, error) {
	log.Println("reading", file)

	fd, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer fd.Close()
	return Read(fd, filepath.Base(file))
}

// Size returns the image size in bytes.
func (img *Image) Size() int {
	return len(img.Data)
}

// Word returns the instruction word at the given offset into the image.
// A trailing odd byte is padded with zero.
func (img *Image) Word(offset int) uint16 {
	var hi, lo byte
	if offset < len(img.Data) {
		hi = img.Data[offset]
	}
	if offset+1 < len(img.Data) {
		lo = img.Data[offset+1]
	}
	return uint16(hi)<<8 | uint16(lo)
}

// LoadInto resets the machine and copies the image into its memory.
// An image which does not fit leaves the machine untouched.
func (img *Image) LoadInto(c *cpu.CPU) error {
	if err := cpu.CheckImage(img.Data); err != nil {
		return errors.Wrapf(err, "load %s", img.Name)
	}

	c.Reset()
	return errors.Wrapf(c.Load(img.Data), "load %s", img.Name)
}
