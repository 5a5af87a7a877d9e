package main

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/hexaflex/c8vm/display"
)

// MaxSpriteHeight is the largest row count a single draw instruction takes.
const MaxSpriteHeight = 15

func main() {
	config := parseArgs()
	img := loadImage(config)

	out, close := makeWriter(config)
	defer close()

	sprites := translate(img, config.Height)

	var err error
	if config.Binary {
		for _, s := range sprites {
			if _, err = out.Write(s); err != nil {
				break
			}
		}
	} else {
		err = writeText(out, sprites)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// translate cuts img into sprites of the given height, left to right and top
// to bottom. Each sprite row is one byte with the leftmost pixel in the most
// significant bit. Pixels brighter than mid gray are lit.
func translate(img image.Image, height int) [][]byte {
	r := img.Bounds()
	w := r.Dx() / display.SpriteWidth
	h := r.Dy() / height

	sprites := make([][]byte, 0, w*h)

	for y := 0; y < h; y++ {
		sy := r.Min.Y + y*height

		for x := 0; x < w; x++ {
			sx := r.Min.X + x*display.SpriteWidth
			sprite := make([]byte, height)

			for py := 0; py < height; py++ {
				for px := 0; px < display.SpriteWidth; px++ {
					g := color.GrayModel.Convert(img.At(sx+px, sy+py)).(color.Gray)
					if g.Y >= 0x80 {
						sprite[py] |= 0x80 >> px
					}
				}
			}

			sprites = append(sprites, sprite)
		}
	}

	return sprites
}

// writeText writes the sprites as annotated hex bytes.
func writeText(w io.Writer, sprites [][]byte) error {
	for i, s := range sprites {
		if _, err := fmt.Fprintf(w, "; sprite %d, offset 0x%03X\n", i, i*len(s)); err != nil {
			return err
		}

		for _, row := range s {
			if _, err := fmt.Fprintf(w, "0x%02X  ; %s\n", row, rowString(row)); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// rowString renders a sprite row with '#' for lit pixels.
func rowString(row byte) string {
	var b [display.SpriteWidth]byte
	for i := range b {
		if row&(0x80>>i) != 0 {
			b[i] = '#'
		} else {
			b[i] = '.'
		}
	}
	return string(b[:])
}

// loadImage loads an image from the input file.
func loadImage(c *Config) image.Image {
	fd, err := os.Open(c.Input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	defer fd.Close()

	img, _, err := image.Decode(fd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	r := img.Bounds()
	if r.Dx() < display.SpriteWidth || r.Dy() < c.Height {
		fmt.Fprintf(os.Stderr, "source image is too small; expected at least %d x %d pixels\n", display.SpriteWidth, c.Height)
		os.Exit(1)
	}

	return img
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
