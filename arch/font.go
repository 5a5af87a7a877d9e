package arch

// Font table layout.
const (
	FontAddress = 0x000                  // Address of the first glyph.
	GlyphSize   = 5                      // Bytes per glyph.
	GlyphCount  = 16                     // One glyph per hex digit.
	FontSize    = GlyphSize * GlyphCount // Size of the font table in bytes.
)

var font = [FontSize]byte{
	0xf0, 0x90, 0x90, 0x90, 0xf0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xf0, 0x10, 0xf0, 0x80, 0xf0, // 2
	0xf0, 0x10, 0xf0, 0x10, 0xf0, // 3
	0x90, 0x90, 0xf0, 0x10, 0x10, // 4
	0xf0, 0x80, 0xf0, 0x10, 0xf0, // 5
	0xf0, 0x80, 0xf0, 0x90, 0xf0, // 6
	0xf0, 0x10, 0x20, 0x40, 0x40, // 7
	0xf0, 0x90, 0xf0, 0x90, 0xf0, // 8
	0xf0, 0x90, 0xf0, 0x10, 0xf0, // 9
	0xf0, 0x90, 0xf0, 0x90, 0x90, // A
	0xe0, 0x90, 0xe0, 0x90, 0xe0, // B
	0xf0, 0x80, 0x80, 0x80, 0xf0, // C
	0xe0, 0x90, 0x90, 0x90, 0xe0, // D
	0xf0, 0x80, 0xf0, 0x80, 0xf0, // E
	0xf0, 0x80, 0xf0, 0x80, 0x80, // F
}

// Font returns a copy of the built-in hex digit glyph table.
func Font() [FontSize]byte {
	return font
}

// GlyphAddress returns the memory address of the glyph for the given hex digit.
func GlyphAddress(digit int) int {
	return FontAddress + (digit&0xf)*GlyphSize
}
