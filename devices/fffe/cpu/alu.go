package cpu

// addCarry returns the carry out of bit 7 and the 8-bit sum of a and b.
func addCarry(a, b byte) (carry, sum byte) {
	s := uint16(a) + uint16(b)
	return byte(s >> 8), byte(s)
}

// subBorrow returns 1 if computing a-b borrows, along with the difference
// modulo 256.
func subBorrow(a, b byte) (borrow, diff byte) {
	if a >= b {
		return 0, a - b
	}
	return 1, byte(256 + int(a) - int(b))
}

// shiftLeft shifts v left by one and returns the bit shifted out.
func shiftLeft(v *byte) byte {
	out := *v >> 7
	*v <<= 1
	return out
}

// shiftRight shifts v right by one and returns the bit shifted out.
func shiftRight(v *byte) byte {
	out := *v & 1
	*v >>= 1
	return out
}

func _bool(v bool) byte {
	if v {
		return 1
	}
	return 0
}
