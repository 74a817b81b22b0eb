package conv

const upperHex = "0123456789ABCDEF"

// Hex writes the low digits nibbles of n as zero-padded upper-case hex into
// the tail of buf and returns the used slice. digits is capped at 16 and at
// len(buf).
func Hex(buf []byte, n uint64, digits int) []byte {
	if digits > 16 {
		digits = 16
	}
	if digits > len(buf) {
		digits = len(buf)
	}
	i := len(buf)
	for j := 0; j < digits; j++ {
		i--
		buf[i] = upperHex[n&0xF]
		n >>= 4
	}
	return buf[i:]
}
