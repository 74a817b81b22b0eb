package strx

import "bitentry-go/x/conv"

// Coalesce returns s if non-empty, otherwise d.
func Coalesce(s, d string) string {
	if s == "" {
		return d
	}
	return s
}

// Printable returns c when it is a printable 7-bit character, otherwise '?'.
func Printable(c byte) byte {
	if c >= 32 && c < 127 {
		return c
	}
	return '?'
}

// Hex2 formats b as two upper-case hex digits.
func Hex2(b byte) string {
	var buf [2]byte
	return string(conv.Hex(buf[:], uint64(b), 2))
}
