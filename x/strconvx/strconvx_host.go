//go:build !(rp2040 || rp2350)

package strconvx

import "strconv"

// Signature parity with strconv; host builds delegate straight through.

func FormatInt(i int64, base int) string   { return strconv.FormatInt(i, base) }
func FormatUint(u uint64, base int) string { return strconv.FormatUint(u, base) }
func Quote(s string) string                { return strconv.Quote(s) }
func FormatFloat(f float64, fmt byte, prec, bitSize int) string {
	return strconv.FormatFloat(f, fmt, prec, bitSize)
}
