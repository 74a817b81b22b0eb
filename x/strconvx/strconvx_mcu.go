//go:build rp2040 || rp2350

package strconvx

func FormatInt(i int64, base int) string   { return formatInt(i, base) }
func FormatUint(u uint64, base int) string { return formatBits(u, false, base) }
func Quote(s string) string                { return quote(s) }

// FormatFloat always formats in 'f' style; fmt and bitSize are ignored.
func FormatFloat(f float64, _ byte, prec, _ int) string { return fixed(f, prec) }
