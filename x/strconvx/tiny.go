package strconvx

import "bitentry-go/x/conv"

// Allocation-light fallbacks used on MCU builds. They are built on every
// target so host tests can hold them to strconv's output.

const digits = "0123456789abcdefghijklmnopqrstuvwxyz"

func formatBits(u uint64, neg bool, base int) string {
	if base < 2 || base > len(digits) {
		base = 10
	}
	var buf [65]byte
	i := len(buf)
	switch {
	case base == 10:
		i -= len(conv.Utoa(buf[1:], u))
	case u == 0:
		i--
		buf[i] = '0'
	default:
		b := uint64(base)
		for u > 0 {
			i--
			buf[i] = digits[u%b]
			u /= b
		}
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func formatInt(i int64, base int) string {
	if i < 0 {
		return formatBits(uint64(-i), true, base)
	}
	return formatBits(uint64(i), false, base)
}

// fixed formats f with prec decimals ('f' style). No NaN/Inf handling.
func fixed(f float64, prec int) string {
	if prec < 0 {
		prec = 6
	}
	neg := f < 0
	if neg {
		f = -f
	}
	pow := uint64(1)
	for i := 0; i < prec; i++ {
		pow *= 10
	}
	ip := uint64(f)
	fp := uint64((f-float64(ip))*float64(pow) + 0.5)
	if fp >= pow {
		ip++
		fp -= pow
	}
	s := formatBits(ip, neg, 10)
	if prec == 0 {
		return s
	}
	fs := formatBits(fp, false, 10)
	out := []byte(s)
	out = append(out, '.')
	for n := len(fs); n < prec; n++ {
		out = append(out, '0')
	}
	return string(append(out, fs...))
}

// quote escapes like strconv.Quote for ASCII input. Bytes >= 0x80 are
// passed through.
func quote(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			out = append(out, '\\', c)
		case c == '\n':
			out = append(out, '\\', 'n')
		case c == '\r':
			out = append(out, '\\', 'r')
		case c == '\t':
			out = append(out, '\\', 't')
		case c < 0x20 || c == 0x7f:
			out = append(out, '\\', 'x', digits[c>>4], digits[c&0xF])
		default:
			out = append(out, c)
		}
	}
	return string(append(out, '"'))
}
