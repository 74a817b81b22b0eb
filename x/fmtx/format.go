// Package fmtx keeps fmt out of firmware images; host builds use fmt.
package fmtx

import (
	"unicode/utf8"

	"bitentry-go/x/strconvx"
)

// sprintf is the small formatter used on MCU builds. It covers the verbs
// the firmware logs with: %v %s %q %d %x %X %c %t %T and %%, plus width,
// zero padding and %.Ns. Output matches fmt for those cases.
func sprintf(format string, args ...any) string {
	out := make([]byte, 0, len(format)+16)
	ai := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			out = append(out, c)
			continue
		}
		i++
		if i < len(format) && format[i] == '%' {
			out = append(out, '%')
			continue
		}
		zero := false
		if i < len(format) && format[i] == '0' {
			zero = true
			i++
		}
		width, prec := 0, -1
		i = parseNum(format, i, &width)
		if i < len(format) && format[i] == '.' {
			prec = 0
			i = parseNum(format, i+1, &prec)
		}
		if i >= len(format) {
			out = append(out, "%!(NOVERB)"...)
			break
		}
		verb := format[i]
		if ai >= len(args) {
			out = append(out, '%', '!', verb)
			out = append(out, "(MISSING)"...)
			continue
		}
		out = pad(out, formatArg(verb, args[ai], prec), width, zero)
		ai++
	}
	return string(out)
}

func parseNum(s string, i int, n *int) int {
	for ; i < len(s) && '0' <= s[i] && s[i] <= '9'; i++ {
		*n = *n*10 + int(s[i]-'0')
	}
	return i
}

func pad(out []byte, s string, width int, zero bool) []byte {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return append(out, s...)
	}
	fill := byte(' ')
	if zero {
		fill = '0'
		if len(s) > 0 && s[0] == '-' {
			out = append(out, '-')
			s = s[1:]
		}
	}
	for ; n > 0; n-- {
		out = append(out, fill)
	}
	return append(out, s...)
}

func formatArg(verb byte, arg any, prec int) string {
	switch verb {
	case 'v':
		return text(arg)
	case 's':
		s := text(arg)
		if prec >= 0 && prec < len(s) {
			s = s[:prec]
		}
		return s
	case 'q':
		return strconvx.Quote(text(arg))
	case 't':
		if b, ok := arg.(bool); ok {
			return boolText(b)
		}
	case 'T':
		return typeName(arg)
	case 'd', 'x', 'X', 'c':
		u, neg, ok := integer(arg)
		if !ok {
			break
		}
		switch verb {
		case 'c':
			return string(rune(u))
		case 'd':
			return signed(strconvx.FormatUint(u, 10), neg)
		}
		h := []byte(strconvx.FormatUint(u, 16))
		if verb == 'X' {
			for i, c := range h {
				if 'a' <= c && c <= 'f' {
					h[i] = c - 'a' + 'A'
				}
			}
		}
		return signed(string(h), neg)
	}
	return "%!" + string(verb) + "(" + typeName(arg) + "=" + text(arg) + ")"
}

func signed(s string, neg bool) string {
	if neg {
		return "-" + s
	}
	return s
}

func boolText(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// integer returns the magnitude and sign of any built-in integer.
func integer(v any) (u uint64, neg bool, ok bool) {
	var i int64
	switch x := v.(type) {
	case int:
		i = int64(x)
	case int8:
		i = int64(x)
	case int16:
		i = int64(x)
	case int32:
		i = int64(x)
	case int64:
		i = x
	case uint:
		return uint64(x), false, true
	case uint8:
		return uint64(x), false, true
	case uint16:
		return uint64(x), false, true
	case uint32:
		return uint64(x), false, true
	case uint64:
		return x, false, true
	default:
		return 0, false, false
	}
	if i < 0 {
		return uint64(-i), true, true
	}
	return uint64(i), false, true
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return x
	case []byte:
		return string(x)
	case error:
		return x.Error()
	case interface{ String() string }:
		return x.String()
	case bool:
		return boolText(x)
	case float32:
		return strconvx.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconvx.FormatFloat(x, 'g', -1, 64)
	}
	if u, neg, ok := integer(v); ok {
		return signed(strconvx.FormatUint(u, 10), neg)
	}
	return "?"
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "<nil>"
	case string:
		return "string"
	case []byte:
		return "[]uint8"
	case bool:
		return "bool"
	case int:
		return "int"
	case int8:
		return "int8"
	case int16:
		return "int16"
	case int32:
		return "int32"
	case int64:
		return "int64"
	case uint:
		return "uint"
	case uint8:
		return "uint8"
	case uint16:
		return "uint16"
	case uint32:
		return "uint32"
	case uint64:
		return "uint64"
	case float32:
		return "float32"
	case float64:
		return "float64"
	}
	return "?"
}
