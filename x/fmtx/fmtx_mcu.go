//go:build rp2040 || rp2350

package fmtx

func Sprintf(format string, a ...any) string { return sprintf(format, a...) }
