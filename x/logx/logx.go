// Package logx is the logging facade shared by firmware and host builds.
// Firmware logs to the console with println; host tools log through glog.
package logx

import "bitentry-go/x/fmtx"

// Logger is the subset every component logs through.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Debugf(format string, args ...any)
}

// Console prints "Info: ..." style lines with the builtin println,
// which works on every TinyGo target without an io.Writer.
type Console struct {
	Debug bool
}

func (c Console) Infof(format string, args ...any) {
	println("Info:", fmtx.Sprintf(format, args...))
}

func (c Console) Warnf(format string, args ...any) {
	println("Warn:", fmtx.Sprintf(format, args...))
}

func (c Console) Debugf(format string, args ...any) {
	if c.Debug {
		println("Debug:", fmtx.Sprintf(format, args...))
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) Infof(string, ...any)  {}
func (Nop) Warnf(string, ...any)  {}
func (Nop) Debugf(string, ...any) {}

// Or returns l, or Nop when l is nil.
func Or(l Logger) Logger {
	if l == nil {
		return Nop{}
	}
	return l
}
