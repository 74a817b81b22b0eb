package logx

import (
	"sync"

	"bitentry-go/x/fmtx"
)

// Recorder keeps formatted lines in memory; handy in tests.
type Recorder struct {
	mu    sync.Mutex
	Lines []string
}

func (r *Recorder) add(level, format string, args []any) {
	r.mu.Lock()
	r.Lines = append(r.Lines, level+": "+fmtx.Sprintf(format, args...))
	r.mu.Unlock()
}

func (r *Recorder) Infof(format string, args ...any)  { r.add("Info", format, args) }
func (r *Recorder) Warnf(format string, args ...any)  { r.add("Warn", format, args) }
func (r *Recorder) Debugf(format string, args ...any) { r.add("Debug", format, args) }

// Snapshot returns a copy of the recorded lines.
func (r *Recorder) Snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Lines...)
}
