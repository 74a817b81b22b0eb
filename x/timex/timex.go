package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// Since returns now-start on a free-running 32-bit millisecond counter.
// Unsigned subtraction keeps the result correct across a single wrap.
func Since(now, start uint32) uint32 { return now - start }

// PeriodFromHz returns a nanosecond period for a requested frequency.
// freqHz==0 is coerced to 1 to avoid division by zero.
func PeriodFromHz(freqHz uint32) uint64 {
	if freqHz == 0 {
		freqHz = 1
	}
	return uint64(1_000_000_000 / uint64(freqHz))
}

// Ticks is a monotonic tick counter advanced by a driver loop.
// The zero value starts at tick 0.
type Ticks struct{ n uint32 }

// NewTicks starts a counter at n (useful to exercise wraparound).
func NewTicks(n uint32) *Ticks { return &Ticks{n: n} }

func (t *Ticks) NowMs() uint32 { return t.n }
func (t *Ticks) Advance()      { t.n++ }
