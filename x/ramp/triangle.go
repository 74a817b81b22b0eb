package ramp

import "bitentry-go/x/mathx"

// Triangle is a caller-driven triangular wave over [0..Top].
// Each Next moves Level by Step and reverses direction at either bound.
type Triangle struct {
	Level  uint8
	Top    uint8
	Step   uint8
	Rising bool
}

// NewTriangle returns a wave starting at 0, rising.
func NewTriangle(top, step uint8) Triangle {
	return Triangle{Top: top, Step: step, Rising: true}
}

// Reset returns the wave to 0, rising.
func (t *Triangle) Reset() {
	t.Level = 0
	t.Rising = true
}

// Next advances one step and returns the new level.
func (t *Triangle) Next() uint8 {
	if t.Rising {
		next := uint16(t.Level) + uint16(t.Step)
		if next >= uint16(t.Top) {
			t.Level = t.Top
			t.Rising = false
		} else {
			t.Level = uint8(next)
		}
		return t.Level
	}
	if t.Level >= t.Step {
		t.Level -= t.Step
	} else {
		t.Level = 0
		t.Rising = true
	}
	t.Level = mathx.Min(t.Level, t.Top)
	return t.Level
}
