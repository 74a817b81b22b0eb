package hal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitentry-go/services/entry"
)

func TestButtons_PressLatchesOnce(t *testing.T) {
	fb := NewFakeBoard(DefaultDebounceMs)
	b := fb.Buttons

	b.Poll(0)
	assert.False(t, b.IsHeld(entry.BtnZero))

	fb.ButtonPins[entry.BtnZero].Press()
	b.Poll(1)
	assert.True(t, b.IsHeld(entry.BtnZero))
	assert.True(t, b.TakePress(entry.BtnZero))
	assert.False(t, b.TakePress(entry.BtnZero), "edge is consumed on read")
	assert.True(t, b.IsHeld(entry.BtnZero), "level is not consumed")
}

func TestButtons_DebounceSuppressesBounce(t *testing.T) {
	fb := NewFakeBoard(DefaultDebounceMs)
	b, pin := fb.Buttons, fb.ButtonPins[entry.BtnEnter]

	pin.Press()
	b.Poll(100)
	require.True(t, b.TakePress(entry.BtnEnter))

	// contact bounce inside the window
	for ms := uint32(101); ms < 100+DefaultDebounceMs; ms++ {
		if ms%2 == 0 {
			pin.Release()
		} else {
			pin.Press()
		}
		b.Poll(ms)
	}
	assert.False(t, b.TakePress(entry.BtnEnter))
	assert.True(t, b.IsHeld(entry.BtnEnter))

	pin.Release()
	b.Poll(100 + DefaultDebounceMs)
	assert.False(t, b.IsHeld(entry.BtnEnter))

	pin.Press()
	b.Poll(101 + DefaultDebounceMs)
	assert.False(t, b.IsHeld(entry.BtnEnter), "still settling after release")
	b.Poll(100 + 2*DefaultDebounceMs)
	assert.True(t, b.TakePress(entry.BtnEnter))
}

func TestButtons_HeldAtBootIsNotAPress(t *testing.T) {
	pin := NewFakePin(false) // active-low, already pressed
	b := NewButtons(DefaultDebounceMs, ButtonConfig{Pin: pin, ActiveLow: true})
	b.Poll(0)
	assert.True(t, b.IsHeld(entry.BtnZero))
	assert.False(t, b.TakePress(entry.BtnZero))
}

func TestButtons_ActiveHighAndMissing(t *testing.T) {
	pin := NewFakePin(false)
	b := NewButtons(0, ButtonConfig{Pin: pin})
	pin.Set(true)
	b.Poll(0)
	assert.True(t, b.TakePress(entry.BtnZero))
	assert.False(t, b.IsHeld(entry.BtnEnter), "unconfigured button reads released")
	assert.False(t, b.TakePress(entry.BtnEnter))
}

func TestButtons_DriveMachine(t *testing.T) {
	fb := NewFakeBoard(DefaultDebounceMs)
	m, err := entry.New(entry.Config{Input: fb.Buttons, Output: fb.LEDs, Clock: &clock{}})
	require.NoError(t, err)
	m.Init()

	now := uint32(0)
	step := func(n int) {
		for i := 0; i < n; i++ {
			fb.Buttons.Poll(now)
			m.RunOnce()
			now++
		}
	}
	click := func(btn entry.Button) {
		fb.ButtonPins[btn].Press()
		step(DefaultDebounceMs + 5)
		fb.ButtonPins[btn].Release()
		step(DefaultDebounceMs + 5)
	}
	for _, bit := range []entry.Button{1, 0, 0, 0, 0, 0, 1, 0} { // 'A'
		click(bit)
	}
	click(entry.BtnEnter)

	snap := m.Snapshot()
	assert.Equal(t, entry.StringBuild, snap.State)
	assert.Equal(t, "A", snap.Text)
}

type clock struct{ n uint32 }

func (c *clock) NowMs() uint32 { return c.n }

func TestButtons_StandbyWakeLeavesBoardDark(t *testing.T) {
	fb := NewFakeBoard(DefaultDebounceMs)
	c := &clock{}
	m, err := entry.New(entry.Config{Input: fb.Buttons, Output: fb.LEDs, Clock: c, HoldMs: 10})
	require.NoError(t, err)
	m.Init()
	step := func(n int) {
		for i := 0; i < n; i++ {
			fb.Buttons.Poll(c.n)
			m.RunOnce()
			c.n++
		}
	}

	fb.ButtonPins[entry.BtnZero].Press()
	fb.ButtonPins[entry.BtnOne].Press()
	step(20)
	require.Equal(t, entry.Standby, m.State())
	fb.ButtonPins[entry.BtnZero].Release()
	fb.ButtonPins[entry.BtnOne].Release()
	step(DefaultDebounceMs + 3) // pulse somewhere mid-ramp
	require.NotZero(t, fb.LEDPWMs[entry.LedAux].Duty())

	fb.ButtonPins[entry.BtnClear].Press()
	step(DefaultDebounceMs + 1)
	require.Equal(t, entry.CharEntry, m.State())

	for ch := 0; ch < entry.NumChannels; ch++ {
		assert.Equal(t, uint8(0), fb.LEDPWMs[ch].Duty(), "pwm %d", ch)
	}
}
