package hal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/drivers/tester"

	"bitentry-go/services/entry"
)

// MCP23017 register addresses (port A; port B is +1).
const (
	regIODIR = 0x00
	regGPPU  = 0x0C
	regGPIO  = 0x12
)

func TestExpander_ButtonsAndLEDs(t *testing.T) {
	bus := tester.NewI2CBus(t)
	fdev := bus.NewDevice(0x20)
	fdev.Registers[regIODIR] = 0xff
	fdev.Registers[regIODIR+1] = 0xff
	fdev.Registers[regGPIO] = 0x0f // buttons released (pulled up)

	exp, err := NewExpander(bus, 0x20, []int{0, 1, 2, 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x0f), fdev.Registers[regIODIR], "port A low nibble inputs")
	assert.Equal(t, uint8(0x0f), fdev.Registers[regGPPU])
	assert.Equal(t, uint8(0x00), fdev.Registers[regIODIR+1], "port B outputs")

	var bc []ButtonConfig
	var lc []LEDConfig
	for i := 0; i < 4; i++ {
		bc = append(bc, ButtonConfig{Pin: exp.Pin(i), ActiveLow: true})
		lc = append(lc, LEDConfig{Pin: exp.Pin(8 + i)})
	}
	btns := NewButtons(0, bc...)
	leds := NewLEDs(lc...)
	poll := Pollers{exp, btns}

	fdev.Registers[regGPIO] = 0x0d // line 1 low
	poll.Poll(1)
	assert.True(t, btns.TakePress(entry.BtnOne))
	assert.False(t, btns.IsHeld(entry.BtnZero))

	leds.SetChannel(entry.LedBeat, true)
	assert.Equal(t, uint8(0x08), fdev.Registers[regGPIO+1])
}

func TestExpander_RejectsBadLine(t *testing.T) {
	bus := tester.NewI2CBus(t)
	fdev := bus.NewDevice(0x21)
	fdev.Registers[regIODIR] = 0xff
	_, err := NewExpander(bus, 0x21, []int{16}, nil)
	assert.Error(t, err)
}
