package hal

import (
	"sync"

	"bitentry-go/services/entry"
	"bitentry-go/x/mathx"
)

// LEDConfig describes one channel. Either line may be nil.
type LEDConfig struct {
	Pin       GPIOPin
	PWM       PWMPin
	ActiveLow bool
}

// LEDs is the four-channel output bank. It implements entry.Output.
type LEDs struct {
	mu   sync.Mutex
	ch   [entry.NumChannels]LEDConfig
	on   [entry.NumChannels]bool
	duty [entry.NumChannels]uint8
}

// NewLEDs takes one config per entry.Channel in order; extras are ignored.
func NewLEDs(cfgs ...LEDConfig) *LEDs {
	l := &LEDs{}
	for i, c := range cfgs {
		if i >= entry.NumChannels {
			break
		}
		l.ch[i] = c
	}
	return l
}

// SetChannel drives the GPIO line and holds the PWM line at 0/100 %, so a
// pulse left running on a dual-line channel is ended.
func (l *LEDs) SetChannel(ch entry.Channel, on bool) {
	if int(ch) >= entry.NumChannels {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	c := l.ch[ch]
	l.on[ch] = on
	l.duty[ch] = 0
	if on {
		l.duty[ch] = 100
	}
	if c.Pin != nil {
		c.Pin.Set(on != c.ActiveLow)
	}
	if c.PWM != nil {
		c.PWM.SetDuty(l.phys(c, l.duty[ch]))
	}
}

// SetPulse drives the PWM line. Without PWM the channel is lit at 50 % and up.
func (l *LEDs) SetPulse(ch entry.Channel, pct uint8) {
	if int(ch) >= entry.NumChannels {
		return
	}
	pct = mathx.Clamp(pct, 0, 100)
	l.mu.Lock()
	defer l.mu.Unlock()
	c := l.ch[ch]
	l.duty[ch] = pct
	l.on[ch] = pct >= 50
	switch {
	case c.PWM != nil:
		c.PWM.SetDuty(l.phys(c, pct))
	case c.Pin != nil:
		c.Pin.Set(l.on[ch] != c.ActiveLow)
	}
}

func (l *LEDs) phys(c LEDConfig, pct uint8) uint8 {
	if c.ActiveLow {
		return 100 - pct
	}
	return pct
}

// State returns the last logical value written to ch.
func (l *LEDs) State(ch entry.Channel) (on bool, duty uint8) {
	if int(ch) >= entry.NumChannels {
		return false, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on[ch], l.duty[ch]
}
