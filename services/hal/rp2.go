//go:build rp2040 || rp2350

package hal

import (
	"machine"

	"bitentry-go/errcode"
	"bitentry-go/x/mathx"
	"bitentry-go/x/timex"
)

type rp2Pin struct {
	p machine.Pin
}

// NewRP2Pin configures GPIO n and returns it as a GPIOPin.
func NewRP2Pin(n int, mode Mode) GPIOPin {
	p := machine.Pin(n)
	switch mode {
	case ModeOutput:
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	case ModeInputPullup:
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	default:
		p.Configure(machine.PinConfig{Mode: machine.PinInput})
	}
	return &rp2Pin{p: p}
}

func (r *rp2Pin) Get() bool     { return r.p.Get() }
func (r *rp2Pin) Set(high bool) { r.p.Set(high) }

// Local interface to avoid depending on an unexported concrete type in machine.
type pwmCtrl interface {
	Configure(cfg machine.PWMConfig) error
	Top() uint32
	Set(channel uint8, value uint32)
}

// Select controller handle for a given slice number (0..7).
func pwmGroupBySlice(slice uint8) pwmCtrl {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

type rp2PWM struct {
	ctrl pwmCtrl
	ch   uint8 // 0 => A, 1 => B
}

// NewRP2PWM puts GPIO n on its PWM slice at freqHz. Pins sharing a slice
// must use the same frequency.
func NewRP2PWM(n int, freqHz uint32) (PWMPin, error) {
	slice, err := machine.PWMPeripheral(machine.Pin(n))
	if err != nil {
		return nil, errcode.Wrap(errcode.Unsupported, "hal.NewRP2PWM", err)
	}
	ctrl := pwmGroupBySlice(slice)
	if err := ctrl.Configure(machine.PWMConfig{Period: timex.PeriodFromHz(freqHz)}); err != nil {
		return nil, errcode.Wrap(errcode.Error, "hal.NewRP2PWM", err)
	}
	machine.Pin(n).Configure(machine.PinConfig{Mode: machine.PinPWM})
	// Even pin => A(0), odd pin => B(1).
	p := &rp2PWM{ctrl: ctrl, ch: uint8(n & 1)}
	p.SetDuty(0)
	return p, nil
}

func (p *rp2PWM) SetDuty(pct uint8) {
	p.ctrl.Set(p.ch, mathx.ScalePercent(pct, p.ctrl.Top()))
}
