//go:build linux && !tinygo

package hal

import (
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"bitentry-go/errcode"
	"bitentry-go/x/logx"
	"bitentry-go/x/mathx"
)

// InitPeriph loads the periph.io host drivers. Call once before PeriphPin.
func InitPeriph() error {
	if _, err := host.Init(); err != nil {
		return errcode.Wrap(errcode.Error, "hal.InitPeriph", err)
	}
	return nil
}

// PeriphPin is a Linux GPIO line, optionally driven as PWM.
type PeriphPin struct {
	p    gpio.PinIO
	freq physic.Frequency
	log  logx.Logger
}

// NewPeriphPin looks up a line by name (e.g. "GPIO17") and configures it.
func NewPeriphPin(name string, mode Mode, log logx.Logger) (*PeriphPin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "hal.NewPeriphPin", Msg: "unknown pin " + name}
	}
	var err error
	switch mode {
	case ModeOutput:
		err = p.Out(gpio.Low)
	case ModeInputPullup:
		err = p.In(gpio.PullUp, gpio.NoEdge)
	default:
		err = p.In(gpio.Float, gpio.NoEdge)
	}
	if err != nil {
		return nil, errcode.Wrap(errcode.Error, "hal.NewPeriphPin "+name, err)
	}
	return &PeriphPin{p: p, freq: physic.KiloHertz, log: logx.Or(log)}, nil
}

func (pp *PeriphPin) Get() bool { return bool(pp.p.Read()) }

func (pp *PeriphPin) Set(high bool) {
	if err := pp.p.Out(gpio.Level(high)); err != nil {
		pp.log.Warnf("%s: %v", pp.p.Name(), err)
	}
}

// SetDuty drives the line as PWM when the host supports it.
func (pp *PeriphPin) SetDuty(pct uint8) {
	d := gpio.Duty(mathx.ScalePercent(pct, uint32(gpio.DutyMax)))
	if err := pp.p.PWM(d, pp.freq); err != nil {
		pp.log.Debugf("%s pwm: %v", pp.p.Name(), err)
	}
}
