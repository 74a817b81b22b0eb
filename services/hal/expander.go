package hal

import (
	"sync"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/mcp23017"

	"bitentry-go/errcode"
	"bitentry-go/x/logx"
)

// Expander exposes MCP23017 lines as GPIOPins. Inputs are read in one bus
// transaction per Poll; Get returns the cached value.
type Expander struct {
	mu   sync.Mutex
	dev  *mcp23017.Device
	pins mcp23017.Pins
	log  logx.Logger
}

// NewExpander configures every line in inputs as a pulled-up input and every
// other line as an output.
func NewExpander(bus drivers.I2C, addr uint8, inputs []int, log logx.Logger) (*Expander, error) {
	dev, err := mcp23017.NewI2C(bus, addr)
	if err != nil {
		return nil, errcode.Wrap(errcode.Error, "hal.NewExpander", err)
	}
	modes := make([]mcp23017.PinMode, mcp23017.PinCount)
	for i := range modes {
		modes[i] = mcp23017.Output
	}
	for _, n := range inputs {
		if n < 0 || n >= mcp23017.PinCount {
			return nil, &errcode.E{C: errcode.InvalidParams, Op: "hal.NewExpander", Msg: "input line out of range"}
		}
		modes[n] = mcp23017.Input | mcp23017.Pullup
	}
	if err := dev.SetModes(modes); err != nil {
		return nil, errcode.Wrap(errcode.Error, "hal.NewExpander", err)
	}
	e := &Expander{dev: dev, log: logx.Or(log)}
	e.Poll(0)
	return e, nil
}

// Poll refreshes the cached input levels. A failed read keeps the old ones.
func (e *Expander) Poll(uint32) {
	pins, err := e.dev.GetPins()
	if err != nil {
		e.log.Warnf("expander read: %v", err)
		return
	}
	e.mu.Lock()
	e.pins = pins
	e.mu.Unlock()
}

// Pin returns line n (0..15) as a GPIOPin.
func (e *Expander) Pin(n int) GPIOPin { return &expanderPin{e: e, n: n} }

type expanderPin struct {
	e *Expander
	n int
}

func (p *expanderPin) Get() bool {
	p.e.mu.Lock()
	defer p.e.mu.Unlock()
	return p.e.pins.Get(p.n)
}

func (p *expanderPin) Set(high bool) {
	if err := p.e.dev.Pin(p.n).Set(high); err != nil {
		p.e.log.Warnf("expander line %d: %v", p.n, err)
	}
}
