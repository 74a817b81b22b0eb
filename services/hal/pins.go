// Package hal provides the concrete button and LED collaborators for the
// entry machine, plus the pin sources they can sit on: host fakes, RP2040
// GPIO/PWM, an MCP23017 I²C expander and Linux GPIO via periph.io.
package hal

// GPIOPin is a single digital line. Get reports the electrical level.
type GPIOPin interface {
	Get() bool
	Set(high bool)
}

// PWMPin drives a duty cycle given in percent (0..100).
type PWMPin interface {
	SetDuty(pct uint8)
}

// Mode selects how a GPIO line is configured.
type Mode uint8

const (
	ModeInput Mode = iota
	ModeInputPullup
	ModeOutput
)

// Pollers runs several Poll steps in order, e.g. an expander refresh
// followed by the button debouncer.
type Pollers []interface{ Poll(nowMs uint32) }

func (ps Pollers) Poll(nowMs uint32) {
	for _, p := range ps {
		p.Poll(nowMs)
	}
}
