package hal

import (
	"sync"

	"bitentry-go/services/entry"
	"bitentry-go/x/timex"
)

// DefaultDebounceMs is the settle window applied after each accepted change.
const DefaultDebounceMs = 20

type ButtonConfig struct {
	Pin       GPIOPin
	ActiveLow bool // pressed pulls the line low
}

type button struct {
	pin       GPIOPin
	invert    bool
	level     bool   // debounced, logical (true = pressed)
	lastEvent uint32 // tick of the last accepted change
	seen      bool   // lastEvent is valid
	pressed   bool   // latched press edge
}

// Buttons is a polled debouncer with per-button press latches. It
// implements entry.Input; Poll must be called once per tick.
type Buttons struct {
	mu       sync.Mutex
	btns     []button
	debounce uint32
}

// NewButtons takes one config per entry.Button in order. The initial level
// is sampled so a button held at boot is not reported as a press.
func NewButtons(debounceMs uint32, cfgs ...ButtonConfig) *Buttons {
	b := &Buttons{debounce: debounceMs, btns: make([]button, len(cfgs))}
	for i, c := range cfgs {
		w := &b.btns[i]
		w.pin = c.Pin
		w.invert = c.ActiveLow
		if c.Pin != nil {
			w.level = w.logical(c.Pin.Get())
		}
	}
	return b
}

func (w *button) logical(raw bool) bool {
	if w.invert {
		return !raw
	}
	return raw
}

// Poll samples every pin. A change is accepted only once the previous
// accepted change is at least debounce ticks old; a released-to-pressed
// change latches a press.
func (b *Buttons) Poll(nowMs uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.btns {
		w := &b.btns[i]
		if w.pin == nil {
			continue
		}
		lvl := w.logical(w.pin.Get())
		if lvl == w.level {
			continue
		}
		if w.seen && timex.Since(nowMs, w.lastEvent) < b.debounce {
			continue
		}
		w.level = lvl
		w.lastEvent = nowMs
		w.seen = true
		if lvl {
			w.pressed = true
		}
	}
}

func (b *Buttons) IsHeld(id entry.Button) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if int(id) >= len(b.btns) {
		return false
	}
	return b.btns[id].level
}

// TakePress reports and clears the press latch.
func (b *Buttons) TakePress(id entry.Button) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if int(id) >= len(b.btns) {
		return false
	}
	p := b.btns[id].pressed
	b.btns[id].pressed = false
	return p
}
