package hal

import "sync"

// FakePin is an in-memory GPIO line. The zero value reads low.
type FakePin struct {
	mu    sync.Mutex
	level bool
	sets  int
}

func NewFakePin(level bool) *FakePin { return &FakePin{level: level} }

func (p *FakePin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *FakePin) Set(high bool) {
	p.mu.Lock()
	p.level = high
	p.sets++
	p.mu.Unlock()
}

// Press and Release drive an active-low button line.
func (p *FakePin) Press()   { p.Set(false) }
func (p *FakePin) Release() { p.Set(true) }

// Sets counts Set calls.
func (p *FakePin) Sets() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sets
}

// FakePWM records the last duty written.
type FakePWM struct {
	mu   sync.Mutex
	duty uint8
}

func (p *FakePWM) SetDuty(pct uint8) {
	p.mu.Lock()
	p.duty = pct
	p.mu.Unlock()
}

func (p *FakePWM) Duty() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duty
}

// FakeBoard is a host board: four active-low buttons released at start,
// and four LED channels with both GPIO and PWM lines.
type FakeBoard struct {
	Buttons    *Buttons
	LEDs       *LEDs
	ButtonPins [4]*FakePin
	LEDPins    [4]*FakePin
	LEDPWMs    [4]*FakePWM
}

func NewFakeBoard(debounceMs uint32) *FakeBoard {
	fb := &FakeBoard{}
	var bc [4]ButtonConfig
	var lc [4]LEDConfig
	for i := 0; i < 4; i++ {
		fb.ButtonPins[i] = NewFakePin(true)
		fb.LEDPins[i] = NewFakePin(false)
		fb.LEDPWMs[i] = &FakePWM{}
		bc[i] = ButtonConfig{Pin: fb.ButtonPins[i], ActiveLow: true}
		lc[i] = LEDConfig{Pin: fb.LEDPins[i], PWM: fb.LEDPWMs[i]}
	}
	fb.Buttons = NewButtons(debounceMs, bc[:]...)
	fb.LEDs = NewLEDs(lc[:]...)
	return fb
}
