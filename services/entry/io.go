package entry

import "bitentry-go/errcode"

// Button identifies one of the four inputs.
type Button uint8

const (
	BtnZero  Button = iota // enter bit 0
	BtnOne                 // enter bit 1
	BtnClear               // reset character / delete string
	BtnEnter               // save character / finalise / send

	NumButtons = 4
)

var buttonNames = [NumButtons]string{"btn0", "btn1", "btn2", "btn3"}

func (b Button) String() string {
	if int(b) < NumButtons {
		return buttonNames[b]
	}
	return "btn?"
}

// Channel identifies one of the four LED outputs.
type Channel uint8

const (
	LedZero  Channel = iota // bit-0 indicator
	LedOne                  // bit-1 indicator
	LedAux                  // unused by the entry states, pulsed in standby
	LedBeat                 // heartbeat

	NumChannels = 4
)

// Input is the button collaborator. TakePress is destructive: a press edge
// is reported at most once.
type Input interface {
	IsHeld(b Button) bool
	TakePress(b Button) bool
}

// Output is the LED collaborator.
type Output interface {
	SetChannel(ch Channel, on bool)
	SetPulse(ch Channel, dutyPct uint8)
}

// Clock is a monotonic millisecond tick counter.
type Clock interface {
	NowMs() uint32
}

// Transmitter receives the finalised string on Send. text holds the
// characters only, without the NUL terminator, and is a private copy
// owned by the callee.
type Transmitter interface {
	Transmit(text []byte)
}

// Observer is notified of machine events. All calls happen on the
// goroutine running RunOnce.
type Observer interface {
	Transitioned(from, to StateID)
	StringChanged(text []byte)
	Rejected(code errcode.Code, in StateID)
}

type nopObserver struct{}

func (nopObserver) Transitioned(StateID, StateID)  {}
func (nopObserver) StringChanged([]byte)           {}
func (nopObserver) Rejected(errcode.Code, StateID) {}

type nopTransmitter struct{}

func (nopTransmitter) Transmit([]byte) {}
