package entry

import (
	"bitentry-go/errcode"
	"bitentry-go/x/ramp"
)

// Capacity is the string buffer size including the NUL terminator.
const Capacity = 64

// BitsPerChar is the number of bits that complete a character.
const BitsPerChar = 8

// holdTimer anchors one standby-trigger button's continuous hold.
type holdTimer struct {
	start uint32
	held  bool
}

// Session is the machine's mutable record. It is owned by exactly one
// Machine and only touched from RunOnce.
type Session struct {
	buf [Capacity]byte
	n   uint8

	char byte
	bits uint8

	hold [2]holdTimer
	prev StateID

	blinkCount uint32
	blinkOn    bool

	indicator [2]uint32

	pulse ramp.Triangle
}

// Append commits c to the string and keeps it NUL terminated.
func (s *Session) Append(c byte) error {
	if int(s.n) >= Capacity-1 {
		return errcode.BufferFull
	}
	s.buf[s.n] = c
	s.n++
	s.buf[s.n] = 0
	return nil
}

// Clear wipes the whole buffer.
func (s *Session) Clear() {
	s.buf = [Capacity]byte{}
	s.n = 0
}

// Text returns the committed characters without the terminator.
// The slice aliases the buffer; copy it before the next tick.
func (s *Session) Text() []byte { return s.buf[:s.n] }

func (s *Session) Len() int { return int(s.n) }

// pushBit stores v at the next bit position, LSB first.
func (s *Session) pushBit(v uint8) {
	if v != 0 {
		s.char |= 1 << s.bits
	}
	s.bits++
}

func (s *Session) resetChar() {
	s.char = 0
	s.bits = 0
}

func (s *Session) charComplete() bool { return s.bits == BitsPerChar }

// resetDisplay clears the per-state blink phase and indicator timers.
func (s *Session) resetDisplay() {
	s.blinkCount = 0
	s.blinkOn = false
	s.indicator = [2]uint32{}
}
