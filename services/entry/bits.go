package entry

import (
	"bitentry-go/errcode"
	"bitentry-go/x/strx"
)

// bitButtons maps a bit value to the button that enters it.
var bitButtons = [2]Button{BtnZero, BtnOne}

// acceptBit appends v to the accumulator and acknowledges it on its LED.
func (m *Machine) acceptBit(v uint8) {
	m.s.pushBit(v)
	m.flash(v)
	m.log.Infof("Bit %d: %d | Current char: 0x%s (%d bits)", m.s.bits-1, v, strx.Hex2(m.s.char), m.s.bits)
}

// commitChar appends the accumulated character to the string. A full
// buffer drops the character and reports BufferFull.
func (m *Machine) commitChar(how string) bool {
	c := m.s.char
	if err := m.s.Append(c); err != nil {
		m.log.Warnf("String buffer full!")
		m.reject(errcode.Of(err))
		return false
	}
	m.log.Infof("Character %s: '%c' (0x%s)", how, strx.Printable(c), strx.Hex2(c))
	m.log.Infof("Current string: %q", m.s.Text())
	m.obs.StringChanged(m.s.Text())
	return true
}

// deleteString wipes the string and tells the observer.
func (m *Machine) deleteString() {
	m.s.Clear()
	m.obs.StringChanged(m.s.Text())
}
