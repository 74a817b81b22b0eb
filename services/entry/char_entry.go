package entry

import "bitentry-go/errcode"

func (m *Machine) charEntryEnter(resumed bool) {
	m.log.Infof("=== Entering CHAR_ENTRY state ===")
	m.log.Infof("Use BTN0 (bit 0) and BTN1 (bit 1) to enter 8-bit ASCII code")
	m.log.Infof("BTN2: Reset current character | BTN3: Save character")
	if !resumed {
		m.s.resetChar()
	}
	m.s.resetDisplay()
	m.allOff()
}

// charEntryRun builds a single character. A ninth bit is refused here; the
// character must be saved explicitly with BTN3.
func (m *Machine) charEntryRun() {
	if m.checkStandby() {
		return
	}
	m.heartbeat(charEntryBlink)
	m.decayIndicators()

	for v, b := range bitButtons {
		if !m.in.TakePress(b) {
			continue
		}
		if m.s.bits < BitsPerChar {
			m.acceptBit(uint8(v))
			continue
		}
		m.log.Debugf("character complete, bit %d ignored", v)
		m.reject(errcode.CharComplete)
	}

	if m.in.TakePress(BtnClear) {
		m.log.Infof("Character reset")
		m.s.resetChar()
	}

	if m.in.TakePress(BtnEnter) {
		if !m.s.charComplete() {
			m.log.Infof("Need 8 bits to save character (currently have %d)", m.s.bits)
			m.reject(errcode.IncompleteChar)
			return
		}
		if m.commitChar("saved") {
			m.fire(evCommit)
		}
	}
}

func (m *Machine) charEntryExit() {
	m.log.Infof("=== Exiting CHAR_ENTRY state ===")
}
