package entry

func (m *Machine) stringBuildEnter(resumed bool) {
	m.log.Infof("=== Entering STRING_BUILD state ===")
	m.log.Infof("Current string: %q (%d chars)", m.s.Text(), m.s.Len())
	m.log.Infof("BTN0/BTN1: Add another character | BTN2: Delete string | BTN3: Finalize string")
	if !resumed {
		m.s.resetChar()
	}
	m.s.resetDisplay()
	m.allOff()
}

// stringBuildRun keeps appending characters. A bit arriving on a complete
// character saves that character and starts the next one with the new bit.
func (m *Machine) stringBuildRun() {
	if m.checkStandby() {
		return
	}
	m.heartbeat(stringBuildBlink)
	m.decayIndicators()

	for v, b := range bitButtons {
		if !m.in.TakePress(b) {
			continue
		}
		if m.s.bits < BitsPerChar {
			m.acceptBit(uint8(v))
			continue
		}
		if !m.commitChar("auto-saved") {
			continue
		}
		m.s.resetChar()
		m.acceptBit(uint8(v))
	}

	if m.in.TakePress(BtnClear) {
		m.log.Infof("String deleted")
		m.deleteString()
		m.fire(evDelete)
		return
	}

	if m.in.TakePress(BtnEnter) {
		if m.s.charComplete() {
			m.commitChar("final-saved")
		}
		m.log.Infof("String finalized: %q", m.s.Text())
		m.fire(evFinalize)
	}
}

func (m *Machine) stringBuildExit() {
	m.log.Infof("=== Exiting STRING_BUILD state ===")
}
