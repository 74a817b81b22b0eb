package entry

func (m *Machine) standbyEnter(bool) {
	m.log.Infof("=== Entering STANDBY state ===")
	m.log.Infof("All LEDs pulsing. Press any button to return.")
	m.s.pulse.Reset()
	for ch := Channel(0); ch < NumChannels; ch++ {
		m.out.SetPulse(ch, 0)
	}
}

// standbyRun pulses every LED with a shared triangle wave and wakes on any
// press. Every latched press is consumed so the wake press is not replayed
// as input in the resumed state.
func (m *Machine) standbyRun() {
	duty := m.s.pulse.Next()
	for ch := Channel(0); ch < NumChannels; ch++ {
		m.out.SetPulse(ch, duty)
	}

	woke := false
	for b := Button(0); b < NumButtons; b++ {
		if m.in.TakePress(b) {
			woke = true
		}
	}
	if woke {
		m.log.Infof("Exiting standby, returning to %s", m.s.prev)
		m.fire(resumeEvent(m.s.prev))
	}
}

// standbyExit ends the pulse whichever state is resumed.
func (m *Machine) standbyExit() {
	m.log.Infof("=== Exiting STANDBY state ===")
	m.allOff()
}
