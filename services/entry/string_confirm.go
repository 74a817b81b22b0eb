package entry

func (m *Machine) stringConfirmEnter(bool) {
	m.log.Infof("=== Entering STRING_CONFIRM state ===")
	m.log.Infof("String ready: %q", m.s.Text())
	m.log.Infof("BTN2: Delete and restart | BTN3: Send")
	m.s.resetDisplay()
	m.allOff()
}

// stringConfirmRun waits for the user to discard or send the string. Bit
// buttons do nothing here; their presses are drained so they cannot leak
// into the next character.
func (m *Machine) stringConfirmRun() {
	if m.checkStandby() {
		return
	}
	m.heartbeat(stringConfirmBlink)

	for _, b := range bitButtons {
		if m.in.TakePress(b) {
			m.log.Debugf("%s ignored while confirming", b)
		}
	}

	if m.in.TakePress(BtnClear) {
		m.log.Infof("String deleted, returning to entry mode")
		m.deleteString()
		m.fire(evDelete)
		return
	}

	if m.in.TakePress(BtnEnter) {
		out := append([]byte(nil), m.s.Text()...)
		m.log.Infof("========================================")
		m.log.Infof("TRANSMITTED STRING: %q", out)
		m.log.Infof("========================================")
		m.tx.Transmit(out)
		m.deleteString()
		m.fire(evSend)
	}
}

func (m *Machine) stringConfirmExit() {
	m.log.Infof("=== Exiting STRING_CONFIRM state ===")
}
