package entry

import "bitentry-go/x/logx"

// indicatorChannels maps a bit value to its acknowledgement LED.
var indicatorChannels = [2]Channel{LedZero, LedOne}

// allOff forces every channel off.
func (m *Machine) allOff() {
	for ch := Channel(0); ch < NumChannels; ch++ {
		m.out.SetChannel(ch, false)
	}
}

// heartbeat toggles the heartbeat LED every period ticks.
func (m *Machine) heartbeat(period uint32) {
	m.s.blinkCount++
	if m.s.blinkCount >= period {
		m.s.blinkOn = !m.s.blinkOn
		m.out.SetChannel(LedBeat, m.s.blinkOn)
		m.s.blinkCount = 0
	}
}

// decayIndicators turns each armed indicator off once it has been lit for
// indicatorMs ticks. A zero timer is idle.
func (m *Machine) decayIndicators() {
	for i := range m.s.indicator {
		if m.s.indicator[i] == 0 {
			continue
		}
		m.s.indicator[i]++
		if m.s.indicator[i] >= m.indicatorMs {
			m.out.SetChannel(indicatorChannels[i], false)
			m.s.indicator[i] = 0
		}
	}
}

// flash lights the indicator for bit v and arms its one-shot.
func (m *Machine) flash(v uint8) {
	m.out.SetChannel(indicatorChannels[v], true)
	m.s.indicator[v] = 1
}

// Banner logs the button roles. Commands print it once at boot.
func Banner(log logx.Logger) {
	log = logx.Or(log)
	log.Infof("========================================")
	log.Infof(" ASCII bit entry")
	log.Infof("========================================")
	log.Infof("BTN0: bit 0 | BTN1: bit 1 (LSB first)")
	log.Infof("BTN2: clear character / delete string")
	log.Infof("BTN3: save character / finalize / send")
	log.Infof("Hold BTN0+BTN1 to enter standby; any button resumes")
}
