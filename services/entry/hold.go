package entry

import "bitentry-go/x/timex"

// holdButtons are the two standby triggers, indexed like Session.hold.
var holdButtons = [2]Button{BtnZero, BtnOne}

// checkStandby runs the dual-hold detector. Each trigger is timed from its
// own most recent released-to-held transition; releasing one restarts its
// timer. Once both have been held for holdMs the current state is saved,
// both anchors are dropped so the next standby needs a fresh hold, and the
// standby event is requested. It reports whether that happened.
func (m *Machine) checkStandby() bool {
	now := m.clk.NowMs()
	for i, b := range holdButtons {
		h := &m.s.hold[i]
		if m.in.IsHeld(b) {
			if !h.held {
				h.held = true
				h.start = now
			}
		} else {
			h.held = false
		}
	}

	h0, h1 := &m.s.hold[0], &m.s.hold[1]
	if !h0.held || !h1.held {
		return false
	}
	if timex.Since(now, h0.start) < m.holdMs || timex.Since(now, h1.start) < m.holdMs {
		return false
	}
	m.s.prev = m.cur
	h0.held = false
	h1.held = false
	m.log.Infof("standby hold detected in %s", m.cur)
	m.fire(evStandby)
	return true
}
