// Package entry implements the bit-by-bit ASCII string entry controller:
// a four-state machine polled once per millisecond tick.
package entry

import (
	"bitentry-go/errcode"
	"bitentry-go/x/logx"
	"bitentry-go/x/ramp"
)

// StateID is the machine's state tag.
type StateID uint8

const (
	CharEntry StateID = iota
	StringBuild
	StringConfirm
	Standby

	numStates
)

var stateNames = [numStates]string{"char_entry", "string_build", "string_confirm", "standby"}

func (s StateID) String() string {
	if s < numStates {
		return stateNames[s]
	}
	return "unknown"
}

func parseState(name string) (StateID, bool) {
	for i, n := range stateNames {
		if n == name {
			return StateID(i), true
		}
	}
	return 0, false
}

// Defaults.
const (
	DefaultHoldMs      = 3000
	DefaultIndicatorMs = 100
)

// Heartbeat half-periods in ticks.
const (
	charEntryBlink     = 500 // 1 Hz
	stringBuildBlink   = 125 // 4 Hz
	stringConfirmBlink = 31  // 16 Hz
)

// Standby pulse ramp.
const (
	pulseTop  = 100
	pulseStep = 2
)

// Config wires a Machine to its collaborators. Input, Output and Clock are
// required; the rest default to no-ops.
type Config struct {
	Input       Input
	Output      Output
	Clock       Clock
	Transmitter Transmitter
	Observer    Observer
	Logger      logx.Logger

	HoldMs      uint32
	IndicatorMs uint32
}

// state is one row of the dispatch table. entry receives resumed=true when
// the state is re-entered from Standby.
type state struct {
	entry func(m *Machine, resumed bool)
	run   func(m *Machine)
	exit  func(m *Machine)
}

var states [numStates]state

func init() {
	states = [numStates]state{
		CharEntry:     {entry: (*Machine).charEntryEnter, run: (*Machine).charEntryRun, exit: (*Machine).charEntryExit},
		StringBuild:   {entry: (*Machine).stringBuildEnter, run: (*Machine).stringBuildRun, exit: (*Machine).stringBuildExit},
		StringConfirm: {entry: (*Machine).stringConfirmEnter, run: (*Machine).stringConfirmRun, exit: (*Machine).stringConfirmExit},
		Standby:       {entry: (*Machine).standbyEnter, run: (*Machine).standbyRun, exit: (*Machine).standbyExit},
	}
}

// Machine is the entry controller. It is not safe for concurrent use; drive
// it from a single loop.
type Machine struct {
	s   Session
	cur StateID

	// pending is the event requested during the current tick, if any.
	pending string

	in  Input
	out Output
	clk Clock
	tx  Transmitter
	obs Observer
	log logx.Logger

	topo *topology

	holdMs      uint32
	indicatorMs uint32
}

// New builds a Machine. Call Init before the first RunOnce.
func New(cfg Config) (*Machine, error) {
	if cfg.Input == nil || cfg.Output == nil || cfg.Clock == nil {
		return nil, errcode.InvalidParams
	}
	m := &Machine{
		in:   cfg.Input,
		out:  cfg.Output,
		clk:  cfg.Clock,
		tx:   cfg.Transmitter,
		obs:  cfg.Observer,
		log:  logx.Or(cfg.Logger),
		topo: newTopology(),
	}
	if m.tx == nil {
		m.tx = nopTransmitter{}
	}
	if m.obs == nil {
		m.obs = nopObserver{}
	}
	m.SetTiming(cfg.HoldMs, cfg.IndicatorMs)
	return m, nil
}

// SetTiming updates the dual-hold threshold and indicator flash length.
// Zero keeps the default.
func (m *Machine) SetTiming(holdMs, indicatorMs uint32) {
	if holdMs == 0 {
		holdMs = DefaultHoldMs
	}
	if indicatorMs == 0 {
		indicatorMs = DefaultIndicatorMs
	}
	m.holdMs = holdMs
	m.indicatorMs = indicatorMs
}

// Init zeroes the session and enters CharEntry.
func (m *Machine) Init() {
	m.s = Session{pulse: ramp.NewTriangle(pulseTop, pulseStep)}
	m.cur = CharEntry
	m.pending = ""
	states[m.cur].entry(m, false)
	m.obs.Transitioned(m.cur, m.cur)
}

// RunOnce processes one tick. At most one transition happens per call:
// the first event a state requests wins and the rest of its run is skipped.
// It always reports the tick as handled.
func (m *Machine) RunOnce() bool {
	m.pending = ""
	states[m.cur].run(m)
	if m.pending != "" {
		m.transition(m.pending)
		m.pending = ""
	}
	return true
}

// fire requests a transition for this tick. Callers return right after.
func (m *Machine) fire(ev string) {
	if m.pending == "" {
		m.pending = ev
	}
}

func (m *Machine) transition(ev string) {
	from := m.cur
	to, err := m.topo.resolve(from, ev)
	if err != nil {
		m.log.Warnf("%v", err)
		m.obs.Rejected(errcode.Of(err), from)
		return
	}
	states[from].exit(m)
	m.cur = to
	states[to].entry(m, from == Standby)
	m.obs.Transitioned(from, to)
}

func (m *Machine) reject(code errcode.Code) {
	m.obs.Rejected(code, m.cur)
}

// State returns the current state.
func (m *Machine) State() StateID { return m.cur }

// Snapshot is a read-only copy of the session for display and tests.
type Snapshot struct {
	State    StateID
	Previous StateID // meaningful only in Standby
	Char     byte
	Bits     uint8
	Text     string
	Duty     uint8
}

func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		State:    m.cur,
		Previous: m.s.prev,
		Char:     m.s.char,
		Bits:     m.s.bits,
		Text:     string(m.s.Text()),
		Duty:     m.s.pulse.Level,
	}
}
