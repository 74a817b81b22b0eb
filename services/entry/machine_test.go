package entry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitentry-go/errcode"
	"bitentry-go/x/logx"
	"bitentry-go/x/timex"
)

// -----------------------------------------------------------------------------
// Fakes
// -----------------------------------------------------------------------------

type fakeInput struct {
	held    [NumButtons]bool
	pressed [NumButtons]bool
}

func (f *fakeInput) IsHeld(b Button) bool { return f.held[b] }

func (f *fakeInput) TakePress(b Button) bool {
	p := f.pressed[b]
	f.pressed[b] = false
	return p
}

type recOutput struct {
	on   [NumChannels]bool
	duty [NumChannels]uint8
}

func (o *recOutput) SetChannel(ch Channel, on bool)     { o.on[ch] = on }
func (o *recOutput) SetPulse(ch Channel, dutyPct uint8) { o.duty[ch] = dutyPct }

type transition struct{ from, to StateID }

type recObserver struct {
	transitions []transition
	strings     []string
	rejects     []errcode.Code
}

func (o *recObserver) Transitioned(from, to StateID) {
	o.transitions = append(o.transitions, transition{from, to})
}
func (o *recObserver) StringChanged(text []byte) { o.strings = append(o.strings, string(text)) }
func (o *recObserver) Rejected(code errcode.Code, _ StateID) {
	o.rejects = append(o.rejects, code)
}

func (o *recObserver) count(to StateID) int {
	n := 0
	for _, tr := range o.transitions {
		if tr.to == to && tr.from != tr.to {
			n++
		}
	}
	return n
}

type recTx struct{ sent []string }

func (t *recTx) Transmit(text []byte) { t.sent = append(t.sent, string(text)) }

// -----------------------------------------------------------------------------
// Rig
// -----------------------------------------------------------------------------

type rig struct {
	t   *testing.T
	m   *Machine
	in  *fakeInput
	out *recOutput
	clk *timex.Ticks
	obs *recObserver
	tx  *recTx
	log *logx.Recorder
}

func newRigAt(t *testing.T, start uint32) *rig {
	t.Helper()
	r := &rig{
		t:   t,
		in:  &fakeInput{},
		out: &recOutput{},
		clk: timex.NewTicks(start),
		obs: &recObserver{},
		tx:  &recTx{},
		log: &logx.Recorder{},
	}
	m, err := New(Config{
		Input:       r.in,
		Output:      r.out,
		Clock:       r.clk,
		Transmitter: r.tx,
		Observer:    r.obs,
		Logger:      r.log,
	})
	require.NoError(t, err)
	m.Init()
	r.m = m
	return r
}

func newRig(t *testing.T) *rig { return newRigAt(t, 0) }

func (r *rig) tick() {
	r.m.RunOnce()
	r.clk.Advance()
}

func (r *rig) ticks(n int) {
	for i := 0; i < n; i++ {
		r.tick()
	}
}

func (r *rig) press(b Button) {
	r.in.pressed[b] = true
	r.tick()
}

func (r *rig) bits(vs ...uint8) {
	for _, v := range vs {
		r.press(bitButtons[v])
	}
}

// char enters c LSB first.
func (r *rig) char(c byte) {
	for i := 0; i < BitsPerChar; i++ {
		r.press(bitButtons[(c>>i)&1])
	}
}

func (r *rig) holdBoth(on bool) {
	r.in.held[BtnZero] = on
	r.in.held[BtnOne] = on
}

// toStringBuild commits c from CharEntry.
func (r *rig) toStringBuild(c byte) {
	r.char(c)
	r.press(BtnEnter)
	require.Equal(r.t, StringBuild, r.m.State())
}

// -----------------------------------------------------------------------------
// Construction
// -----------------------------------------------------------------------------

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Config{Output: &recOutput{}, Clock: timex.NewTicks(0)})
	assert.Equal(t, errcode.InvalidParams, errcode.Of(err))
}

func TestInit_EntersCharEntryAndLightsNothing(t *testing.T) {
	r := newRig(t)
	assert.Equal(t, CharEntry, r.m.State())
	assert.Equal(t, [NumChannels]bool{}, r.out.on)
	require.Len(t, r.obs.transitions, 1)
	assert.Equal(t, transition{CharEntry, CharEntry}, r.obs.transitions[0])
	assert.True(t, r.m.RunOnce(), "RunOnce always reports handled")
}

// -----------------------------------------------------------------------------
// CharEntry
// -----------------------------------------------------------------------------

func TestCharEntry_BitsAccumulateLSBFirst(t *testing.T) {
	r := newRig(t)
	r.bits(1, 0, 1, 0, 1, 0, 1, 0)

	snap := r.m.Snapshot()
	assert.Equal(t, byte(0x55), snap.Char)
	assert.Equal(t, uint8(8), snap.Bits)

	r.press(BtnEnter)
	snap = r.m.Snapshot()
	assert.Equal(t, StringBuild, snap.State)
	assert.Equal(t, "U", snap.Text)
	assert.Equal(t, uint8(0), snap.Bits)
	assert.Equal(t, []string{"U"}, r.obs.strings)
}

func TestCharEntry_EveryPatternDecodes(t *testing.T) {
	for _, c := range []byte{0x00, 0x01, 0x80, 0x7F, 0xA5, 0xFF, 'z'} {
		r := newRig(t)
		r.char(c)
		assert.Equal(t, c, r.m.Snapshot().Char, "char 0x%02X", c)
	}
}

func TestCharEntry_CommitNeedsEightBits(t *testing.T) {
	r := newRig(t)
	r.bits(1, 1, 1)
	r.press(BtnEnter)

	snap := r.m.Snapshot()
	assert.Equal(t, CharEntry, snap.State)
	assert.Equal(t, uint8(3), snap.Bits)
	assert.Equal(t, 0, len(snap.Text))
	assert.Equal(t, []errcode.Code{errcode.IncompleteChar}, r.obs.rejects)
}

func TestCharEntry_NinthBitRejected(t *testing.T) {
	r := newRig(t)
	r.char('A')
	r.press(BtnOne)

	snap := r.m.Snapshot()
	assert.Equal(t, byte('A'), snap.Char)
	assert.Equal(t, uint8(8), snap.Bits)
	assert.Equal(t, []errcode.Code{errcode.CharComplete}, r.obs.rejects)
}

func TestCharEntry_ClearResetsCharacter(t *testing.T) {
	r := newRig(t)
	r.bits(1, 1, 0, 1)
	r.press(BtnClear)

	snap := r.m.Snapshot()
	assert.Equal(t, byte(0), snap.Char)
	assert.Equal(t, uint8(0), snap.Bits)
	assert.Equal(t, CharEntry, snap.State)
}

func TestCharEntry_BitLogLine(t *testing.T) {
	r := newRig(t)
	r.bits(1, 0)
	assert.Contains(t, r.log.Snapshot(), "Info: Bit 1: 0 | Current char: 0x01 (2 bits)")
}

func TestCharEntry_IndicatorFlashesThenDecays(t *testing.T) {
	r := newRig(t)
	r.press(BtnZero)
	require.True(t, r.out.on[LedZero])
	assert.False(t, r.out.on[LedOne])

	r.ticks(DefaultIndicatorMs - 2)
	assert.True(t, r.out.on[LedZero])
	r.tick()
	assert.False(t, r.out.on[LedZero])
}

func TestCharEntry_HeartbeatOneHertz(t *testing.T) {
	r := newRig(t)
	r.ticks(charEntryBlink - 1)
	assert.False(t, r.out.on[LedBeat])
	r.tick()
	assert.True(t, r.out.on[LedBeat])
	r.ticks(charEntryBlink)
	assert.False(t, r.out.on[LedBeat])
}

// -----------------------------------------------------------------------------
// StringBuild
// -----------------------------------------------------------------------------

func TestStringBuild_BitOnCompleteCharRollsOver(t *testing.T) {
	r := newRig(t)
	r.toStringBuild('U')

	r.char('V')
	require.Equal(t, uint8(8), r.m.Snapshot().Bits)
	r.press(BtnOne)

	snap := r.m.Snapshot()
	assert.Equal(t, "UV", snap.Text)
	assert.Equal(t, uint8(1), snap.Bits)
	assert.Equal(t, byte(1), snap.Char)
	assert.Equal(t, StringBuild, snap.State)

	// a zero bit seeds an empty accumulator
	r.bits(0, 0, 0, 0, 0, 0, 0)
	r.press(BtnZero)
	snap = r.m.Snapshot()
	assert.Equal(t, "UV\x01", snap.Text)
	assert.Equal(t, uint8(1), snap.Bits)
	assert.Equal(t, byte(0), snap.Char)
}

func TestStringBuild_DeleteWipesString(t *testing.T) {
	r := newRig(t)
	r.toStringBuild('H')
	r.bits(1, 0, 0)
	r.press(BtnClear)

	snap := r.m.Snapshot()
	assert.Equal(t, CharEntry, snap.State)
	assert.Equal(t, "", snap.Text)
	assert.Equal(t, uint8(0), snap.Bits)
}

func TestStringBuild_FinalizeCommitsCompleteChar(t *testing.T) {
	r := newRig(t)
	r.toStringBuild('H')
	r.char('I')
	r.press(BtnEnter)

	snap := r.m.Snapshot()
	assert.Equal(t, StringConfirm, snap.State)
	assert.Equal(t, "HI", snap.Text)
}

func TestStringBuild_FinalizeDropsPartialChar(t *testing.T) {
	r := newRig(t)
	r.toStringBuild('H')
	r.bits(1, 1, 1)
	r.press(BtnEnter)

	snap := r.m.Snapshot()
	assert.Equal(t, StringConfirm, snap.State)
	assert.Equal(t, "H", snap.Text)
}

func TestStringBuild_FullBuffer(t *testing.T) {
	r := newRig(t)
	r.toStringBuild('a')
	for r.m.s.Len() < Capacity-1 {
		require.NoError(t, r.m.s.Append('a'))
	}

	r.char('b')
	r.press(BtnOne)
	snap := r.m.Snapshot()
	assert.Equal(t, Capacity-1, len(snap.Text))
	assert.Equal(t, uint8(8), snap.Bits, "rejected bit is dropped")
	assert.Equal(t, []errcode.Code{errcode.BufferFull}, r.obs.rejects)

	// finalize still moves on even though the pending char is refused
	r.press(BtnEnter)
	assert.Equal(t, StringConfirm, r.m.State())
	assert.Equal(t, []errcode.Code{errcode.BufferFull, errcode.BufferFull}, r.obs.rejects)
	assert.Equal(t, byte(0), r.m.s.buf[Capacity-1], "terminator kept")

	r.press(BtnEnter)
	require.Len(t, r.tx.sent, 1)
	assert.Len(t, r.tx.sent[0], Capacity-1)
}

// -----------------------------------------------------------------------------
// StringConfirm
// -----------------------------------------------------------------------------

func TestStringConfirm_SendTransmitsAndResets(t *testing.T) {
	r := newRig(t)
	r.toStringBuild('H')
	r.char('I')
	r.press(BtnEnter)
	r.press(BtnEnter)

	assert.Equal(t, []string{"HI"}, r.tx.sent)
	snap := r.m.Snapshot()
	assert.Equal(t, CharEntry, snap.State)
	assert.Equal(t, "", snap.Text)
	assert.Equal(t, "", r.obs.strings[len(r.obs.strings)-1])
	assert.Contains(t, r.log.Snapshot(), `Info: TRANSMITTED STRING: "HI"`)
}

func TestStringConfirm_DeleteDiscards(t *testing.T) {
	r := newRig(t)
	r.toStringBuild('H')
	r.press(BtnEnter)
	r.press(BtnClear)

	assert.Empty(t, r.tx.sent)
	assert.Equal(t, CharEntry, r.m.State())
	assert.Equal(t, 0, r.m.s.Len())
}

func TestStringConfirm_IgnoresBits(t *testing.T) {
	r := newRig(t)
	r.toStringBuild('H')
	r.press(BtnEnter)
	r.bits(1, 0, 1)

	snap := r.m.Snapshot()
	assert.Equal(t, StringConfirm, snap.State)
	assert.Equal(t, "H", snap.Text)
	assert.Empty(t, r.obs.rejects)
}

func TestStringConfirm_HeartbeatSixteenHertz(t *testing.T) {
	r := newRig(t)
	r.toStringBuild('H')
	r.press(BtnEnter)
	r.ticks(stringConfirmBlink)
	assert.True(t, r.out.on[LedBeat])
}

// -----------------------------------------------------------------------------
// Standby hold detector
// -----------------------------------------------------------------------------

func TestStandby_EarlyReleaseGivesNoCredit(t *testing.T) {
	r := newRig(t)
	r.holdBoth(true)
	r.ticks(2999)
	r.in.held[BtnOne] = false
	r.tick()
	assert.Equal(t, CharEntry, r.m.State())

	r.in.held[BtnOne] = true
	r.ticks(DefaultHoldMs)
	assert.Equal(t, CharEntry, r.m.State(), "timer restarted on re-press")
	r.tick()
	assert.Equal(t, Standby, r.m.State())

	r.ticks(5000)
	assert.Equal(t, 1, r.obs.count(Standby))
}

func TestStandby_OneButtonIsNotEnough(t *testing.T) {
	r := newRig(t)
	r.in.held[BtnZero] = true
	r.ticks(10_000)
	assert.Equal(t, CharEntry, r.m.State())
}

func TestStandby_PreemptsInputOnSameTick(t *testing.T) {
	r := newRig(t)
	r.holdBoth(true)
	r.ticks(DefaultHoldMs)
	r.in.pressed[BtnOne] = true
	r.tick()

	assert.Equal(t, Standby, r.m.State())
	assert.Equal(t, uint8(0), r.m.Snapshot().Bits)
}

func TestStandby_ResumeRestoresSession(t *testing.T) {
	r := newRig(t)
	r.toStringBuild('U')
	r.bits(1, 0, 1)

	r.holdBoth(true)
	r.ticks(DefaultHoldMs + 1)
	require.Equal(t, Standby, r.m.State())
	assert.Equal(t, StringBuild, r.m.Snapshot().Previous)
	r.holdBoth(false)

	r.ticks(10)
	r.press(BtnClear)

	snap := r.m.Snapshot()
	assert.Equal(t, StringBuild, snap.State)
	assert.Equal(t, "U", snap.Text, "wake press is not replayed as delete")
	assert.Equal(t, byte(5), snap.Char)
	assert.Equal(t, uint8(3), snap.Bits)
	assert.Equal(t, [NumChannels]bool{}, r.out.on)
}

func TestStandby_ResumeFromStringConfirm(t *testing.T) {
	r := newRig(t)
	r.toStringBuild('U')
	r.press(BtnEnter)
	r.holdBoth(true)
	r.ticks(DefaultHoldMs + 1)
	r.holdBoth(false)
	r.press(BtnEnter)

	assert.Equal(t, StringConfirm, r.m.State())
	assert.Empty(t, r.tx.sent)
}

func TestStandby_PulseIsTriangle(t *testing.T) {
	r := newRig(t)
	r.holdBoth(true)
	r.ticks(DefaultHoldMs + 1)
	require.Equal(t, Standby, r.m.State())
	assert.Equal(t, uint8(0), r.out.duty[LedAux])

	var seen []uint8
	for i := 0; i < 102; i++ {
		r.tick()
		seen = append(seen, r.out.duty[LedAux])
		for ch := Channel(0); ch < NumChannels; ch++ {
			require.Equal(t, seen[i], r.out.duty[ch], "channels share one duty")
		}
	}
	assert.Equal(t, uint8(2), seen[0])
	assert.Equal(t, uint8(100), seen[49])
	assert.Equal(t, uint8(98), seen[50])
	assert.Equal(t, uint8(0), seen[99])
	assert.Equal(t, uint8(2), seen[101])
	for _, d := range seen {
		assert.LessOrEqual(t, d, uint8(100))
	}
}

func TestStandby_HoldAcrossCounterWrap(t *testing.T) {
	r := newRigAt(t, ^uint32(0)-1000)
	r.holdBoth(true)
	r.ticks(DefaultHoldMs)
	assert.Equal(t, CharEntry, r.m.State())
	r.tick()
	assert.Equal(t, Standby, r.m.State())
}

func TestSetTiming_ShortHold(t *testing.T) {
	r := newRig(t)
	r.m.SetTiming(10, 0)
	r.holdBoth(true)
	r.ticks(11)
	assert.Equal(t, Standby, r.m.State())
	assert.Equal(t, uint32(DefaultIndicatorMs), r.m.indicatorMs)
}

// -----------------------------------------------------------------------------
// Topology
// -----------------------------------------------------------------------------

func TestTopology_OnlyListedEdges(t *testing.T) {
	topo := newTopology()

	legal := []struct {
		from StateID
		ev   string
		to   StateID
	}{
		{CharEntry, evCommit, StringBuild},
		{StringBuild, evDelete, CharEntry},
		{StringBuild, evFinalize, StringConfirm},
		{StringConfirm, evDelete, CharEntry},
		{StringConfirm, evSend, CharEntry},
		{CharEntry, evStandby, Standby},
		{StringBuild, evStandby, Standby},
		{StringConfirm, evStandby, Standby},
		{Standby, resumeEvent(CharEntry), CharEntry},
		{Standby, resumeEvent(StringBuild), StringBuild},
		{Standby, resumeEvent(StringConfirm), StringConfirm},
	}
	for _, tc := range legal {
		to, err := topo.resolve(tc.from, tc.ev)
		require.NoError(t, err, "%s --%s-->", tc.from, tc.ev)
		assert.Equal(t, tc.to, to)
	}

	assert.False(t, topo.can(CharEntry, evDelete))
	assert.False(t, topo.can(CharEntry, evSend))
	assert.False(t, topo.can(StringBuild, evSend))
	assert.False(t, topo.can(Standby, evStandby))
	assert.False(t, topo.can(Standby, resumeEvent(Standby)))

	_, err := topo.resolve(StringConfirm, evFinalize)
	assert.Equal(t, errcode.InvalidTransition, errcode.Of(err))
}

func TestMachine_RefusesUnknownEdge(t *testing.T) {
	r := newRig(t)
	r.m.transition(evSend)
	assert.Equal(t, CharEntry, r.m.State())
	assert.Equal(t, []errcode.Code{errcode.InvalidTransition}, r.obs.rejects)
}

func TestStateID_String(t *testing.T) {
	assert.Equal(t, "string_confirm", StringConfirm.String())
	assert.Equal(t, "unknown", StateID(9).String())
	s, ok := parseState("standby")
	assert.True(t, ok)
	assert.Equal(t, Standby, s)
}
