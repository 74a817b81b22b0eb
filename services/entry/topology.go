package entry

import (
	"context"

	"github.com/looplab/fsm"

	"bitentry-go/errcode"
)

// Events requested by the state run functions.
const (
	evCommit   = "commit"
	evDelete   = "delete"
	evFinalize = "finalize"
	evSend     = "send"
	evStandby  = "standby"
)

func resumeEvent(to StateID) string { return "resume_" + to.String() }

// topology holds the only legal transitions. The dispatcher asks it for the
// destination of every requested event, so an edge missing here can never
// be taken.
type topology struct {
	f *fsm.FSM
}

func newTopology() *topology {
	active := []string{CharEntry.String(), StringBuild.String(), StringConfirm.String()}
	standby := []string{Standby.String()}

	events := fsm.Events{
		{Name: evCommit, Src: []string{CharEntry.String()}, Dst: StringBuild.String()},
		{Name: evDelete, Src: []string{StringBuild.String(), StringConfirm.String()}, Dst: CharEntry.String()},
		{Name: evFinalize, Src: []string{StringBuild.String()}, Dst: StringConfirm.String()},
		{Name: evSend, Src: []string{StringConfirm.String()}, Dst: CharEntry.String()},
		{Name: evStandby, Src: active, Dst: Standby.String()},
	}
	for _, st := range []StateID{CharEntry, StringBuild, StringConfirm} {
		events = append(events, fsm.EventDesc{Name: resumeEvent(st), Src: standby, Dst: st.String()})
	}
	return &topology{f: fsm.NewFSM(CharEntry.String(), events, fsm.Callbacks{})}
}

// resolve returns the destination of ev taken from `from`.
func (t *topology) resolve(from StateID, ev string) (StateID, error) {
	t.f.SetState(from.String())
	if err := t.f.Event(context.Background(), ev); err != nil {
		return from, &errcode.E{C: errcode.InvalidTransition, Op: ev, Msg: "from " + from.String(), Err: err}
	}
	to, ok := parseState(t.f.Current())
	if !ok {
		return from, &errcode.E{C: errcode.InvalidTransition, Op: ev, Msg: "unknown destination " + t.f.Current()}
	}
	return to, nil
}

// can reports whether ev is legal from `from` without moving.
func (t *topology) can(from StateID, ev string) bool {
	t.f.SetState(from.String())
	return t.f.Can(ev)
}
