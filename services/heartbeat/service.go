package heartbeat

import (
	"context"
	"time"

	"bitentry-go/bus"
	"bitentry-go/types"
	"bitentry-go/x/logx"
	"bitentry-go/x/timex"
)

var (
	topicConfigHeartbeat = bus.T("config", "heartbeat")
	topicEntryState      = bus.T("entry", "state")
	topicEntryTx         = bus.T("entry", "tx")
	topicHeartbeat       = bus.T("heartbeat")
)

const defaultInterval = 2 * time.Second

// Service publishes a periodic heartbeat carrying the entry machine's state
// and how many strings it has transmitted.
type Service struct {
	Log logx.Logger

	// Interval overrides the default until config/heartbeat arrives.
	Interval time.Duration

	seq         uint32
	state       string
	transmitted uint32
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	log := logx.Or(s.Log)

	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)
	stateSub := conn.Subscribe(topicEntryState)
	defer conn.Unsubscribe(stateSub)
	txSub := conn.Subscribe(topicEntryTx)
	defer conn.Unsubscribe(txSub)

	iv := s.Interval
	if iv <= 0 {
		iv = defaultInterval
	}
	tick := time.NewTicker(iv)
	defer tick.Stop()

	// loop until context is cancelled, respond to tick and config changes
	for {
		select {
		case <-ctx.Done():
			log.Infof("heartbeat service stopping")
			return
		case <-tick.C:
			s.seq++
			conn.Publish(conn.NewMessage(topicHeartbeat, types.Heartbeat{
				Seq:         s.seq,
				State:       s.state,
				Transmitted: s.transmitted,
				TS:          timex.NowMs(),
			}, false))
			log.Debugf("heartbeat %d state=%s tx=%d", s.seq, s.state, s.transmitted)
		case msg := <-stateSub.Channel():
			if v, ok := msg.Payload.(types.StateValue); ok {
				s.state = v.State
			}
		case <-txSub.Channel():
			s.transmitted++
		case msg := <-cfgSub.Channel():
			c, ok := msg.Payload.(types.HeartbeatConfig)
			if !ok || c.IntervalS == 0 {
				log.Warnf("heartbeat: ignoring config %v", msg.Payload)
				continue
			}
			tick.Reset(time.Duration(c.IntervalS) * time.Second)
			log.Infof("Heartbeat interval set to %d seconds", c.IntervalS)
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
