package entry

import (
	"context"
	"sync"
	"time"

	"bitentry-go/bus"
	"bitentry-go/errcode"
	"bitentry-go/types"
	"bitentry-go/x/logx"
	"bitentry-go/x/timex"
)

var (
	topicState       = bus.T("entry", "state")
	topicString      = bus.T("entry", "string")
	topicReject      = bus.T("entry", "reject")
	topicTx          = bus.T("entry", "tx")
	topicSnapshot    = bus.T("entry", "snapshot")
	topicConfigEntry = bus.T("config", "entry")
)

// Poller samples hardware once per tick, before the machine runs.
type Poller interface {
	Poll(nowMs uint32)
}

type ServiceConfig struct {
	Input  Input
	Output Output
	Poller Poller // optional
	Logger logx.Logger
	Entry  types.EntryConfig
}

// Service drives a Machine from a ticker and mirrors its events onto the bus.
type Service struct {
	mu   sync.Mutex
	m    *Machine
	clk  *timex.Ticks
	poll Poller
	conn *bus.Connection
	log  logx.Logger

	tick time.Duration
	seq  uint32
}

// NewService builds and initialises the machine. The initial state is
// published before NewService returns.
func NewService(conn *bus.Connection, cfg ServiceConfig) (*Service, error) {
	if conn == nil {
		return nil, errcode.InvalidParams
	}
	s := &Service{
		clk:  timex.NewTicks(0),
		poll: cfg.Poller,
		conn: conn,
		log:  logx.Or(cfg.Logger),
		tick: tickPeriod(cfg.Entry.TickMs),
	}
	m, err := New(Config{
		Input:       cfg.Input,
		Output:      cfg.Output,
		Clock:       s.clk,
		Transmitter: s,
		Observer:    s,
		Logger:      s.log,
		HoldMs:      cfg.Entry.HoldMs,
		IndicatorMs: cfg.Entry.IndicatorMs,
	})
	if err != nil {
		return nil, errcode.Wrap(errcode.Of(err), "entry.NewService", err)
	}
	s.m = m
	s.mu.Lock()
	m.Init()
	s.mu.Unlock()
	return s, nil
}

func tickPeriod(ms uint32) time.Duration {
	if ms == 0 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}

// Step runs n ticks synchronously.
func (s *Service) Step(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		if s.poll != nil {
			s.poll.Poll(s.clk.NowMs())
		}
		s.m.RunOnce()
		s.clk.Advance()
	}
}

// Snapshot returns a copy of the machine's session.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Snapshot()
}

// Start runs the tick loop in a goroutine.
func (s *Service) Start(ctx context.Context) error {
	go s.Run(ctx)
	return nil
}

// Run ticks the machine until ctx is cancelled. It also applies config/entry
// updates and answers entry/snapshot requests.
func (s *Service) Run(ctx context.Context) {
	cfgSub := s.conn.Subscribe(topicConfigEntry)
	defer s.conn.Unsubscribe(cfgSub)
	snapSub := s.conn.Subscribe(topicSnapshot)
	defer s.conn.Unsubscribe(snapSub)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Infof("entry service stopping")
			return
		case <-ticker.C:
			s.Step(1)
		case msg := <-cfgSub.Channel():
			if d, ok := s.applyConfig(msg.Payload); ok && d != s.tick {
				s.tick = d
				ticker.Reset(d)
			}
		case msg := <-snapSub.Channel():
			if msg.CanReply() {
				s.conn.Reply(msg, s.Snapshot(), false)
			}
		}
	}
}

func (s *Service) applyConfig(p any) (time.Duration, bool) {
	var c types.EntryConfig
	switch v := p.(type) {
	case types.EntryConfig:
		c = v
	case *types.EntryConfig:
		if v == nil {
			return 0, false
		}
		c = *v
	default:
		s.log.Warnf("entry: ignoring config payload %T", p)
		return 0, false
	}
	s.mu.Lock()
	s.m.SetTiming(c.HoldMs, c.IndicatorMs)
	s.mu.Unlock()
	s.log.Infof("entry: hold=%dms indicator=%dms tick=%dms", c.HoldMs, c.IndicatorMs, c.TickMs)
	return tickPeriod(c.TickMs), true
}

// Observer and Transmitter. Called with s.mu held, from Step.

func (s *Service) Transitioned(from, to StateID) {
	s.conn.Publish(s.conn.NewMessage(topicState, types.StateValue{
		State:    to.String(),
		Previous: from.String(),
		TS:       timex.NowMs(),
	}, true))
}

func (s *Service) StringChanged(text []byte) {
	s.conn.Publish(s.conn.NewMessage(topicString, types.StringValue{
		Text: string(text),
		Len:  len(text),
	}, true))
}

func (s *Service) Rejected(code errcode.Code, in StateID) {
	s.conn.Publish(s.conn.NewMessage(topicReject, types.Rejection{
		Code:  string(code),
		State: in.String(),
	}, false))
}

func (s *Service) Transmit(text []byte) {
	s.seq++
	s.conn.Publish(s.conn.NewMessage(topicTx, types.Transmission{
		Seq:  s.seq,
		Text: string(text),
		TS:   timex.NowMs(),
	}, false))
}
