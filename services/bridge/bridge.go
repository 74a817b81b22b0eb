// bridge/bridge.go
package bridge

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"bitentry-go/bus"
	"bitentry-go/errcode"
	"bitentry-go/types"
	"bitentry-go/x/logx"
)

var (
	topicConfigBridge = bus.T("config", "bridge")
	topicBridgeState  = bus.T("bridge", "state")
)

// -----------------------------------------------------------------------------
// Public entry point
// -----------------------------------------------------------------------------

// Start starts the bridge service. It blocks until ctx is cancelled.
// It listens for config on topic config/bridge and (re)configures the link.
func Start(ctx context.Context, conn *bus.Connection, log logx.Logger) {
	s := &Service{
		conn:       conn,
		stateTopic: topicBridgeState,
		log:        logx.Or(log),
	}
	s.run(ctx)
}

// -----------------------------------------------------------------------------
// Service
// -----------------------------------------------------------------------------

type Service struct {
	conn       *bus.Connection
	stateTopic bus.Topic
	log        logx.Logger

	mu     sync.Mutex
	curRun context.CancelFunc
	done   chan struct{} // closed when the current link goroutine exits
}

// run waits for config and supervises a single link instance.
func (s *Service) run(ctx context.Context) {
	cfgSub := s.conn.Subscribe(topicConfigBridge)
	defer s.conn.Unsubscribe(cfgSub)

	s.publishState("idle", "awaiting_config", nil)

	for {
		select {
		case <-ctx.Done():
			s.stopCurrent()
			return
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				s.publishState("error", "config_subscription_closed", nil)
				return
			}
			cfg, err := decodeConfig(msg.Payload)
			if err != nil {
				s.publishState("error", "config_decode_failed", err)
				continue
			}
			if cfg.Transport == "" {
				s.stopCurrent()
				s.publishState("idle", "disabled", nil)
				continue
			}
			s.reconfigure(ctx, cfg)
		}
	}
}

// stopCurrent cancels the running link and waits for it to release the
// transport, so a new link never overlaps the old one.
func (s *Service) stopCurrent() {
	s.mu.Lock()
	cancel, done := s.curRun, s.done
	s.curRun, s.done = nil, nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

func (s *Service) reconfigure(parent context.Context, cfg types.BridgeConfig) {
	s.stopCurrent()

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	s.mu.Lock()
	s.curRun, s.done = cancel, done
	s.mu.Unlock()

	go func() {
		defer close(done)
		s.runLink(ctx, cfg)
	}()
}

// -----------------------------------------------------------------------------
// Link supervision and I/O
// -----------------------------------------------------------------------------

func (s *Service) runLink(ctx context.Context, cfg types.BridgeConfig) {
	tr, err := newTransport(cfg)
	if err != nil {
		s.publishState("error", "transport_init_failed", err)
		return
	}

	backoff := backoffSeq(250*time.Millisecond, 5*time.Second)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		link, err := tr.Open(ctx)
		if err != nil {
			delay := backoff()
			s.publishState("degraded", "dial_failed_retrying", retryErr(err, delay))
			if !sleep(ctx, delay) {
				return
			}
			continue
		}

		err = s.handleLink(ctx, tr, link, cfg.Topics)
		_ = link.Close()
		if err == nil {
			// Cancelled: restart only on new config.
			return
		}
		delay := backoff()
		s.publishState("degraded", "link_lost_retrying", retryErr(err, delay))
		if !sleep(ctx, delay) {
			return
		}
	}
}

// handleLink forwards every message on the configured topics to the link
// until ctx is cancelled (nil) or the link fails (non-nil). The link is
// reported up once its subscriptions are in place.
func (s *Service) handleLink(ctx context.Context, tr Transport, link Link, topics []string) error {
	fwd := make(chan *bus.Message, 16)
	var subs []*bus.Subscription
	for _, pat := range topics {
		t := bus.Parse(pat)
		if len(t) == 0 {
			continue
		}
		subs = append(subs, s.conn.Subscribe(t))
	}
	defer func() {
		for _, sub := range subs {
			s.conn.Unsubscribe(sub)
		}
	}()

	stop := make(chan struct{})
	defer close(stop)

	// Fan in; each pump exits when its subscription is closed.
	for _, sub := range subs {
		go func(sub *bus.Subscription) {
			for m := range sub.Channel() {
				select {
				case fwd <- m:
				case <-stop:
				}
			}
		}(sub)
	}

	var lost <-chan error
	if l, ok := link.(interface{ Lost() <-chan error }); ok {
		lost = l.Lost()
	}

	s.publishState("up", "link_established", nil)
	s.log.Infof("bridge: %s link up", tr)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-lost:
			return errcode.Wrap(errcode.LinkDown, "bridge", err)
		case m := <-fwd:
			b, err := json.Marshal(m.Payload)
			if err != nil {
				s.log.Warnf("bridge: cannot encode %s: %v", m.Topic, err)
				continue
			}
			if err := link.Publish(m.Topic.String(), b); err != nil {
				return errcode.Wrap(errcode.LinkDown, "bridge publish "+m.Topic.String(), err)
			}
		}
	}
}

// -----------------------------------------------------------------------------
// Transport registry
// -----------------------------------------------------------------------------

// Link carries forwarded messages to the remote peer.
// A Link may also implement Lost() <-chan error to report a dropped
// connection between publishes.
type Link interface {
	Publish(topic string, payload []byte) error
	Close() error
}

// Transport is a pluggable link dialler.
type Transport interface {
	Open(ctx context.Context) (Link, error)
	String() string
}

type transportFactory func(types.BridgeConfig) (Transport, error)

var (
	regMu    sync.RWMutex
	registry = map[string]transportFactory{}
)

// RegisterTransport allows platform packages to add transports.
func RegisterTransport(name string, f transportFactory) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[name] = f
}

func newTransport(cfg types.BridgeConfig) (Transport, error) {
	regMu.RLock()
	f, ok := registry[cfg.Transport]
	regMu.RUnlock()
	if ok {
		return f(cfg)
	}
	switch cfg.Transport {
	case "uart":
		return newUARTTransport(cfg)
	default:
		return nil, &errcode.E{C: errcode.UnknownTransport, Op: "bridge", Msg: strconv.Quote(cfg.Transport)}
	}
}

// -----------------------------------------------------------------------------
// Utilities
// -----------------------------------------------------------------------------

func decodeConfig(p any) (types.BridgeConfig, error) {
	var cfg types.BridgeConfig
	switch v := p.(type) {
	case types.BridgeConfig:
		return v, nil
	case *types.BridgeConfig:
		if v == nil {
			return cfg, errcode.InvalidPayload
		}
		return *v, nil
	case []byte:
		if err := json.Unmarshal(v, &cfg); err != nil {
			return cfg, errcode.Wrap(errcode.InvalidPayload, "bridge config", err)
		}
	case string:
		if err := json.Unmarshal([]byte(v), &cfg); err != nil {
			return cfg, errcode.Wrap(errcode.InvalidPayload, "bridge config", err)
		}
	case map[string]any:
		// Already a decoded object; re-marshal for simplicity.
		b, err := json.Marshal(v)
		if err != nil {
			return cfg, errcode.Wrap(errcode.InvalidPayload, "bridge config", err)
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, errcode.Wrap(errcode.InvalidPayload, "bridge config", err)
		}
	default:
		return cfg, &errcode.E{C: errcode.InvalidPayload, Op: "bridge config", Msg: "unsupported payload type"}
	}
	return cfg, nil
}

func (s *Service) publishState(level, status string, err error) {
	st := types.BridgeState{
		Level:  level,  // "up", "degraded", "error", "idle"
		Status: status, // short machine string
		TS:     time.Now().UnixMilli(),
	}
	if err != nil {
		st.Error = err.Error()
		s.log.Warnf("bridge: %s/%s: %v", level, status, err)
	}
	s.conn.Publish(s.conn.NewMessage(s.stateTopic, st, true))
}

func retryErr(err error, d time.Duration) error {
	return &errcode.E{C: errcode.LinkDown, Msg: "retry in " + d.String(), Err: err}
}

func backoffSeq(min, max time.Duration) func() time.Duration {
	if min <= 0 {
		min = 100 * time.Millisecond
	}
	if max < min {
		max = min
	}
	var cur = min
	return func() time.Duration {
		d := cur
		cur *= 2
		if cur > max {
			cur = max
		}
		return d
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
