package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"

	"bitentry-go/errcode"
	"bitentry-go/types"
)

const defaultBaud = 115200

// UARTDial is injected by platform code (eg. in main or a tinygo_uart.go).
// It must open and return an io.ReadWriteCloser over the configured UART.
var UARTDial func(ctx context.Context, u types.UARTConfig) (io.ReadWriteCloser, error)

var errNoDial = &errcode.E{C: errcode.Unsupported, Op: "bridge uart", Msg: "UARTDial not implemented"}

// uartTransport implements Transport via an injected dial function.
type uartTransport struct {
	cfg types.UARTConfig
}

func newUARTTransport(cfg types.BridgeConfig) (Transport, error) {
	u := types.UARTConfig{Baud: defaultBaud}
	if cfg.UART != nil && cfg.UART.Baud != 0 {
		u = *cfg.UART
	}
	return &uartTransport{cfg: u}, nil
}

func (u *uartTransport) Open(ctx context.Context) (Link, error) {
	if UARTDial == nil {
		return nil, errNoDial
	}
	rwc, err := UARTDial(ctx, u.cfg)
	if err != nil {
		return nil, err
	}
	return newLineLink(rwc), nil
}

func (u *uartTransport) String() string { return "uart" }

// -----------------------------------------------------------------------------
// Newline-delimited JSON framing
// -----------------------------------------------------------------------------

// Line is one frame on the serial link.
type Line struct {
	Topic   string          `json:"t"`
	Payload json.RawMessage `json:"p"`
}

// lineLink writes one JSON object per line. Incoming lines are drained; a
// read error means the peer has gone.
type lineLink struct {
	mu   sync.Mutex
	rwc  io.ReadWriteCloser
	lost chan error
}

func newLineLink(rwc io.ReadWriteCloser) *lineLink {
	l := &lineLink{rwc: rwc, lost: make(chan error, 1)}
	go l.readLoop()
	return l
}

func (l *lineLink) readLoop() {
	sc := bufio.NewScanner(l.rwc)
	for sc.Scan() {
		// Downlink lines are not routed onto the bus.
	}
	err := sc.Err()
	if err == nil {
		err = io.EOF
	}
	l.lost <- err
}

func (l *lineLink) Lost() <-chan error { return l.lost }

func (l *lineLink) Publish(topic string, payload []byte) error {
	b, err := json.Marshal(Line{Topic: topic, Payload: payload})
	if err != nil {
		return err
	}
	b = append(b, '\n')
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = l.rwc.Write(b)
	return err
}

func (l *lineLink) Close() error { return l.rwc.Close() }
