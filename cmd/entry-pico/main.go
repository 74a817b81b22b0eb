//go:build rp2040 || rp2350

package main

import (
	"context"
	"io"
	"machine"
	"time"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"bitentry-go/bus"
	"bitentry-go/services/bridge"
	"bitentry-go/services/config"
	"bitentry-go/services/entry"
	"bitentry-go/services/hal"
	"bitentry-go/services/heartbeat"
	"bitentry-go/types"
	"bitentry-go/x/logx"
)

// Pico wiring. Buttons pull to ground; LEDs sit on PWM slices 5 and 6.
var (
	buttonPins = [entry.NumButtons]int{2, 3, 4, 5}
	ledPins    = [entry.NumChannels]int{10, 11, 12, 13}
)

const ledPWMHz = 1000

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)

	log := logx.Console{}
	entry.Banner(log)

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, "pico")
	b := bus.NewBus(8)

	bridge.UARTDial = dialUART0

	var bc [entry.NumButtons]hal.ButtonConfig
	for i, n := range buttonPins {
		bc[i] = hal.ButtonConfig{Pin: hal.NewRP2Pin(n, hal.ModeInputPullup), ActiveLow: true}
	}
	btns := hal.NewButtons(hal.DefaultDebounceMs, bc[:]...)

	var lc [entry.NumChannels]hal.LEDConfig
	for i, n := range ledPins {
		pwm, err := hal.NewRP2PWM(n, ledPWMHz)
		if err != nil {
			log.Warnf("led %d: no pwm, using gpio: %v", i, err)
			lc[i] = hal.LEDConfig{Pin: hal.NewRP2Pin(n, hal.ModeOutput)}
			continue
		}
		lc[i] = hal.LEDConfig{PWM: pwm}
	}
	leds := hal.NewLEDs(lc[:]...)

	svc, err := entry.NewService(b.NewConnection("entry"), entry.ServiceConfig{
		Input:  btns,
		Output: leds,
		Poller: btns,
		Logger: log,
		Entry:  config.Defaults().Entry,
	})
	if err != nil {
		log.Warnf("entry service: %v", err)
		halt()
	}
	_ = svc.Start(ctx)

	hb := &heartbeat.Service{Log: log}
	_ = hb.Start(ctx, b.NewConnection("heartbeat"))

	go bridge.Start(ctx, b.NewConnection("bridge"), log)

	cs := config.NewConfigService()
	cs.Log = log
	if err := cs.Start(ctx, b.NewConnection("config")); err != nil {
		log.Warnf("config: %v", err)
	}

	select {}
}

// uartRWC adapts uartx to the bridge's io.ReadWriteCloser. Close only
// unblocks pending reads; the peripheral stays configured for the next dial.
type uartRWC struct {
	u      *uartx.UART
	ctx    context.Context
	cancel context.CancelFunc
}

func (r *uartRWC) Read(p []byte) (int, error) {
	n, err := r.u.RecvSomeContext(r.ctx, p)
	if err != nil && r.ctx.Err() != nil {
		return n, io.EOF
	}
	return n, err
}

func (r *uartRWC) Write(p []byte) (int, error) { return r.u.Write(p) }

func (r *uartRWC) Close() error {
	r.cancel()
	return nil
}

func dialUART0(ctx context.Context, c types.UARTConfig) (io.ReadWriteCloser, error) {
	u := uartx.UART0
	if err := u.Configure(uartx.UARTConfig{
		BaudRate: c.Baud,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	}); err != nil {
		return nil, err
	}
	rctx, cancel := context.WithCancel(context.Background())
	return &uartRWC{u: u, ctx: rctx, cancel: cancel}, nil
}

func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
