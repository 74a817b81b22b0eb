//go:build linux && !tinygo

// entry-rpi runs the bit-entry machine on a Raspberry Pi, either on header
// GPIO lines or behind an MCP23017 expander on the I²C bus.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/i2c/i2creg"

	"bitentry-go/bus"
	"bitentry-go/services/bridge"
	"bitentry-go/services/config"
	"bitentry-go/services/entry"
	"bitentry-go/services/hal"
	"bitentry-go/services/heartbeat"
	"bitentry-go/x/logx"
)

var (
	configPath = flag.String("config", "", "YAML config file (defaults to the embedded rpi config).")
	expander   = flag.Bool("expander", false, "Use an MCP23017 on the default I²C bus instead of header GPIO.")
	i2cBus     = flag.String("i2c", "", "I²C bus name for -expander (empty for the first one).")
	i2cAddr    = flag.Uint("addr", 0x20, "MCP23017 address.")
)

// Header wiring. The LED lines are the hardware-PWM capable ones.
var (
	buttonLines = [entry.NumButtons]string{"GPIO5", "GPIO6", "GPIO16", "GPIO26"}
	ledLines    = [entry.NumChannels]string{"GPIO12", "GPIO13", "GPIO18", "GPIO19"}
)

// Expander wiring: buttons on GPA0..3, LEDs on GPB0..3.
var (
	expButtonLines = []int{0, 1, 2, 3}
	expLEDLines    = []int{8, 9, 10, 11}
)

func main() {
	flag.Parse()
	defer glog.Flush()

	log := logx.Glog{}
	if err := hal.InitPeriph(); err != nil {
		glog.Exitf("periph: %v", err)
	}

	cfg, _ := config.EmbeddedConfigLookup("rpi")
	if *configPath != "" {
		c, err := config.LoadYAML(*configPath)
		if err != nil {
			glog.Exitf("config: %v", err)
		}
		cfg = c
	}

	var (
		btns   *hal.Buttons
		leds   *hal.LEDs
		poller entry.Poller
	)
	if *expander {
		ib, err := i2creg.Open(*i2cBus)
		if err != nil {
			glog.Exitf("i2c: %v", err)
		}
		defer ib.Close()
		exp, err := hal.NewExpander(ib, uint8(*i2cAddr), expButtonLines, log)
		if err != nil {
			glog.Exitf("expander: %v", err)
		}
		var bc [entry.NumButtons]hal.ButtonConfig
		for i, n := range expButtonLines {
			bc[i] = hal.ButtonConfig{Pin: exp.Pin(n), ActiveLow: true}
		}
		var lc [entry.NumChannels]hal.LEDConfig
		for i, n := range expLEDLines {
			lc[i] = hal.LEDConfig{Pin: exp.Pin(n)}
		}
		btns = hal.NewButtons(hal.DefaultDebounceMs, bc[:]...)
		leds = hal.NewLEDs(lc[:]...)
		// Refresh the expander's inputs before debouncing them.
		poller = hal.Pollers{exp, btns}
	} else {
		var bc [entry.NumButtons]hal.ButtonConfig
		for i, name := range buttonLines {
			p, err := hal.NewPeriphPin(name, hal.ModeInputPullup, log)
			if err != nil {
				glog.Exitf("button %d: %v", i, err)
			}
			bc[i] = hal.ButtonConfig{Pin: p, ActiveLow: true}
		}
		var lc [entry.NumChannels]hal.LEDConfig
		for i, name := range ledLines {
			p, err := hal.NewPeriphPin(name, hal.ModeOutput, log)
			if err != nil {
				glog.Exitf("led %d: %v", i, err)
			}
			lc[i] = hal.LEDConfig{Pin: p, PWM: p}
		}
		btns = hal.NewButtons(hal.DefaultDebounceMs, bc[:]...)
		leds = hal.NewLEDs(lc[:]...)
		poller = btns
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	entry.Banner(log)

	b := bus.NewBus(16)
	svc, err := entry.NewService(b.NewConnection("entry"), entry.ServiceConfig{
		Input:  btns,
		Output: leds,
		Poller: poller,
		Logger: log,
		Entry:  cfg.Entry,
	})
	if err != nil {
		glog.Exitf("entry: %v", err)
	}

	hb := &heartbeat.Service{Log: log}
	_ = hb.Start(ctx, b.NewConnection("heartbeat"))
	go bridge.Start(ctx, b.NewConnection("bridge"), log)

	cs := config.NewConfigService()
	cs.Fixed = &cfg
	cs.Log = log
	if err := cs.Start(ctx, b.NewConnection("config")); err != nil {
		glog.Exitf("config: %v", err)
	}

	svc.Run(ctx)
}
