//go:build !tinygo

// entry-sim runs the bit-entry machine on a simulated board driven from an
// interactive shell.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/golang/glog"

	"bitentry-go/bus"
	"bitentry-go/services/bridge"
	"bitentry-go/services/config"
	"bitentry-go/services/entry"
	"bitentry-go/services/hal"
	"bitentry-go/services/heartbeat"
	"bitentry-go/types"
	"bitentry-go/x/logx"
)

var (
	configPath = flag.String("config", "", "YAML config file (defaults to the embedded sim config).")
	mqttURL    = flag.String("mqtt", "", "Forward to this MQTT broker, e.g. mqtt://localhost:1883/bitentry.")
	realtime   = flag.Bool("realtime", false, "Tick the machine from the wall clock instead of the shell.")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	log := logx.Glog{}
	cfg, err := loadConfig()
	if err != nil {
		glog.Exitf("config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	b := bus.NewBus(16)
	fb := hal.NewFakeBoard(hal.DefaultDebounceMs)
	svc, err := entry.NewService(b.NewConnection("entry"), entry.ServiceConfig{
		Input:  fb.Buttons,
		Output: fb.LEDs,
		Poller: fb.Buttons,
		Logger: log,
		Entry:  cfg.Entry,
	})
	if err != nil {
		glog.Exitf("entry: %v", err)
	}
	if *realtime {
		_ = svc.Start(ctx)
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

	entry.Banner(log)

	sh := newSim(svc, fb, cfg.Entry, *realtime)
	go sh.watch(ctx, b.NewConnection("shell"))

	go func() {
		<-ctx.Done()
		sh.Shell.Close()
	}()
	sh.Shell.Run()
}

func loadConfig() (types.DeviceConfig, error) {
	var cfg types.DeviceConfig
	if *configPath != "" {
		c, err := config.LoadYAML(*configPath)
		if err != nil {
			return cfg, err
		}
		cfg = c
	} else {
		c, _ := config.EmbeddedConfigLookup("sim")
		cfg = c
	}
	if *mqttURL != "" {
		cfg.Bridge.Transport = "mqtt"
		cfg.Bridge.MQTT = &types.MQTTConfig{URL: *mqttURL, ClientID: "entry-sim"}
	}
	return cfg, config.Validate(cfg)
}
