package config

import (
	"bitentry-go/errcode"
	"bitentry-go/types"
)

// Compiled-in defaults.
const (
	DefaultHoldMs      = 3000
	DefaultIndicatorMs = 100
	DefaultTickMs      = 1
	DefaultIntervalS   = 2
	DefaultUARTBaud    = 115200
)

// DefaultTopics are forwarded by the bridge when none are configured.
var DefaultTopics = []string{"entry/tx", "heartbeat"}

// Defaults returns a fresh copy of the compiled-in configuration.
func Defaults() types.DeviceConfig {
	return types.DeviceConfig{
		Entry: types.EntryConfig{
			HoldMs:      DefaultHoldMs,
			IndicatorMs: DefaultIndicatorMs,
			TickMs:      DefaultTickMs,
		},
		Heartbeat: types.HeartbeatConfig{IntervalS: DefaultIntervalS},
		Bridge: types.BridgeConfig{
			Topics: append([]string(nil), DefaultTopics...),
		},
	}
}

func withDevice(name string, c types.DeviceConfig) types.DeviceConfig {
	c.Device = name
	return c
}

func picoConfig() types.DeviceConfig {
	c := withDevice("pico", Defaults())
	c.Bridge.Transport = "uart"
	c.Bridge.UART = &types.UARTConfig{Baud: DefaultUARTBaud}
	return c
}

// Key: device ID (same value placed in ctx under CtxDeviceKey)
var embeddedConfigs = map[string]types.DeviceConfig{
	"pico": picoConfig(),
	"sim":  withDevice("sim", Defaults()),
	"rpi":  withDevice("rpi", Defaults()),
}

// Validate rejects configurations the services cannot run with.
func Validate(c types.DeviceConfig) error {
	bad := func(msg string) error {
		return &errcode.E{C: errcode.InvalidConfig, Op: "config.Validate", Msg: msg}
	}
	switch {
	case c.Entry.HoldMs == 0:
		return bad("entry.hold_ms must be > 0")
	case c.Entry.IndicatorMs == 0:
		return bad("entry.indicator_ms must be > 0")
	case c.Entry.TickMs == 0:
		return bad("entry.tick_ms must be > 0")
	case c.Heartbeat.IntervalS == 0:
		return bad("heartbeat.interval_s must be > 0")
	}
	switch c.Bridge.Transport {
	case "":
	case "mqtt":
		if c.Bridge.MQTT == nil || c.Bridge.MQTT.URL == "" {
			return bad("bridge.mqtt.url required")
		}
	case "uart":
		if c.Bridge.UART != nil && c.Bridge.UART.Baud == 0 {
			return bad("bridge.uart.baud must be > 0")
		}
	default:
		return &errcode.E{C: errcode.UnknownTransport, Op: "config.Validate", Msg: c.Bridge.Transport}
	}
	return nil
}
