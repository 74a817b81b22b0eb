package types

// ------------------------
// Entry machine (published by services/entry)
// ------------------------

// StateValue is retained on entry/state.
type StateValue struct {
	State    string `json:"state"`
	Previous string `json:"previous,omitempty"` // state before the transition
	TS       int64  `json:"ts_ms"`
}

// StringValue is retained on entry/string whenever the buffer changes.
type StringValue struct {
	Text string `json:"text"`
	Len  int    `json:"len"`
}

// Transmission is published on entry/tx when a string is sent.
type Transmission struct {
	Seq  uint32 `json:"seq"`
	Text string `json:"text"`
	TS   int64  `json:"ts_ms"`
}

// Rejection is published on entry/reject for every refused input.
type Rejection struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// ------------------------
// Heartbeat
// ------------------------

type Heartbeat struct {
	Seq         uint32 `json:"seq"`
	State       string `json:"state"`
	Transmitted uint32 `json:"transmitted"`
	TS          int64  `json:"ts_ms"`
}

// ------------------------
// Bridge
// ------------------------

// BridgeState is retained on bridge/state.
type BridgeState struct {
	Level  string `json:"level"`  // "idle", "up", "degraded", "error"
	Status string `json:"status"` // short machine-readable code
	Error  string `json:"error,omitempty"`
	TS     int64  `json:"ts_ms"`
}

// ------------------------
// Configuration (retained on config/<key>)
// ------------------------

type EntryConfig struct {
	HoldMs      uint32 `json:"hold_ms" yaml:"hold_ms"`
	IndicatorMs uint32 `json:"indicator_ms" yaml:"indicator_ms"`
	TickMs      uint32 `json:"tick_ms" yaml:"tick_ms"`
}

type HeartbeatConfig struct {
	IntervalS uint32 `json:"interval_s" yaml:"interval_s"`
}

type MQTTConfig struct {
	URL      string `json:"url" yaml:"url"` // e.g. mqtt://host:1883/prefix
	ClientID string `json:"client_id,omitempty" yaml:"client_id"`
}

type UARTConfig struct {
	Baud uint32 `json:"baud" yaml:"baud"`
}

type BridgeConfig struct {
	Transport string      `json:"transport" yaml:"transport"` // "mqtt", "uart" or "" (disabled)
	MQTT      *MQTTConfig `json:"mqtt,omitempty" yaml:"mqtt"`
	UART      *UARTConfig `json:"uart,omitempty" yaml:"uart"`
	Topics    []string    `json:"topics,omitempty" yaml:"topics"` // "/"-separated bus patterns
}

// DeviceConfig is the whole configuration document.
type DeviceConfig struct {
	Device    string          `json:"device" yaml:"device"`
	Entry     EntryConfig     `json:"entry" yaml:"entry"`
	Heartbeat HeartbeatConfig `json:"heartbeat" yaml:"heartbeat"`
	Bridge    BridgeConfig    `json:"bridge" yaml:"bridge"`
}
