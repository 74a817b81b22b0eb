package config

import (
	"context"

	"bitentry-go/bus"
	"bitentry-go/errcode"
	"bitentry-go/types"
	"bitentry-go/x/logx"
)

// -----------------------------------------------------------------------------
// String constants (live in flash, not RAM)
// -----------------------------------------------------------------------------

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key used for device ID
)

// Section keys, published as config/<key>.
const (
	KeyDevice    = "device"
	KeyEntry     = "entry"
	KeyHeartbeat = "heartbeat"
	KeyBridge    = "bridge"
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) (types.DeviceConfig, bool) {
	c, ok := embeddedConfigs[device]
	return c, ok
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string

	// Fixed, when set, is published instead of the embedded config.
	Fixed *types.DeviceConfig
	Log   logx.Logger
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

func (s *ConfigService) resolve(ctx context.Context) (types.DeviceConfig, error) {
	if s.Fixed != nil {
		return *s.Fixed, nil
	}
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return types.DeviceConfig{}, &errcode.E{C: errcode.InvalidConfig, Op: "config", Msg: "missing device ID in context"}
	}
	c, ok := EmbeddedConfigLookup(device)
	if !ok {
		return types.DeviceConfig{}, &errcode.E{C: errcode.InvalidConfig, Op: "config", Msg: "no embedded config for device: " + device}
	}
	if c.Device == "" {
		c.Device = device
	}
	return c, nil
}

// publishConfig validates the device config and publishes each section as a
// retained message.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	c, err := s.resolve(ctx)
	if err != nil {
		return err
	}
	if err := Validate(c); err != nil {
		return err
	}

	sections := []struct {
		key string
		val any
	}{
		{KeyDevice, c.Device},
		{KeyEntry, c.Entry},
		{KeyHeartbeat, c.Heartbeat},
		{KeyBridge, c.Bridge},
	}
	for _, sec := range sections {
		conn.Publish(conn.NewMessage(bus.T(configPrefix, sec.key), sec.val, true))
	}
	logx.Or(s.Log).Infof("config: published %d sections for %s", len(sections), c.Device)
	return nil
}

// Start publishes the configuration once. Consumers pick it up as retained
// messages whenever they subscribe.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) error {
	return s.publishConfig(ctx, conn)
}
