//go:build !tinygo

package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"bitentry-go/errcode"
	"bitentry-go/types"
)

// ParseYAML overlays a YAML document on the defaults and validates it.
func ParseYAML(b []byte) (types.DeviceConfig, error) {
	c := Defaults()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return types.DeviceConfig{}, errcode.Wrap(errcode.InvalidConfig, "config.ParseYAML", err)
	}
	if len(c.Bridge.Topics) == 0 {
		c.Bridge.Topics = append([]string(nil), DefaultTopics...)
	}
	if err := Validate(c); err != nil {
		return types.DeviceConfig{}, err
	}
	return c, nil
}

// LoadYAML reads path and parses it with ParseYAML.
func LoadYAML(path string) (types.DeviceConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.DeviceConfig{}, errcode.Wrap(errcode.InvalidConfig, "config.LoadYAML", err)
	}
	return ParseYAML(b)
}
