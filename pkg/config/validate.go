package config

import (
	"fmt"
	"net/url"

	"go.uber.org/zap/zapcore"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogLevel(); err != nil {
		return err
	}
	if err := c.validateJSONOptions(); err != nil {
		return err
	}
	return c.validateURLPrefix()
}

func (c *Config) validateLogLevel() error {
	if c.LogLevel == "" {
		return nil
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	return nil
}

func (c *Config) validateJSONOptions() error {
	if c.DefaultJSONOptions == nil {
		return nil
	}
	if *c.DefaultJSONOptions < 0 {
		return fmt.Errorf("config: default_json_options must not be negative, got %d", *c.DefaultJSONOptions)
	}
	return nil
}

func (c *Config) validateURLPrefix() error {
	if c.URLPrefix == "" {
		return nil
	}
	if _, err := url.Parse(c.URLPrefix); err != nil {
		return fmt.Errorf("config: url_prefix: %w", err)
	}
	return nil
}
