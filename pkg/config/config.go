package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvDebug overrides Config.Debug when set to a boolean string.
const EnvDebug = "JSONAPI_DEBUG"

// Config holds the process-wide settings read by every render. It is
// read-only once handed to a view.
type Config struct {
	// Debug turns on pretty printed output and development logging.
	Debug bool `yaml:"debug" toml:"debug"`
	// LogLevel is a zap level name (debug, info, warn, error). Empty means
	// debug when Debug is set and info otherwise.
	LogLevel string `yaml:"log_level" toml:"log_level"`
	// DefaultJSONOptions replaces the HTML-safe flag set used when a bag has
	// no _jsonOptions.
	DefaultJSONOptions *int `yaml:"default_json_options" toml:"default_json_options"`
	// URLPrefix is used when a bag has no _url.
	URLPrefix string `yaml:"url_prefix" toml:"url_prefix"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{}
}

// Format identifies a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("config: unsupported file extension %q", filepath.Ext(path))
	}
}

// Load reads, normalises, and validates the configuration file at path. An
// empty path yields the defaults. The JSONAPI_DEBUG environment variable is
// applied last.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		format, err := FormatFor(path)
		if err != nil {
			return Config{}, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if cfg, err = Parse(data, format); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes data over the defaults and normalises the result. Unknown
// keys are rejected.
func Parse(data []byte, format Format) (Config, error) {
	cfg := Default()
	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("config: parse yaml: %w", err)
		}
	case FormatTOML:
		decoder := toml.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse toml: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("config: unsupported format %q", format)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	raw, ok := lookup(EnvDebug)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	debug, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("config: %s: %w", EnvDebug, err)
	}
	c.Debug = debug
	return nil
}

func (c *Config) normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.URLPrefix = strings.TrimRight(strings.TrimSpace(c.URLPrefix), "/")
}
