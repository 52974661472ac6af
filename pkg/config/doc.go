// Package config loads the process-wide settings shared by every render: the
// debug flag that turns on pretty printing, the log level, the default encode
// flags, and a fallback URL prefix. Files may be YAML (.yaml, .yml) or TOML
// (.toml); the JSONAPI_DEBUG environment variable overrides the debug flag.
package config
