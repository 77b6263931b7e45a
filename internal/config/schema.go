package config

import "log/slog"

// Config holds pdfsplit configuration.
// Loaded from ./config.yaml or ~/.pdfsplit/config.yaml.
type Config struct {
	Server ServerCfg `mapstructure:"server" yaml:"server"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// MaxUploadBytes caps the size of a single uploaded document.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
}

// ServerCfg holds HTTP server settings.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
		LogLevel:       "info",
		MaxUploadBytes: 200 << 20, // 200MB
	}
}

// SlogLevel maps the configured log level onto slog's levels.
// Unrecognized values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
