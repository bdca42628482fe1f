package config

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"
)

const (
	// EnvMaxFileBytes is the environment variable name for the file size limit.
	EnvMaxFileBytes = "DOCXHTML_MAX_FILE_BYTES"

	// EnvTimeout is the environment variable name for the conversion budget,
	// a Go duration such as "90s".
	EnvTimeout = "DOCXHTML_TIMEOUT"

	// EnvFidelityThreshold is the environment variable name for the score
	// below which the LibreOffice fallback is tried.
	EnvFidelityThreshold = "DOCXHTML_FIDELITY_THRESHOLD"

	// EnvSoffice is the environment variable name for the LibreOffice binary.
	EnvSoffice = "DOCXHTML_SOFFICE"

	// EnvLogLevel is the environment variable name for the log level.
	EnvLogLevel = "DOCXHTML_LOG_LEVEL"

	// DefaultMaxFileBytes is the default maximum accepted file size (50 MiB).
	DefaultMaxFileBytes int64 = 50 << 20

	// DefaultTimeout is the default wall-clock budget of one conversion.
	DefaultTimeout = 60 * time.Second

	// DefaultFidelityThreshold is the default fallback gate.
	DefaultFidelityThreshold = 50

	// DefaultSoffice is the default LibreOffice binary name.
	DefaultSoffice = "soffice"
)

// Config holds runtime configuration sourced from environment variables.
type Config struct {
	MaxFileSizeBytes  int64
	Timeout           time.Duration
	FidelityThreshold int
	Soffice           string
	LogLevel          zapcore.Level
}

// MaxFileSizeMB returns the configured limit in whole megabytes.
func (c *Config) MaxFileSizeMB() int64 {
	return c.MaxFileSizeBytes >> 20
}

// Load reads Config from environment variables, falling back to defaults for
// missing or invalid values.
func Load() *Config {
	cfg := &Config{
		MaxFileSizeBytes:  DefaultMaxFileBytes,
		Timeout:           DefaultTimeout,
		FidelityThreshold: DefaultFidelityThreshold,
		Soffice:           DefaultSoffice,
		LogLevel:          zapcore.InfoLevel,
	}
	if v := os.Getenv(EnvMaxFileBytes); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxFileSizeBytes = n
		}
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv(EnvFidelityThreshold); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 100 {
			cfg.FidelityThreshold = n
		}
	}
	if v := os.Getenv(EnvSoffice); v != "" {
		cfg.Soffice = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		if lvl, err := zapcore.ParseLevel(v); err == nil {
			cfg.LogLevel = lvl
		}
	}
	return cfg
}
