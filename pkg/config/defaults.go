package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ccollicutt/sniflog/pkg/analyzer"
	"github.com/ccollicutt/sniflog/pkg/hexdump"
	"github.com/ccollicutt/sniflog/pkg/parser"
)

// Default values for configuration.
const (
	DefaultBytesPerLine   = hexdump.DefaultBytesPerLine
	DefaultPauseThreshold = analyzer.DefaultPauseThreshold
	DefaultWebhookTimeout = 10 * time.Second

	// MaxBytesPerLine bounds bytes_per_line.
	MaxBytesPerLine = 256
)

// Environment variable names.
const (
	EnvPauseThreshold = "SNIFLOG_PAUSE_THRESHOLD"
	EnvBytesPerLine   = "SNIFLOG_BYTES_PER_LINE"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BytesPerLine:   DefaultBytesPerLine,
		PauseThreshold: DefaultPauseThreshold,
		Directions: DirectionConfig{
			Outgoing: parser.LabelSending,
			Incoming: parser.LabelReceiving,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() error {
	if v := os.Getenv(EnvPauseThreshold); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPauseThreshold, err)
		}
		c.PauseThreshold = d
	}

	if v := os.Getenv(EnvBytesPerLine); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBytesPerLine, err)
		}
		c.BytesPerLine = n
	}

	return nil
}
