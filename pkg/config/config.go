package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/sniflog/pkg/parser"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return finish(cfg)
}

// LoadDefault returns the default configuration with environment overrides
// applied. Used when no config file is given.
func LoadDefault() (*Config, error) {
	return finish(DefaultConfig())
}

func finish(cfg *Config) (*Config, error) {
	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and fills in defaults.
func Validate(cfg *Config) error {
	if cfg.BytesPerLine == 0 {
		cfg.BytesPerLine = DefaultBytesPerLine
	}
	if cfg.BytesPerLine < 0 || cfg.BytesPerLine > MaxBytesPerLine {
		return fmt.Errorf("bytes_per_line: must be between 1 and %d, got %d", MaxBytesPerLine, cfg.BytesPerLine)
	}

	if cfg.PauseThreshold < 0 {
		return fmt.Errorf("pause_threshold: must not be negative, got %s", cfg.PauseThreshold)
	}

	if err := validateDirections(&cfg.Directions); err != nil {
		return fmt.Errorf("directions: %w", err)
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateDirections(d *DirectionConfig) error {
	if d.Outgoing == "" {
		d.Outgoing = parser.LabelSending
	}
	if d.Incoming == "" {
		d.Incoming = parser.LabelReceiving
	}

	// Lines are trimmed before matching, so padded labels could never match.
	if strings.TrimSpace(d.Outgoing) != d.Outgoing {
		return fmt.Errorf("outgoing label %q has surrounding whitespace", d.Outgoing)
	}
	if strings.TrimSpace(d.Incoming) != d.Incoming {
		return fmt.Errorf("incoming label %q has surrounding whitespace", d.Incoming)
	}

	if d.Outgoing == d.Incoming {
		return fmt.Errorf("outgoing and incoming labels must differ, both are %q", d.Outgoing)
	}

	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	// Validate URL format
	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	// Expand environment variables in token
	wh.Token = expandEnvVar(wh.Token)

	if wh.Trigger != "" {
		switch wh.Trigger {
		case WebhookTriggerOnIssues, WebhookTriggerAlways, WebhookTriggerNever:
		default:
			return fmt.Errorf("invalid trigger %q (must be on_issues, always, or never)", wh.Trigger)
		}
	} else {
		wh.Trigger = WebhookTriggerOnIssues
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	// Handle ${VAR} format
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		varName := s[2 : len(s)-1]
		return os.Getenv(varName)
	}

	// Handle $VAR format (no braces)
	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		varName := s[1:]
		return os.Getenv(varName)
	}

	return s
}
