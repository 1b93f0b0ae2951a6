// Package config provides configuration loading and validation for SnifLog.
package config

import (
	"time"

	"github.com/ccollicutt/sniflog/pkg/parser"
)

// Config is the root configuration structure loaded from YAML.
// Every field is optional; see DefaultConfig.
type Config struct {
	// BytesPerLine is the sniffer's dump width (jpnevulator --width).
	BytesPerLine int `yaml:"bytes_per_line,omitempty"`

	// PauseThreshold is the gap above which the report separates messages.
	PauseThreshold time.Duration `yaml:"pause_threshold,omitempty"`

	// Directions holds the labels the sniffer writes for each tty.
	Directions DirectionConfig `yaml:"directions,omitempty"`

	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// DirectionConfig maps header labels to directions.
type DirectionConfig struct {
	Outgoing string `yaml:"outgoing,omitempty"`
	Incoming string `yaml:"incoming,omitempty"`
}

// ParserDirections converts the labels for use by the parser.
func (d DirectionConfig) ParserDirections() parser.Directions {
	return parser.Directions{
		Outgoing: d.Outgoing,
		Incoming: d.Incoming,
	}
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnIssues fires only when the capture had unusable lines (default).
	WebhookTriggerOnIssues WebhookTrigger = "on_issues"
	// WebhookTriggerAlways fires after every analysis.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_issues" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
