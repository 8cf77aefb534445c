package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Delivery controls how a notification failure interacts with the seen-store.
type Delivery string

const (
	// DeliveryAtMostOnce marks records seen whether or not the notification
	// went out. A failed send is lost.
	DeliveryAtMostOnce Delivery = "at-most-once"
	// DeliveryAtLeastOnce leaves unsent records out of the store so they are
	// retried on the next run. A flaky provider can mean duplicate alerts.
	DeliveryAtLeastOnce Delivery = "at-least-once"
)

// Config is the root configuration for the internwatch poller.
type Config struct {
	PollingInterval time.Duration
	Sources         []SourceConfig
	Filters         FilterConfig
	Store           StoreConfig
	Notification    NotificationConfig
	RateLimit       RateLimitConfig
	Fetch           FetchConfig
}

// SourceConfig describes a single upstream source to poll.
type SourceConfig struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`     // "internlist", "simplify" or "pittcsc"
	Category string `yaml:"category"` // internlist only: "swe", "da", "ml" or "pm"
	Enabled  bool   `yaml:"enabled"`
}

// FilterConfig holds title keyword filter settings.
type FilterConfig struct {
	TitleKeywords        []string
	TitleExcludeKeywords []string
}

// StoreConfig selects the seen-store backend.
type StoreConfig struct {
	Backend string `yaml:"backend"` // "json" or "sqlite"
	Path    string `yaml:"path"`
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string // "twilio", "slack" or "log"
	Delivery   Delivery
	Twilio     TwilioConfig
	WebhookURL string // required if type is "slack"
}

// TwilioConfig holds SMS provider credentials and the recipient list.
// Values are normally injected via ${ENV_VAR} expansion in the YAML.
type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	From       string `yaml:"from"`
	To         []string
}

// RateLimitConfig controls host-level request pacing.
type RateLimitConfig struct {
	MinDelay time.Duration // minimum gap between requests to the same host
}

// FetchConfig controls the HTTP client and retry decorator.
type FetchConfig struct {
	Timeout        time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	PollingInterval string            `yaml:"polling_interval"`
	Sources         []SourceConfig    `yaml:"sources"`
	Filters         rawFilterConfig   `yaml:"filters"`
	Store           StoreConfig       `yaml:"store"`
	Notification    rawNotification   `yaml:"notification"`
	RateLimit       rawRateLimit      `yaml:"rate_limit"`
	Fetch           rawFetchConfig    `yaml:"fetch"`
}

type rawFilterConfig struct {
	TitleKeywords        []string `yaml:"title_keywords"`
	TitleExcludeKeywords []string `yaml:"title_exclude_keywords"`
}

type rawNotification struct {
	Type       string          `yaml:"type"`
	Delivery   string          `yaml:"delivery"`
	Twilio     rawTwilioConfig `yaml:"twilio"`
	WebhookURL string          `yaml:"webhook_url"`
}

type rawTwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	From       string `yaml:"from"`
	To         string `yaml:"to"` // comma-separated recipient list
}

type rawRateLimit struct {
	MinDelay string `yaml:"min_delay"`
}

type rawFetchConfig struct {
	Timeout        string `yaml:"timeout"`
	MaxRetries     *int   `yaml:"max_retries"`
	RetryBaseDelay string `yaml:"retry_base_delay"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables so credentials can stay out of the file.
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	interval := 15 * time.Minute // default: matches the usual cron cadence
	if raw.PollingInterval != "" {
		interval, err = time.ParseDuration(raw.PollingInterval)
		if err != nil {
			return nil, fmt.Errorf("parse polling_interval %q: %w", raw.PollingInterval, err)
		}
	}

	minDelay := 2 * time.Second
	if raw.RateLimit.MinDelay != "" {
		minDelay, err = time.ParseDuration(raw.RateLimit.MinDelay)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.min_delay %q: %w", raw.RateLimit.MinDelay, err)
		}
	}

	fetchTimeout := 45 * time.Second
	if raw.Fetch.Timeout != "" {
		fetchTimeout, err = time.ParseDuration(raw.Fetch.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse fetch.timeout %q: %w", raw.Fetch.Timeout, err)
		}
	}

	maxRetries := 2
	if raw.Fetch.MaxRetries != nil {
		maxRetries = *raw.Fetch.MaxRetries
	}

	retryBaseDelay := 3 * time.Second
	if raw.Fetch.RetryBaseDelay != "" {
		retryBaseDelay, err = time.ParseDuration(raw.Fetch.RetryBaseDelay)
		if err != nil {
			return nil, fmt.Errorf("parse fetch.retry_base_delay %q: %w", raw.Fetch.RetryBaseDelay, err)
		}
	}

	delivery := DeliveryAtMostOnce
	if raw.Notification.Delivery != "" {
		delivery = Delivery(raw.Notification.Delivery)
	}

	storeBackend := raw.Store.Backend
	if storeBackend == "" {
		storeBackend = "json"
	}
	storePath := raw.Store.Path
	if storePath == "" {
		storePath = "seen.json"
	}

	titleKeywords := raw.Filters.TitleKeywords
	if titleKeywords == nil {
		titleKeywords = []string{"intern"}
	}

	cfg := &Config{
		PollingInterval: interval,
		Sources:         raw.Sources,
		Filters: FilterConfig{
			TitleKeywords:        titleKeywords,
			TitleExcludeKeywords: raw.Filters.TitleExcludeKeywords,
		},
		Store: StoreConfig{
			Backend: storeBackend,
			Path:    storePath,
		},
		Notification: NotificationConfig{
			Type:     raw.Notification.Type,
			Delivery: delivery,
			Twilio: TwilioConfig{
				AccountSID: raw.Notification.Twilio.AccountSID,
				AuthToken:  raw.Notification.Twilio.AuthToken,
				From:       raw.Notification.Twilio.From,
				To:         splitRecipients(raw.Notification.Twilio.To),
			},
			WebhookURL: raw.Notification.WebhookURL,
		},
		RateLimit: RateLimitConfig{MinDelay: minDelay},
		Fetch: FetchConfig{
			Timeout:        fetchTimeout,
			MaxRetries:     maxRetries,
			RetryBaseDelay: retryBaseDelay,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// splitRecipients parses a comma-separated phone number list, dropping blanks.
func splitRecipients(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func validate(cfg *Config) error {
	if cfg.PollingInterval <= 0 {
		return fmt.Errorf("polling_interval must be positive, got %v", cfg.PollingInterval)
	}

	enabled := 0
	for _, s := range cfg.Sources {
		switch s.Type {
		case "internlist", "simplify", "pittcsc":
		default:
			return fmt.Errorf("source %q has unknown type %q", s.Name, s.Type)
		}
		if s.Type == "internlist" {
			switch s.Category {
			case "swe", "da", "ml", "pm":
			default:
				return fmt.Errorf("source %q: internlist category must be swe, da, ml or pm, got %q", s.Name, s.Category)
			}
		}
		if s.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}

	switch cfg.Store.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("store.backend must be \"json\" or \"sqlite\", got %q", cfg.Store.Backend)
	}

	switch cfg.Notification.Delivery {
	case DeliveryAtMostOnce, DeliveryAtLeastOnce:
	default:
		return fmt.Errorf("notification.delivery must be %q or %q, got %q",
			DeliveryAtMostOnce, DeliveryAtLeastOnce, cfg.Notification.Delivery)
	}

	switch cfg.Notification.Type {
	case "twilio":
		t := cfg.Notification.Twilio
		if t.AccountSID == "" || t.AuthToken == "" || t.From == "" {
			return fmt.Errorf("notification.twilio requires account_sid, auth_token and from")
		}
		if len(t.To) == 0 {
			return fmt.Errorf("notification.twilio.to must list at least one recipient")
		}
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	case "", "log":
	default:
		return fmt.Errorf("notification.type must be \"twilio\", \"slack\" or \"log\", got %q", cfg.Notification.Type)
	}

	if cfg.Fetch.MaxRetries < 0 {
		return fmt.Errorf("fetch.max_retries must be >= 0, got %d", cfg.Fetch.MaxRetries)
	}

	return nil
}
