package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	env "github.com/netflix/go-env"
)

// Config holds all relay settings resolved from environment variables.
// An empty FavroWebhookSecret disables signature verification and an empty
// SlackBotToken disables outbound notifications; both are deliberate
// permissive fallbacks for non-production use.
type Config struct {
	Port               string `env:"PORT,default=3000"`
	FavroWebhookSecret string `env:"FAVRO_WEBHOOK_SECRET"`
	// WebhookURL must match the URL registered with Favro exactly; it is
	// part of the signed content. Defaults to http://localhost:<port>/webhook.
	WebhookURL    string `env:"WEBHOOK_URL"`
	SlackBotToken string `env:"SLACK_BOT_TOKEN"`

	// UserMappingFile points at a JSON object of Favro username to Slack
	// user ID. Empty means no mapping: every mention resolves to nothing.
	UserMappingFile string `env:"USER_MAPPING_FILE"`

	ServerHost      string        `env:"SERVER_HOST,default=0.0.0.0"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT,default=30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT,default=30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT,default=120s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=30s"`
	RequestTimeout  time.Duration `env:"SERVER_REQUEST_TIMEOUT,default=30s"`

	// Outbound Slack rate budgets per minute.
	NotifyGlobalPerMinute int `env:"SLACK_NOTIFY_GLOBAL_PER_MINUTE,default=60"`
	NotifyUserPerMinute   int `env:"SLACK_NOTIFY_USER_PER_MINUTE,default=10"`

	// OpenTelemetry export settings.
	OTelEnabled              bool          `env:"OTEL_ENABLED,default=false"`
	OTelServiceName          string        `env:"OTEL_SERVICE_NAME,default=favrelay"`
	OTelExporterOTLPEndpoint string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelExporterOTLPProtocol string        `env:"OTEL_EXPORTER_OTLP_PROTOCOL,default=http/protobuf"`
	OTelResourceAttributes   string        `env:"OTEL_RESOURCE_ATTRIBUTES"`
	OTelTracesSampler        string        `env:"OTEL_TRACES_SAMPLER,default=always_on"`
	OTelTracesSamplerArg     float64       `env:"OTEL_TRACES_SAMPLER_ARG,default=1.0"`
	OTelMetricExportInterval time.Duration `env:"OTEL_METRIC_EXPORT_INTERVAL,default=60s"`

	// UserMapping is loaded from UserMappingFile; read-only after Load.
	UserMapping map[string]string
}

// Load resolves configuration from environment variables and reads the user
// mapping file when one is configured.
func Load() (*Config, error) {
	var cfg Config

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if cfg.WebhookURL == "" {
		cfg.WebhookURL = fmt.Sprintf("http://localhost:%s/webhook", cfg.Port)
	}

	mapping, err := loadUserMapping(cfg.UserMappingFile)
	if err != nil {
		return nil, err
	}
	cfg.UserMapping = mapping

	return &cfg, nil
}

// validateConfig adjusts values to safe ranges.
func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	if cfg.NotifyGlobalPerMinute < 1 {
		cfg.NotifyGlobalPerMinute = 60
	}
	if cfg.NotifyUserPerMinute < 1 {
		cfg.NotifyUserPerMinute = 10
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}

	return nil
}

// loadUserMapping reads a JSON object mapping Favro usernames to Slack user
// IDs. An empty path yields an empty mapping rather than an error.
func loadUserMapping(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read user mapping file %s: %w", path, err)
	}

	mapping := map[string]string{}
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("failed to parse user mapping file %s: %w", path, err)
	}

	return mapping, nil
}
