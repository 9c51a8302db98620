package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the Eloquo agent service.
// It is read once at startup and treated as immutable afterwards.
type Config struct {
	Port       int
	Version    string
	OpenRouter OpenRouterConfig
	Credits    CreditsConfig
	Analytics  AnalyticsConfig
	Telemetry  TelemetryConfig
}

// OpenRouterConfig configures the LLM gateway client.
type OpenRouterConfig struct {
	APIKey  string
	BaseURL string
	// Referer and Title are forwarded as OpenRouter attribution headers.
	Referer string
	Title   string
}

// CreditsConfig points at the credits micro-service used by project-protocol.
type CreditsConfig struct {
	URL    string
	Secret string
}

// AnalyticsConfig points at the analytics warehouse (Supabase-style REST).
// An empty URL switches the service to the in-memory analytics store.
type AnalyticsConfig struct {
	URL        string
	ServiceKey string
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    envInt("ELOQUO_PORT", 8001),
		Version: envStr("ELOQUO_VERSION", "3.0.0"),
		OpenRouter: OpenRouterConfig{
			APIKey:  envStr("OPENROUTER_API_KEY", ""),
			BaseURL: envStr("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			Referer: envStr("OPENROUTER_REFERER", "https://eloquo.io"),
			Title:   envStr("OPENROUTER_TITLE", "Eloquo"),
		},
		Credits: CreditsConfig{
			URL:    envStr("ELOQUO_API_URL", "http://localhost:3000"),
			Secret: envStr("AGENT_SECRET", "eloquo-agent-internal-key"),
		},
		Analytics: AnalyticsConfig{
			URL:        envStr("ANALYTICS_URL", ""),
			ServiceKey: envStr("ANALYTICS_SERVICE_KEY", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:      envBool("OTEL_ENABLED", false),
			OTLPEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:  envStr("OTEL_SERVICE_NAME", "eloquo-agent-service"),
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
