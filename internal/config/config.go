package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeLive  Mode = "live"
)

type Config struct {
	Mode Mode

	Port string

	GeminiAPIKey string
	ModelName    string
	UseMockLLM   bool // true = use mock even in live mode

	// Geolocation provider endpoints, overridable for tests.
	PrimaryGeoBaseURL   string
	SecondaryGeoBaseURL string

	// Outbound call bounds.
	GeoTimeout time.Duration
	LLMTimeout time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}

// Load reads all env vars and builds the config
func Load() *Config {
	modeStr := getEnv("WELLCHECK_MODE", "local")
	var mode Mode
	switch modeStr {
	case "live":
		mode = ModeLive
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("WELLCHECK_PORT", "8080"),

		GeminiAPIKey: getEnv("WELLCHECK_GEMINI_API_KEY", ""),
		ModelName:    getEnv("WELLCHECK_MODEL_NAME", "gemini-2.5-flash-lite"),
		UseMockLLM:   getBoolEnv("WELLCHECK_USE_MOCK_LLM", mode == ModeLocal),

		PrimaryGeoBaseURL:   getEnv("WELLCHECK_GEO_PRIMARY_URL", "http://ip-api.com/json"),
		SecondaryGeoBaseURL: getEnv("WELLCHECK_GEO_SECONDARY_URL", "https://ipapi.co"),

		GeoTimeout: getDurationEnv("WELLCHECK_GEO_TIMEOUT_SECONDS", 10*time.Second),
		LLMTimeout: getDurationEnv("WELLCHECK_LLM_TIMEOUT_SECONDS", 12*time.Second),
	}

	// Minimal validation in live mode
	if cfg.Mode == ModeLive && !cfg.UseMockLLM && cfg.GeminiAPIKey == "" {
		log.Fatal("WELLCHECK_GEMINI_API_KEY must be set in live mode")
	}

	return cfg
}
