// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, provider credentials, model fallback
// lists, rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-recipe-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// ProviderConfig defines LLM provider credentials and endpoints.
//
// The backend can talk to the OpenAI-compatible REST API and to Gemini via
// its SDK. Which one serves a request is decided per model name at startup;
// a model list may mix both families and the fallback invoker walks it in
// order.
type ProviderConfig struct {
	OpenAIAPIKey  string // OPENAI_API_KEY
	OpenAIBaseURL string // OPENAI_BASE_URL (override for proxies/tests)
	OpenAIOrg     string // OPENAI_ORG (optional)
	GeminiAPIKey  string // GEMINI_API_KEY (optional; Gemini models disabled when empty)
}

// ModelsConfig defines which models serve each capability, in fallback order.
type ModelsConfig struct {
	Recipe []string // RECIPE_MODELS, CSV in fallback order
	Chat   []string // CHAT_MODELS, CSV in fallback order
	Image  string   // IMAGE_MODEL, single model (image jobs are not retried across models)
}

// GenerationConfig defines shared text-generation tuning knobs.
type GenerationConfig struct {
	Temperature     float64       // TEMPERATURE
	MaxTokens       int           // MAX_TOKENS
	Attempts        int           // GENERATION_ATTEMPTS, full-pipeline retries on malformed output
	MaxHistoryTurns int           // MAX_HISTORY_TURNS, chat context window in turns
	ImagePollEvery  time.Duration // IMAGE_POLL_INTERVAL, delay between image job status checks
	ImagePollWait   time.Duration // IMAGE_POLL_MAX_WAIT, cap on total image job wait
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging
	LogLevel    string // debug|info|warn|error|fatal|panic
	LogPretty   bool   // pretty console logs in dev
	APIBasePath string // base path for API routes

	// App
	DBPath string // SQLite path

	// Providers and models
	Provider   ProviderConfig
	Models     ModelsConfig
	Generation GenerationConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 120*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:   getbool("LOG_PRETTY", false),
		APIBasePath: normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		DBPath: getenv("DB_PATH", "app.db"),

		// Providers and models
		Provider: ProviderConfig{
			OpenAIAPIKey:  getenv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getenv("OPENAI_BASE_URL", ""),
			OpenAIOrg:     getenv("OPENAI_ORG", ""),
			GeminiAPIKey:  getenv("GEMINI_API_KEY", ""),
		},
		Models: ModelsConfig{
			Recipe: splitCSV(getenv("RECIPE_MODELS", "gpt-4o,gpt-4o-mini")),
			Chat:   splitCSV(getenv("CHAT_MODELS", "gpt-4o-mini,gpt-4o")),
			Image:  getenv("IMAGE_MODEL", "dall-e-3"),
		},
		Generation: GenerationConfig{
			Temperature:     getfloat("TEMPERATURE", 0.7),
			MaxTokens:       getint("MAX_TOKENS", 2048),
			Attempts:        getint("GENERATION_ATTEMPTS", 2),
			MaxHistoryTurns: getint("MAX_HISTORY_TURNS", 20),
			ImagePollEvery:  getdur("IMAGE_POLL_INTERVAL", 1450*time.Millisecond),
			ImagePollWait:   getdur("IMAGE_POLL_MAX_WAIT", 2*time.Minute),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-recipe-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if len(cfg.Models.Recipe) == 0 {
		return cfg, errors.New("RECIPE_MODELS must list at least one model")
	}
	if len(cfg.Models.Chat) == 0 {
		return cfg, errors.New("CHAT_MODELS must list at least one model")
	}
	if strings.TrimSpace(cfg.Models.Image) == "" {
		return cfg, errors.New("IMAGE_MODEL must not be empty")
	}
	if cfg.Generation.Temperature < 0 || cfg.Generation.Temperature > 2 {
		return cfg, errors.New("TEMPERATURE must be between 0 and 2")
	}
	if cfg.Generation.MaxTokens <= 0 {
		return cfg, errors.New("MAX_TOKENS must be > 0")
	}
	if cfg.Generation.Attempts < 1 {
		return cfg, errors.New("GENERATION_ATTEMPTS must be >= 1")
	}
	if cfg.Generation.MaxHistoryTurns < 0 {
		return cfg, errors.New("MAX_HISTORY_TURNS must be >= 0")
	}
	if cfg.Generation.ImagePollEvery <= 0 {
		return cfg, errors.New("IMAGE_POLL_INTERVAL must be > 0")
	}
	if cfg.Generation.ImagePollWait <= 0 {
		return cfg, errors.New("IMAGE_POLL_MAX_WAIT must be > 0")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
