package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultMaxBatchTokens     = 2048
	DefaultRetryDelay         = 60 * time.Second
	DefaultSentimentThreshold = 0.90
	DefaultMaxComments        = 500
)

// Config is read once at startup and handed to every component by value.
type Config struct {
	Env      string
	Port     string
	LogLevel string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	YouTubeAPIKey string
	MaxComments   int

	MaxBatchTokens       int
	CompletionRetryDelay time.Duration
	CompletionMaxRetries uint64
	QuotaErrorMarkers    []string

	SentimentBackend   string
	SentimentThreshold float64
	SentimentWorkers   int
	SentimentModelPath string
	SentimentModelName string
	SentimentModelDir  string
	SentimentEndpoint  string
	HFAPIToken         string

	ValkeyAddress  string
	ValkeyPassword string
	ValkeyTLS      bool
	CacheTTL       time.Duration

	HealthcheckInterval time.Duration
}

func Load() Config {
	return Config{
		Env:      envStr("APP_ENV", "dev"),
		Port:     envStr("PORT", "8080"),
		LogLevel: envStr("LOG_LEVEL", "info"),

		OpenAIAPIKey:  envStr("OPENAI_API_KEY", ""),
		OpenAIModel:   envStr("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIBaseURL: envStr("OPENAI_BASE_URL", ""),

		YouTubeAPIKey: envStr("YOUTUBE_API_KEY", ""),
		MaxComments:   envInt("MAX_COMMENTS", DefaultMaxComments),

		MaxBatchTokens:       envInt("MAX_BATCH_TOKENS", DefaultMaxBatchTokens),
		CompletionRetryDelay: envDuration("COMPLETION_RETRY_DELAY", DefaultRetryDelay),
		CompletionMaxRetries: envRetries("COMPLETION_MAX_RETRIES", 1),
		QuotaErrorMarkers:    envList("QUOTA_ERROR_MARKERS", "insufficient_quota,exceeded your current quota"),

		SentimentBackend:   strings.ToLower(envStr("SENTIMENT_BACKEND", "vader")),
		SentimentThreshold: envFloat("SENTIMENT_THRESHOLD", DefaultSentimentThreshold),
		SentimentWorkers:   envInt("SENTIMENT_WORKERS", 4),
		SentimentModelPath: envStr("SENTIMENT_MODEL_PATH", ""),
		SentimentModelName: envStr("SENTIMENT_MODEL_NAME", "KnightsAnalytics/distilbert-base-uncased-finetuned-sst-2-english"),
		SentimentModelDir:  envStr("SENTIMENT_MODEL_DIR", "./models"),
		SentimentEndpoint:  envStr("SENTIMENT_ENDPOINT", ""),
		HFAPIToken:         envStr("HF_API_TOKEN", ""),

		ValkeyAddress:  envStr("VALKEY_INIT_ADDRESS", ""),
		ValkeyPassword: envStr("VALKEY_PASSWORD", ""),
		ValkeyTLS:      envStr("VALKEY_TLS", "false") == "true",
		CacheTTL:       envDuration("CACHE_TTL", 10*time.Minute),

		HealthcheckInterval: envDuration("HEALTHCHECK_INTERVAL", 30*time.Second),
	}
}

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("[Config] Invalid integer, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Int("default", def))
		return def
	}
	return v
}

func envRetries(key string, def uint64) uint64 {
	v := envInt(key, int(def))
	if v < 0 {
		slog.Warn("[Config] Negative retry count, using default",
			slog.String("key", key),
			slog.Int("value", v),
			slog.Uint64("default", def))
		return def
	}
	return uint64(v)
}

func envFloat(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		slog.Warn("[Config] Invalid float, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Float64("default", def))
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("[Config] Invalid duration, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Duration("default", def))
		return def
	}
	return v
}

func envList(key, def string) []string {
	raw := envStr(key, def)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
