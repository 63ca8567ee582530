// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ServiceConfig identifies the service and its listen ports.
type ServiceConfig struct {
	Name        string
	Principal   string
	HTTPPort    string
	MetricsPort string
	Environment string
}

// ProviderConfig selects and configures the transcription provider.
type ProviderConfig struct {
	// Name is one of "assemblyai", "google", "mock".
	Name string

	AssemblyAI AssemblyAIConfig
	Google     GoogleConfig
}

// AssemblyAIConfig holds AssemblyAI API settings.
type AssemblyAIConfig struct {
	APIKey       string
	BaseURL      string
	PollInterval time.Duration
}

// GoogleConfig holds Google Speech-to-Text settings.
type GoogleConfig struct {
	LanguageCode string
	SampleRateHz int
}

// AnalysisConfig holds the scoring policy knobs.
type AnalysisConfig struct {
	// ClarityScale is "unit" (0-1) or "percent" (0-100).
	ClarityScale     string
	ClarityWeight    float64
	PacingWeight     float64
	SentimentWeight  float64
	IdealRateLowWPM  float64
	IdealRateHighWPM float64
}

// KafkaConfig holds event publishing settings.
type KafkaConfig struct {
	Enabled          bool
	Brokers          []string
	TopicTranscripts string
	TopicMetrics     string
	Principal        string
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel string
}

// Configuration is the full service configuration.
type Configuration struct {
	Service       ServiceConfig
	Provider      ProviderConfig
	Analysis      AnalysisConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// Load reads the configuration from the environment, applying defaults.
func Load() *Configuration {
	return &Configuration{
		Service: ServiceConfig{
			Name:        "call-qa-service",
			Principal:   envOrDefault("SERVICE_PRINCIPAL", "svc-call-qa"),
			HTTPPort:    envOrDefault("HTTP_PORT", "8080"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
			Environment: envOrDefault("ENV", ""),
		},
		Provider: ProviderConfig{
			Name: envOrDefault("TRANSCRIPTION_PROVIDER", "mock"),
			AssemblyAI: AssemblyAIConfig{
				APIKey:       envOrDefault("ASSEMBLYAI_API_KEY", ""),
				BaseURL:      envOrDefault("ASSEMBLYAI_BASE_URL", ""),
				PollInterval: envDuration("ASSEMBLYAI_POLL_INTERVAL", 3*time.Second),
			},
			Google: GoogleConfig{
				LanguageCode: envOrDefault("GOOGLE_STT_LANGUAGE_CODE", "en-US"),
				SampleRateHz: envInt("GOOGLE_STT_SAMPLE_RATE_HZ", 8000),
			},
		},
		Analysis: AnalysisConfig{
			ClarityScale:     envOrDefault("CLARITY_SCALE", "percent"),
			ClarityWeight:    envFloat("SCORE_CLARITY_WEIGHT", 0.5),
			PacingWeight:     envFloat("SCORE_PACING_WEIGHT", 0.3),
			SentimentWeight:  envFloat("SCORE_SENTIMENT_WEIGHT", 0.2),
			IdealRateLowWPM:  envFloat("IDEAL_RATE_LOW_WPM", 110),
			IdealRateHighWPM: envFloat("IDEAL_RATE_HIGH_WPM", 170),
		},
		Kafka: KafkaConfig{
			Enabled:          envBool("KAFKA_ENABLED", false),
			Brokers:          envList("KAFKA_BROKERS"),
			TopicTranscripts: envOrDefault("KAFKA_TOPIC_TRANSCRIPTS", "call-qa.transcripts"),
			TopicMetrics:     envOrDefault("KAFKA_TOPIC_METRICS", "call-qa.metrics"),
			Principal:        envOrDefault("KAFKA_PRINCIPAL", "svc-call-qa"),
		},
		Observability: ObservabilityConfig{
			LogLevel: envOrDefault("LOG_LEVEL", "info"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
