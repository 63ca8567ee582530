package config

import (
	"os"
	"testing"
	"time"
)

var configEnvVars = []string{
	"SERVICE_PRINCIPAL", "HTTP_PORT", "METRICS_PORT", "ENV",
	"TRANSCRIPTION_PROVIDER",
	"ASSEMBLYAI_API_KEY", "ASSEMBLYAI_BASE_URL", "ASSEMBLYAI_POLL_INTERVAL",
	"GOOGLE_STT_LANGUAGE_CODE", "GOOGLE_STT_SAMPLE_RATE_HZ",
	"CLARITY_SCALE", "SCORE_CLARITY_WEIGHT", "SCORE_PACING_WEIGHT", "SCORE_SENTIMENT_WEIGHT",
	"IDEAL_RATE_LOW_WPM", "IDEAL_RATE_HIGH_WPM",
	"KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_TOPIC_TRANSCRIPTS", "KAFKA_TOPIC_METRICS", "KAFKA_PRINCIPAL",
	"LOG_LEVEL",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, v := range configEnvVars {
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg := Load()

	// Service defaults
	if cfg.Service.Principal != "svc-call-qa" {
		t.Errorf("expected default principal 'svc-call-qa', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "8080" {
		t.Errorf("expected default HTTP port '8080', got %s", cfg.Service.HTTPPort)
	}
	if cfg.Service.MetricsPort != "9090" {
		t.Errorf("expected default metrics port '9090', got %s", cfg.Service.MetricsPort)
	}

	// Provider defaults
	if cfg.Provider.Name != "mock" {
		t.Errorf("expected default provider 'mock', got %s", cfg.Provider.Name)
	}
	if cfg.Provider.AssemblyAI.PollInterval != 3*time.Second {
		t.Errorf("expected default poll interval 3s, got %v", cfg.Provider.AssemblyAI.PollInterval)
	}
	if cfg.Provider.Google.LanguageCode != "en-US" {
		t.Errorf("expected default language 'en-US', got %s", cfg.Provider.Google.LanguageCode)
	}
	if cfg.Provider.Google.SampleRateHz != 8000 {
		t.Errorf("expected default sample rate 8000, got %d", cfg.Provider.Google.SampleRateHz)
	}

	// Analysis defaults
	if cfg.Analysis.ClarityScale != "percent" {
		t.Errorf("expected default clarity scale 'percent', got %s", cfg.Analysis.ClarityScale)
	}
	if cfg.Analysis.ClarityWeight != 0.5 || cfg.Analysis.PacingWeight != 0.3 || cfg.Analysis.SentimentWeight != 0.2 {
		t.Errorf("unexpected default weights: %v/%v/%v",
			cfg.Analysis.ClarityWeight, cfg.Analysis.PacingWeight, cfg.Analysis.SentimentWeight)
	}
	if cfg.Analysis.IdealRateLowWPM != 110 || cfg.Analysis.IdealRateHighWPM != 170 {
		t.Errorf("unexpected default rate band: %v-%v",
			cfg.Analysis.IdealRateLowWPM, cfg.Analysis.IdealRateHighWPM)
	}

	// Kafka defaults
	if cfg.Kafka.Enabled {
		t.Error("expected Kafka disabled by default")
	}
	if cfg.Kafka.TopicTranscripts != "call-qa.transcripts" {
		t.Errorf("expected default transcripts topic, got %s", cfg.Kafka.TopicTranscripts)
	}
	if cfg.Kafka.TopicMetrics != "call-qa.metrics" {
		t.Errorf("expected default metrics topic, got %s", cfg.Kafka.TopicMetrics)
	}

	// Observability defaults
	if cfg.Observability.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearConfigEnv(t)

	os.Setenv("SERVICE_PRINCIPAL", "svc-test")
	os.Setenv("TRANSCRIPTION_PROVIDER", "assemblyai")
	os.Setenv("ASSEMBLYAI_API_KEY", "key-123")
	os.Setenv("ASSEMBLYAI_POLL_INTERVAL", "500ms")
	os.Setenv("CLARITY_SCALE", "unit")
	os.Setenv("SCORE_CLARITY_WEIGHT", "0.7")
	os.Setenv("KAFKA_ENABLED", "true")
	os.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	defer clearConfigEnv(t)

	cfg := Load()

	if cfg.Service.Principal != "svc-test" {
		t.Errorf("expected principal 'svc-test', got %s", cfg.Service.Principal)
	}
	if cfg.Provider.Name != "assemblyai" {
		t.Errorf("expected provider 'assemblyai', got %s", cfg.Provider.Name)
	}
	if cfg.Provider.AssemblyAI.APIKey != "key-123" {
		t.Errorf("expected API key 'key-123', got %s", cfg.Provider.AssemblyAI.APIKey)
	}
	if cfg.Provider.AssemblyAI.PollInterval != 500*time.Millisecond {
		t.Errorf("expected poll interval 500ms, got %v", cfg.Provider.AssemblyAI.PollInterval)
	}
	if cfg.Analysis.ClarityScale != "unit" {
		t.Errorf("expected clarity scale 'unit', got %s", cfg.Analysis.ClarityScale)
	}
	if cfg.Analysis.ClarityWeight != 0.7 {
		t.Errorf("expected clarity weight 0.7, got %v", cfg.Analysis.ClarityWeight)
	}
	if !cfg.Kafka.Enabled {
		t.Error("expected Kafka enabled")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "kafka-1:9092" || cfg.Kafka.Brokers[1] != "kafka-2:9092" {
		t.Errorf("unexpected brokers: %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearConfigEnv(t)

	os.Setenv("ASSEMBLYAI_POLL_INTERVAL", "not-a-duration")
	os.Setenv("SCORE_CLARITY_WEIGHT", "not-a-float")
	os.Setenv("KAFKA_ENABLED", "not-a-bool")
	defer clearConfigEnv(t)

	cfg := Load()

	if cfg.Provider.AssemblyAI.PollInterval != 3*time.Second {
		t.Errorf("expected fallback poll interval 3s, got %v", cfg.Provider.AssemblyAI.PollInterval)
	}
	if cfg.Analysis.ClarityWeight != 0.5 {
		t.Errorf("expected fallback clarity weight 0.5, got %v", cfg.Analysis.ClarityWeight)
	}
	if cfg.Kafka.Enabled {
		t.Error("expected fallback Kafka disabled")
	}
}
