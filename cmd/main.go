package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/SanjayR-26/speech-ai-sub001/internal/app"
	"github.com/SanjayR-26/speech-ai-sub001/internal/config"
	"github.com/SanjayR-26/speech-ai-sub001/internal/events"
	apihttp "github.com/SanjayR-26/speech-ai-sub001/internal/http"
	"github.com/SanjayR-26/speech-ai-sub001/internal/models"
	"github.com/SanjayR-26/speech-ai-sub001/internal/observability"
	"github.com/SanjayR-26/speech-ai-sub001/internal/observability/logging"
	"github.com/SanjayR-26/speech-ai-sub001/internal/observability/metrics"
	"github.com/SanjayR-26/speech-ai-sub001/internal/provider"
	"github.com/SanjayR-26/speech-ai-sub001/internal/provider/assemblyai"
	"github.com/SanjayR-26/speech-ai-sub001/internal/provider/google"
	"github.com/SanjayR-26/speech-ai-sub001/internal/provider/mock"
	"github.com/SanjayR-26/speech-ai-sub001/internal/service/analysis"
	"github.com/SanjayR-26/speech-ai-sub001/internal/service/score"
	"github.com/SanjayR-26/speech-ai-sub001/internal/store"
)

func main() {
	// Optional .env for local development; the environment wins.
	_ = godotenv.Load()

	cfg := config.Load()
	application := app.New(cfg)
	if err := application.Start(); err != nil {
		application.Logger.Fatal().Err(err).Msg("Application startup failed")
	}
	defer application.Shutdown()

	publisher := events.New(&events.Config{
		Enabled:          cfg.Kafka.Enabled,
		Brokers:          cfg.Kafka.Brokers,
		TopicTranscripts: cfg.Kafka.TopicTranscripts,
		TopicMetrics:     cfg.Kafka.TopicMetrics,
		Principal:        cfg.Kafka.Principal,
	})
	defer publisher.Close()

	prov := newProvider(application, cfg)

	weights := score.DefaultWeights()
	weights.Clarity = cfg.Analysis.ClarityWeight
	weights.Pacing = cfg.Analysis.PacingWeight
	weights.Sentiment = cfg.Analysis.SentimentWeight
	weights.IdealRateLowWPM = cfg.Analysis.IdealRateLowWPM
	weights.IdealRateHighWPM = cfg.Analysis.IdealRateHighWPM

	analyzer, err := analysis.New(models.ClarityScale(cfg.Analysis.ClarityScale), weights,
		application.Logger, metrics.DefaultMetrics)
	if err != nil {
		application.Logger.Fatal().Err(err).Msg("Invalid analysis configuration")
	}

	handlers := &apihttp.Handlers{
		Analyzer:  analyzer,
		Provider:  prov,
		Store:     store.NewMemory(),
		Publisher: publisher,
		Metrics:   metrics.DefaultMetrics,
		Logger:    logging.WithComponent("http"),
	}

	// Readiness flips once the API listener is up and drops again on
	// shutdown, so the probe window matches the serving window.
	var ready atomic.Bool
	obsServer := observability.NewServer(":"+cfg.Service.MetricsPort, ready.Load)
	obsServer.Start()

	apiServer := &http.Server{
		Addr:         ":" + cfg.Service.HTTPPort,
		Handler:      apihttp.NewRouter(handlers),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // provider round trips can be slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		application.Logger.Info().Str("addr", apiServer.Addr).Msg("Call QA API listening")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			application.Logger.Fatal().Err(err).Msg("API server failed")
		}
	}()
	ready.Store(true)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ready.Store(false)
	application.Logger.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		application.Logger.Error().Err(err).Msg("API server shutdown failed")
	}
	if err := obsServer.Shutdown(ctx); err != nil {
		application.Logger.Error().Err(err).Msg("Observability server shutdown failed")
	}
}

// newProvider selects the transcription provider from configuration.
func newProvider(application *app.Application, cfg *config.Configuration) provider.Provider {
	switch cfg.Provider.Name {
	case "assemblyai":
		return assemblyai.New(assemblyai.Config{
			APIKey:       cfg.Provider.AssemblyAI.APIKey,
			BaseURL:      cfg.Provider.AssemblyAI.BaseURL,
			PollInterval: cfg.Provider.AssemblyAI.PollInterval,
		}, application.Logger)
	case "google":
		adapter, err := google.New(context.Background(), google.Config{
			LanguageCode: cfg.Provider.Google.LanguageCode,
			SampleRateHz: int32(cfg.Provider.Google.SampleRateHz),
		})
		if err != nil {
			application.Logger.Fatal().Err(err).Msg("Google provider init failed")
		}
		return adapter
	default:
		return mock.New()
	}
}
