package analysis

import (
	"io"
	"log/slog"

	"github.com/spacesedan/commentlens/config"
	"github.com/spacesedan/commentlens/internal/clients"
	"github.com/spacesedan/commentlens/internal/completion"
	"github.com/spacesedan/commentlens/internal/sentiment"
	"github.com/spacesedan/commentlens/internal/summarizer"
)

// Service bundles the pipeline with the clients the server needs for health checks.
type Service struct {
	Pipeline *Pipeline
	OpenAI   *clients.OpenAIClient

	closers []func()
}

func (s *Service) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// NewFromConfig builds every collaborator of the pipeline from cfg.
func NewFromConfig(cfg config.Config) (*Service, error) {
	svc := &Service{}

	ytOpts := clients.YouTubeOptions{
		APIKey:      cfg.YouTubeAPIKey,
		MaxComments: cfg.MaxComments,
		CacheTTL:    cfg.CacheTTL,
	}
	cache, err := clients.NewValkeyCache(cfg)
	if err != nil {
		slog.Warn("[Pipeline] Valkey unavailable, continuing without cache",
			slog.String("error", err.Error()))
	} else if cache != nil {
		ytOpts.Cache = cache
		svc.closers = append(svc.closers, cache.Close)
	}
	youtube := clients.NewYouTubeClient(ytOpts)

	var llm completion.Completer
	if openAI := clients.NewOpenAIClient(cfg); openAI != nil {
		svc.OpenAI = openAI
		llm = openAI
	}
	completer := completion.NewClient(llm, completion.Options{
		RetryDelay: cfg.CompletionRetryDelay,
		MaxRetries: cfg.CompletionMaxRetries,
		IsQuota: completion.AnyQuota(
			clients.IsOpenAIQuotaError,
			completion.MarkerQuotaDetector(cfg.QuotaErrorMarkers...),
		),
	})

	classifier, err := sentiment.NewClassifier(cfg)
	if err != nil {
		svc.Close()
		return nil, err
	}
	if closer, ok := classifier.(io.Closer); ok {
		svc.closers = append(svc.closers, func() {
			if err := closer.Close(); err != nil {
				slog.Warn("[Pipeline] Failed to close classifier", slog.String("error", err.Error()))
			}
		})
	}

	svc.Pipeline = NewPipeline(
		youtube,
		summarizer.NewService(completer),
		sentiment.NewAggregator(classifier, cfg.SentimentThreshold, cfg.SentimentWorkers),
		cfg.MaxBatchTokens,
	)

	slog.Info("[Pipeline] Initialized",
		slog.Bool("completion_available", completer.Available()),
		slog.String("sentiment_backend", cfg.SentimentBackend),
		slog.Bool("cache_enabled", ytOpts.Cache != nil))
	return svc, nil
}
