package sentiment

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spacesedan/commentlens/internal/metrics"
	"github.com/spacesedan/commentlens/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	DEFAULT_THRESHOLD = 0.90
	DEFAULT_WORKERS   = 4
)

type Aggregator struct {
	classifier Classifier
	threshold  float64
	workers    int
}

func NewAggregator(classifier Classifier, threshold float64, workers int) *Aggregator {
	if threshold <= 0 || threshold >= 1 {
		threshold = DEFAULT_THRESHOLD
	}
	if workers <= 0 {
		workers = DEFAULT_WORKERS
	}
	return &Aggregator{classifier: classifier, threshold: threshold, workers: workers}
}

// Aggregate returns the percentage of positive, negative and neutral comments.
// A comment is positive or negative only when the classifier is more confident
// than the threshold. Classifier errors count as neutral.
func (a *Aggregator) Aggregate(ctx context.Context, comments []string) models.SentimentDistribution {
	if len(comments) == 0 {
		return models.SentimentDistribution{}
	}

	start := time.Now()
	var positive, negative, neutral, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for _, comment := range comments {
		g.Go(func() error {
			switch a.bucket(gctx, comment) {
			case models.SentimentPositive:
				positive.Add(1)
			case models.SentimentNegative:
				negative.Add(1)
			case "":
				failed.Add(1)
				neutral.Add(1)
			default:
				neutral.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	total := float64(len(comments))
	dist := models.SentimentDistribution{
		Positive: float64(positive.Load()) / total * 100,
		Negative: float64(negative.Load()) / total * 100,
		Neutral:  float64(neutral.Load()) / total * 100,
	}

	metrics.SentimentLabels.WithLabelValues(models.SentimentPositive).Add(float64(positive.Load()))
	metrics.SentimentLabels.WithLabelValues(models.SentimentNegative).Add(float64(negative.Load()))
	metrics.SentimentLabels.WithLabelValues(models.SentimentNeutral).Add(float64(neutral.Load()))
	metrics.SentimentErrors.Add(float64(failed.Load()))

	slog.Info("[Sentiment] Comments classified",
		slog.Int("comments", len(comments)),
		slog.Int64("classifier_errors", failed.Load()),
		slog.Float64("positive", dist.Positive),
		slog.Float64("negative", dist.Negative),
		slog.Float64("neutral", dist.Neutral),
		slog.Duration("elapsed", time.Since(start)))

	return dist
}

// bucket returns "" when the classifier failed.
func (a *Aggregator) bucket(ctx context.Context, comment string) string {
	if err := ctx.Err(); err != nil {
		return ""
	}

	prediction, err := a.classifier.Classify(ctx, comment)
	if err != nil {
		slog.Warn("[Sentiment] Classification failed, counting as neutral",
			slog.String("error", err.Error()))
		return ""
	}

	label := normalizeLabel(prediction.Label)
	if prediction.Score <= a.threshold {
		return models.SentimentNeutral
	}
	switch label {
	case models.SentimentPositive, models.SentimentNegative:
		return label
	default:
		return models.SentimentNeutral
	}
}
