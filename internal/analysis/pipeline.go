package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/commentlens/internal/clients"
	"github.com/spacesedan/commentlens/internal/metrics"
	"github.com/spacesedan/commentlens/internal/models"
	"github.com/spacesedan/commentlens/internal/summarizer"
	"github.com/spacesedan/commentlens/internal/utils"
	"golang.org/x/sync/errgroup"
)

var (
	ErrVideoNotFound = clients.ErrVideoNotFound
	ErrQuotaExceeded = clients.ErrYouTubeQuota
)

type VideoSource interface {
	GetVideoInfo(ctx context.Context, videoID string) (models.VideoInfo, error)
	GetComments(ctx context.Context, videoID string) ([]string, error)
	GetTranscript(ctx context.Context, videoID string) string
}

type Summarizer interface {
	SummarizeTranscript(ctx context.Context, transcript string) models.SummaryResult
	SummarizeBatches(ctx context.Context, batches []models.CommentBatch) []models.SummaryResult
	Synthesize(ctx context.Context, batchSummaries []models.SummaryResult, transcriptSummary models.SummaryResult) models.SummaryResult
}

type SentimentAggregator interface {
	Aggregate(ctx context.Context, comments []string) models.SentimentDistribution
}

type Pipeline struct {
	videos         VideoSource
	summarizer     Summarizer
	sentiment      SentimentAggregator
	maxBatchTokens int
}

func NewPipeline(videos VideoSource, summarizer Summarizer, sentiment SentimentAggregator, maxBatchTokens int) *Pipeline {
	return &Pipeline{
		videos:         videos,
		summarizer:     summarizer,
		sentiment:      sentiment,
		maxBatchTokens: maxBatchTokens,
	}
}

// RunAnalysis builds the report for one video. Only a missing video, an exhausted
// platform quota or a cancelled context produce an error; LLM problems are reported
// inside the report.
func (p *Pipeline) RunAnalysis(ctx context.Context, videoID string) (models.AnalysisReport, error) {
	start := time.Now()
	report, err := p.run(ctx, videoID)
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	outcome := "ok"
	switch {
	case errors.Is(err, ErrVideoNotFound):
		outcome = "not_found"
	case errors.Is(err, ErrQuotaExceeded):
		outcome = "platform_quota"
	case err != nil:
		outcome = "error"
	case report.APIQuotaExceeded:
		outcome = "llm_quota"
	}
	metrics.AnalysesTotal.WithLabelValues(outcome).Inc()

	if err != nil {
		return models.AnalysisReport{}, err
	}

	slog.Info("[Pipeline] Analysis complete",
		slog.String("video_id", videoID),
		slog.Int("comments", report.CommentCount),
		slog.Bool("api_quota_exceeded", report.APIQuotaExceeded),
		slog.Duration("elapsed", time.Since(start)))
	return report, nil
}

func (p *Pipeline) run(ctx context.Context, videoID string) (models.AnalysisReport, error) {
	info, err := p.videos.GetVideoInfo(ctx, videoID)
	if errors.Is(err, ErrVideoNotFound) {
		slog.Info("[Pipeline] Video not found", slog.String("video_id", videoID))
		return models.AnalysisReport{}, ErrVideoNotFound
	}
	if err != nil {
		return models.AnalysisReport{}, fmt.Errorf("failed to fetch video info: %w", err)
	}

	commentsUnavailable := false
	comments, err := p.videos.GetComments(ctx, videoID)
	if err != nil {
		if errors.Is(err, ErrQuotaExceeded) || ctx.Err() != nil {
			return models.AnalysisReport{}, fmt.Errorf("failed to fetch comments: %w", err)
		}
		slog.Warn("[Pipeline] Comments unavailable, continuing without them",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()))
		commentsUnavailable = true
		comments = nil
	}

	transcript := p.videos.GetTranscript(ctx, videoID)

	var distribution models.SentimentDistribution
	var g errgroup.Group
	g.Go(func() error {
		distribution = p.sentiment.Aggregate(ctx, comments)
		return nil
	})

	transcriptSummary := p.summarizer.SummarizeTranscript(ctx, transcript)
	batches := utils.BatchComments(comments, p.maxBatchTokens)
	batchSummaries := p.summarizer.SummarizeBatches(ctx, batches)
	final := p.summarizer.Synthesize(ctx, batchSummaries, transcriptSummary)

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return models.AnalysisReport{}, err
	}

	return models.AnalysisReport{
		VideoID:             videoID,
		VideoTitle:          info.Title,
		ChannelTitle:        info.ChannelTitle,
		PublishedAt:         info.PublishedAt,
		CommentCount:        len(comments),
		CommentsUnavailable: commentsUnavailable,
		Sentiment:           distribution,
		Summary:             summarizer.Display(summarizer.StageFinal, final),
		TranscriptSummary:   summarizer.Display(summarizer.StageTranscript, transcriptSummary),
		APIQuotaExceeded:    quotaExceeded(transcriptSummary, batchSummaries, final),
	}, nil
}

func quotaExceeded(transcript models.SummaryResult, batches []models.SummaryResult, final models.SummaryResult) bool {
	if transcript.IsQuotaExceeded() || final.IsQuotaExceeded() {
		return true
	}
	for _, b := range batches {
		if b.IsQuotaExceeded() {
			return true
		}
	}
	return false
}
