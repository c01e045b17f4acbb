package summarizer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spacesedan/commentlens/internal/models"
)

const (
	StageTranscript = "transcript"
	StageComments   = "comments"
	StageFinal      = "final"
)

// Completion is the resilient completion client; it never returns an error.
type Completion interface {
	Available() bool
	CompleteStage(ctx context.Context, stage, system, user string) models.SummaryResult
}

type Service struct {
	completion Completion
}

func NewService(completion Completion) *Service {
	return &Service{completion: completion}
}

func (s *Service) available() bool {
	return s.completion != nil && s.completion.Available()
}

func (s *Service) SummarizeTranscript(ctx context.Context, transcript string) models.SummaryResult {
	if !s.available() {
		return models.SummaryNotConfigured()
	}

	result := s.completion.CompleteStage(ctx, StageTranscript, TRANSCRIPT_PROMPT, transcript)
	slog.Info("[Summarizer] Transcript summarized",
		slog.String("status", result.Status.String()),
		slog.Int("transcript_length", len(transcript)))
	return result
}

// SummarizeBatches summarizes batches in order. Once a batch hits the quota no further
// requests are made and every remaining batch is marked as quota exceeded.
func (s *Service) SummarizeBatches(ctx context.Context, batches []models.CommentBatch) []models.SummaryResult {
	if !s.available() {
		return []models.SummaryResult{models.SummaryNotConfigured()}
	}

	summaries := make([]models.SummaryResult, 0, len(batches))
	quotaExceeded := false

	for i, batch := range batches {
		if quotaExceeded {
			summaries = append(summaries, models.SummaryQuota())
			continue
		}

		result := s.completion.CompleteStage(ctx, StageComments, COMMENTS_PROMPT, strings.Join(batch, " "))
		if result.IsQuotaExceeded() {
			quotaExceeded = true
			slog.Warn("[Summarizer] Quota exceeded, skipping remaining batches",
				slog.Int("batch", i),
				slog.Int("remaining", len(batches)-i-1))
		}
		summaries = append(summaries, result)
	}

	slog.Info("[Summarizer] Comment batches summarized",
		slog.Int("batches", len(batches)),
		slog.Bool("quota_exceeded", quotaExceeded))
	return summaries
}

// Synthesize combines batch summaries and the transcript summary into the final
// analysis. Upstream failures are reported without contacting the completion service.
func (s *Service) Synthesize(ctx context.Context, batchSummaries []models.SummaryResult, transcriptSummary models.SummaryResult) models.SummaryResult {
	if !s.available() {
		return models.SummaryNotConfigured()
	}

	for _, summary := range batchSummaries {
		if summary.IsFailure() {
			return models.SummaryIncompleteFrom(models.CauseComments)
		}
	}

	if transcriptSummary.IsFailure() {
		return models.SummaryIncompleteFrom(models.CauseTranscript)
	}

	if len(batchSummaries) == 0 {
		return models.SummaryEmpty()
	}

	texts := make([]string, len(batchSummaries))
	for i, summary := range batchSummaries {
		texts[i] = summary.Text
	}

	return s.completion.CompleteStage(ctx, StageFinal, finalPrompt(transcriptSummary.Text), strings.Join(texts, " "))
}
