package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spacesedan/commentlens/config"
	"github.com/spacesedan/commentlens/internal/clients"
	"github.com/spacesedan/commentlens/internal/models"
)

// Classifier labels a single comment. Labels are compared case-insensitively.
type Classifier interface {
	Classify(ctx context.Context, text string) (models.SentimentPrediction, error)
}

// NewClassifier builds the backend selected by SENTIMENT_BACKEND.
func NewClassifier(cfg config.Config) (Classifier, error) {
	switch cfg.SentimentBackend {
	case "hugot":
		return NewHugotClassifier(HugotOptions{
			ModelPath: cfg.SentimentModelPath,
			ModelName: cfg.SentimentModelName,
			ModelDir:  cfg.SentimentModelDir,
		})
	case "remote":
		if cfg.SentimentEndpoint == "" {
			return nil, fmt.Errorf("remote sentiment backend requires SENTIMENT_ENDPOINT")
		}
		hf := clients.NewHuggingFaceClient(cfg.Env, cfg.HFAPIToken)
		return NewRemoteClassifier(hf, cfg.SentimentEndpoint), nil
	case "vader", "":
		return NewVADERClassifier(), nil
	default:
		slog.Warn("[Sentiment] Unknown backend, falling back to VADER",
			slog.String("backend", cfg.SentimentBackend))
		return NewVADERClassifier(), nil
	}
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
