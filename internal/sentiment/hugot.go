package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/spacesedan/commentlens/internal/models"
)

type HugotOptions struct {
	// ModelPath points at an exported ONNX model directory. When empty the model
	// named by ModelName is downloaded into ModelDir.
	ModelPath string
	ModelName string
	ModelDir  string
}

// HugotClassifier runs a local transformer text-classification pipeline.
type HugotClassifier struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	mu       sync.Mutex
}

func NewHugotClassifier(opts HugotOptions) (*HugotClassifier, error) {
	modelPath, err := resolveModel(opts)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		slog.Error("[HugotClassifier] Failed to initialize Hugot session", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to initialize hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "commentSentimentPipeline",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		session.Destroy()
		slog.Error("[HugotClassifier] Failed to initialize sentiment pipeline", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to initialize sentiment pipeline: %w", err)
	}

	slog.Info("[HugotClassifier] Sentiment pipeline ready", slog.String("model", modelPath))
	return &HugotClassifier{session: session, pipeline: pipeline}, nil
}

func resolveModel(opts HugotOptions) (string, error) {
	if opts.ModelPath != "" {
		if _, err := os.Stat(opts.ModelPath); err != nil {
			return "", fmt.Errorf("sentiment model not found at %s: %w", opts.ModelPath, err)
		}
		slog.Info("[HugotClassifier] Using existing model", slog.String("path", opts.ModelPath))
		return opts.ModelPath, nil
	}

	if err := os.MkdirAll(opts.ModelDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}

	slog.Info("[HugotClassifier] Model path not set, downloading...", slog.String("model", opts.ModelName))
	modelPath, err := hugot.DownloadModel(opts.ModelName, opts.ModelDir, hugot.NewDownloadOptions())
	if err != nil {
		slog.Error("[HugotClassifier] Failed to download model", slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to download %s: %w", opts.ModelName, err)
	}
	slog.Info("[HugotClassifier] Model downloaded successfully", slog.String("path", modelPath))
	return modelPath, nil
}

func (h *HugotClassifier) Classify(ctx context.Context, text string) (models.SentimentPrediction, error) {
	if err := ctx.Err(); err != nil {
		return models.SentimentPrediction{}, err
	}

	h.mu.Lock()
	output, err := h.pipeline.RunPipeline([]string{text})
	h.mu.Unlock()
	if err != nil {
		return models.SentimentPrediction{}, fmt.Errorf("sentiment pipeline failed: %w", err)
	}

	if len(output.ClassificationOutputs) == 0 || len(output.ClassificationOutputs[0]) == 0 {
		return models.SentimentPrediction{}, fmt.Errorf("sentiment pipeline returned no labels")
	}

	best := output.ClassificationOutputs[0][0]
	return models.SentimentPrediction{
		Label: normalizeLabel(best.Label),
		Score: float64(best.Score),
	}, nil
}

func (h *HugotClassifier) Close() error {
	if h.session == nil {
		return nil
	}
	return h.session.Destroy()
}
