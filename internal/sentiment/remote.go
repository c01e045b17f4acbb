package sentiment

import (
	"context"
	"fmt"

	"github.com/spacesedan/commentlens/internal/clients"
	"github.com/spacesedan/commentlens/internal/models"
)

// RemoteClassifier calls a Hugging Face text-classification endpoint.
type RemoteClassifier struct {
	client   *clients.HuggingFaceClient
	endpoint string
}

func NewRemoteClassifier(client *clients.HuggingFaceClient, endpoint string) *RemoteClassifier {
	return &RemoteClassifier{client: client, endpoint: endpoint}
}

func (r *RemoteClassifier) Classify(ctx context.Context, text string) (models.SentimentPrediction, error) {
	resp, err := r.client.Classify(ctx, r.endpoint, text)
	if err != nil {
		return models.SentimentPrediction{}, err
	}
	if len(resp) == 0 || len(resp[0]) == 0 {
		return models.SentimentPrediction{}, fmt.Errorf("classification response was empty")
	}

	best := resp[0][0]
	for _, candidate := range resp[0][1:] {
		if candidate.Score > best.Score {
			best = candidate
		}
	}
	return models.SentimentPrediction{Label: normalizeLabel(best.Label), Score: best.Score}, nil
}
