package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spacesedan/commentlens/internal/models"
)

type HuggingFaceClient struct {
	Client *http.Client
	token  string
	retry  RetryPolicy
}

func NewHuggingFaceClient(env, token string) *HuggingFaceClient {
	var timeout time.Duration
	if env == "production" {
		timeout = 10 * time.Second
	} else {
		timeout = 60 * time.Second
	}

	slog.Info("[HuggingFaceClient] Initializing Client",
		slog.Duration("timeout", timeout),
		slog.String("env", env))

	return &HuggingFaceClient{
		Client: &http.Client{Timeout: timeout},
		token:  token,
		retry:  DefaultRetryPolicy,
	}
}

func (h *HuggingFaceClient) WithRetryPolicy(policy RetryPolicy) *HuggingFaceClient {
	h.retry = policy
	return h
}

// Classify sends one text to a text-classification endpoint.
func (h *HuggingFaceClient) Classify(ctx context.Context, endpoint, text string) (models.HFClassificationResponse, error) {
	body, err := h.postJSON(ctx, endpoint, models.HFClassificationRequest{Inputs: text})
	if err != nil {
		return nil, err
	}

	var nested models.HFClassificationResponse
	if err := json.Unmarshal(body, &nested); err == nil {
		return nested, nil
	}

	// Some deployments return a flat list for a single input.
	var flat []models.HFLabelScore
	if err := json.Unmarshal(body, &flat); err != nil {
		slog.Error("[HuggingFaceClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(body),
			slog.Int("raw_response_length", len(body)))
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return models.HFClassificationResponse{flat}, nil
}

func (h *HuggingFaceClient) postJSON(ctx context.Context, endpoint string, input any) ([]byte, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	resp, err := doWithRetry(ctx, h.Client, h.retry, "HuggingFaceClient", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if h.token != "" {
			req.Header.Set("Authorization", "Bearer "+h.token)
		}
		return req, nil
	})
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed request after retries",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("[HuggingFaceClient] Unexpected status",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			getPreview(respBody))
		return nil, &httpStatusError{StatusCode: resp.StatusCode}
	}

	return respBody, nil
}
