package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spacesedan/commentlens/config"
)

const (
	openAIRequestTimeout = 60 * time.Second // Timeout for individual OpenAI API requests
	openAIQuotaCode      = "insufficient_quota"
)

type OpenAIClient struct {
	Client *openai.Client
	model  string
}

// NewOpenAIClient returns nil when no API key is configured.
func NewOpenAIClient(cfg config.Config) *OpenAIClient {
	if cfg.OpenAIAPIKey == "" {
		slog.Warn("[OpenAIClient] OPENAI_API_KEY is not set, summaries will be unavailable")
		return nil
	}

	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	clientConfig.HTTPClient = &http.Client{
		Timeout: openAIRequestTimeout,
	}
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}

	slog.Info("[OpenAIClient] OpenAI client initialized with custom HTTP timeout",
		slog.Duration("timeout", openAIRequestTimeout),
		slog.String("model", cfg.OpenAIModel))

	return &OpenAIClient{
		Client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.OpenAIModel,
	}
}

func (o *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// HealthCheck lists the available models as a cheap authenticated request.
func (o *OpenAIClient) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := o.Client.ListModels(ctx); err != nil {
		slog.Warn("[OpenAIClient] Health check failed", slog.String("error", err.Error()))
		return false
	}
	return true
}

// IsOpenAIQuotaError reports whether err is an OpenAI insufficient_quota response.
func IsOpenAIQuotaError(err error) bool {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Type == openAIQuotaCode || fmt.Sprint(apiErr.Code) == openAIQuotaCode
}
