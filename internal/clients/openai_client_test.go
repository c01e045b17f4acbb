package clients

import (
	"errors"
	"fmt"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spacesedan/commentlens/config"
	"github.com/stretchr/testify/assert"
)

func TestIsOpenAIQuotaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("insufficient_quota"), false},
		{"code", &openai.APIError{Code: "insufficient_quota", HTTPStatusCode: 429}, true},
		{"type", &openai.APIError{Type: "insufficient_quota", HTTPStatusCode: 429}, true},
		{"wrapped", fmt.Errorf("call failed: %w", &openai.APIError{Code: "insufficient_quota"}), true},
		{"rate limit", &openai.APIError{Code: "rate_limit_exceeded", HTTPStatusCode: 429}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOpenAIQuotaError(tt.err))
		})
	}
}

func TestNewOpenAIClientWithoutKey(t *testing.T) {
	assert.Nil(t, NewOpenAIClient(config.Config{}))
	assert.NotNil(t, NewOpenAIClient(config.Config{OpenAIAPIKey: "sk-test", OpenAIModel: "gpt-3.5-turbo"}))
}
