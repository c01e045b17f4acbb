package sentiment

import (
	"context"
	"testing"

	"github.com/spacesedan/commentlens/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertMarkdownToText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "just text", "just text"},
		{"emphasis", "this is **really** good", "this is really good"},
		{"markdown link", "see [the docs](https://example.com/docs) now", "see the docs now"},
		{"bare url", "watch https://youtu.be/abc please", "watch please"},
		{"entities", "fish & chips", "fish & chips"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertMarkdownToText(tt.input))
		})
	}
}

func TestVADERClassifier(t *testing.T) {
	v := NewVADERClassifier()

	pos, err := v.Classify(context.Background(), "This video is absolutely amazing, I love it so much!")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentPositive, pos.Label)
	assert.Greater(t, pos.Score, VADER_CUTOFF)

	neg, err := v.Classify(context.Background(), "Terrible, awful video. I hate it.")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNegative, neg.Label)
	assert.Greater(t, neg.Score, 0.0)

	neu, err := v.Classify(context.Background(), "The video is ten minutes long.")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNeutral, neu.Label)
}
