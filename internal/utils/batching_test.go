package utils

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/spacesedan/commentlens/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchCommentsEmpty(t *testing.T) {
	assert.Empty(t, BatchComments(nil, 10))
	assert.Empty(t, BatchComments([]string{}, 10))
}

func TestBatchCommentsOversizedSecondComment(t *testing.T) {
	got := BatchComments([]string{"a b c", "d e f g h"}, 4)

	assert.Equal(t, []models.CommentBatch{{"a b c"}, {"d e f g h"}}, got)
}

func TestBatchCommentsOversizedFirstComment(t *testing.T) {
	got := BatchComments([]string{"one two three four five", "six", "seven"}, 2)

	assert.Equal(t, []models.CommentBatch{{"one two three four five"}, {"six", "seven"}}, got)
}

func TestBatchCommentsExactBudget(t *testing.T) {
	got := BatchComments([]string{"a b", "c d", "e"}, 4)

	assert.Equal(t, []models.CommentBatch{{"a b", "c d"}, {"e"}}, got)
}

func TestBatchCommentsWhitespaceOnlyComments(t *testing.T) {
	got := BatchComments([]string{"   ", "a", "\t\n"}, 1)

	assert.Equal(t, []models.CommentBatch{{"   ", "a", "\t\n"}}, got)
}

func TestBatchCommentsNonPositiveBudgetUsesDefault(t *testing.T) {
	got := BatchComments([]string{"a", "b"}, 0)

	assert.Equal(t, []models.CommentBatch{{"a", "b"}}, got)
}

func TestBatchCommentsProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	words := []string{"great", "video", "bad", "audio", "loved", "it", "meh"}

	for round := 0; round < 200; round++ {
		budget := rng.Intn(12) + 1
		comments := make([]string, rng.Intn(30))
		for i := range comments {
			n := rng.Intn(15)
			parts := make([]string, n)
			for j := range parts {
				parts[j] = words[rng.Intn(len(words))]
			}
			comments[i] = strings.Join(parts, " ")
		}

		batches := BatchComments(comments, budget)

		var flattened []string
		for _, batch := range batches {
			require.NotEmpty(t, batch)
			total := 0
			for _, c := range batch {
				total += CountWords(c)
			}
			if total > budget {
				assert.Len(t, batch, 1, "over-budget batch must hold exactly one comment")
				assert.Greater(t, CountWords(batch[0]), budget)
			}
			flattened = append(flattened, batch...)
		}
		if len(comments) == 0 {
			assert.Empty(t, flattened)
		} else {
			assert.Equal(t, comments, flattened)
		}
	}
}

func TestBatchBuffer(t *testing.T) {
	b := NewBatchBuffer[string]()
	assert.False(t, b.HasData())
	assert.True(t, b.Fits(100, 1))

	b.Add("x", 3)
	b.Add("y", 2)
	assert.Equal(t, 2, b.Size())
	assert.Equal(t, 5, b.Weight())
	assert.True(t, b.Fits(1, 6))
	assert.False(t, b.Fits(2, 6))

	assert.Equal(t, []string{"x", "y"}, b.GetAndClear())
	assert.Nil(t, b.GetAndClear())
	assert.Equal(t, 0, b.Weight())
}
