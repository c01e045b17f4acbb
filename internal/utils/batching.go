package utils

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spacesedan/commentlens/internal/models"
)

const DEFAULT_MAX_BATCH_TOKENS = 2048

// BatchBuffer accumulates items together with a running weight.
type BatchBuffer[T any] struct {
	buffer     []T
	weight     int
	bufferLock sync.Mutex
}

func NewBatchBuffer[T any]() *BatchBuffer[T] {
	return &BatchBuffer[T]{}
}

func (b *BatchBuffer[T]) Add(item T, weight int) {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	b.buffer = append(b.buffer, item)
	b.weight += weight
}

// Fits reports whether an item of the given weight can join the current batch
// without exceeding limit. An empty buffer always admits the item.
func (b *BatchBuffer[T]) Fits(weight, limit int) bool {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	return len(b.buffer) == 0 || b.weight+weight <= limit
}

func (b *BatchBuffer[T]) GetAndClear() []T {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	if len(b.buffer) == 0 {
		return nil
	}

	batch := b.buffer
	b.buffer = nil
	b.weight = 0
	return batch
}

func (b *BatchBuffer[T]) Size() int {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()
	return len(b.buffer)
}

func (b *BatchBuffer[T]) Weight() int {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()
	return b.weight
}

func (b *BatchBuffer[T]) HasData() bool {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()
	return len(b.buffer) > 0
}

// CountWords is the naive whitespace token estimate used for batch budgets.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// BatchComments groups comments, in order, into batches whose word count stays within
// maxTokens. A single comment over the budget still forms a batch of its own.
func BatchComments(comments []string, maxTokens int) []models.CommentBatch {
	if maxTokens <= 0 {
		maxTokens = DEFAULT_MAX_BATCH_TOKENS
	}

	var batches []models.CommentBatch
	buffer := NewBatchBuffer[string]()

	for _, comment := range comments {
		words := CountWords(comment)
		if !buffer.Fits(words, maxTokens) {
			batches = append(batches, models.CommentBatch(buffer.GetAndClear()))
		}
		buffer.Add(comment, words)
	}

	if buffer.HasData() {
		batches = append(batches, models.CommentBatch(buffer.GetAndClear()))
	}

	slog.Debug("[Batcher] Built comment batches",
		slog.Int("comments", len(comments)),
		slog.Int("batches", len(batches)),
		slog.Int("max_tokens", maxTokens))

	return batches
}
