package sentiment

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveModelUsesExistingPath(t *testing.T) {
	dir := t.TempDir()

	got, err := resolveModel(HugotOptions{ModelPath: dir})

	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestNewHugotClassifierMissingModel(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-model")

	c, err := NewHugotClassifier(HugotOptions{ModelPath: missing})

	require.Error(t, err)
	assert.Nil(t, c)
	assert.Contains(t, err.Error(), "sentiment model not found")
}

func TestHugotClassifierCloseWithoutSession(t *testing.T) {
	assert.NoError(t, (&HugotClassifier{}).Close())
}
