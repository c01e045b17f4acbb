package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/spacesedan/commentlens/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHuggingFaceClassify(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"nested", `[[{"label":"POSITIVE","score":0.98},{"label":"NEGATIVE","score":0.02}]]`},
		{"flat", `[{"label":"POSITIVE","score":0.98},{"label":"NEGATIVE","score":0.02}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer hf-token", r.Header.Get("Authorization"))
				var req models.HFClassificationRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "nice video", req.Inputs)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			hf := NewHuggingFaceClient("test", "hf-token")
			got, err := hf.Classify(context.Background(), srv.URL, "nice video")

			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, models.HFLabelScore{Label: "POSITIVE", Score: 0.98}, got[0][0])
		})
	}
}

func TestHuggingFaceRetriesWhileModelLoads(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[[{"label":"NEGATIVE","score":0.91}]]`))
	}))
	defer srv.Close()

	hf := NewHuggingFaceClient("test", "").WithRetryPolicy(*fastRetry)
	got, err := hf.Classify(context.Background(), srv.URL, "meh")

	require.NoError(t, err)
	assert.Equal(t, "NEGATIVE", got[0][0].Label)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHuggingFaceClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	hf := NewHuggingFaceClient("test", "").WithRetryPolicy(*fastRetry)
	_, err := hf.Classify(context.Background(), srv.URL, "meh")

	assert.Error(t, err)
}
