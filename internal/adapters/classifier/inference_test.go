package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deepcatch/deepcatch/internal/core"
)

func newTestInferenceClient(t *testing.T, handler http.HandlerFunc) *InferenceClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewInferenceClient(srv.URL, 5*time.Second, []string{"phishing", "LABEL_1"}, zap.NewNop())
}

func TestInferenceClassifyNestedResponse(t *testing.T) {
	client := newTestInferenceClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "click here to verify", body["inputs"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[[{"label":"LABEL_1","score":0.9731}]]`))
	})

	result, err := client.Classify(context.Background(), "click here to verify")
	require.NoError(t, err)
	assert.Equal(t, core.BinaryPhishing, result.Verdict)
	assert.InDelta(t, 0.9731, result.Score, 1e-9)
	assert.Equal(t, core.ModelLoaded, client.Status())
}

func TestInferenceClassifyFlatResponse(t *testing.T) {
	client := newTestInferenceClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Write([]byte(`[{"label":"safe","score":0.88}]`))
	})

	result, err := client.Classify(context.Background(), "meeting at ten")
	require.NoError(t, err)
	assert.Equal(t, core.BinarySafe, result.Verdict)
	assert.InDelta(t, 0.88, result.Score, 1e-9)
}

func TestInferenceClassifyLabelCaseInsensitive(t *testing.T) {
	client := newTestInferenceClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Write([]byte(`[[{"label":"PHISHING","score":0.75}]]`))
	})

	result, err := client.Classify(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, core.BinaryPhishing, result.Verdict)
}

func TestInferenceClassifyServerError(t *testing.T) {
	// The health probe sees the same failure, so status is stable.
	client := newTestInferenceClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Classify(context.Background(), "x")
	assert.ErrorIs(t, err, core.ErrClassifierUnavailable)
	assert.Equal(t, core.ModelUnavailable, client.Status())
}

func TestInferenceClassifyUnparseableResponse(t *testing.T) {
	client := newTestInferenceClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Write([]byte(`{"error":"model loading"}`))
	})

	_, err := client.Classify(context.Background(), "x")
	assert.ErrorIs(t, err, core.ErrClassifierUnavailable)
}

func TestInferenceClassifyConnectionRefused(t *testing.T) {
	client := NewInferenceClient("http://127.0.0.1:1", time.Second, []string{"phishing"}, zap.NewNop())

	_, err := client.Classify(context.Background(), "x")
	assert.ErrorIs(t, err, core.ErrClassifierUnavailable)
	assert.Equal(t, core.ModelUnavailable, client.Status())
}

func TestInferenceScoreClamped(t *testing.T) {
	client := newTestInferenceClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Write([]byte(`[[{"label":"phishing","score":1.2}]]`))
	})

	result, err := client.Classify(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Score)
}
