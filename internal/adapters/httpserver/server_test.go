package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deepcatch/deepcatch/internal/core"
	"github.com/deepcatch/deepcatch/internal/utils"
)

type stubClassifier struct {
	err    error
	status core.ModelStatus
}

func (s *stubClassifier) Classify(ctx context.Context, text string) (*core.ClassificationResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &core.ClassificationResult{Verdict: core.BinaryPhishing, Score: 0.97}, nil
}

func (s *stubClassifier) Status() core.ModelStatus {
	if s.status == "" {
		return core.ModelLoaded
	}
	return s.status
}

type stubExplainer struct{}

func (s *stubExplainer) Explain(ctx context.Context, text string) (*core.ExplanationResult, error) {
	verdict := core.VerdictHighRisk
	confidence := 95
	explanation := "Urgency language with an unsolicited link."
	return &core.ExplanationResult{
		Verdict:     &verdict,
		Confidence:  &confidence,
		Explanation: &explanation,
	}, nil
}

func newTestServer(cls core.TextClassifier) *Server {
	logger := zap.NewNop()
	service := core.NewAnalysisService(
		cls,
		&stubExplainer{},
		nil,
		utils.NewTextProcessor(logger),
		logger,
		false,
		0,
		time.Second,
		8192,
		false,
	)
	return NewServer(service, "127.0.0.1:0", logger)
}

func doRequest(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestCheckEndpoint(t *testing.T) {
	srv := newTestServer(&stubClassifier{})

	w := doRequest(srv, http.MethodPost, "/api/check",
		`{"text":"URGENT: Click here now! http://suspicious-site.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var report core.AnalysisReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, core.VerdictHighRisk, report.Verdict)
	assert.Equal(t, 95, report.Confidence)
	assert.False(t, report.Degraded)
	assert.Equal(t, core.InputText, report.Metadata.InputType)
	assert.NotEmpty(t, report.ProcessingID)
}

func TestCheckEndpointEmptyText(t *testing.T) {
	srv := newTestServer(&stubClassifier{})

	for _, body := range []string{`{"text":""}`, `{"text":"   "}`, `{}`} {
		w := doRequest(srv, http.MethodPost, "/api/check", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Text cannot be empty", resp["detail"])
	}
}

func TestCheckEndpointInvalidBody(t *testing.T) {
	srv := newTestServer(&stubClassifier{})

	w := doRequest(srv, http.MethodPost, "/api/check", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckEndpointClassifierDown(t *testing.T) {
	srv := newTestServer(&stubClassifier{err: errors.New("model server unreachable")})

	w := doRequest(srv, http.MethodPost, "/api/check", `{"text":"hello"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&stubClassifier{status: core.ModelLoaded})

	w := doRequest(srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var health core.HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, core.ModelLoaded, health.ModelStatus)
}

func TestHealthEndpointModelDown(t *testing.T) {
	srv := newTestServer(&stubClassifier{status: core.ModelUnavailable})

	w := doRequest(srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var health core.HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "degraded", health.Status)
}
