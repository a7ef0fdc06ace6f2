package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/deepcatch/deepcatch/internal/core"
)

// InferenceClient wraps a local text-classification inference server
// serving the fine-tuned phishing model. The server speaks the common
// HuggingFace shape: POST {"inputs": text} returning [{label, score}] or
// [[{label, score}]].
//
// The client is a pure normalization boundary: provider label strings are
// mapped onto the binary verdict and the score is clamped, never re-scaled.
type InferenceClient struct {
	endpoint       string
	httpClient     *http.Client
	positiveLabels map[string]struct{}
	logger         *zap.Logger

	mu     sync.RWMutex
	status core.ModelStatus
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// NewInferenceClient creates a new inference client. The model may still be
// loading server-side; readiness is probed in the background and tracked
// across calls.
func NewInferenceClient(
	endpoint string,
	timeout time.Duration,
	positiveLabels []string,
	logger *zap.Logger,
) *InferenceClient {
	labels := make(map[string]struct{}, len(positiveLabels))
	for _, l := range positiveLabels {
		labels[strings.ToLower(l)] = struct{}{}
	}

	c := &InferenceClient{
		endpoint:       strings.TrimRight(endpoint, "/"),
		httpClient:     &http.Client{Timeout: timeout},
		positiveLabels: labels,
		logger:         logger,
		status:         core.ModelLoading,
	}

	go c.probe()

	return c
}

// Classify sends the text to the inference server and normalizes the
// top-scoring label into the binary verdict.
func (c *InferenceClient) Classify(ctx context.Context, text string) (*core.ClassificationResult, error) {
	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.setStatus(core.ModelUnavailable)
		return nil, fmt.Errorf("%w: inference request failed: %v", core.ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.setStatus(core.ModelUnavailable)
		return nil, fmt.Errorf("%w: inference server returned status %d", core.ErrClassifierUnavailable, resp.StatusCode)
	}

	top, err := decodeTopLabel(resp.Body)
	if err != nil {
		c.setStatus(core.ModelUnavailable)
		return nil, fmt.Errorf("%w: %v", core.ErrClassifierUnavailable, err)
	}
	c.setStatus(core.ModelLoaded)

	verdict := core.BinarySafe
	if _, ok := c.positiveLabels[strings.ToLower(top.Label)]; ok {
		verdict = core.BinaryPhishing
	}

	score := top.Score
	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}

	c.logger.Debug("Classifier result",
		zap.String("label", top.Label),
		zap.String("verdict", string(verdict)),
		zap.Float64("score", score))

	return &core.ClassificationResult{Verdict: verdict, Score: score}, nil
}

// Status reports the last known readiness of the inference server
func (c *InferenceClient) Status() core.ModelStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *InferenceClient) setStatus(s core.ModelStatus) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

// probe checks server readiness once at startup so the health endpoint can
// report a meaningful state before the first classification.
func (c *InferenceClient) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/health", nil)
	if err != nil {
		c.setStatus(core.ModelUnavailable)
		return
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.setStatus(core.ModelUnavailable)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.setStatus(core.ModelLoaded)
	} else {
		c.setStatus(core.ModelUnavailable)
	}
}

// decodeTopLabel handles both the flat and the nested response shapes.
func decodeTopLabel(r io.Reader) (*labelScore, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read inference response: %v", err)
	}

	var nested [][]labelScore
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return &nested[0][0], nil
	}

	var flat []labelScore
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 {
		return &flat[0], nil
	}

	return nil, fmt.Errorf("unparseable inference response")
}
