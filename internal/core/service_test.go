package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deepcatch/deepcatch/internal/utils"
)

type fakeClassifier struct {
	result *ClassificationResult
	err    error
	status ModelStatus
	calls  int
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) (*ClassificationResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeClassifier) Status() ModelStatus {
	if f.status == "" {
		return ModelLoaded
	}
	return f.status
}

type fakeExplainer struct {
	result *ExplanationResult
	err    error
	delay  time.Duration
	calls  int
}

func (f *fakeExplainer) Explain(ctx context.Context, text string) (*ExplanationResult, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeCache struct {
	entries map[string]*CacheEntry
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*CacheEntry)}
}

func (f *fakeCache) Get(ctx context.Context, textHash string) (*CacheEntry, error) {
	if e, ok := f.entries[textHash]; ok {
		return e, nil
	}
	return nil, errors.New("cache entry not found")
}

func (f *fakeCache) Set(ctx context.Context, entry *CacheEntry) error {
	f.sets++
	f.entries[entry.TextHash] = entry
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, textHash string) error {
	delete(f.entries, textHash)
	return nil
}

func (f *fakeCache) Cleanup(ctx context.Context) error { return nil }

func newTestService(cls *fakeClassifier, exp *fakeExplainer, cache CacheRepository, cacheEnabled bool) *AnalysisService {
	logger := zap.NewNop()
	return NewAnalysisService(
		cls,
		exp,
		cache,
		utils.NewTextProcessor(logger),
		logger,
		cacheEnabled,
		time.Hour,
		5*time.Second,
		8192,
		false,
	)
}

func TestAnalyzeEmptyInput(t *testing.T) {
	svc := newTestService(&fakeClassifier{}, &fakeExplainer{}, nil, false)

	for _, input := range []string{"", "   ", "\n\t "} {
		_, err := svc.Analyze(context.Background(), input)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}
}

func TestAnalyzeFullReport(t *testing.T) {
	text := "URGENT: Click here now! http://suspicious-site.com"
	cls := &fakeClassifier{result: &ClassificationResult{Verdict: BinaryPhishing, Score: 0.98}}
	exp := &fakeExplainer{result: &ExplanationResult{
		Verdict:     verdictPtr(VerdictHighRisk),
		Confidence:  intPtr(95),
		Explanation: strPtr("Urgency and an unsolicited link."),
		HighlightedText: strPtr(
			"<red>URGENT</red>: Click here now! <yellow>http://suspicious-site.com</yellow>"),
	}}
	svc := newTestService(cls, exp, nil, false)

	report, err := svc.Analyze(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, VerdictHighRisk, report.Verdict)
	assert.Equal(t, 95, report.Confidence)
	assert.False(t, report.Degraded)
	assert.Equal(t, InputText, report.Metadata.InputType)
	assert.Equal(t, []string{"http://suspicious-site.com"}, report.Metadata.URLsFound)
	assert.Equal(t, text, StripHighlightTags(report.HighlightedContent))
	assert.NotEmpty(t, report.ProcessingID)
	assert.GreaterOrEqual(t, report.AnalysisTime, 0.0)
}

func TestAnalyzeClassifierFailureIsFatal(t *testing.T) {
	cls := &fakeClassifier{err: errors.New("connection refused")}
	exp := &fakeExplainer{result: &ExplanationResult{Explanation: strPtr("irrelevant")}}
	svc := newTestService(cls, exp, nil, false)

	_, err := svc.Analyze(context.Background(), "some text to check")
	assert.ErrorIs(t, err, ErrClassifierUnavailable)
}

func TestAnalyzeExplanationFailureDegrades(t *testing.T) {
	cls := &fakeClassifier{result: &ClassificationResult{Verdict: BinaryPhishing, Score: 0.91}}
	exp := &fakeExplainer{err: errors.New("api quota exceeded")}
	svc := newTestService(cls, exp, nil, false)

	report, err := svc.Analyze(context.Background(), "verify your account here")
	require.NoError(t, err)

	assert.True(t, report.Degraded)
	assert.Equal(t, VerdictHighRisk, report.Verdict)
	assert.Equal(t, 91, report.Confidence)
	assert.Contains(t, report.Explanation, "A detailed explanation was not available")
}

func TestAnalyzeExplanationTimeoutDegrades(t *testing.T) {
	cls := &fakeClassifier{result: &ClassificationResult{Verdict: BinarySafe, Score: 0.05}}
	exp := &fakeExplainer{delay: time.Minute}
	logger := zap.NewNop()
	svc := NewAnalysisService(
		cls,
		exp,
		nil,
		utils.NewTextProcessor(logger),
		logger,
		false,
		0,
		20*time.Millisecond,
		8192,
		false,
	)

	report, err := svc.Analyze(context.Background(), "hello there")
	require.NoError(t, err)
	assert.True(t, report.Degraded)
	assert.Equal(t, VerdictSafe, report.Verdict)
}

func TestAnalyzeCacheRoundTrip(t *testing.T) {
	text := "congratulations you are a winner, claim your prize"
	cls := &fakeClassifier{result: &ClassificationResult{Verdict: BinaryPhishing, Score: 0.88}}
	exp := &fakeExplainer{result: &ExplanationResult{
		Verdict:     verdictPtr(VerdictHighRisk),
		Confidence:  intPtr(90),
		Explanation: strPtr("Prize bait."),
		MetadataHint: &MetadataHint{
			SuspiciousElements: intPtr(5),
			SendersDomains:     []string{"lottery-scam.example"},
		},
	}}
	cache := newFakeCache()
	svc := newTestService(cls, exp, cache, true)

	first, err := svc.Analyze(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1, cls.calls)
	assert.Equal(t, 5, first.Metadata.SuspiciousElements)

	second, err := svc.Analyze(context.Background(), text)
	require.NoError(t, err)

	// Second run is served from cache, no new model calls, and the
	// hint-adjusted metadata survives the round trip.
	assert.Equal(t, 1, cls.calls)
	assert.Equal(t, 1, exp.calls)
	assert.Equal(t, first.Verdict, second.Verdict)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, first.Explanation, second.Explanation)
	assert.Equal(t, first.Metadata, second.Metadata)
	assert.NotEqual(t, first.ProcessingID, second.ProcessingID)
}

func TestAnalyzeTruncatesOversizeInput(t *testing.T) {
	big := make([]byte, 0, 20000)
	for len(big) < 20000 {
		big = append(big, "claim your prize now "...)
	}
	cls := &fakeClassifier{result: &ClassificationResult{Verdict: BinaryPhishing, Score: 0.8}}
	exp := &fakeExplainer{result: &ExplanationResult{
		Verdict:     verdictPtr(VerdictHighRisk),
		Explanation: strPtr("Prize bait."),
	}}
	svc := newTestService(cls, exp, nil, false)

	report, err := svc.Analyze(context.Background(), string(big))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(report.HighlightedContent), 8192)
}

func TestHealthCheck(t *testing.T) {
	svc := newTestService(&fakeClassifier{status: ModelLoaded}, &fakeExplainer{}, nil, false)
	health := svc.HealthCheck()
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, ModelLoaded, health.ModelStatus)

	svc = newTestService(&fakeClassifier{status: ModelUnavailable}, &fakeExplainer{}, nil, false)
	health = svc.HealthCheck()
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, ModelUnavailable, health.ModelStatus)
}
