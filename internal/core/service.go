package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/deepcatch/deepcatch/internal/utils"
)

// AnalysisService is the single entry point for running an analysis. It
// validates and truncates the input, runs the classifier and the reasoning
// service concurrently, and reconciles their signals into one report.
type AnalysisService struct {
	classifier          TextClassifier
	explainer           ExplanationProvider
	cache               CacheRepository
	reconciler          *Reconciler
	textProcessor       *utils.TextProcessor
	logger              *zap.Logger
	cacheEnabled        bool
	cacheTTL            time.Duration
	explanationTimeout  time.Duration
	maxTextSize         int
	serializeClassifier bool
	classifyMu          sync.Mutex
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	classifier TextClassifier,
	explainer ExplanationProvider,
	cache CacheRepository,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
	explanationTimeout time.Duration,
	maxTextSize int,
	serializeClassifier bool,
) *AnalysisService {
	return &AnalysisService{
		classifier:          classifier,
		explainer:           explainer,
		cache:               cache,
		reconciler:          NewReconciler(logger),
		textProcessor:       textProcessor,
		logger:              logger,
		cacheEnabled:        cacheEnabled,
		cacheTTL:            cacheTTL,
		explanationTimeout:  explanationTimeout,
		maxTextSize:         maxTextSize,
		serializeClassifier: serializeClassifier,
	}
}

// Analyze runs one full analysis. It fails only for empty input or when the
// local classifier is unavailable; a failing or slow reasoning service
// yields a degraded report instead of an error.
func (s *AnalysisService) Analyze(ctx context.Context, text string) (*AnalysisReport, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}

	start := time.Now()

	// Oversize input is truncated, never rejected.
	analyzed := s.textProcessor.ClampText(trimmed, s.maxTextSize)

	md := ExtractMetadata(analyzed)
	textHash := hashText(analyzed)

	if s.cacheEnabled {
		if entry, err := s.cache.Get(ctx, textHash); err == nil {
			s.logger.Debug("Cache hit for text", zap.String("text_hash", textHash))
			// Serve the reconciled metadata, not just the extractor's; the
			// explanation hint may have adjusted these on the first pass.
			md.SuspiciousElements = entry.SuspiciousElements
			md.SendersDomains = entry.SendersDomains
			return &AnalysisReport{
				Verdict:            entry.Verdict,
				Confidence:         entry.Confidence,
				Explanation:        entry.Explanation,
				HighlightedContent: entry.HighlightedContent,
				Metadata:           md,
				AnalysisTime:       roundSeconds(time.Since(start)),
				Degraded:           entry.Degraded,
				ProcessingID:       uuid.NewString(),
				AnalyzedAt:         time.Now(),
			}, nil
		}
	}

	var (
		classification *ClassificationResult
		explanation    *ExplanationResult
	)

	// The two signal sources are independent and run concurrently. A
	// classifier failure cancels the group and aborts the analysis; an
	// explanation failure is absorbed here and never escapes as an error.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.classify(gctx, analyzed)
		if err != nil {
			if errors.Is(err, ErrClassifierUnavailable) {
				return err
			}
			return fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
		}
		classification = res
		return nil
	})
	g.Go(func() error {
		ectx := gctx
		if s.explanationTimeout > 0 {
			var cancel context.CancelFunc
			ectx, cancel = context.WithTimeout(gctx, s.explanationTimeout)
			defer cancel()
		}
		res, err := s.explainer.Explain(ectx, analyzed)
		if err != nil {
			cond := ErrExplanationUnavailable
			if errors.Is(err, context.DeadlineExceeded) {
				cond = ErrExplanationTimeout
			}
			s.logger.Warn("Explanation unavailable, continuing degraded",
				zap.String("condition", cond.Error()),
				zap.Error(err))
			explanation = &ExplanationResult{}
			return nil
		}
		explanation = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if explanation == nil {
		explanation = &ExplanationResult{}
	}

	report := s.reconciler.Reconcile(ReconcileInput{
		Text:           analyzed,
		Classification: classification,
		Explanation:    explanation,
		Metadata:       md,
	})
	report.AnalysisTime = roundSeconds(time.Since(start))
	report.ProcessingID = uuid.NewString()
	report.AnalyzedAt = time.Now()

	if s.cacheEnabled {
		entry := &CacheEntry{
			TextHash:           textHash,
			Verdict:            report.Verdict,
			Confidence:         report.Confidence,
			Explanation:        report.Explanation,
			HighlightedContent: report.HighlightedContent,
			SuspiciousElements: report.Metadata.SuspiciousElements,
			SendersDomains:     report.Metadata.SendersDomains,
			Degraded:           report.Degraded,
			LastSeen:           report.AnalyzedAt,
			ExpiresAt:          time.Now().Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	s.logger.Info("Analysis completed",
		zap.String("verdict", string(report.Verdict)),
		zap.Int("confidence", report.Confidence),
		zap.Bool("degraded", report.Degraded),
		zap.String("input_type", string(report.Metadata.InputType)),
		zap.Float64("analysis_time_seconds", report.AnalysisTime))

	return report, nil
}

// classify invokes the shared classifier capability, serialized when the
// underlying model is not safe for concurrent calls. Metadata extraction
// and explanation calls for other requests are never blocked by this lock.
func (s *AnalysisService) classify(ctx context.Context, text string) (*ClassificationResult, error) {
	if s.serializeClassifier {
		s.classifyMu.Lock()
		defer s.classifyMu.Unlock()
	}
	return s.classifier.Classify(ctx, text)
}

// HealthCheck reports the readiness of the local classifier. The reasoning
// service is optional at runtime and deliberately not part of this probe.
func (s *AnalysisService) HealthCheck() HealthStatus {
	ms := s.classifier.Status()
	status := "ok"
	if ms != ModelLoaded {
		status = "degraded"
	}
	return HealthStatus{Status: status, ModelStatus: ms}
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
