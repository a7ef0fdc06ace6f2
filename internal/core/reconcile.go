package core

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Reconciler merges the classifier signal, the explanation signal and the
// extracted metadata into one consistent report.
type Reconciler struct {
	logger *zap.Logger
}

// NewReconciler creates a new reconciler
func NewReconciler(logger *zap.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

// ReconcileInput carries everything the merge policy needs. Classification
// is always present by the time reconciliation runs; Explanation is never
// nil but any of its fields may be absent.
type ReconcileInput struct {
	Text           string
	Classification *ClassificationResult
	Explanation    *ExplanationResult
	Metadata       Metadata
}

// Reconcile applies the merge policy. The explanation verdict is
// authoritative when present; the classifier only breaks the tie when it is
// absent. A degraded report is produced whenever no explanation text is
// available.
func (r *Reconciler) Reconcile(in ReconcileInput) *AnalysisReport {
	expl := in.Explanation
	if expl == nil {
		expl = &ExplanationResult{}
	}

	report := &AnalysisReport{
		Metadata: in.Metadata,
	}

	// Verdict
	if expl.Verdict != nil {
		report.Verdict = *expl.Verdict
	} else if in.Classification.Verdict == BinaryPhishing {
		report.Verdict = VerdictHighRisk
	} else {
		report.Verdict = VerdictSafe
	}

	// Confidence
	if expl.Confidence != nil {
		report.Confidence = clampConfidence(*expl.Confidence)
	} else {
		report.Confidence = confidenceFromScore(in.Classification.Score)
	}

	// Disagreement in direction is recorded, never fatal, and the
	// explanation verdict stands.
	if expl.Verdict != nil && r.disagree(in.Classification.Verdict, *expl.Verdict) {
		report.SignalsDisagree = true
		r.logger.Warn("Classifier and explanation verdicts disagree",
			zap.String("classifier_verdict", string(in.Classification.Verdict)),
			zap.Float64("classifier_score", in.Classification.Score),
			zap.String("explanation_verdict", string(*expl.Verdict)))
	}

	// Explanation text, or the classifier-only fallback.
	if expl.Explanation != nil {
		report.Explanation = *expl.Explanation
	} else {
		report.Explanation = fmt.Sprintf(
			"The local model classified this content as %s with a score of %.2f. A detailed explanation was not available.",
			in.Classification.Verdict, in.Classification.Score)
		report.Degraded = true
	}

	// Highlighted content is always rebuilt from the original text.
	if expl.HighlightedText != nil {
		spans := SanitizeHighlights(in.Text, *expl.HighlightedText)
		report.HighlightedContent = RenderHighlights(in.Text, spans)
	} else {
		report.HighlightedContent = in.Text
	}

	// Metadata: the extractor is authoritative for input type and URLs; the
	// explanation hint may improve the suspicious-element count and add
	// sender domains.
	if hint := expl.MetadataHint; hint != nil {
		if hint.SuspiciousElements != nil && *hint.SuspiciousElements > 0 {
			report.Metadata.SuspiciousElements = *hint.SuspiciousElements
		}
		report.Metadata.SendersDomains = mergeDomains(in.Metadata.SendersDomains, hint.SendersDomains)
	}

	return report
}

// disagree reports a directional conflict: the classifier flags phishing
// while the explanation says safe, or the reverse.
func (r *Reconciler) disagree(classifier BinaryVerdict, explanation Verdict) bool {
	if classifier == BinaryPhishing && explanation == VerdictSafe {
		return true
	}
	if classifier == BinarySafe && explanation == VerdictHighRisk {
		return true
	}
	return false
}

// confidenceFromScore scales the classifier score to a percentage, rounded
// to one decimal digit and then to the nearest integer.
func confidenceFromScore(score float64) int {
	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}
	pct := math.Round(score*1000) / 10
	return int(math.Round(pct))
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

func mergeDomains(base, extra []string) []string {
	if len(extra) == 0 {
		return base
	}
	seen := make(map[string]struct{}, len(base))
	merged := make([]string, 0, len(base)+len(extra))
	for _, d := range base {
		seen[d] = struct{}{}
		merged = append(merged, d)
	}
	for _, d := range extra {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		merged = append(merged, d)
	}
	return merged
}
