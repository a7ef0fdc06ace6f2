package core

import (
	"time"
)

// Verdict is the three-level risk classification shown to the end user.
type Verdict string

const (
	VerdictSafe       Verdict = "Safe"
	VerdictSuspicious Verdict = "Suspicious"
	VerdictHighRisk   Verdict = "High-risk"
)

// BinaryVerdict is the local classifier's two-way label, distinct from the
// user-facing Verdict.
type BinaryVerdict string

const (
	BinaryPhishing BinaryVerdict = "phishing"
	BinarySafe     BinaryVerdict = "safe"
)

// InputType describes the detected shape of the submitted content.
type InputType string

const (
	InputEmail InputType = "Email"
	InputSMS   InputType = "SMS"
	InputURL   InputType = "URL"
	InputText  InputType = "Text"
)

// Severity of a highlighted span.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// ModelStatus reports the readiness of the local classifier capability.
type ModelStatus string

const (
	ModelLoaded      ModelStatus = "loaded"
	ModelLoading     ModelStatus = "loading"
	ModelUnavailable ModelStatus = "unavailable"
)

// AnalysisRequest represents a single piece of user-supplied text to analyze.
type AnalysisRequest struct {
	Text string
}

// ClassificationResult is the normalized output of the local classifier.
// Score is always in [0,1].
type ClassificationResult struct {
	Verdict BinaryVerdict
	Score   float64
}

// ExplanationResult holds the parsed output of the external reasoning
// service. Nil pointer fields mean the field could not be obtained or
// parsed, which is distinct from an empty value.
type ExplanationResult struct {
	Verdict         *Verdict
	Confidence      *int
	Explanation     *string
	HighlightedText *string
	MetadataHint    *MetadataHint
}

// MetadataHint is the partial metadata the reasoning service may report.
type MetadataHint struct {
	SuspiciousElements *int
	SendersDomains     []string
}

// HighlightedSpan is a half-open byte range [Start, End) into the original
// request text. Spans produced by the sanitizer are ordered and
// non-overlapping.
type HighlightedSpan struct {
	Start    int
	End      int
	Severity Severity
}

// Metadata is always fully populated; fields may be zero but never absent.
type Metadata struct {
	InputType          InputType `json:"input_type"`
	SuspiciousElements int       `json:"suspicious_elements"`
	URLsFound          []string  `json:"urls_found"`
	SendersDomains     []string  `json:"senders_domains"`
}

// AnalysisReport is the terminal result of one analysis. It is never
// mutated after reconciliation.
type AnalysisReport struct {
	Verdict            Verdict  `json:"verdict"`
	Confidence         int      `json:"confidence"`
	Explanation        string   `json:"explanation"`
	HighlightedContent string   `json:"highlighted_content"`
	Metadata           Metadata `json:"metadata"`
	AnalysisTime       float64  `json:"analysis_time_seconds"`
	Degraded           bool     `json:"degraded"`
	ProcessingID       string   `json:"processing_id,omitempty"`

	// SignalsDisagree records a directional conflict between the classifier
	// and the explanation verdict. Kept for auditing, not serialized.
	SignalsDisagree bool      `json:"-"`
	AnalyzedAt      time.Time `json:"-"`
}

// HealthStatus is the health probe payload.
type HealthStatus struct {
	Status      string      `json:"status"`
	ModelStatus ModelStatus `json:"model_status"`
}

// CacheEntry is a cached analysis outcome keyed by the hash of the
// analyzed text. SuspiciousElements and SendersDomains hold the reconciled
// values, which may differ from the extractor's when the explanation
// supplied a metadata hint.
type CacheEntry struct {
	TextHash           string
	Verdict            Verdict
	Confidence         int
	Explanation        string
	HighlightedContent string
	SuspiciousElements int
	SendersDomains     []string
	Degraded           bool
	LastSeen           time.Time
	ExpiresAt          time.Time
}
