package core

import (
	"context"
)

// TextClassifier defines the interface for the local classification capability
type TextClassifier interface {
	// Classify determines whether the text is phishing and how strongly
	Classify(ctx context.Context, text string) (*ClassificationResult, error)

	// Status reports whether the underlying model is ready
	Status() ModelStatus
}

// ExplanationProvider defines the interface for the external reasoning service
type ExplanationProvider interface {
	// Explain produces a structured explanation of the text's risk.
	// Transport failures are returned as errors; parse failures are not,
	// they yield a result with absent fields.
	Explain(ctx context.Context, text string) (*ExplanationResult, error)
}

// CacheRepository defines the interface for caching analysis outcomes
type CacheRepository interface {
	// Get retrieves a cached entry for a text hash
	Get(ctx context.Context, textHash string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, textHash string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
