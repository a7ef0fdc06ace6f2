package core

import (
	"errors"
)

var (
	// ErrEmptyInput is returned when the request text is empty after trimming.
	ErrEmptyInput = errors.New("input text is empty")

	// ErrClassifierUnavailable is returned when the local classifier failed or
	// is not loaded. This is the only failure that aborts an analysis.
	ErrClassifierUnavailable = errors.New("classifier unavailable")

	// ErrExplanationUnavailable indicates the reasoning service failed.
	// Never surfaced to callers; it triggers the degraded path.
	ErrExplanationUnavailable = errors.New("explanation service unavailable")

	// ErrExplanationTimeout indicates the reasoning service exceeded its
	// per-request deadline.
	ErrExplanationTimeout = errors.New("explanation service timed out")
)
