package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeHighlightsRelocatesSpans(t *testing.T) {
	original := "Dear user, verify your account at http://evil.example now."
	marked := "Dear user, <red>verify your account</red> at <yellow>http://evil.example</yellow> now."

	spans := SanitizeHighlights(original, marked)
	require.Len(t, spans, 2)

	assert.Equal(t, "verify your account", original[spans[0].Start:spans[0].End])
	assert.Equal(t, SeverityHigh, spans[0].Severity)
	assert.Equal(t, "http://evil.example", original[spans[1].Start:spans[1].End])
	assert.Equal(t, SeverityMedium, spans[1].Severity)
}

func TestSanitizeHighlightsDropsInventedContent(t *testing.T) {
	original := "Your invoice is attached."
	marked := "Your invoice is attached. <red>Send your password immediately</red>"

	spans := SanitizeHighlights(original, marked)
	assert.Empty(t, spans)
}

func TestSanitizeHighlightsKeepsFoundDropsUnfound(t *testing.T) {
	original := "Click here to claim your prize today."
	marked := "<red>Click here</red> to <red>wire money</red> claim your <yellow>prize</yellow> today."

	spans := SanitizeHighlights(original, marked)
	require.Len(t, spans, 2)
	assert.Equal(t, "Click here", original[spans[0].Start:spans[0].End])
	assert.Equal(t, "prize", original[spans[1].Start:spans[1].End])
}

func TestSanitizeHighlightsRepeatedContentMovesForward(t *testing.T) {
	original := "pay now or pay now later"
	marked := "<red>pay now</red> or <red>pay now</red> later"

	spans := SanitizeHighlights(original, marked)
	require.Len(t, spans, 2)
	assert.Equal(t, 0, spans[0].Start)
	assert.Greater(t, spans[1].Start, spans[0].End)
}

func TestSanitizeHighlightsRepeatedPhraseSecondOccurrence(t *testing.T) {
	original := "pay now or pay now later"
	marked := "pay now or <red>pay now</red> later"

	spans := SanitizeHighlights(original, marked)
	require.Len(t, spans, 1)
	assert.Equal(t, 11, spans[0].Start)
	assert.Equal(t, 18, spans[0].End)
	assert.Equal(t, marked, RenderHighlights(original, spans))
}

func TestSanitizeHighlightsOriginalWithTagsYieldsNone(t *testing.T) {
	original := "literal <red>markup</red> in the input"
	marked := "literal <red>markup</red> in the input"

	assert.Nil(t, SanitizeHighlights(original, marked))
}

func TestRenderHighlightsRoundTrip(t *testing.T) {
	texts := []string{
		"Dear user, verify your account at http://evil.example now.",
		"plain text with no risky parts",
		"unicode: dépôt urgent, vérifiez votre compte",
	}
	markeds := []string{
		"Dear user, <red>verify your account</red> at <yellow>http://evil.example</yellow> now.",
		"plain text with no risky parts",
		"unicode: dépôt <red>urgent</red>, <yellow>vérifiez votre compte</yellow>",
	}

	for i, original := range texts {
		spans := SanitizeHighlights(original, markeds[i])
		rendered := RenderHighlights(original, spans)
		assert.Equal(t, original, StripHighlightTags(rendered))
	}
}

func TestRenderHighlightsSkipsInvalidSpans(t *testing.T) {
	original := "0123456789"
	spans := []HighlightedSpan{
		{Start: 2, End: 5, Severity: SeverityHigh},
		{Start: 4, End: 7, Severity: SeverityHigh},  // overlaps previous
		{Start: 8, End: 20, Severity: SeverityHigh}, // out of range
		{Start: 9, End: 9, Severity: SeverityHigh},  // empty
	}

	rendered := RenderHighlights(original, spans)
	assert.Equal(t, "01<red>234</red>56789", rendered)
	assert.Equal(t, original, StripHighlightTags(rendered))
}

func TestRenderHighlightsNoSpans(t *testing.T) {
	assert.Equal(t, "abc", RenderHighlights("abc", nil))
}

func TestSanitizeIdempotent(t *testing.T) {
	original := "verify your account now"
	marked := "<red>verify your account</red> now"

	spans := SanitizeHighlights(original, marked)
	rendered := RenderHighlights(original, spans)

	again := SanitizeHighlights(original, rendered)
	assert.Equal(t, spans, again)
}
