package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepcatch/deepcatch/internal/core"
)

const fullResponse = `VERDICT: High-risk
CONFIDENCE: 95%
EXPLANATION: The message uses urgency tactics and asks the recipient to
follow an unsolicited link to a non-corporate domain.
HIGHLIGHTED_CONTENT:
<red>URGENT</red>: Click here now! <yellow>http://suspicious-site.com</yellow>
METADATA:
Input Type: Text
Suspicious Elements: 3
URLs Found: http://suspicious-site.com
Senders/Domains: suspicious-site.com`

func TestParseFullResponse(t *testing.T) {
	result := Parse(fullResponse)

	require.NotNil(t, result.Verdict)
	assert.Equal(t, core.VerdictHighRisk, *result.Verdict)

	require.NotNil(t, result.Confidence)
	assert.Equal(t, 95, *result.Confidence)

	require.NotNil(t, result.Explanation)
	assert.Contains(t, *result.Explanation, "urgency tactics")
	assert.NotContains(t, *result.Explanation, "HIGHLIGHTED_CONTENT")

	require.NotNil(t, result.HighlightedText)
	assert.Contains(t, *result.HighlightedText, "<red>URGENT</red>")
	assert.NotContains(t, *result.HighlightedText, "METADATA")

	require.NotNil(t, result.MetadataHint)
	require.NotNil(t, result.MetadataHint.SuspiciousElements)
	assert.Equal(t, 3, *result.MetadataHint.SuspiciousElements)
	assert.Equal(t, []string{"suspicious-site.com"}, result.MetadataHint.SendersDomains)
}

func TestParseVerdictVariants(t *testing.T) {
	tests := []struct {
		raw  string
		want core.Verdict
	}{
		{`VERDICT: Safe`, core.VerdictSafe},
		{`VERDICT: "Safe"`, core.VerdictSafe},
		{`verdict: legitimate`, core.VerdictSafe},
		{`VERDICT: Suspicious`, core.VerdictSuspicious},
		{`VERDICT: HIGH-RISK`, core.VerdictHighRisk},
		{`VERDICT: high_risk`, core.VerdictHighRisk},
		{`VERDICT: phishing`, core.VerdictHighRisk},
	}

	for _, tt := range tests {
		result := Parse(tt.raw)
		require.NotNil(t, result.Verdict, "raw %q", tt.raw)
		assert.Equal(t, tt.want, *result.Verdict, "raw %q", tt.raw)
	}
}

func TestParseUnknownVerdictAbsent(t *testing.T) {
	result := Parse("VERDICT: banana\nEXPLANATION: whatever")
	assert.Nil(t, result.Verdict)
	assert.NotNil(t, result.Explanation)
}

func TestParseConfidenceClamped(t *testing.T) {
	result := Parse("CONFIDENCE: 150")
	require.NotNil(t, result.Confidence)
	assert.Equal(t, 100, *result.Confidence)

	result = Parse("CONFIDENCE: -20")
	require.NotNil(t, result.Confidence)
	assert.Equal(t, 0, *result.Confidence)
}

func TestParsePartialResponse(t *testing.T) {
	result := Parse("EXPLANATION: Looks fine to me.")

	assert.Nil(t, result.Verdict)
	assert.Nil(t, result.Confidence)
	require.NotNil(t, result.Explanation)
	assert.Equal(t, "Looks fine to me.", *result.Explanation)
	assert.Nil(t, result.HighlightedText)
	assert.Nil(t, result.MetadataHint)
}

func TestParseGarbage(t *testing.T) {
	for _, raw := range []string{"", "   ", "I'm sorry, I cannot help with that."} {
		result := Parse(raw)
		assert.Nil(t, result.Verdict)
		assert.Nil(t, result.Confidence)
		assert.Nil(t, result.Explanation)
		assert.Nil(t, result.HighlightedText)
		assert.Nil(t, result.MetadataHint)
	}
}

func TestParseMetadataNoneSenders(t *testing.T) {
	result := Parse("METADATA:\nSenders/Domains: none")
	assert.Nil(t, result.MetadataHint)
}

func TestParseMetadataSendersList(t *testing.T) {
	result := Parse("METADATA:\nSenders/Domains: evil.example, spoofed.example ,")
	require.NotNil(t, result.MetadataHint)
	assert.Equal(t, []string{"evil.example", "spoofed.example"}, result.MetadataHint.SendersDomains)
}

func TestBuildContainsContent(t *testing.T) {
	p := Build("check this text")
	assert.Contains(t, p, "check this text")
	assert.Contains(t, p, "VERDICT")
}
