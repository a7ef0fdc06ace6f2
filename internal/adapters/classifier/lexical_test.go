package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deepcatch/deepcatch/internal/core"
)

func TestLexicalClassifyPhishing(t *testing.T) {
	c := NewLexicalClassifier(zap.NewNop())

	result, err := c.Classify(context.Background(),
		"URGENT: your account is locked. Verify your account at http://secure-login.tk/verify or click here now!")
	require.NoError(t, err)

	assert.Equal(t, core.BinaryPhishing, result.Verdict)
	assert.GreaterOrEqual(t, result.Score, 0.5)
	assert.LessOrEqual(t, result.Score, 0.99)
}

func TestLexicalClassifySafe(t *testing.T) {
	c := NewLexicalClassifier(zap.NewNop())

	result, err := c.Classify(context.Background(),
		"Hi team, the retro moved to Thursday at 10. See you there.")
	require.NoError(t, err)

	assert.Equal(t, core.BinarySafe, result.Verdict)
	assert.Less(t, result.Score, 0.5)
}

func TestLexicalClassifyDeterministic(t *testing.T) {
	c := NewLexicalClassifier(zap.NewNop())
	text := "URGENT: Click here now! http://suspicious-site.com"

	first, err := c.Classify(context.Background(), text)
	require.NoError(t, err)
	second, err := c.Classify(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLexicalStatusAlwaysLoaded(t *testing.T) {
	c := NewLexicalClassifier(zap.NewNop())
	assert.Equal(t, core.ModelLoaded, c.Status())
}

func TestLexicalCancelledContext(t *testing.T) {
	c := NewLexicalClassifier(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Classify(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHasSuspiciousHost(t *testing.T) {
	assert.True(t, hasSuspiciousHost("http://login.bank-secure.tk/verify"))
	assert.True(t, hasSuspiciousHost("http://192.168.12.33/login"))
	assert.True(t, hasSuspiciousHost("https://promo.click"))
	assert.False(t, hasSuspiciousHost("https://www.example.com/path"))
	assert.False(t, hasSuspiciousHost("http://example.org"))
}
