package classifier

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/deepcatch/deepcatch/internal/core"
)

// LexicalClassifier is a deterministic fallback classifier built on the
// shared suspicious-pattern lexicon. It needs no external model server and
// is always ready, which makes it the default provider for development and
// for deployments that run without the inference sidecar.
type LexicalClassifier struct {
	logger *zap.Logger
}

// NewLexicalClassifier creates a new lexical classifier
func NewLexicalClassifier(logger *zap.Logger) *LexicalClassifier {
	return &LexicalClassifier{logger: logger}
}

// Classify scores the text with additive heuristics. The score is clamped
// to [0, 0.99] so the verdict never claims model-grade certainty.
func (c *LexicalClassifier) Classify(ctx context.Context, text string) (*core.ClassificationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	score := 0.0

	hits := core.CountSuspiciousElements(text)
	lexScore := 0.15 * float64(hits)
	if lexScore > 0.6 {
		lexScore = 0.6
	}
	score += lexScore

	urls := core.ExtractURLs(text)
	for _, u := range urls {
		if hasSuspiciousHost(u) {
			score += 0.25
			break
		}
	}

	if hasShoutingToken(text) {
		score += 0.1
	}

	// Urgency language pointing at a link is the classic lure shape.
	if len(urls) > 0 && hits > 0 {
		score += 0.2
	}

	if score > 0.99 {
		score = 0.99
	}

	verdict := core.BinarySafe
	if score >= 0.5 {
		verdict = core.BinaryPhishing
	}

	c.logger.Debug("Lexical classifier result",
		zap.String("verdict", string(verdict)),
		zap.Float64("score", score),
		zap.Int("lexicon_hits", hits),
		zap.Int("urls", len(urls)))

	return &core.ClassificationResult{Verdict: verdict, Score: score}, nil
}

// Status always reports ready; the lexical classifier has no model to load
func (c *LexicalClassifier) Status() core.ModelStatus {
	return core.ModelLoaded
}

var suspiciousTLDs = []string{".tk", ".ml", ".ga", ".cf", ".gq", ".xyz", ".top", ".click", ".zip"}

func hasSuspiciousHost(rawURL string) bool {
	host := rawURL
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	host = strings.ToLower(host)

	if isIPv4Host(host) {
		return true
	}
	for _, tld := range suspiciousTLDs {
		if strings.HasSuffix(host, tld) {
			return true
		}
	}
	return false
}

func isIPv4Host(host string) bool {
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	parts := strings.Split(host, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if p == "" || len(p) > 3 {
			return false
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

// hasShoutingToken looks for an all-caps word of four or more letters.
func hasShoutingToken(text string) bool {
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'A' && r <= 'Z') && !(r >= 'a' && r <= 'z')
	}) {
		if len(tok) >= 4 && tok == strings.ToUpper(tok) {
			return true
		}
	}
	return false
}
