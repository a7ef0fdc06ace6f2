package prompt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/deepcatch/deepcatch/internal/core"
)

// The reasoning service replies with a loosely structured text block. Each
// field is extracted independently so one malformed field never discards
// the rest; a field that cannot be found is left absent.
var (
	verdictPattern     = regexp.MustCompile(`(?i)VERDICT:\s*"?([A-Za-z]+(?:[-_][A-Za-z]+)?)"?`)
	confidencePattern  = regexp.MustCompile(`(?i)CONFIDENCE:\s*(-?\d+)\s*%?`)
	explanationPattern = regexp.MustCompile(`(?is)EXPLANATION:\s*(.+?)\s*(?:HIGHLIGHTED_CONTENT:|METADATA:|$)`)
	highlightedPattern = regexp.MustCompile(`(?is)HIGHLIGHTED_CONTENT:\s*\n?(.+?)\s*(?:METADATA:|$)`)
	metadataPattern    = regexp.MustCompile(`(?is)METADATA:\s*(.+)$`)
	suspElemPattern    = regexp.MustCompile(`(?i)Suspicious Elements:\s*(\d+)`)
	sendersPattern     = regexp.MustCompile(`(?i)Senders/Domains:\s*([^\n]+)`)
)

// Parse extracts an ExplanationResult from the raw completion text. It
// never fails: unparseable input yields a result with all fields absent.
func Parse(raw string) *core.ExplanationResult {
	result := &core.ExplanationResult{}
	if strings.TrimSpace(raw) == "" {
		return result
	}

	if m := verdictPattern.FindStringSubmatch(raw); m != nil {
		if v, ok := normalizeVerdict(m[1]); ok {
			result.Verdict = &v
		}
	}

	if m := confidencePattern.FindStringSubmatch(raw); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			if n < 0 {
				n = 0
			} else if n > 100 {
				n = 100
			}
			result.Confidence = &n
		}
	}

	if m := explanationPattern.FindStringSubmatch(raw); m != nil {
		text := strings.TrimSpace(m[1])
		if text != "" {
			result.Explanation = &text
		}
	}

	if m := highlightedPattern.FindStringSubmatch(raw); m != nil {
		text := strings.TrimSpace(m[1])
		if text != "" {
			result.HighlightedText = &text
		}
	}

	if m := metadataPattern.FindStringSubmatch(raw); m != nil {
		if hint := parseMetadataHint(m[1]); hint != nil {
			result.MetadataHint = hint
		}
	}

	return result
}

func parseMetadataHint(block string) *core.MetadataHint {
	hint := &core.MetadataHint{}
	found := false

	if m := suspElemPattern.FindStringSubmatch(block); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			hint.SuspiciousElements = &n
			found = true
		}
	}

	if m := sendersPattern.FindStringSubmatch(block); m != nil {
		value := strings.TrimSpace(m[1])
		if !strings.EqualFold(value, "none") {
			for _, s := range strings.Split(value, ",") {
				s = strings.TrimSpace(s)
				if s != "" {
					hint.SendersDomains = append(hint.SendersDomains, s)
				}
			}
			if len(hint.SendersDomains) > 0 {
				found = true
			}
		}
	}

	if !found {
		return nil
	}
	return hint
}

func normalizeVerdict(s string) (core.Verdict, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("_", "-", " ", "-").Replace(normalized)
	switch normalized {
	case "safe", "legitimate":
		return core.VerdictSafe, true
	case "suspicious":
		return core.VerdictSuspicious, true
	case "high-risk", "highrisk", "high", "phishing":
		return core.VerdictHighRisk, true
	default:
		return "", false
	}
}
