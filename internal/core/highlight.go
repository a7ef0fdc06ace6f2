package core

import (
	"regexp"
	"strings"
)

// Inline tags the reasoning service uses to mark risky content. These two
// pairs are the only markup that may appear in report output.
const (
	TagHighOpen    = "<red>"
	TagHighClose   = "</red>"
	TagMediumOpen  = "<yellow>"
	TagMediumClose = "</yellow>"
)

var (
	markerPattern = regexp.MustCompile(`(?s)<red>(.*?)</red>|<yellow>(.*?)</yellow>`)
	tagPattern    = regexp.MustCompile(`</?(?:red|yellow)>`)
)

// SanitizeHighlights maps the marked regions of the service-modified text
// onto the original text. The marked text is scanned left to right while a
// running offset tracks the position in the original: the unmarked segment
// before each marker is matched verbatim to anchor the expected offset, and
// the marker content must sit exactly there. When the service rewrote the
// unmarked text the content is instead searched for in the remaining
// original. A marker whose content cannot be located is dropped. This
// protects against the service paraphrasing, reordering or inventing
// content.
//
// The returned spans are ordered and non-overlapping. If the original text
// itself contains one of the marker tags, no spans are produced at all so
// that markup in report output always originates here.
func SanitizeHighlights(original, marked string) []HighlightedSpan {
	if tagPattern.MatchString(original) {
		return nil
	}

	var spans []HighlightedSpan
	pos := 0
	prev := 0
	for _, m := range markerPattern.FindAllStringSubmatchIndex(marked, -1) {
		gap := marked[prev:m[0]]
		prev = m[1]

		content := ""
		severity := SeverityHigh
		if m[2] >= 0 {
			content = marked[m[2]:m[3]]
		} else if m[4] >= 0 {
			content = marked[m[4]:m[5]]
			severity = SeverityMedium
		}
		if content == "" {
			continue
		}

		start := -1
		if strings.HasPrefix(original[pos:], gap) {
			at := pos + len(gap)
			if strings.HasPrefix(original[at:], content) {
				start = at
			}
		} else if idx := strings.Index(original[pos:], content); idx >= 0 {
			start = pos + idx
		}
		if start < 0 {
			continue
		}
		spans = append(spans, HighlightedSpan{
			Start:    start,
			End:      start + len(content),
			Severity: severity,
		})
		pos = start + len(content)
	}
	return spans
}

// RenderHighlights re-embeds sanitized spans into the original text. The
// result, stripped of the two tag pairs, is byte-identical to the original.
// Spans that are out of range or overlap a previous span are skipped.
func RenderHighlights(original string, spans []HighlightedSpan) string {
	if len(spans) == 0 {
		return original
	}

	var b strings.Builder
	pos := 0
	for _, s := range spans {
		if s.Start < pos || s.Start >= s.End || s.End > len(original) {
			continue
		}
		open, close := TagHighOpen, TagHighClose
		if s.Severity == SeverityMedium {
			open, close = TagMediumOpen, TagMediumClose
		}
		b.WriteString(original[pos:s.Start])
		b.WriteString(open)
		b.WriteString(original[s.Start:s.End])
		b.WriteString(close)
		pos = s.End
	}
	b.WriteString(original[pos:])
	return b.String()
}

// StripHighlightTags removes the two known tag pairs. Inverse of
// RenderHighlights for any text that did not already carry the tags.
func StripHighlightTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}
