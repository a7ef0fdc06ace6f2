package core

import (
	"regexp"
	"strings"
)

// smsLengthThreshold is the length below which short unstructured text is
// treated as an SMS-style message.
const smsLengthThreshold = 200

var (
	urlPattern        = regexp.MustCompile(`https?://[A-Za-z0-9._~:/?#@!$&'()*+,;=%-]+`)
	urlOnlyPattern    = regexp.MustCompile(`^https?://\S+$`)
	emailAddrPattern  = regexp.MustCompile(`[A-Za-z0-9._%+-]+@([A-Za-z0-9-]+(?:\.[A-Za-z0-9-]+)+)`)
	headerLinePattern = regexp.MustCompile(`(?im)^\s*(subject|from|to|reply-to|cc):`)
)

// suspiciousPatterns is the heuristic lexicon for the fallback
// suspicious-element count: urgency tactics, credential requests and
// prize/refund bait.
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\burgent(ly)?\b`),
	regexp.MustCompile(`(?i)\bimmediate(ly)?\b`),
	regexp.MustCompile(`(?i)\bact now\b`),
	regexp.MustCompile(`(?i)\baction required\b`),
	regexp.MustCompile(`(?i)\bverify\b.{0,20}\b(account|identity|information)\b`),
	regexp.MustCompile(`(?i)\bsuspend(ed)?\b`),
	regexp.MustCompile(`(?i)\bclick (here|the link|below)\b`),
	regexp.MustCompile(`(?i)\blimited time\b`),
	regexp.MustCompile(`(?i)\bcongratulations\b`),
	regexp.MustCompile(`(?i)\bwinner\b`),
	regexp.MustCompile(`(?i)\b(cash )?prize\b`),
	regexp.MustCompile(`(?i)\brefund\b`),
	regexp.MustCompile(`(?i)\bpassword\b`),
	regexp.MustCompile(`(?i)\b(ssn|social security)\b`),
	regexp.MustCompile(`(?i)\bcredit card\b`),
	regexp.MustCompile(`(?i)\bpin\b`),
	regexp.MustCompile(`(?i)\bexpires?\b`),
	regexp.MustCompile(`(?i)\bunauthorized\b`),
	regexp.MustCompile(`(?i)\b(account|device) (is )?locked\b`),
	regexp.MustCompile(`(?i)\bgift card\b`),
	regexp.MustCompile(`(?i)\bclaim\b`),
}

// ExtractMetadata derives metadata from raw text. Pure and deterministic;
// always returns a complete Metadata.
func ExtractMetadata(text string) Metadata {
	return Metadata{
		InputType:          DetectInputType(text),
		SuspiciousElements: CountSuspiciousElements(text),
		URLsFound:          ExtractURLs(text),
		SendersDomains:     ExtractSenderDomains(text),
	}
}

// DetectInputType classifies the shape of the input. The rules are an
// ordered cascade; the first match wins.
func DetectInputType(text string) InputType {
	trimmed := strings.TrimSpace(text)

	// A single URL token and nothing else.
	if urlOnlyPattern.MatchString(trimmed) {
		return InputURL
	}

	// Header-like lines, or multi-line text carrying an address.
	if headerLinePattern.MatchString(text) {
		return InputEmail
	}
	if strings.Contains(trimmed, "\n") && emailAddrPattern.MatchString(text) {
		return InputEmail
	}

	// Short, single-paragraph, no embedded link. Link-bearing short text is
	// deliberately left to the general bucket.
	if len(trimmed) < smsLengthThreshold &&
		!strings.Contains(trimmed, "\n\n") &&
		!urlPattern.MatchString(trimmed) {
		return InputSMS
	}

	return InputText
}

// ExtractURLs scans for scheme://host tokens, deduplicated in
// first-occurrence order. Trailing sentence punctuation is not considered
// part of the URL.
func ExtractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	urls := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		m = strings.TrimRight(m, ".,;:!?)'\"")
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		urls = append(urls, m)
	}
	return urls
}

// ExtractSenderDomains collects the domains of any email addresses in the
// text, deduplicated in first-occurrence order.
func ExtractSenderDomains(text string) []string {
	matches := emailAddrPattern.FindAllStringSubmatch(text, -1)
	domains := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		domain := strings.ToLower(m[1])
		if _, ok := seen[domain]; ok {
			continue
		}
		seen[domain] = struct{}{}
		domains = append(domains, domain)
	}
	return domains
}

// CountSuspiciousElements counts lexicon hits. Used only as a fallback when
// the reasoning service provides no count of its own.
func CountSuspiciousElements(text string) int {
	count := 0
	for _, p := range suspiciousPatterns {
		count += len(p.FindAllStringIndex(text, -1))
	}
	return count
}
