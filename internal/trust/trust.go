package trust

import (
	"strings"

	"go.uber.org/zap"
)

// Checker decides whether a sender address belongs to a trusted domain.
// Mail from trusted domains bypasses analysis at the SMTP gateway.
type Checker struct {
	domains map[string]struct{}
	logger  *zap.Logger
}

// NewChecker creates a new trusted-domain checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	m := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(d, "@")))
		if d != "" {
			m[d] = struct{}{}
		}
	}
	return &Checker{domains: m, logger: logger}
}

// IsTrusted reports whether the sender address is from a trusted domain.
// Subdomains of a trusted domain are trusted as well.
func (c *Checker) IsTrusted(sender string) bool {
	at := strings.LastIndex(sender, "@")
	if at < 0 || at == len(sender)-1 {
		return false
	}
	domain := strings.ToLower(strings.TrimSuffix(sender[at+1:], ">"))

	if _, ok := c.domains[domain]; ok {
		return true
	}
	for d := range c.domains {
		if strings.HasSuffix(domain, "."+d) {
			return true
		}
	}
	return false
}

// Size returns the number of configured trusted domains
func (c *Checker) Size() int {
	return len(c.domains)
}
