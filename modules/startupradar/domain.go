package startupradar

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// EnsureValidDomain checks that domain is a bare registrable domain such as
// "example.com" or "example.co.uk". Subdomains, IP literals, unknown TLDs
// and whitespace all fail with *InvalidDomainError. Checks run in order and
// stop at the first violation.
func EnsureValidDomain(domain string) error {
	if domain == "" {
		return &InvalidDomainError{Domain: domain, Reason: "domain is empty"}
	}
	if domain != strings.TrimSpace(domain) {
		return &InvalidDomainError{Domain: domain, Reason: "domain contains whitespace"}
	}

	u, err := url.Parse("http://" + domain)
	if err != nil {
		return &InvalidDomainError{Domain: domain, Reason: "domain is not parsable"}
	}
	// the public suffix list falls back to a wildcard rule for unlisted
	// TLDs, which would let made-up TLDs extract to themselves; only
	// ICANN-listed suffixes count
	suffix, icann := publicsuffix.PublicSuffix(u.Hostname())
	if !icann {
		return &InvalidDomainError{
			Domain: domain,
			Reason: fmt.Sprintf("unknown public suffix %q", suffix),
		}
	}
	registrable, err := publicsuffix.EffectiveTLDPlusOne(u.Hostname())
	if err != nil {
		return &InvalidDomainError{Domain: domain, Reason: "no registrable domain"}
	}
	if registrable != domain {
		return &InvalidDomainError{
			Domain: domain,
			Reason: fmt.Sprintf("registrable domain is %q", registrable),
		}
	}
	return nil
}

// IsValidDomain reports whether EnsureValidDomain would accept domain.
func IsValidDomain(domain string) bool {
	return EnsureValidDomain(domain) == nil
}
