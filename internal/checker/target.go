package checker

import (
	"fmt"
	"strings"

	errs "github.com/guelfoweb/diga/internal/shared/errors"
	"golang.org/x/net/idna"
)

// NormalizeDomain prepares a user supplied domain for scanning:
//   - surrounding whitespace and a trailing root dot are removed
//   - the name is lowercased
//   - internationalized names are converted to their ASCII (punycode) form
func NormalizeDomain(domain string) (string, error) {
	d := strings.TrimSpace(domain)
	d = strings.TrimSuffix(d, ".")
	if d == "" {
		return "", errs.ErrEmptyDomain
	}

	ascii, err := idna.Lookup.ToASCII(strings.ToLower(d))
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", errs.ErrInvalidDomain, domain, err)
	}
	return ascii, nil
}

// RedirectHost extracts the host portion of a redirect Location: everything
// after the first "://" up to the first "/". Query and fragment markers also
// end the host. Locations without a scheme separator, such as relative
// redirects, yield ErrInvalidRedirect.
func RedirectHost(location string) (string, error) {
	_, rest, found := strings.Cut(location, "://")
	if !found {
		return "", fmt.Errorf("%w: %q", errs.ErrInvalidRedirect, location)
	}

	host := rest
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return "", fmt.Errorf("%w: %q", errs.ErrInvalidRedirect, location)
	}
	return host, nil
}
