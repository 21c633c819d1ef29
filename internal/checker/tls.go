package checker

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	consts "github.com/guelfoweb/diga/internal/shared/constants"
	errs "github.com/guelfoweb/diga/internal/shared/errors"
)

// TLSCertificateChecker fetches the leaf certificate a server presents and
// compares its expiry date with today's date. The chain is not verified.
type TLSCertificateChecker struct {
	Timeout time.Duration
	Port    string           // defaults to 443
	Now     func() time.Time // defaults to time.Now
}

// CheckCertificate dials domain, completes a handshake and reads the leaf
// certificate. Failures return an empty result and wrap ErrCertificateFailure.
func (c *TLSCertificateChecker) CheckCertificate(ctx context.Context, domain string) (CertificateResult, error) {
	port := c.Port
	if port == "" {
		port = consts.HTTPSPort
	}
	// A rewritten domain may carry the port of the redirect target
	if host, p, err := net.SplitHostPort(domain); err == nil {
		domain, port = host, p
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: c.Timeout},
		Config: &tls.Config{
			ServerName:         domain,
			InsecureSkipVerify: true, //nolint:gosec // only the expiry date is evaluated
		},
	}

	conn, err := dialer.DialContext(dialCtx, "tcp", net.JoinHostPort(domain, port))
	if err != nil {
		return CertificateResult{}, fmt.Errorf("%w: %w", errs.ErrCertificateFailure, err)
	}
	defer conn.Close()

	tlsConn, ok := conn.(*tls.Conn)
	if !ok {
		return CertificateResult{}, fmt.Errorf("%w: unexpected connection type %T", errs.ErrCertificateFailure, conn)
	}

	peers := tlsConn.ConnectionState().PeerCertificates
	if len(peers) == 0 {
		return CertificateResult{}, fmt.Errorf("%w: no peer certificate presented", errs.ErrCertificateFailure)
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	valid, expiry := ExpiryStatus(peers[0].NotAfter, now())
	return CertificateResult{Valid: boolPtr(valid), NotAfter: stringPtr(expiry)}, nil
}

// ExpiryStatus compares dates only. The expiry date is taken in UTC, as
// encoded in the certificate, and today is taken in now's location. A
// certificate expiring today is still valid.
func ExpiryStatus(notAfter, now time.Time) (bool, string) {
	expiry := notAfter.UTC().Format(consts.ISODate)
	today := now.Format(consts.ISODate)
	return expiry >= today, expiry
}
