package checker

import (
	"context"
	"time"

	consts "github.com/guelfoweb/diga/internal/shared/constants"
	"go.uber.org/zap"
)

// Resolver looks up the A records of a domain.
type Resolver interface {
	Resolve(ctx context.Context, domain string) ([]string, error)
}

// Prober performs a single HTTP(S) request against a URL.
type Prober interface {
	Probe(ctx context.Context, url string) (ProbeResult, error)
}

// CertificateChecker reports the expiry of the certificate served on 443.
type CertificateChecker interface {
	CheckCertificate(ctx context.Context, domain string) (CertificateResult, error)
}

// DomainScanner runs the whole pipeline for one domain. A nil result means
// the domain did not resolve.
type DomainScanner interface {
	Scan(ctx context.Context, domain string) (*ScanResult, error)
}

// Config holds the per-run settings. It is copied into every component at
// construction and never modified afterwards.
type Config struct {
	Nameserver string
	UserAgent  string
	Timeout    time.Duration
}

// WithDefaults fills unset fields with the package defaults.
func (c Config) WithDefaults() Config {
	if c.Nameserver == "" {
		c.Nameserver = consts.DefaultNameserver
	}
	if c.Timeout <= 0 {
		c.Timeout = consts.DefaultTimeout
	}
	return c
}

// New wires the network backed resolver, prober and certificate checker
// into a Scanner.
func New(cfg Config, logger *zap.Logger) *Scanner {
	cfg = cfg.WithDefaults()
	return &Scanner{
		Config:   cfg,
		Resolver: &DNSResolver{Nameserver: cfg.Nameserver, Timeout: cfg.Timeout},
		Prober:   NewHTTPProber(cfg.Timeout, cfg.UserAgent),
		Certs:    &TLSCertificateChecker{Timeout: cfg.Timeout},
		Logger:   logger,
	}
}
