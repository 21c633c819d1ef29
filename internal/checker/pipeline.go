package checker

import (
	"context"
	"fmt"

	errs "github.com/guelfoweb/diga/internal/shared/errors"
	"go.uber.org/zap"
)

// Scanner is the per-domain pipeline:
//
//	resolve -> probe http -> probe https -> [redirect rewrite] -> [certificate]
//
// Stages run strictly in sequence; each one may change the input of the next.
type Scanner struct {
	Config   Config
	Resolver Resolver
	Prober   Prober
	Certs    CertificateChecker
	Logger   *zap.Logger
}

// Scan runs the pipeline for domain. When resolution fails it returns a nil
// result and the resolve StageError; every later failure is absorbed into
// the result as null fields and listed in ScanResult.Failures.
func (s *Scanner) Scan(ctx context.Context, domain string) (*ScanResult, error) {
	req := ScanRequest{
		Domain:     domain,
		Nameserver: s.Config.Nameserver,
		UserAgent:  s.Config.UserAgent,
		Timeout:    s.Config.Timeout,
	}
	log := s.logger().With(
		zap.String("domain", req.Domain),
		zap.String("nameserver", req.Nameserver),
		zap.Duration("timeout", req.Timeout),
	)

	result := &ScanResult{Domain: req.Domain}

	ips, err := s.Resolver.Resolve(ctx, req.Domain)
	if err != nil || len(ips) == 0 {
		if err == nil {
			err = fmt.Errorf("%w: empty answer", errs.ErrDNSFailure)
		}
		se := result.recordFailure(StageResolve, req.Domain, err)
		log.Debug("scan aborted", zap.String("stage", string(StageResolve)), zap.Error(err))
		return nil, se
	}
	result.IPs = ips

	result.HTTP = s.probe(ctx, log, result, StageProbeHTTP, "http://"+req.Domain, req.Domain)
	result.HTTPS = s.probe(ctx, log, result, StageProbeHTTPS, "https://"+req.Domain, req.Domain)

	// HTTPS failed outright but HTTP pointed somewhere: scan the redirect
	// target over HTTPS instead.
	if result.HTTP.OK() && result.HTTP.Location != nil && !result.HTTPS.OK() {
		host, err := RedirectHost(*result.HTTP.Location)
		if err != nil {
			result.recordFailure(StageRewrite, req.Domain, err)
			log.Debug("redirect rewrite skipped", zap.Error(err))
		} else {
			log.Debug("redirect rewrite", zap.String("effective_domain", host))
			result.Domain = host
			result.HTTPS = s.probe(ctx, log, result, StageProbeHTTPS, "https://"+host, host)
		}
	}

	if result.HTTPS.OK() {
		cert, err := s.Certs.CheckCertificate(ctx, result.Domain)
		if err != nil {
			result.recordFailure(StageCertificate, result.Domain, err)
			log.Debug("certificate check failed", zap.Error(err))
			cert = CertificateResult{}
		}
		result.Cert = cert
	}

	return result, nil
}

func (s *Scanner) probe(ctx context.Context, log *zap.Logger, result *ScanResult, stage Stage, url, domain string) ProbeResult {
	probe, err := s.Prober.Probe(ctx, url)
	if err != nil {
		result.recordFailure(stage, domain, err)
		log.Debug("probe failed", zap.String("stage", string(stage)), zap.String("url", url), zap.Error(err))
		return ProbeResult{}
	}
	return probe
}

func (s *Scanner) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
