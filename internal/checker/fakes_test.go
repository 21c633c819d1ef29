package checker

import (
	"context"
	"fmt"
	"sync"
	"time"

	errs "github.com/guelfoweb/diga/internal/shared/errors"
)

type fakeResolver struct {
	records map[string][]string

	mu    sync.Mutex
	calls []string
}

func (f *fakeResolver) Resolve(_ context.Context, domain string) ([]string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, domain)
	f.mu.Unlock()

	ips, ok := f.records[domain]
	if !ok {
		return nil, fmt.Errorf("%w: NXDOMAIN", errs.ErrDNSFailure)
	}
	return ips, nil
}

type fakeProber struct {
	responses map[string]ProbeResult

	mu    sync.Mutex
	calls []string
}

func (f *fakeProber) Probe(_ context.Context, url string) (ProbeResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	res, ok := f.responses[url]
	if !ok {
		return ProbeResult{}, fmt.Errorf("%w: connection refused", errs.ErrProbeFailure)
	}
	return res, nil
}

func (f *fakeProber) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeCerts struct {
	certs map[string]CertificateResult

	mu    sync.Mutex
	calls []string
}

func (f *fakeCerts) CheckCertificate(_ context.Context, domain string) (CertificateResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, domain)
	f.mu.Unlock()

	cert, ok := f.certs[domain]
	if !ok {
		return CertificateResult{}, fmt.Errorf("%w: handshake failure", errs.ErrCertificateFailure)
	}
	return cert, nil
}

func (f *fakeCerts) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func probe(status int, location, server string) ProbeResult {
	res := ProbeResult{StatusCode: intPtr(status)}
	if location != "" {
		res.Location = stringPtr(location)
	}
	if server != "" {
		res.Server = stringPtr(server)
	}
	return res
}

func validCert(date string) CertificateResult {
	return CertificateResult{Valid: boolPtr(true), NotAfter: stringPtr(date)}
}

// sleepyScanner stands in for the pipeline in runner tests.
type sleepyScanner struct {
	delay      time.Duration
	unresolved map[string]bool
	panics     map[string]bool
	onStart    func(domain string)

	mu      sync.Mutex
	active  int
	maxSeen int
	scanned []string
}

func (s *sleepyScanner) Scan(ctx context.Context, domain string) (*ScanResult, error) {
	s.mu.Lock()
	s.active++
	if s.active > s.maxSeen {
		s.maxSeen = s.active
	}
	s.scanned = append(s.scanned, domain)
	s.mu.Unlock()

	if s.onStart != nil {
		s.onStart(domain)
	}

	defer func() {
		s.mu.Lock()
		s.active--
		s.mu.Unlock()
	}()

	time.Sleep(s.delay)

	if s.panics[domain] {
		panic("boom")
	}
	if s.unresolved[domain] {
		return nil, &StageError{Stage: StageResolve, Domain: domain, Err: errs.ErrDNSFailure}
	}
	return &ScanResult{Domain: domain, IPs: []string{"192.0.2.1"}}, nil
}

func (s *sleepyScanner) MaxConcurrent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxSeen
}

func (s *sleepyScanner) Scanned() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.scanned...)
}
