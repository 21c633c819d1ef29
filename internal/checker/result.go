package checker

import (
	"encoding/json"
	"fmt"
	"time"
)

// Stage names a step of the scan pipeline.
type Stage string

const (
	StageResolve     Stage = "resolve"
	StageProbeHTTP   Stage = "probe_http"
	StageProbeHTTPS  Stage = "probe_https"
	StageRewrite     Stage = "rewrite"
	StageCertificate Stage = "certificate"
)

// StageError tags a failure with the pipeline stage that produced it.
// Failures never reach the JSON output; they exist for logs and tests.
type StageError struct {
	Stage  Stage
	Domain string
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Domain, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ScanRequest is the immutable input of a single pipeline run.
type ScanRequest struct {
	Domain     string
	Nameserver string
	UserAgent  string
	Timeout    time.Duration
}

// ProbeResult holds what a single HTTP(S) request revealed. A failed probe
// leaves every field nil.
type ProbeResult struct {
	StatusCode *int
	Location   *string
	Server     *string
}

// OK reports whether the probe got any response at all.
func (p ProbeResult) OK() bool {
	return p.StatusCode != nil
}

// MarshalJSON renders the probe as [status, location, server].
func (p ProbeResult) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{p.StatusCode, p.Location, p.Server})
}

// UnmarshalJSON accepts both the three element form and the legacy two
// element form emitted after a redirect rewrite.
func (p *ProbeResult) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode probe result: %w", err)
	}
	if len(raw) < 2 || len(raw) > 3 {
		return fmt.Errorf("decode probe result: expected 2 or 3 elements, got %d", len(raw))
	}

	var out ProbeResult
	if err := json.Unmarshal(raw[0], &out.StatusCode); err != nil {
		return fmt.Errorf("decode probe status: %w", err)
	}
	if err := json.Unmarshal(raw[1], &out.Location); err != nil {
		return fmt.Errorf("decode probe location: %w", err)
	}
	if len(raw) == 3 {
		if err := json.Unmarshal(raw[2], &out.Server); err != nil {
			return fmt.Errorf("decode probe server: %w", err)
		}
	}
	*p = out
	return nil
}

// CertificateResult reports the leaf certificate expiry. Both fields are nil
// when the certificate could not be fetched or parsed.
type CertificateResult struct {
	Valid    *bool
	NotAfter *string
}

// MarshalJSON renders the certificate as [is_valid, expiry_date].
func (c CertificateResult) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{c.Valid, c.NotAfter})
}

func (c *CertificateResult) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode certificate result: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("decode certificate result: expected 2 elements, got %d", len(raw))
	}

	var out CertificateResult
	if err := json.Unmarshal(raw[0], &out.Valid); err != nil {
		return fmt.Errorf("decode certificate validity: %w", err)
	}
	if err := json.Unmarshal(raw[1], &out.NotAfter); err != nil {
		return fmt.Errorf("decode certificate expiry: %w", err)
	}
	*c = out
	return nil
}

// ScanResult is the per-domain record produced by the pipeline.
type ScanResult struct {
	Domain string            `json:"domain"`
	IPs    []string          `json:"ip"`
	HTTP   ProbeResult       `json:"http"`
	HTTPS  ProbeResult       `json:"https"`
	Cert   CertificateResult `json:"cert"`

	Failures []*StageError `json:"-"`
}

func (r *ScanResult) recordFailure(stage Stage, domain string, err error) *StageError {
	se := &StageError{Stage: stage, Domain: domain, Err: err}
	r.Failures = append(r.Failures, se)
	return se
}

// Outcome is the slot a Runner produces for each input domain.
type Outcome struct {
	Domain   string
	Result   *ScanResult
	Err      error
	Duration time.Duration
}

// MarshalJSON renders the slot as its ScanResult, or null when the domain
// did not resolve or was never scanned.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Result)
}

func intPtr(v int) *int          { return &v }
func boolPtr(v bool) *bool       { return &v }
func stringPtr(v string) *string { return &v }
