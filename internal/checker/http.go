package checker

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	errs "github.com/guelfoweb/diga/internal/shared/errors"
)

// maxDrainBytes caps how much of a response body is read and discarded.
const maxDrainBytes = 64 << 10

// HTTPProber issues a single GET without following redirects and records
// status, Location and Server.
type HTTPProber struct {
	Timeout   time.Duration
	UserAgent string

	client *http.Client
}

// NewHTTPProber builds a prober with certificate verification disabled.
func NewHTTPProber(timeout time.Duration, userAgent string) *HTTPProber {
	return &HTTPProber{
		Timeout:   timeout,
		UserAgent: userAgent,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:             http.ProxyFromEnvironment,
				TLSClientConfig:   &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // metadata probe only
				DisableKeepAlives: true,
			},
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Probe performs the request. On any request level failure every field of
// the returned ProbeResult is nil and the error wraps ErrProbeFailure.
func (h *HTTPProber) Probe(ctx context.Context, url string) (ProbeResult, error) {
	client := h.client
	if client == nil {
		client = NewHTTPProber(h.Timeout, h.UserAgent).client
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ProbeResult{}, fmt.Errorf("%w: create request: %w", errs.ErrProbeFailure, err)
	}
	if h.UserAgent != "" {
		req.Header.Set("User-Agent", h.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return ProbeResult{}, fmt.Errorf("%w: %w", errs.ErrProbeFailure, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	result := ProbeResult{StatusCode: intPtr(resp.StatusCode)}
	if loc := resp.Header.Get("Location"); loc != "" {
		result.Location = stringPtr(loc)
	}
	if server := resp.Header.Get("Server"); server != "" {
		result.Server = stringPtr(server)
	}
	return result, nil
}
