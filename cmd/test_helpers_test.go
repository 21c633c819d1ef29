package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/guelfoweb/diga/internal/checker"
	errs "github.com/guelfoweb/diga/internal/shared/errors"
	"go.uber.org/zap/zaptest"
)

// setupTestLogger swaps the package logger for one bound to t.
func setupTestLogger(t *testing.T) {
	t.Helper()
	original := logger
	logger = zaptest.NewLogger(t)
	t.Cleanup(func() { logger = original })
}

func disableColor(t *testing.T) {
	t.Helper()
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = original })
}

func writeDomainFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "domains.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write domain list: %v", err)
	}
	return path
}

// stubScanner resolves every domain except those listed in unresolved.
type stubScanner struct {
	unresolved map[string]bool
	delay      time.Duration

	mu      sync.Mutex
	scanned []string
}

func (s *stubScanner) Scan(ctx context.Context, domain string) (*checker.ScanResult, error) {
	s.mu.Lock()
	s.scanned = append(s.scanned, domain)
	s.mu.Unlock()

	time.Sleep(s.delay)

	if s.unresolved[domain] {
		return nil, fmt.Errorf("%w: NXDOMAIN", errs.ErrDNSFailure)
	}
	status := 200
	return &checker.ScanResult{
		Domain: domain,
		IPs:    []string{"192.0.2.1"},
		HTTPS:  checker.ProbeResult{StatusCode: &status},
	}, nil
}
