package checker

import (
	"context"
	"os"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

// Hits the public internet; run with DIGA_LIVE_TESTS=1.
func TestScanner_LiveExampleCom(t *testing.T) {
	if os.Getenv("DIGA_LIVE_TESTS") != "1" {
		t.Skip("set DIGA_LIVE_TESTS=1 to run live network tests")
	}

	scanner := New(Config{Nameserver: "8.8.8.8", Timeout: 2 * time.Second}, zaptest.NewLogger(t))
	result, err := scanner.Scan(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if len(result.IPs) == 0 {
		t.Fatal("expected at least one address")
	}
	if !result.HTTPS.OK() || *result.HTTPS.StatusCode != 200 {
		t.Fatalf("expected https 200, got %v", result.HTTPS.StatusCode)
	}
	if result.Cert.Valid == nil || !*result.Cert.Valid {
		t.Fatalf("expected a valid certificate, got %v", result.Cert.Valid)
	}
	if *result.Cert.NotAfter < time.Now().Format("2006-01-02") {
		t.Fatalf("expected a future expiry, got %s", *result.Cert.NotAfter)
	}
}
