package errors

import "errors"

// Scan errors
var (
	ErrDNSFailure         = errors.New("dns resolution failed")
	ErrProbeFailure       = errors.New("http probe failed")
	ErrCertificateFailure = errors.New("certificate check failed")
	ErrInvalidRedirect    = errors.New("redirect location has no host")
	ErrNotScanned         = errors.New("domain was not scanned")
)

// Input errors
var (
	ErrEmptyDomain   = errors.New("domain cannot be empty")
	ErrInvalidDomain = errors.New("invalid domain")
	ErrEmptyList     = errors.New("domain list is empty")
)
