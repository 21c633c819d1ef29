// Package checker implements the DIGA scan pipeline.
//
// Architecture overview:
//
//   - DNSResolver, HTTPProber and TLSCertificateChecker are the network
//     probes. Each carries its own timeout and reports failures as errors
//     wrapping the sentinels in internal/shared/errors.
//   - Scanner chains them per domain (resolve, http, https, optional
//     redirect rewrite, optional certificate check) and folds every failure
//     except DNS into null fields of ScanResult.
//   - Runner fans a domain list out over a bounded pool and hands back one
//     Outcome per domain in completion order.
//
// Result types marshal to the positional JSON arrays consumers of the
// original tool expect ("http": [status, location, server], "cert":
// [valid, expiry]).
package checker
