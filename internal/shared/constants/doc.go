// Package constants centralizes defaults shared by the CLI and the checker.
//
// Nameserver, timeout and pool width defaults live here so cmd/ and
// internal/checker agree on them without importing each other.
package constants
