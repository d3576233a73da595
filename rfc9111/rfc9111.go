// Package rfc9111 implements the parts of RFC 9111 (HTTP Caching) that a
// private, single-user cache needs: reading Cache-Control, computing the
// freshness lifetime of a response, and validating stale responses.
//
// Functions are placed in files named after the RFC section they implement,
// and the relevant parts of the RFC are quoted next to the code (lines
// starting with "§").
package rfc9111

// Header gives read access to response header fields.
// Lookups are case-insensitive.
type Header interface {
	Get(name string) string
	Values(name string) []string
}
