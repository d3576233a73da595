package rfc9111

import "strings"

// MayFreshen reports whether a 304 response with the given header fields
// can be used to update the stored response carrying storedETag.
//
// §  4.3.4.  Freshening Stored Responses upon Validation
// §
// §     When a cache receives a 304 (Not Modified) response, it needs to
// §     identify stored responses that are suitable for updating with the new
// §     information provided, and then do so.
// §
// §     [...]
// §
// §     *  If the new response contains one or more "strong validators" (see
// §        Section 8.8.1 of [HTTP]), then each of those strong validators
// §        identifies a selected representation for update.  [...]  If none of the initial set
// §        contains at least one of the same strong validators, then the
// §        cache MUST NOT use the new response to update any stored
// §        responses.
// §
// §     *  If the new response contains no strong validators but does contain
// §        one or more "weak validators", and those validators correspond to
// §        one of the initial set's stored responses, then the most recent of
// §        those matching stored responses is identified for update.
// §
// §     *  If the new response does not include any form of validator [...]
// §        and there is only one stored response in the initial set, and that
// §        stored response also lacks a validator, then that stored response
// §        is identified for update.
func MayFreshen(storedETag string, h Header) bool {
	received := strings.TrimSpace(h.Get("ETag"))
	if received == "" {
		// the request carried the stored entity tag, so the 304 refers to it
		return true
	}
	if isWeak(received) {
		return weakMatch(storedETag, received)
	}
	return strongMatch(storedETag, received)
}

// This section is from the HTTP specification (RFC9110), not the cache specification
//
// §  8.8.3.2.  Comparison
// §
// §     *  Strong comparison: two entity tags are equivalent if both are not
// §        weak and their opaque-tags match character-by-character.
// §
// §     *  Weak comparison: two entity tags are equivalent if their opaque-
// §        tags match character-by-character, regardless of either or both
// §        being tagged as "weak".
func strongMatch(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return !isWeak(a) && !isWeak(b) && a == b
}

func weakMatch(a, b string) bool {
	return opaqueTag(a) == opaqueTag(b)
}

func isWeak(etag string) bool {
	return strings.HasPrefix(etag, "W/")
}

func opaqueTag(etag string) string {
	return strings.TrimPrefix(strings.TrimSpace(etag), "W/")
}
