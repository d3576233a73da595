package rfc9111

import "strings"

// ValidatorFor returns the If-None-Match value for revalidating a stored
// response with the given entity tag. The boolean is false when the stored
// response has no entity tag and cannot be validated.
//
// §  4.3.1.  Sending a Validation Request
// §
// §     When generating a conditional request for validation, a cache either
// §     starts with a request it is attempting to satisfy or -- if it is
// §     initiating the request independently -- synthesizes a request using a
// §     stored response by copying the method, target URI, and request header
// §     fields identified by the Vary header field (Section 4.1).
// §
// §     It then updates that request with one or more precondition header
// §     fields.  These contain validator metadata sourced from a stored
// §     response(s) that has the same URI.
// §
// §     [...]
// §
// §     When generating a conditional request for validation, a cache:
// §
// §     *  MUST send the relevant entity tags (using If-Match, If-None-Match,
// §        or If-Range) if the entity tags were provided in the stored
// §        response(s) being validated.
func ValidatorFor(etag string) (string, bool) {
	etag = strings.TrimSpace(etag)
	return etag, etag != ""
}
