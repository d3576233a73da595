package rfc9111

// MayStore reports whether a response with the given status and header
// fields can be stored. Only complete 200 responses are kept.
//
// §  3.  Storing Responses in Caches
// §
// §     A cache MUST NOT store a response to a request unless:
// §
// §     *  the request method is understood by the cache;
// §
// §     *  the response status code is final (see Section 15 of [HTTP]);
// §
// §     [...]
// §
// §     *  the no-store cache directive is not present in the response (see
// §        Section 5.2.2.5);
func MayStore(statusCode int, h Header) bool {
	if statusCode != 200 {
		return false
	}
	return !ParseCacheControl(h.Values("Cache-Control")).NoStore()
}
