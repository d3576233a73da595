package rfc9111

import "time"

// DefaultLifetime is used for responses without explicit freshness information.
const DefaultLifetime = time.Hour

// FreshnessLifetime returns how long a response stays fresh after it was
// received. The heuristic lifetime is used when the response carries no
// explicit expiration time.
func FreshnessLifetime(h Header, heuristic time.Duration) time.Duration {
	cc := ParseCacheControl(h.Values("Cache-Control"))
	// §  no-cache [...] MUST NOT be used to satisfy any other request without
	// §  forwarding it for validation
	//
	// This holds whatever lifetime the other directives give.
	if cc.NoCache() {
		return 0
	}
	// §  4.2.1.  Calculating Freshness Lifetime
	// §
	// §     A cache can calculate the freshness lifetime (denoted as
	// §     freshness_lifetime) of a response by evaluating the following rules
	// §     and using the first match:
	// §
	// §     *  If the cache is shared and the s-maxage response directive
	// §        (Section 5.2.2.10) is present, use its value, or
	//
	// This cache is private, s-maxage does not apply.
	//
	// §     *  If the max-age response directive (Section 5.2.2.1) is present,
	// §        use its value, or
	if val, ok := cc.MaxAge(); ok {
		return val
	}
	// §     *  If the Expires response header field (Section 5.3) is present, use
	// §        its value minus the value of the Date response header field (using
	// §        the time the message was received if it is not present, as per
	// §        Section 6.6.1 of [HTTP]), or
	if h.Get("Expires") != "" {
		return expiresLifetime(h)
	}
	// §     *  Otherwise, no explicit expiration time is present in the response.
	// §        A heuristic freshness lifetime might be applicable; see
	// §        Section 4.2.2.
	return heuristic
}

func expiresLifetime(h Header) time.Duration {
	expires, err := getExpires(h)
	if err != nil {
		return 0
	}
	date, err := HttpDate(h.Get("Date"))
	if err != nil {
		date = time.Now()
	}
	if lifetime := expires.Sub(date); lifetime > 0 {
		return lifetime
	}
	return 0
}
