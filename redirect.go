package go2web

import (
	"regexp"
	"strings"

	"github.com/always-cache/go2web/pkg/http1"
)

// DefaultMaxRedirects is the number of redirects followed before giving up.
const DefaultMaxRedirects = 5

var schemePrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*://`)

// ResolveLocation turns a Location header value into the URL of the next hop.
func ResolveLocation(base http1.Target, location string) string {
	location = strings.TrimSpace(location)
	switch {
	case schemePrefix.MatchString(location):
		return location
	case strings.HasPrefix(location, "//"):
		return base.Scheme + ":" + location
	case strings.HasPrefix(location, "/"):
		return base.Origin() + location
	default:
		return base.Origin() + base.Dir() + location
	}
}

// isRedirect reports 3xx statuses other than 304, which answers a
// conditional request and never carries a Location.
func isRedirect(status int) bool {
	return status >= 300 && status < 400 && status != http1.StatusNotModified
}
