package http1

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)

// Target is a parsed request URL. The zero value is not usable; use ParseTarget.
type Target struct {
	Scheme string
	Host   string
	Port   int
	// Path always starts with "/".
	Path  string
	Query string
}

// ParseTarget parses a URL given on the command line or in a Location header.
// A missing scheme means plain HTTP.
func ParseTarget(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		if i := strings.Index(raw, "://"); i > 0 && isSchemeName(raw[:i]) {
			return Target{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, raw[:i])
		}
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Hostname() == "" {
		return Target{}, fmt.Errorf("%w: no host in %q", ErrInvalidURL, raw)
	}

	t := Target{
		Scheme: u.Scheme,
		Host:   u.Hostname(),
		Port:   DefaultPort(u.Scheme),
		Path:   u.EscapedPath(),
		Query:  u.RawQuery,
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port < 1 || port > 65535 {
			return Target{}, fmt.Errorf("%w: bad port %q", ErrInvalidURL, p)
		}
		t.Port = port
	}
	if !strings.HasPrefix(t.Path, "/") {
		t.Path = "/" + t.Path
	}
	return t, nil
}

// DefaultPort returns the well-known port for the scheme.
func DefaultPort(scheme string) int {
	if scheme == SchemeHTTPS {
		return 443
	}
	return 80
}

func (t Target) Secure() bool {
	return t.Scheme == SchemeHTTPS
}

// Addr is the host:port pair to dial.
func (t Target) Addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// HostHeader is the value of the Host request header. The port is only
// included when it differs from the scheme default.
func (t Target) HostHeader() string {
	host := t.Host
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if t.Port != DefaultPort(t.Scheme) {
		host += ":" + strconv.Itoa(t.Port)
	}
	return host
}

// RequestURI is the request-target in origin-form.
func (t Target) RequestURI() string {
	if t.Query == "" {
		return t.Path
	}
	return t.Path + "?" + t.Query
}

// Origin is scheme://host[:port] without a trailing slash.
func (t Target) Origin() string {
	return t.Scheme + "://" + t.HostHeader()
}

// Dir is the path up to and including its last "/".
func (t Target) Dir() string {
	return t.Path[:strings.LastIndex(t.Path, "/")+1]
}

func (t Target) String() string {
	return t.Origin() + t.RequestURI()
}

func isSchemeName(s string) bool {
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return s != ""
}
