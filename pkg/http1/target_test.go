package http1

import (
	"errors"
	"testing"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		raw        string
		want       Target
		hostHeader string
		uri        string
	}{
		{"example.com", Target{"http", "example.com", 80, "/", ""}, "example.com", "/"},
		{"https://example.com", Target{"https", "example.com", 443, "/", ""}, "example.com", "/"},
		{"http://example.com:8080/a/b?x=1&y=2", Target{"http", "example.com", 8080, "/a/b", "x=1&y=2"}, "example.com:8080", "/a/b?x=1&y=2"},
		{"https://example.com:443/path#frag", Target{"https", "example.com", 443, "/path", ""}, "example.com", "/path"},
		{"  example.com/search?q=go  ", Target{"http", "example.com", 80, "/search", "q=go"}, "example.com", "/search?q=go"},
		{"HTTPS://Example.com/", Target{"https", "Example.com", 443, "/", ""}, "Example.com", "/"},
	}
	for _, tt := range tests {
		got, err := ParseTarget(tt.raw)
		if err != nil {
			t.Fatalf("ParseTarget(%q): %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("ParseTarget(%q) = %+v, want %+v", tt.raw, got, tt.want)
		}
		if hh := got.HostHeader(); hh != tt.hostHeader {
			t.Fatalf("HostHeader(%q) = %q, want %q", tt.raw, hh, tt.hostHeader)
		}
		if uri := got.RequestURI(); uri != tt.uri {
			t.Fatalf("RequestURI(%q) = %q, want %q", tt.raw, uri, tt.uri)
		}
	}
}

func TestParseTargetInvalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"ftp://example.com/file",
		"http://",
		"http://example.com:0/",
		"http://example.com:99999/",
		"http://example.com:port/",
	} {
		if _, err := ParseTarget(raw); !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("ParseTarget(%q) error = %v, want ErrInvalidURL", raw, err)
		}
	}
}

func TestTargetString(t *testing.T) {
	target, err := ParseTarget("example.com:8080/a/b.html?q=1")
	if err != nil {
		t.Fatal(err)
	}
	if s := target.String(); s != "http://example.com:8080/a/b.html?q=1" {
		t.Fatalf("String() = %q", s)
	}
	if d := target.Dir(); d != "/a/" {
		t.Fatalf("Dir() = %q", d)
	}
	if a := target.Addr(); a != "example.com:8080" {
		t.Fatalf("Addr() = %q", a)
	}
}
