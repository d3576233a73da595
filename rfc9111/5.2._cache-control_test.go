package rfc9111

import (
	"testing"
	"time"
)

func TestMaxAge(t *testing.T) {
	cc := ParseCacheControl([]string{"max-age=60"})
	val, ok := cc.Get("max-age")
	if !ok {
		t.Fatal("Could not get directive")
	}
	if val != "60" {
		t.Fatalf("Value is %s", val)
	}
	if d, ok := cc.MaxAge(); !ok || d != time.Minute {
		t.Fatalf("MaxAge: %s, %v", d, ok)
	}
}

func TestReal(t *testing.T) {
	cc := ParseCacheControl([]string{"public, max-age=0, s-maxage=600"})
	if val, ok := cc.Get("public"); !ok || val != "" {
		t.Fatalf("val: '%s', ok: %v", val, ok)
	}
	if val, ok := cc.Get("max-age"); !ok || val != "0" {
		t.Fatalf("val: '%s', ok: %v", val, ok)
	}
	if val, ok := cc.Get("s-maxage"); !ok || val != "600" {
		t.Fatalf("val: '%s', ok: %v", val, ok)
	}
}

func TestCaseAndSpacing(t *testing.T) {
	cc := ParseCacheControl([]string{"No-Store,MAX-AGE = \"120\"", "private"})
	if !cc.NoStore() {
		t.Fatal("no-store not found")
	}
	if d, ok := cc.MaxAge(); !ok || d != 2*time.Minute {
		t.Fatalf("MaxAge: %s, %v", d, ok)
	}
	if !cc.HasDirective("Private") {
		t.Fatal("directive from second header missing")
	}
}

func TestQuotedList(t *testing.T) {
	cc := ParseCacheControl([]string{`no-cache="Set-Cookie, Authorization", max-age=5`})
	if val, _ := cc.Get("no-cache"); val != "Set-Cookie, Authorization" {
		t.Fatalf("no-cache: %q", val)
	}
	if !cc.NoCache() {
		t.Fatal("no-cache not found")
	}
	if d, ok := cc.MaxAge(); !ok || d != 5*time.Second {
		t.Fatalf("MaxAge: %s, %v", d, ok)
	}
}

func TestInvalidMaxAge(t *testing.T) {
	for _, header := range []string{"max-age", "max-age=", "max-age=abc", "max-age=-1"} {
		if _, ok := ParseCacheControl([]string{header}).MaxAge(); ok {
			t.Fatalf("MaxAge valid for %q", header)
		}
	}
}
