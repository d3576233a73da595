package http1

import (
	"bufio"
	"errors"
	"net"
	"reflect"
	"strings"
	"testing"
	"time"
)

func readString(t *testing.T, raw string) (*Head, string, error) {
	t.Helper()
	br := bufio.NewReader(strings.NewReader(raw))
	head, err := ReadHead(br)
	if err != nil {
		return nil, "", err
	}
	body, err := ReadBody(br, head.Framing)
	if err != nil {
		t.Fatalf("ReadBody: %v", err)
	}
	return head, string(body), nil
}

func TestReadHead(t *testing.T) {
	raw := "HTTP/1.1 200 OK\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"Set-Cookie: a=1\r\n" +
		"set-cookie: b=2\r\n" +
		"X-Folded: first\r\n" +
		"  second\r\n" +
		"not a header\r\n" +
		"Content-Length: 5\r\n" +
		"\r\n" +
		"hello"
	head, body, err := readString(t, raw)
	if err != nil {
		t.Fatal(err)
	}
	if head.StatusCode != 200 || head.Reason != "OK" || head.Proto != "HTTP/1.1" {
		t.Fatalf("status = %d %q %q", head.StatusCode, head.Reason, head.Proto)
	}
	if ct := head.Header.Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Fatalf("content-type = %q", ct)
	}
	if cookies := head.Header.Values("set-cookie"); !reflect.DeepEqual(cookies, []string{"a=1", "b=2"}) {
		t.Fatalf("set-cookie = %v", cookies)
	}
	if v := head.Header.Get("x-folded"); v != "first second" {
		t.Fatalf("x-folded = %q", v)
	}
	if _, ok := head.Header["Content-Type"]; ok {
		t.Fatal("header names must be stored lowercased")
	}
	if body != "hello" {
		t.Fatalf("body = %q", body)
	}
}

func TestReadHeadStatusLines(t *testing.T) {
	for _, line := range []string{"HTTP/1.0 404 Not Found", "HTTP/1.1 204", "HTTP/2 301 Moved"} {
		if _, err := ReadHead(bufio.NewReader(strings.NewReader(line + "\r\n\r\n"))); err != nil {
			t.Fatalf("ReadHead(%q): %v", line, err)
		}
	}
}

func TestReadHeadMalformed(t *testing.T) {
	for _, raw := range []string{
		"GARBAGE\r\n\r\n",
		"HTTP/1.1 OK\r\n\r\n",
		"HTTP/1.1 20 OK\r\n\r\n",
		"HTTP/1.1 2000 OK\r\n\r\n",
		"HTTP/ 200 OK\r\n\r\n",
		"ICY 200 OK\r\n\r\n",
	} {
		if _, err := ReadHead(bufio.NewReader(strings.NewReader(raw))); !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("ReadHead(%q) error = %v, want ErrMalformedResponse", raw, err)
		}
	}
}

func TestReadHeadEmpty(t *testing.T) {
	for _, raw := range []string{"", "\r\n"} {
		if _, err := ReadHead(bufio.NewReader(strings.NewReader(raw))); !errors.Is(err, ErrEmptyResponse) {
			t.Fatalf("ReadHead(%q) error = %v, want ErrEmptyResponse", raw, err)
		}
	}
}

func TestReadHeadLineTooLong(t *testing.T) {
	raw := "HTTP/1.1 200 OK\r\nX-Big: " + strings.Repeat("a", MaxLineBytes+1) + "\r\n\r\n"
	if _, err := ReadHead(bufio.NewReader(strings.NewReader(raw))); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestFramingPrecedence(t *testing.T) {
	tests := []struct {
		raw  string
		want Framing
	}{
		{"HTTP/1.1 200 OK\r\nTransfer-Encoding: gzip, chunked\r\nContent-Length: 10\r\n\r\n", Chunked()},
		{"HTTP/1.1 200 OK\r\nContent-Length: 10\r\n\r\n", Fixed(10)},
		{"HTTP/1.1 200 OK\r\nContent-Length: -1\r\n\r\n", UntilClose()},
		{"HTTP/1.1 200 OK\r\nContent-Length: ten\r\n\r\n", UntilClose()},
		{"HTTP/1.1 200 OK\r\n\r\n", UntilClose()},
		{"HTTP/1.1 204 No Content\r\nContent-Length: 10\r\n\r\n", Fixed(0)},
		{"HTTP/1.1 304 Not Modified\r\nTransfer-Encoding: chunked\r\n\r\n", Fixed(0)},
		{"HTTP/1.1 100 Continue\r\n\r\n", Fixed(0)},
	}
	for _, tt := range tests {
		head, err := ReadHead(bufio.NewReader(strings.NewReader(tt.raw)))
		if err != nil {
			t.Fatalf("ReadHead(%q): %v", tt.raw, err)
		}
		if head.Framing != tt.want {
			t.Fatalf("framing for %q = %s, want %s", tt.raw, head.Framing, tt.want)
		}
	}
}

func TestReadBodyChunked(t *testing.T) {
	raw := "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n" +
		"4\r\nWiki\r\n5;name=value\r\npedia\r\n0\r\nX-Trailer: yes\r\n\r\n"
	_, body, err := readString(t, raw)
	if err != nil {
		t.Fatal(err)
	}
	if body != "Wikipedia" {
		t.Fatalf("body = %q, want Wikipedia", body)
	}
}

func TestReadBodyChunkedPrematureEOF(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("4\r\nWiki\r\n5\r\npe"))
	body, err := ReadBody(br, Chunked())
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "Wikipe" {
		t.Fatalf("body = %q", body)
	}
}

func TestReadBodyChunkedBadSize(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("4\r\nWiki\r\nzz\r\nmore\r\n0\r\n\r\n"))
	body, err := ReadBody(br, Chunked())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("error = %v, want ErrMalformedResponse", err)
	}
	if string(body) != "Wiki" {
		t.Fatalf("partial body = %q", body)
	}
}

func TestReadBodyFixedPartial(t *testing.T) {
	body, err := ReadBody(bufio.NewReader(strings.NewReader("abc")), Fixed(10))
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "abc" {
		t.Fatalf("body = %q", body)
	}
}

func TestReadBodyUntilClose(t *testing.T) {
	_, body, err := readString(t, "HTTP/1.0 200 OK\r\n\r\nline one\nline two\n")
	if err != nil {
		t.Fatal(err)
	}
	if body != "line one\nline two\n" {
		t.Fatalf("body = %q", body)
	}
}

func TestReadBodyZeroLengthDoesNotBlock(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	done := make(chan []byte, 1)
	go func() {
		body, _ := ReadBody(bufio.NewReader(client), Fixed(0))
		done <- body
	}()
	select {
	case body := <-done:
		if len(body) != 0 {
			t.Fatalf("body = %q", body)
		}
	case <-time.After(time.Second):
		t.Fatal("ReadBody blocked on an empty fixed body")
	}
}
