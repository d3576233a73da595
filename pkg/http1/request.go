package http1

import (
	"io"
	"strings"
)

const (
	DefaultUserAgent = "go2web/1.0"
	DefaultAccept    = "*/*"
)

// Request is a single GET request. Connections are never reused, so every
// request carries "Connection: close".
type Request struct {
	Target         Target
	Accept         string
	AcceptLanguage string
	Referer        string
	UserAgent      string
	// IfNoneMatch is the entity tag of a stored response being revalidated.
	IfNoneMatch string
}

// Header returns the request header fields in the order they are sent.
func (r *Request) Header() Header {
	var h Header
	h.Add("Host", r.Target.HostHeader())
	h.Add("Connection", "close")
	h.Add("Accept", orDefault(r.Accept, DefaultAccept))
	if r.AcceptLanguage != "" {
		h.Add("Accept-Language", r.AcceptLanguage)
	}
	if r.Referer != "" {
		h.Add("Referer", r.Referer)
	}
	h.Add("User-Agent", orDefault(r.UserAgent, DefaultUserAgent))
	if r.IfNoneMatch != "" {
		h.Add("If-None-Match", r.IfNoneMatch)
	}
	return h
}

func (r *Request) Bytes() []byte {
	var sb strings.Builder
	sb.WriteString("GET ")
	sb.WriteString(r.Target.RequestURI())
	sb.WriteString(" HTTP/1.1\r\n")
	header := r.Header()
	header.write(&sb)
	sb.WriteString("\r\n")
	return []byte(sb.String())
}

func (r *Request) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Bytes())
	return int64(n), err
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
