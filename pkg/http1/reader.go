package http1

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	StatusOK          = 200
	StatusNoContent   = 204
	StatusNotModified = 304

	// MaxLineBytes bounds a single status, header or chunk-size line.
	MaxLineBytes = 64 << 10
)

var errLineTooLong = fmt.Errorf("%w: line exceeds %d bytes", ErrMalformedResponse, MaxLineBytes)

// Head is the status line and header section of a response, along with
// the framing of the body that follows it.
type Head struct {
	Proto      string
	StatusCode int
	Reason     string
	Header     ResponseHeader
	Framing    Framing
}

// ReadHead reads the status line and header fields from br. The reader is
// left positioned at the first byte of the body.
func ReadHead(br *bufio.Reader) (*Head, error) {
	line, err := readStatusLine(br)
	if err != nil {
		return nil, err
	}
	head, err := parseStatusLine(line)
	if err != nil {
		return nil, err
	}
	if head.Header, err = readHeader(br); err != nil {
		return nil, err
	}
	head.Framing = framingFor(head.StatusCode, head.Header)
	return head, nil
}

// readStatusLine skips blank lines some servers send ahead of the status line.
func readStatusLine(br *bufio.Reader) (string, error) {
	for {
		line, err := readLine(br)
		if errors.Is(err, io.EOF) {
			return "", ErrEmptyResponse
		}
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
	}
}

func parseStatusLine(line string) (*Head, error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 || !strings.HasPrefix(parts[0], "HTTP/") || len(parts[0]) == len("HTTP/") {
		return nil, fmt.Errorf("%w: bad status line %q", ErrMalformedResponse, line)
	}
	code := parts[1]
	if len(code) != 3 || !isDigits(code) {
		return nil, fmt.Errorf("%w: bad status code in %q", ErrMalformedResponse, line)
	}
	status, _ := strconv.Atoi(code)
	head := &Head{Proto: parts[0], StatusCode: status}
	if len(parts) == 3 {
		head.Reason = parts[2]
	}
	return head, nil
}

// readHeader reads fields up to the empty line. The stream ending early
// ends the section.
func readHeader(br *bufio.Reader) (ResponseHeader, error) {
	h := make(ResponseHeader)
	var last string
	for {
		line, err := readLine(br)
		if errors.Is(err, io.EOF) {
			return h, nil
		}
		if err != nil {
			return nil, err
		}
		if line == "" {
			return h, nil
		}
		// obs-fold
		if line[0] == ' ' || line[0] == '\t' {
			if values := h[last]; len(values) > 0 {
				values[len(values)-1] += " " + strings.TrimSpace(line)
			}
			continue
		}
		i := strings.IndexByte(line, ':')
		if i <= 0 {
			continue
		}
		last = strings.ToLower(strings.TrimSpace(line[:i]))
		h.add(last, strings.TrimSpace(line[i+1:]))
	}
}

func framingFor(status int, h ResponseHeader) Framing {
	if status < 200 || status == StatusNoContent || status == StatusNotModified {
		return Fixed(0)
	}
	for _, te := range h.Values("transfer-encoding") {
		if strings.Contains(strings.ToLower(te), "chunked") {
			return Chunked()
		}
	}
	if cl := h.Get("content-length"); cl != "" {
		if n, err := strconv.ParseInt(strings.TrimSpace(cl), 10, 64); err == nil && n >= 0 {
			return Fixed(n)
		}
	}
	return UntilClose()
}

// readLine reads one line without its terminator. A final line without a
// terminator is returned as is; io.EOF is only returned when nothing was read.
func readLine(br *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		b, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
		if b == '\n' {
			break
		}
		if b != '\r' {
			sb.WriteByte(b)
		}
		if sb.Len() > MaxLineBytes {
			return "", errLineTooLong
		}
	}
	return sb.String(), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
