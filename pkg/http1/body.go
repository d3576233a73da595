package http1

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type FramingKind int

const (
	FramingUntilClose FramingKind = iota
	FramingFixed
	FramingChunked
)

// Framing says how the end of a response body is found.
type Framing struct {
	Kind FramingKind
	// Length is the body size for FramingFixed.
	Length int64
}

func Fixed(n int64) Framing { return Framing{Kind: FramingFixed, Length: n} }
func Chunked() Framing      { return Framing{Kind: FramingChunked} }
func UntilClose() Framing   { return Framing{Kind: FramingUntilClose} }

func (f Framing) String() string {
	switch f.Kind {
	case FramingFixed:
		return "fixed(" + strconv.FormatInt(f.Length, 10) + ")"
	case FramingChunked:
		return "chunked"
	default:
		return "until-close"
	}
}

// ReadBody reads a whole body framed as f. If the peer closes the stream
// early, what was received is returned without an error.
func ReadBody(br *bufio.Reader, f Framing) ([]byte, error) {
	switch f.Kind {
	case FramingFixed:
		return readFixed(br, f.Length)
	case FramingChunked:
		return readChunked(br)
	default:
		return readUntilClose(br)
	}
}

func readFixed(br *bufio.Reader, n int64) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	var body bytes.Buffer
	_, err := io.CopyN(&body, br, n)
	if err != nil && !isEOF(err) {
		return body.Bytes(), err
	}
	return body.Bytes(), nil
}

func readChunked(br *bufio.Reader) ([]byte, error) {
	var body bytes.Buffer
	for {
		line, err := readLine(br)
		if err != nil {
			return partial(&body, err)
		}
		size, err := parseChunkSize(line)
		if err != nil {
			return body.Bytes(), err
		}
		if size == 0 {
			discardTrailer(br)
			return body.Bytes(), nil
		}
		if _, err := io.CopyN(&body, br, size); err != nil {
			return partial(&body, err)
		}
		if _, err := readLine(br); err != nil {
			return partial(&body, err)
		}
	}
}

func readUntilClose(br *bufio.Reader) ([]byte, error) {
	body, err := io.ReadAll(br)
	if err != nil && !isEOF(err) {
		return body, err
	}
	return body, nil
}

func parseChunkSize(line string) (int64, error) {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	size, err := strconv.ParseUint(line, 16, 63)
	if err != nil {
		return 0, fmt.Errorf("%w: bad chunk size %q", ErrMalformedResponse, line)
	}
	return int64(size), nil
}

func discardTrailer(br *bufio.Reader) {
	for {
		line, err := readLine(br)
		if err != nil || line == "" {
			return
		}
	}
}

func partial(body *bytes.Buffer, err error) ([]byte, error) {
	if isEOF(err) {
		return body.Bytes(), nil
	}
	return body.Bytes(), err
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
