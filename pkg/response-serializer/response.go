package serializer

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

// Version is the first line of every record.
const Version = "GO2WEB-CACHE/1"

const (
	contentTypeHeaderName = "Content-Type"
	etagHeaderName        = "Etag"
	expiresHeaderName     = "Expires"
)

var (
	ErrUnsupportedVersion = errors.New("serializer: unsupported record version")
	ErrMalformedRecord    = errors.New("serializer: malformed record")
)

// StoredResponse is the part of a response kept in the durable cache.
type StoredResponse struct {
	Content     string
	ContentType string
	ETag        string
	// Expires is kept with one second precision.
	Expires time.Time
}

// StoredResponseToBytes writes the response as a small HTTP-message-like
// record: the version line, header fields, an empty line and the content.
// Content-Type and Etag values are quoted.
func StoredResponseToBytes(sRes StoredResponse) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString(Version + "\r\n")
	writeField(buf, contentTypeHeaderName, sRes.ContentType)
	writeField(buf, etagHeaderName, sRes.ETag)
	writeField(buf, expiresHeaderName, strconv.FormatInt(sRes.Expires.Unix(), 10))
	buf.WriteString("\r\n")
	buf.WriteString(sRes.Content)
	return buf.Bytes()
}

func BytesToStoredResponse(b []byte) (StoredResponse, error) {
	sRes := StoredResponse{}
	br := bufio.NewReader(bytes.NewReader(b))
	version, err := br.ReadString('\n')
	if err != nil {
		return sRes, fmt.Errorf("%w: no version line", ErrMalformedRecord)
	}
	if version = strings.TrimRight(version, "\r\n"); version != Version {
		return sRes, fmt.Errorf("%w: %q", ErrUnsupportedVersion, version)
	}
	header, err := textproto.NewReader(br).ReadMIMEHeader()
	if err != nil {
		return sRes, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	expires, err := strconv.ParseInt(header.Get(expiresHeaderName), 10, 64)
	if err != nil {
		return sRes, fmt.Errorf("%w: bad %s: %v", ErrMalformedRecord, expiresHeaderName, err)
	}
	content, err := io.ReadAll(br)
	if err != nil {
		return sRes, err
	}
	if sRes.ContentType, err = readField(header, contentTypeHeaderName); err != nil {
		return sRes, err
	}
	if sRes.ETag, err = readField(header, etagHeaderName); err != nil {
		return sRes, err
	}
	sRes.Content = string(content)
	sRes.Expires = time.Unix(expires, 0)
	return sRes, nil
}

// writeField writes value as a Go quoted string, so that surrounding space
// and line breaks survive the round trip.
func writeField(buf *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	buf.WriteString(name + ": " + strconv.Quote(value) + "\r\n")
}

func readField(header textproto.MIMEHeader, name string) (string, error) {
	raw := header.Get(name)
	if raw == "" {
		return "", nil
	}
	value, err := strconv.Unquote(raw)
	if err != nil {
		return "", fmt.Errorf("%w: bad %s %s", ErrMalformedRecord, name, raw)
	}
	return value, nil
}
