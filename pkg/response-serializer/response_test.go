package serializer

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestStoredResponseSerialization(t *testing.T) {
	sRes := StoredResponse{
		Content:     "<html>\r\n\r\nbody with blank lines\n</html>",
		ContentType: "text/html; charset=utf-8",
		ETag:        `W/"abc"`,
		Expires:     time.Unix(1700000000, 0),
	}
	b := StoredResponseToBytes(sRes)
	if !strings.HasPrefix(string(b), Version+"\r\n") {
		t.Fatalf("record does not start with version line: %q", b)
	}
	got, err := BytesToStoredResponse(b)
	if err != nil {
		t.Fatalf("Error: %v", err)
	}
	if got.Content != sRes.Content {
		t.Fatalf("Content: %q", got.Content)
	}
	if got.ContentType != sRes.ContentType || got.ETag != sRes.ETag {
		t.Fatalf("Headers: %q %q", got.ContentType, got.ETag)
	}
	if !got.Expires.Equal(sRes.Expires) {
		t.Fatalf("Expires: %v", got.Expires)
	}
}

func TestStoredResponseEmptyFields(t *testing.T) {
	b := StoredResponseToBytes(StoredResponse{Expires: time.Unix(5, 0)})
	got, err := BytesToStoredResponse(b)
	if err != nil {
		t.Fatalf("Error: %v", err)
	}
	if got.Content != "" || got.ContentType != "" || got.ETag != "" {
		t.Fatalf("unexpected values: %+v", got)
	}
}

func TestStoredResponseFieldsAreExact(t *testing.T) {
	sRes := StoredResponse{
		Content:     "x",
		ContentType: " text/html ",
		ETag:        "\"a\"\r\nExpires: 1",
		Expires:     time.Unix(1700000000, 0),
	}
	got, err := BytesToStoredResponse(StoredResponseToBytes(sRes))
	if err != nil {
		t.Fatalf("Error: %v", err)
	}
	if got.ContentType != sRes.ContentType || got.ETag != sRes.ETag {
		t.Fatalf("Headers: %q %q", got.ContentType, got.ETag)
	}
	if !got.Expires.Equal(sRes.Expires) {
		t.Fatalf("Expires overwritten: %v", got.Expires)
	}
}

func TestUnsupportedVersion(t *testing.T) {
	record := "GO2WEB-CACHE/2\r\nExpires: 5\r\n\r\ncontent"
	if _, err := BytesToStoredResponse([]byte(record)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("error = %v, want ErrUnsupportedVersion", err)
	}
}

func TestMalformedRecord(t *testing.T) {
	for _, record := range []string{
		"",
		Version + "\r\nContent-Type: text/plain\r\n\r\nno expiry",
		Version + "\r\nExpires: soon\r\n\r\ncontent",
		Version + "\r\nContent-Type: text/plain\r\nExpires: 5\r\n\r\nunquoted type",
	} {
		if _, err := BytesToStoredResponse([]byte(record)); !errors.Is(err, ErrMalformedRecord) {
			t.Fatalf("BytesToStoredResponse(%q) error = %v, want ErrMalformedRecord", record, err)
		}
	}
}
