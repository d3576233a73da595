// Package render turns response bodies into terminal output.
package render

import (
	"mime"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Renderer formats bodies by media type. With Color set, ANSI escape codes
// are used for emphasis.
type Renderer struct {
	Color bool
}

// Body renders HTML as text and pretty prints JSON. Other bodies are
// returned unchanged.
func (r Renderer) Body(contentType, body string) string {
	switch mediaType(contentType, body) {
	case "text/html", "application/xhtml+xml":
		return r.HTML(body)
	case "application/json":
		return r.JSON(body)
	}
	return body
}

func (r Renderer) JSON(body string) string {
	if !gjson.Valid(body) {
		return body
	}
	out := pretty.Pretty([]byte(body))
	if r.Color {
		out = pretty.Color(out, nil)
	}
	return strings.TrimRight(string(out), "\n")
}

// mediaType normalizes the content type, falling back to sniffing the body
// when the header is missing.
func mediaType(contentType, body string) string {
	if contentType == "" {
		head := strings.ToLower(strings.TrimSpace(body))
		if len(head) > 512 {
			head = head[:512]
		}
		if strings.HasPrefix(head, "<!doctype html") || strings.Contains(head, "<html") {
			return "text/html"
		}
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	if strings.HasSuffix(mt, "+json") {
		return "application/json"
	}
	return mt
}
