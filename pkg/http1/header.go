package http1

import (
	"io"
	"strings"
)

type field struct {
	name  string
	value string
}

// Header is an ordered list of request header fields. Lookups ignore case,
// the wire keeps the names as added.
type Header struct {
	fields []field
}

func (h *Header) Add(name, value string) {
	h.fields = append(h.fields, field{name: name, value: value})
}

// Set replaces the first field with the given name in place and drops any others.
func (h *Header) Set(name, value string) {
	found := false
	kept := h.fields[:0]
	for _, f := range h.fields {
		if !strings.EqualFold(f.name, name) {
			kept = append(kept, f)
			continue
		}
		if !found {
			kept = append(kept, field{name: f.name, value: value})
			found = true
		}
	}
	h.fields = kept
	if !found {
		h.Add(name, value)
	}
}

func (h Header) Get(name string) string {
	for _, f := range h.fields {
		if strings.EqualFold(f.name, name) {
			return f.value
		}
	}
	return ""
}

// Names returns the field names in wire order.
func (h Header) Names() []string {
	names := make([]string, len(h.fields))
	for i, f := range h.fields {
		names[i] = f.name
	}
	return names
}

func (h Header) Len() int {
	return len(h.fields)
}

func (h Header) write(w io.StringWriter) {
	for _, f := range h.fields {
		w.WriteString(f.name)
		w.WriteString(": ")
		w.WriteString(f.value)
		w.WriteString("\r\n")
	}
}

// ResponseHeader holds response header fields keyed by lowercased name.
type ResponseHeader map[string][]string

func (h ResponseHeader) add(name, value string) {
	name = strings.ToLower(name)
	h[name] = append(h[name], value)
}

// Set replaces all values for the name.
func (h ResponseHeader) Set(name, value string) {
	h[strings.ToLower(name)] = []string{value}
}

// Get returns the first value for the name.
func (h ResponseHeader) Get(name string) string {
	if values := h[strings.ToLower(name)]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func (h ResponseHeader) Values(name string) []string {
	return h[strings.ToLower(name)]
}
