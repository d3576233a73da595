package render

import (
	"strings"

	"golang.org/x/net/html"
)

const (
	ansiReset     = "\033[0m"
	ansiBold      = "\033[1m"
	ansiItalic    = "\033[3m"
	ansiUnderline = "\033[4m"
	ansiBlue      = "\033[34m"
	ansiCyan      = "\033[36m"
)

var skippedTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"svg": true, "iframe": true, "head": true,
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"body": true, "dd": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "footer": true,
	"form": true, "header": true, "main": true, "nav": true, "ol": true,
	"section": true, "table": true, "tr": true, "ul": true,
}

// HTML renders a document as plain text. Scripts and styles are dropped,
// entities are decoded and whitespace is collapsed outside of <pre>.
func (r Renderer) HTML(body string) string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return body
	}
	w := &textWriter{color: r.Color}
	if title := findTitle(doc); title != "" {
		w.push(ansiBold)
		w.text(title)
		w.pop()
		w.breakLine(2)
	}
	w.node(doc)
	return strings.TrimSpace(w.sb.String())
}

type textWriter struct {
	sb    strings.Builder
	color bool
	// styles currently applied, innermost last
	styles []string
	// number of newlines at the end of the output, at most 2
	newlines int
	// a space is due before the next word
	space bool
	pre   int
}

func (w *textWriter) node(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
	case html.ElementNode:
		w.element(n)
	default:
		w.children(n)
	}
}

func (w *textWriter) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.node(c)
	}
}

func (w *textWriter) element(n *html.Node) {
	tag := n.Data
	switch {
	case skippedTags[tag]:
	case tag == "br":
		w.breakLine(1)
	case tag == "hr":
		w.breakLine(1)
		w.raw(strings.Repeat("─", 40))
		w.breakLine(1)
	case tag == "h1" || tag == "h2" || tag == "h3":
		w.breakLine(2)
		w.styled(n, ansiBold, ansiUnderline)
		w.breakLine(2)
	case tag == "h4" || tag == "h5" || tag == "h6":
		w.breakLine(2)
		w.styled(n, ansiBold)
		w.breakLine(1)
	case tag == "p":
		w.breakLine(2)
		w.children(n)
		w.breakLine(2)
	case tag == "li":
		w.breakLine(1)
		w.raw("  • ")
		w.children(n)
		w.breakLine(1)
	case tag == "b" || tag == "strong":
		w.styled(n, ansiBold)
	case tag == "i" || tag == "em":
		w.styled(n, ansiItalic)
	case tag == "a":
		w.styled(n, ansiBlue)
	case tag == "code" && w.pre == 0:
		w.styled(n, ansiCyan)
	case tag == "pre":
		w.breakLine(1)
		w.pre++
		w.styled(n, ansiCyan)
		w.pre--
		w.breakLine(1)
	case tag == "td" || tag == "th":
		w.children(n)
		w.space = true
	case blockTags[tag]:
		w.breakLine(1)
		w.children(n)
		w.breakLine(1)
	default:
		w.children(n)
	}
}

func (w *textWriter) styled(n *html.Node, codes ...string) {
	for _, code := range codes {
		w.push(code)
	}
	w.children(n)
	for range codes {
		w.pop()
	}
}

func (w *textWriter) text(s string) {
	if w.pre > 0 {
		w.raw(s)
		w.newlines = trailingNewlines(s)
		return
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			w.space = true
		}
		return
	}
	if isSpace(s[0]) {
		w.space = true
	}
	if w.space && w.newlines == 0 && w.sb.Len() > 0 {
		w.sb.WriteByte(' ')
	}
	w.raw(strings.Join(fields, " "))
	w.space = isSpace(s[len(s)-1])
}

func (w *textWriter) raw(s string) {
	if s == "" {
		return
	}
	w.sb.WriteString(s)
	w.newlines = 0
	w.space = false
}

// breakLine ends the current line and, for n == 2, leaves an empty line.
// Nothing is written at the start of the output.
func (w *textWriter) breakLine(n int) {
	if w.sb.Len() == 0 {
		return
	}
	for w.newlines < n {
		w.sb.WriteByte('\n')
		w.newlines++
	}
	w.space = false
}

// push starts a style. A pending space is written first so that it stays
// outside the styled text.
func (w *textWriter) push(code string) {
	if w.space && w.newlines == 0 && w.sb.Len() > 0 {
		w.sb.WriteByte(' ')
		w.space = false
	}
	w.styles = append(w.styles, code)
	if w.color {
		w.sb.WriteString(code)
	}
}

// pop ends the innermost style and restores the outer ones.
func (w *textWriter) pop() {
	if len(w.styles) == 0 {
		return
	}
	w.styles = w.styles[:len(w.styles)-1]
	if w.color {
		w.sb.WriteString(ansiReset)
		for _, code := range w.styles {
			w.sb.WriteString(code)
		}
	}
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
		return strings.Join(strings.Fields(sb.String()), " ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}

func trailingNewlines(s string) int {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\n' && n < 2; i-- {
		n++
	}
	return n
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
