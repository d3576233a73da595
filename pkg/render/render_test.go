package render

import (
	"strings"
	"testing"
)

func TestHTML(t *testing.T) {
	page := `<!DOCTYPE html>
<html>
<head><title>The  Title</title><script>alert("x")</script></head>
<body>
  <h1>Hello</h1>
  <p>One &amp; two &lt;three&gt;</p>
  <ul>
    <li>a</li>
    <li>b</li>
  </ul>
  <style>p { color: red }</style>
  <noscript>enable js</noscript>
</body>
</html>`
	want := "The Title\n\nHello\n\nOne & two <three>\n\n  • a\n  • b"
	if got := (Renderer{}).HTML(page); got != want {
		t.Fatalf("HTML:\n%q\nwant:\n%q", got, want)
	}
}

func TestHTMLWhitespace(t *testing.T) {
	page := "<p>  lots   of\n   space </p><p>a <b>bold</b> and <i>it</i>.</p>line<br>break"
	want := "lots of space\n\na bold and it.\n\nline\nbreak"
	if got := (Renderer{}).HTML(page); got != want {
		t.Fatalf("HTML:\n%q\nwant:\n%q", got, want)
	}
}

func TestHTMLPre(t *testing.T) {
	page := "<p>code:</p><pre>line1\n  line2</pre>"
	want := "code:\n\nline1\n  line2"
	if got := (Renderer{}).HTML(page); got != want {
		t.Fatalf("HTML:\n%q\nwant:\n%q", got, want)
	}
}

func TestHTMLColor(t *testing.T) {
	got := (Renderer{Color: true}).HTML("<p>see <a href=\"/x\">this <b>link</b></a></p>")
	want := "see " + ansiBlue + "this " + ansiBold + "link" + ansiReset + ansiBlue + ansiReset
	if got != want {
		t.Fatalf("HTML:\n%q\nwant:\n%q", got, want)
	}
}

func TestBodyJSON(t *testing.T) {
	got := (Renderer{}).Body("application/json; charset=utf-8", `{"a":1,"b":[true]}`)
	want := "{\n  \"a\": 1,\n  \"b\": [true]\n}"
	if got != want {
		t.Fatalf("JSON:\n%s\nwant:\n%s", got, want)
	}
	if got := (Renderer{}).Body("application/problem+json", `{"title":"x"}`); !strings.Contains(got, "\n  \"title\": \"x\"\n") {
		t.Fatalf("problem+json not pretty printed: %q", got)
	}
	if got := (Renderer{}).Body("application/json", `{"broken":`); got != `{"broken":` {
		t.Fatalf("invalid JSON changed: %q", got)
	}
}

func TestBodyPassthroughAndSniffing(t *testing.T) {
	if got := (Renderer{}).Body("text/plain", "<b>not html</b>"); got != "<b>not html</b>" {
		t.Fatalf("text/plain changed: %q", got)
	}
	if got := (Renderer{}).Body("", "<!DOCTYPE html><p>sniffed</p>"); got != "sniffed" {
		t.Fatalf("sniffed HTML = %q", got)
	}
	if got := (Renderer{}).Body("TEXT/HTML; charset=utf-8", "<p>upper</p>"); got != "upper" {
		t.Fatalf("content type case: %q", got)
	}
}
