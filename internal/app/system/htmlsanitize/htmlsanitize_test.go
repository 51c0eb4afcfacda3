package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/merrittsmen/clubhub/internal/app/system/htmlsanitize"
)

func TestSanitize_Empty(t *testing.T) {
	if got := htmlsanitize.Sanitize(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestSanitize_PlainText(t *testing.T) {
	if got := htmlsanitize.Sanitize("Hello, World!"); got != "Hello, World!" {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestSanitize_SafeHTML(t *testing.T) {
	input := "<p><strong>Bold</strong> and <em>italic</em></p>"
	if got := htmlsanitize.Sanitize(input); got != input {
		t.Errorf("expected safe HTML preserved, got %q", got)
	}
}

func TestSanitize_RemovesScript(t *testing.T) {
	got := htmlsanitize.Sanitize("<p>Hello</p><script>alert('xss')</script>")
	if got != "<p>Hello</p>" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestSanitize_RemovesOnclick(t *testing.T) {
	input := `<button onclick="alert('xss')">Click</button>`
	if got := htmlsanitize.Sanitize(input); strings.Contains(got, "onclick") {
		t.Errorf("expected onclick attribute removed, got %q", got)
	}
}

func TestSanitize_RemovesJavascriptHref(t *testing.T) {
	input := `<a href="javascript:alert('xss')">Click</a>`
	if got := htmlsanitize.Sanitize(input); strings.Contains(got, "javascript:") {
		t.Errorf("expected javascript: href removed, got %q", got)
	}
}

func TestSanitize_AllowsSafeLinks(t *testing.T) {
	input := `<a href="https://example.com">Link</a>`
	got := htmlsanitize.Sanitize(input)
	if !strings.Contains(got, "https://example.com") {
		t.Errorf("expected safe link preserved, got %q", got)
	}
}

func TestSanitize_RemovesIframe(t *testing.T) {
	input := `<p>Content</p><iframe src="https://evil.com"></iframe>`
	got := htmlsanitize.Sanitize(input)
	if strings.Contains(got, "iframe") {
		t.Error("expected iframe to be removed")
	}
	if !strings.Contains(got, "Content") {
		t.Error("expected safe content to be preserved")
	}
}

func TestPlainText_StripsMarkup(t *testing.T) {
	if got := htmlsanitize.PlainText("<b>bold</b> move"); got != "bold move" {
		t.Errorf("expected markup stripped, got %q", got)
	}
}

func TestMultilineText_EscapesMarkup(t *testing.T) {
	got := string(htmlsanitize.MultilineText("<script>alert(1)</script>"))
	if strings.Contains(got, "<script>") {
		t.Errorf("expected markup escaped, got %q", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") {
		t.Errorf("expected escaped entities, got %q", got)
	}
}

func TestMultilineText_ConvertsNewlines(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"one\ntwo", "one<br>two"},
		{"one\r\ntwo", "one<br>two"},
		{"no breaks", "no breaks"},
		{"a\n\nb", "a<br><br>b"},
	}
	for _, tt := range tests {
		if got := string(htmlsanitize.MultilineText(tt.input)); got != tt.want {
			t.Errorf("MultilineText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMultilineText_AmpersandEscaped(t *testing.T) {
	got := string(htmlsanitize.MultilineText("A & B"))
	if got != "A &amp; B" {
		t.Errorf("expected ampersand escaped, got %q", got)
	}
}
