package display

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/x/exp/golden"
)

func TestRendererTranscriptGolden(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, 40, true)

	r.Banner("dev")
	r.Prompt()
	buf.WriteString("What is Go?\n")
	r.Header("assistant", "small-model")
	r.Fragment("Go is a ")
	r.Fragment("programming language.")
	r.Done()
	r.Error(errors.New("connection reset"))

	golden.RequireEqual(t, buf.Bytes())
}

func TestHeaderWithoutModel(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, 0, true)
	r.Header("assistant", "")
	if got := buf.String(); got != "assistant:\n" {
		t.Errorf("header = %q, want %q", got, "assistant:\n")
	}
}

func TestMessageWrapped(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, 11, true)
	r.Message("hello world again")
	if got := buf.String(); got != "hello world\nagain\n" {
		t.Errorf("message = %q", got)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"zero width disables", "hello world", 0, "hello world"},
		{"word boundaries", "hello world foo", 5, "hello\nworld\nfoo"},
		{"keeps existing breaks", "a\nb", 10, "a\nb"},
		{"breaks long word", "abcdefghij", 4, "abcd\nefgh\nij"},
		{"wide runes", "世界世界", 4, "世界\n世界"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Wrap(tt.text, tt.width); got != tt.want {
				t.Errorf("Wrap(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"ansi color", "\x1b[31mred\x1b[0m", "red"},
		{"carriage return", "a\rb", "ab"},
		{"keeps newline and tab", "a\n\tb", "a\n\tb"},
		{"bell", "ding\x07", "ding"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
