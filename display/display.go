// Package display renders chat output to a terminal. It consumes fragments
// as they arrive and can also print a finished message with word wrapping.
package display

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

var (
	roleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("141")).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)
)

// Renderer writes styled chat output. With plain set, styling is skipped so
// piped output stays clean.
type Renderer struct {
	out   io.Writer
	width int
	plain bool
}

// NewRenderer creates a renderer writing to out. width bounds wrapped
// messages; zero disables wrapping.
func NewRenderer(out io.Writer, width int, plain bool) *Renderer {
	return &Renderer{out: out, width: width, plain: plain}
}

// Banner prints the startup banner for interactive mode.
func (r *Renderer) Banner(version string) {
	fmt.Fprintln(r.out, r.style(roleStyle, "chat_cli "+version))
	fmt.Fprintln(r.out, r.style(mutedStyle, "Type a message and press Enter. /quit to exit."))
	fmt.Fprintln(r.out)
}

// Prompt prints the input prompt without a trailing newline.
func (r *Renderer) Prompt() {
	fmt.Fprint(r.out, r.style(promptStyle, "> "))
}

// Header prints the speaker header before a reply.
func (r *Renderer) Header(role, model string) {
	label := role
	if model != "" {
		label += " (" + model + ")"
	}
	fmt.Fprintln(r.out, r.style(roleStyle, label+":"))
}

// Fragment writes one streamed fragment, sanitized, exactly as it arrives.
func (r *Renderer) Fragment(text string) {
	fmt.Fprint(r.out, Sanitize(text))
}

// Done terminates a streamed reply.
func (r *Renderer) Done() {
	fmt.Fprint(r.out, "\n\n")
}

// Message prints a finished message, wrapped to the renderer width.
func (r *Renderer) Message(content string) {
	fmt.Fprintln(r.out, Wrap(Sanitize(content), r.width))
}

// Error prints an error line.
func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.out, r.style(errorStyle, "Error: "+err.Error()))
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if r.plain {
		return text
	}
	return s.Render(text)
}

// Sanitize strips ANSI escape sequences and control characters from model
// output before it reaches the terminal. Newlines and tabs survive.
func Sanitize(text string) string {
	stripped := ansi.Strip(text)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, stripped)
}

// Wrap word-wraps text to width display cells, preserving existing line
// breaks. Words wider than the limit are broken mid-word.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}

	var lines []string
	var current string
	for _, word := range strings.Fields(line) {
		for runewidth.StringWidth(word) > width {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			head := trimToWidth(word, width)
			lines = append(lines, head)
			word = word[len(head):]
		}
		switch {
		case current == "":
			current = word
		case runewidth.StringWidth(current)+1+runewidth.StringWidth(word) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func trimToWidth(text string, width int) string {
	var sb strings.Builder
	currentWidth := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if currentWidth+w > width {
			break
		}
		sb.WriteRune(r)
		currentWidth += w
	}
	return sb.String()
}
