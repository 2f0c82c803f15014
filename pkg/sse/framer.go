// Package sse extracts the data payloads of SSE-style records from a raw
// response byte stream. Records look like "data: <payload>\n\n" and the
// stream ends with the "data: [DONE]\n\n" sentinel or a plain close.
package sse

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

const (
	dataPrefix = "data: "
	doneToken  = "[DONE]"
	delimiter  = "\n\n"
)

// Framer splits an incrementally fed byte stream into complete record
// payloads. Bytes that do not yet form a complete record, or a complete
// UTF-8 sequence, stay buffered until the next Feed call, so the caller may
// re-chunk the input arbitrarily without changing the output.
type Framer struct {
	tail []byte // held-back bytes of a rune split across chunks
	text string // decoded text waiting for a record delimiter
	done bool
}

// Feed decodes one chunk and returns the payloads of every record it
// completes, in order. Malformed records are logged and dropped.
func (f *Framer) Feed(p []byte) []string {
	if f.done {
		return nil
	}
	b := p
	if len(f.tail) > 0 {
		b = append(f.tail, p...)
		f.tail = nil
	}

	// Hold back a trailing incomplete multi-byte sequence so a code point
	// split across chunks is never decoded in two halves.
	cut := len(b)
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				cut = i
			}
			break
		}
	}
	if cut < len(b) {
		f.tail = append([]byte(nil), b[cut:]...)
	}
	f.text += string(b[:cut])

	return f.split()
}

// Finish signals end of input. A trailing record that never received its
// delimiter is treated as complete; a close without the sentinel is a clean
// finish.
func (f *Framer) Finish() []string {
	if f.done {
		return nil
	}
	out := f.split()
	if f.text != "" {
		if payload, ok := f.payload(f.text); ok {
			out = append(out, payload)
		}
		f.text = ""
	}
	f.done = true
	f.tail = nil
	return out
}

// Done reports whether the terminal sentinel was seen or Finish was called.
// Once done, all further input is discarded.
func (f *Framer) Done() bool {
	return f.done
}

func (f *Framer) split() []string {
	var out []string
	for {
		seg, rest, ok := strings.Cut(f.text, delimiter)
		if !ok {
			return out
		}
		f.text = rest
		payload, emit := f.payload(seg)
		if f.done {
			f.text = ""
			f.tail = nil
			return out
		}
		if emit {
			out = append(out, payload)
		}
	}
}

// payload validates one complete segment. It reports whether the segment
// carries an emittable payload, and flips the framer into its terminal state
// on the sentinel.
func (f *Framer) payload(seg string) (string, bool) {
	rest, ok := strings.CutPrefix(seg, dataPrefix)
	if !ok {
		slog.Warn("sse_malformed_frame", "segment", snippet(seg))
		return "", false
	}
	payload := strings.TrimSpace(rest)
	if payload == doneToken {
		f.done = true
		return "", false
	}
	return payload, true
}

func snippet(s string) string {
	const max = 120
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
