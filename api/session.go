package api

import (
	"encoding/json"
	"io"
	"log/slog"

	"chat_cli/pkg/sse"
)

type sessionState int

const (
	stateCreated sessionState = iota
	stateConsuming
	stateEnded
)

// Session owns one streaming response. It exposes the response as a
// single-pass fragment sequence and accumulates every fragment into the
// assistant message as it goes.
//
// A Session belongs exclusively to the caller that created it; it holds no
// locks and must not be shared between goroutines. Independent sessions are
// safe to run in parallel.
type Session struct {
	body    io.ReadCloser
	scanner *sse.Scanner
	state   sessionState
	message Message
	current string
	err     error
	closed  bool
}

func newSession(body io.ReadCloser) *Session {
	return &Session{
		body:    body,
		scanner: sse.NewScanner(body),
		message: Message{Role: RoleAssistant},
	}
}

// Next advances to the next fragment, reading from the network as needed.
// It returns false once the stream has ended; check Err afterwards for a
// transport failure. Payloads that fail to decode are logged and skipped.
func (s *Session) Next() bool {
	if s.state == stateEnded {
		return false
	}
	s.state = stateConsuming
	for {
		payload, err := s.scanner.Next()
		if err != nil {
			if err != io.EOF {
				s.err = err
			}
			s.end()
			return false
		}
		fragment, decErr := decodeChunk(payload)
		if decErr != nil {
			slog.Warn("stream_decode_skip", "error", decErr)
			continue
		}
		s.current = fragment
		s.message.Content += fragment
		return true
	}
}

// Content returns the fragment produced by the last successful Next call.
func (s *Session) Content() string {
	return s.current
}

// Err returns the transport error that ended the stream, or nil for a clean
// finish (terminal sentinel or end of input).
func (s *Session) Err() error {
	return s.err
}

// Collect drains any remaining fragments and returns the accumulated
// assistant message. It may be called before, during, or after external
// iteration; once the stream has ended it returns the same message without
// further I/O.
func (s *Session) Collect() (Message, error) {
	for s.Next() {
	}
	return s.message, s.err
}

// Close releases the underlying connection. Abandoning a session before the
// stream ends must go through Close; it is safe to call repeatedly.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

func (s *Session) end() {
	if s.state != stateEnded {
		s.state = stateEnded
		s.current = ""
		s.Close()
	}
}

// decodeChunk extracts the first choice's delta content from one record
// payload. An absent choice or content field is an empty fragment, not an
// error.
func decodeChunk(payload string) (string, error) {
	var chunk StreamChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return "", &DecodeError{Payload: payload, Err: err}
	}
	if len(chunk.Choices) == 0 {
		return "", nil
	}
	return chunk.Choices[0].Delta.Content, nil
}
