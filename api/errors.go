package api

import "fmt"

const maxBodySnippet = 200

// StatusError is returned when the endpoint answers with a non-2xx status.
// No session is created; Body holds a bounded snippet of the response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API request failed with status %d", e.Status)
	}
	return fmt.Sprintf("API request failed with status %d: %s", e.Status, e.Body)
}

// DecodeError marks a record payload that was not valid JSON. Sessions log
// and skip these; they never abort the stream.
type DecodeError struct {
	Payload string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid stream payload %q: %v", truncate(e.Payload, maxBodySnippet), e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
