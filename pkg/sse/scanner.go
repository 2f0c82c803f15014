package sse

import "io"

const readChunkSize = 4096

// Scanner pulls record payloads out of an io.Reader. Each Next call reads
// from the underlying stream only when no completed payload is buffered, so
// the caller suspends exactly at transport reads.
type Scanner struct {
	r       io.Reader
	framer  Framer
	queue   []string
	buf     []byte
	readErr error
	eof     bool
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: r, buf: make([]byte, readChunkSize)}
}

// Next returns the next record payload. io.EOF marks a clean finish, whether
// the terminal sentinel was seen or the stream simply ended; any other error
// is the transport's.
func (s *Scanner) Next() (string, error) {
	for {
		if len(s.queue) > 0 {
			payload := s.queue[0]
			s.queue = s.queue[1:]
			return payload, nil
		}
		if s.readErr != nil {
			return "", s.readErr
		}
		if s.eof || s.framer.Done() {
			return "", io.EOF
		}

		n, err := s.r.Read(s.buf)
		if n > 0 {
			s.queue = s.framer.Feed(s.buf[:n])
		}
		if err == io.EOF {
			s.eof = true
			s.queue = append(s.queue, s.framer.Finish()...)
		} else if err != nil {
			// Completed payloads drain before the error surfaces.
			s.readErr = err
		}
	}
}
