package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReaderSource reads lines from a stream until it ends. Used for static
// files and standard input, neither of which is ever re-polled.
type ReaderSource struct {
	name   string
	r      *bufio.Reader
	closer io.Closer
	done   bool
}

// NewReaderSource wraps r. The caller keeps ownership of r.
func NewReaderSource(r io.Reader, name string) *ReaderSource {
	return &ReaderSource{
		name: name,
		r:    bufio.NewReaderSize(r, 64*1024),
	}
}

// OpenFile opens path for a single pass.
func OpenFile(path string) (*ReaderSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	s := NewReaderSource(f, path)
	s.closer = f
	return s, nil
}

// Next returns the next line. A final line without a trailing newline is
// still returned before io.EOF.
func (s *ReaderSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.done {
		return "", io.EOF
	}

	line, err := s.r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read %s: %w", s.name, err)
		}
		s.done = true
		if line == "" {
			return "", io.EOF
		}
	}
	return trimEOL(line), nil
}

// Close releases the underlying file, if this source opened one.
func (s *ReaderSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
