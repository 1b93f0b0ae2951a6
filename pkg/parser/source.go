package parser

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// StdinPath makes FileSource read standard input.
const StdinPath = "-"

// maxLineSize bounds a single capture log line.
const maxLineSize = 1024 * 1024

var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	gzipMagic = []byte{0x1F, 0x8B}
)

// LineSource provides an iterator over raw capture log lines.
// Implementations must be safe for sequential access (not concurrent).
type LineSource interface {
	// Next returns the next line.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (*LogLine, error)

	// Close releases any resources held by the source.
	Close() error
}

// ReaderSource implements LineSource over an io.Reader.
type ReaderSource struct {
	name    string
	scanner *bufio.Scanner
	lineNum int
}

// NewReaderSource creates a LineSource reading lines from r.
// The name is reported as the Source of every line.
func NewReaderSource(r io.Reader, name string) *ReaderSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &ReaderSource{
		name:    name,
		scanner: scanner,
	}
}

// Next returns the next line. Returns io.EOF when the reader is exhausted.
func (s *ReaderSource) Next(ctx context.Context) (*LogLine, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.scanner.Scan() {
		s.lineNum++
		return &LogLine{
			Content: s.scanner.Text(),
			Source:  s.name,
			LineNum: s.lineNum,
		}, nil
	}

	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.name, err)
	}
	return nil, io.EOF
}

// Close is a no-op; the caller owns the reader.
func (s *ReaderSource) Close() error {
	return nil
}

// FileSource implements LineSource for a capture log on disk.
// zstd and gzip compressed files are decompressed transparently.
type FileSource struct {
	path string

	closers []func() error
	lines   *ReaderSource
}

// NewFileSource creates a LineSource that reads the given file.
// The file is opened on the first call to Next.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Next returns the next line of the file.
// Returns io.EOF when the file has been exhausted.
func (s *FileSource) Next(ctx context.Context) (*LogLine, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.lines == nil {
		if err := s.open(); err != nil {
			return nil, err
		}
	}
	return s.lines.Next(ctx)
}

// Close releases resources.
func (s *FileSource) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}

func (s *FileSource) open() error {
	var r io.Reader
	name := s.path

	if s.path == StdinPath {
		r = os.Stdin
		name = "<stdin>"
	} else {
		f, err := os.Open(s.path) // #nosec G304 -- user-provided paths are expected
		if err != nil {
			return fmt.Errorf("opening capture log %s: %w", s.path, err)
		}
		s.closers = append(s.closers, f.Close)
		r = f
	}

	r, err := s.decompress(r)
	if err != nil {
		return fmt.Errorf("opening capture log %s: %w", s.path, err)
	}

	s.lines = NewReaderSource(r, name)
	return nil
}

// decompress sniffs the stream's magic bytes and wraps it in a decoder if
// it is compressed.
func (s *FileSource) decompress(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}

	switch {
	case bytes.HasPrefix(magic, zstdMagic):
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		s.closers = append(s.closers, func() error {
			dec.Close()
			return nil
		})
		return dec, nil

	case bytes.HasPrefix(magic, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		s.closers = append(s.closers, zr.Close)
		return zr, nil

	default:
		return br, nil
	}
}
