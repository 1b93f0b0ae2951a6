package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ccollicutt/sniflog/pkg/hexdump"
)

// Option configures Parse.
type Option func(*reassembler)

// WithBytesPerLine sets the dump width used to locate the hex field.
func WithBytesPerLine(n int) Option {
	return func(r *reassembler) {
		r.decoder = hexdump.NewDecoder(n)
	}
}

// WithDirections sets the header tokens recognized as directions.
func WithDirections(dirs Directions) Option {
	return func(r *reassembler) {
		r.dirs = dirs
	}
}

// WithClassifier replaces the header recognition rule.
func WithClassifier(c Classifier) Option {
	return func(r *reassembler) {
		if c != nil {
			r.classifier = c
		}
	}
}

// WithDiagnosticHandler registers fn to be called for each diagnostic as
// soon as it is produced, so callers can interleave it with other output.
func WithDiagnosticHandler(fn func(Diagnostic)) Option {
	return func(r *reassembler) {
		r.onDiagnostic = fn
	}
}

// reassembler holds the parse state for a single Parse call.
// pending is nil between messages and non-nil while accumulating.
type reassembler struct {
	decoder      *hexdump.Decoder
	dirs         Directions
	classifier   Classifier
	onDiagnostic func(Diagnostic)

	pending *Message
	result  *Result
}

// Parse reads every line from src and reassembles the capture into messages.
//
// Malformed lines never fail the parse: they are recorded as diagnostics and
// skipped. An error is returned only when reading src fails or ctx is done.
func Parse(ctx context.Context, src LineSource, opts ...Option) (*Result, error) {
	r := &reassembler{
		decoder:    hexdump.NewDecoder(hexdump.DefaultBytesPerLine),
		dirs:       DefaultDirections(),
		classifier: PositionalClassifier{},
		result:     &Result{},
	}
	for _, opt := range opts {
		opt(r)
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading capture log: %w", err)
		}

		r.feed(line)
	}

	r.flush()
	return r.result, nil
}

func (r *reassembler) feed(line *LogLine) {
	r.result.LinesRead++

	text := strings.TrimSpace(line.Content)
	switch r.classifier.Classify(text) {
	case KindBlank:
		return
	case KindHeader:
		r.header(line, text)
	default:
		r.data(line, text)
	}
}

func (r *reassembler) header(line *LogLine, text string) {
	r.flush()

	h, err := ParseHeader(text, r.dirs)
	if err != nil {
		r.report(line, text, err)
		return
	}

	r.result.Counts.add(h.Direction)
	r.pending = &Message{
		Direction: h.Direction,
		Label:     h.Label,
		Timestamp: h.Timestamp,
		Source:    line.Source,
		LineNum:   line.LineNum,
	}
}

func (r *reassembler) data(line *LogLine, text string) {
	if r.pending == nil {
		r.report(line, text, &OrphanDataError{})
		return
	}

	b, err := r.decoder.Decode(text)
	if err != nil {
		var decErr *hexdump.DecodeError
		if errors.As(err, &decErr) {
			err = &HexDecodeError{Err: decErr}
		}
		r.report(line, text, err)
		return
	}

	r.pending.Payload = append(r.pending.Payload, b...)
}

// flush closes the open message, if any.
func (r *reassembler) flush() {
	if r.pending == nil {
		return
	}
	r.result.Messages = append(r.result.Messages, *r.pending)
	r.pending = nil
}

func (r *reassembler) report(line *LogLine, text string, err error) {
	d := Diagnostic{
		Source:  line.Source,
		LineNum: line.LineNum,
		Line:    text,
		Err:     err,
	}
	r.result.Diagnostics = append(r.result.Diagnostics, d)
	if r.onDiagnostic != nil {
		r.onDiagnostic(d)
	}
}
