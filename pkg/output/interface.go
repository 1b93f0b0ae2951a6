package output

import (
	"context"
	"io"
)

// Formatter renders reports in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (text, json).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose adds statistics after the counts.
	Verbose bool

	// Quiet prints only the counts.
	Quiet bool

	// WrapWidth, when positive, wraps payloads at that many bytes per line.
	WrapWidth int
}
