package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ccollicutt/sniflog/pkg/hexdump"
	"github.com/ccollicutt/sniflog/pkg/parser"
)

// Separator is printed before a message that follows a pause.
const Separator = "-----------------"

// displayLayout renders timestamps with microseconds.
const displayLayout = parser.TimestampLayout

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if !f.opts.Quiet {
		fmt.Fprintln(w, "Packets:")
		for i := range report.Messages {
			f.formatMessage(&report.Messages[i], w)
		}
	}

	fmt.Fprintf(w, "Number of incoming frames: %d\n", report.Summary.Incoming)
	fmt.Fprintf(w, "Number of outgoing frames: %d\n", report.Summary.Outgoing)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Messages: %d (%d bytes in, %d bytes out)\n",
			report.Summary.Messages, report.Summary.BytesIn, report.Summary.BytesOut)
		fmt.Fprintf(w, "Pauses over %gs: %d\n", report.Metadata.PauseThresholdSeconds, report.Summary.Pauses)
		fmt.Fprintf(w, "Unusable lines: %d of %d\n", report.Summary.Diagnostics, report.Metadata.LinesRead)
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}

func (f *TextFormatter) formatMessage(m *MessageLine, w io.Writer) {
	if m.Pause {
		fmt.Fprintln(w, Separator)
	}

	var gap string
	if m.GapSeconds != nil {
		gap = fmt.Sprintf("%.6f", *m.GapSeconds)
	}
	prefix := fmt.Sprintf("%s %s %s", m.Timestamp.Format(displayLayout), gap, m.Direction)

	payload := []string{m.Payload}
	if f.opts.WrapWidth > 0 && m.raw != nil {
		payload = hexdump.Format(m.raw, f.opts.WrapWidth)
	}

	if len(payload) == 0 || payload[0] == "" {
		fmt.Fprintln(w, prefix)
		return
	}

	fmt.Fprintf(w, "%s %s\n", prefix, payload[0])
	indent := strings.Repeat(" ", len(prefix)+1)
	for _, cont := range payload[1:] {
		fmt.Fprintf(w, "%s%s\n", indent, cont)
	}
}

// WriteDiagnostic prints a parser diagnostic followed by the offending line.
func WriteDiagnostic(w io.Writer, d parser.Diagnostic) {
	fmt.Fprintf(w, "failing to analyze line %d: %v\n", d.LineNum, d.Err)
	fmt.Fprintf(w, "    %s\n", d.Line)
}
