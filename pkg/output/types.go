// Package output provides formatting and output generation for reassembled captures.
package output

import (
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/sniflog/pkg/analyzer"
	"github.com/ccollicutt/sniflog/pkg/hexdump"
	"github.com/ccollicutt/sniflog/pkg/parser"
)

// Report is the complete analysis output.
type Report struct {
	// Messages are in file order.
	Messages []MessageLine `json:"messages"`

	// Diagnostics lists the lines that could not be used.
	Diagnostics []DiagnosticLine `json:"diagnostics"`

	Summary  Summary  `json:"summary"`
	Metadata Metadata `json:"metadata"`
}

// MessageLine is one message as shown in the report.
type MessageLine struct {
	Timestamp time.Time `json:"timestamp"`

	// GapSeconds is the time since the previous message; nil for the first.
	GapSeconds *float64 `json:"gap_seconds,omitempty"`

	// Pause is set when a separator precedes this message.
	Pause bool `json:"pause,omitempty"`

	Direction string `json:"direction"`
	Length    int    `json:"length"`

	// Payload is uppercase hex, space separated.
	Payload string `json:"payload"`

	// Line is the header's line number in the capture log.
	Line int `json:"line"`

	raw []byte
}

// DiagnosticLine is a parser diagnostic as shown in the report.
type DiagnosticLine struct {
	Source string `json:"source"`
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// Summary provides aggregate statistics.
type Summary struct {
	Incoming    int `json:"incoming"`
	Outgoing    int `json:"outgoing"`
	Messages    int `json:"messages"`
	Pauses      int `json:"pauses"`
	Diagnostics int `json:"diagnostics"`
	BytesIn     int `json:"bytes_in"`
	BytesOut    int `json:"bytes_out"`
}

// Metadata provides context about the analysis run.
type Metadata struct {
	// RunID identifies this analysis, e.g. for deduplicating webhook deliveries.
	RunID string `json:"run_id"`

	// Source is the capture log that was analyzed.
	Source string `json:"source"`

	PauseThresholdSeconds float64 `json:"pause_threshold_seconds"`
	LinesRead             int     `json:"lines_read"`

	AnalyzedAt time.Time     `json:"analyzed_at"`
	Duration   time.Duration `json:"duration_ns"`
}

// NewReport creates a Report from a parse result and its timeline.
// started is when the analysis began and is used to compute the duration.
func NewReport(result *parser.Result, tl *analyzer.Timeline, source string, started time.Time) *Report {
	now := time.Now()

	report := &Report{
		Messages:    make([]MessageLine, 0, len(tl.Entries)),
		Diagnostics: make([]DiagnosticLine, 0, len(result.Diagnostics)),
		Summary: Summary{
			Incoming:    result.Counts.Incoming,
			Outgoing:    result.Counts.Outgoing,
			Messages:    tl.Stats.Messages,
			Pauses:      tl.Stats.Pauses,
			Diagnostics: len(result.Diagnostics),
			BytesIn:     tl.Stats.BytesIn,
			BytesOut:    tl.Stats.BytesOut,
		},
		Metadata: Metadata{
			RunID:                 uuid.NewString(),
			Source:                source,
			PauseThresholdSeconds: tl.PauseThreshold.Seconds(),
			LinesRead:             result.LinesRead,
			AnalyzedAt:            now,
			Duration:              now.Sub(started),
		},
	}

	for _, e := range tl.Entries {
		line := MessageLine{
			Timestamp: e.Message.Timestamp,
			Pause:     e.Pause,
			Direction: e.Message.Label,
			Length:    len(e.Message.Payload),
			Payload:   hexdump.Encode(e.Message.Payload),
			Line:      e.Message.LineNum,
			raw:       e.Message.Payload,
		}
		if line.Direction == "" {
			line.Direction = e.Message.Direction.String()
		}
		if e.HasGap {
			gap := e.GapSeconds()
			line.GapSeconds = &gap
		}
		report.Messages = append(report.Messages, line)
	}

	for _, d := range result.Diagnostics {
		report.Diagnostics = append(report.Diagnostics, DiagnosticLine{
			Source: d.Source,
			Line:   d.LineNum,
			Text:   d.Line,
			Error:  d.Err.Error(),
		})
	}

	return report
}

// HasIssues returns true if any line of the capture could not be used.
func (r *Report) HasIssues() bool {
	return r.Summary.Diagnostics > 0
}
