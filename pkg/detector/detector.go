// Package detector samples capture logs to suggest parser settings.
package detector

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/ccollicutt/sniflog/pkg/config"
	"github.com/ccollicutt/sniflog/pkg/parser"
)

// DetectionResult holds the result of sampling a capture log.
type DetectionResult struct {
	SampledLines int          // Non-blank lines sampled
	HeaderLines  int          // Lines classified as headers
	DataLines    int          // Lines classified as dump lines
	Labels       []LabelCount // Direction labels of valid headers, in order of first appearance
	BytesPerLine int          // Widest dump line seen, 0 if none could be measured
	Outgoing     string       // Suggested outgoing label
	Incoming     string       // Suggested incoming label
	Pair         string       // Name of the known pair the labels came from, if any
}

// LabelCount is a direction label and how many headers carried it.
type LabelCount struct {
	Label string
	Count int
}

// Detector samples capture logs.
type Detector struct {
	pairs      []LabelPair
	classifier parser.Classifier
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 200).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector with the default label pairs.
func New(opts ...Option) *Detector {
	d := &Detector{
		pairs:      DefaultLabelPairs(),
		classifier: parser.PositionalClassifier{},
		sampleSize: 200,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples the head of a capture log. Compressed logs and
// standard input ("-") are read the same way analyze reads them.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of capture log lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{}
	seen := make(map[string]int)
	var order []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		kind := d.classifier.Classify(line)
		if kind == parser.KindBlank {
			continue
		}
		result.SampledLines++

		if kind == parser.KindData {
			result.DataLines++
			if n, ok := dumpWidth(line); ok && n > result.BytesPerLine {
				result.BytesPerLine = n
			}
			continue
		}

		result.HeaderLines++
		field, token := parser.SplitHeader(line)
		if token == "" {
			continue
		}
		if _, err := parser.ParseTimestamp(field); err != nil {
			continue
		}
		if seen[token] == 0 {
			order = append(order, token)
		}
		seen[token]++
	}

	for _, label := range order {
		result.Labels = append(result.Labels, LabelCount{Label: label, Count: seen[label]})
	}

	if p, ok := matchPair(d.pairs, seen); ok {
		result.Outgoing = p.Outgoing
		result.Incoming = p.Incoming
		result.Pair = p.Name
	} else {
		defaults := parser.DefaultDirections()
		result.Outgoing = defaults.Outgoing
		result.Incoming = defaults.Incoming
		if len(order) > 0 {
			result.Outgoing = order[0]
		}
		if len(order) > 1 {
			result.Incoming = order[1]
		}
	}

	return result
}

// dumpWidth measures the number of bytes on a dump line. ok is false when
// the line does not look like a dump line or its width cannot be told apart
// from its ASCII sidebar.
func dumpWidth(line string) (int, bool) {
	var decoded []byte
	pos := 0
	for pos+2 <= len(line) {
		b, err := hex.DecodeString(line[pos : pos+2])
		if err != nil {
			break
		}
		if pos+2 < len(line) && line[pos+2] != ' ' {
			break
		}
		decoded = append(decoded, b[0])
		pos += 3
	}
	if len(decoded) == 0 {
		return 0, false
	}

	// A full line carries one sidebar character per byte: 3n + n columns.
	if len(line)%4 == 0 {
		if n := len(line) / 4; n <= len(decoded) && sidebarMatches(line[3*n:], decoded[:n]) {
			return n, true
		}
	}

	end := 3*len(decoded) - 1
	rest := line[end:]
	switch {
	case rest == "":
		return len(decoded), true
	case strings.HasPrefix(rest, "  "):
		// Padded short line; its width is a lower bound.
		return len(decoded), true
	default:
		return 0, false
	}
}

func sidebarMatches(sidebar string, b []byte) bool {
	if len(sidebar) != len(b) {
		return false
	}
	for i := range b {
		if sidebar[i] != asciiRune(b[i]) {
			return false
		}
	}
	return true
}

// sampleFile reads up to sampleSize non-blank lines from a capture log.
// Uses simple head sampling for efficiency.
func (d *Detector) sampleFile(ctx context.Context, path string) ([]string, error) {
	src := parser.NewFileSource(path)
	defer func() { _ = src.Close() }()

	var lines []string
	for len(lines) < d.sampleSize {
		line, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("sampling %s: %w", path, err)
		}
		if strings.TrimSpace(line.Content) != "" {
			lines = append(lines, line.Content)
		}
	}

	return lines, nil
}

// HasMatch returns true if at least one header was found.
func (r *DetectionResult) HasMatch() bool {
	return r.HeaderLines > 0
}

// Config returns a configuration using the detected settings.
// Settings that could not be detected keep their defaults.
func (r *DetectionResult) Config() *config.Config {
	cfg := config.DefaultConfig()
	if r.BytesPerLine > 0 {
		cfg.BytesPerLine = r.BytesPerLine
	}
	if r.Outgoing != "" {
		cfg.Directions.Outgoing = r.Outgoing
	}
	if r.Incoming != "" {
		cfg.Directions.Incoming = r.Incoming
	}
	return cfg
}
