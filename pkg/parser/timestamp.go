package parser

import (
	"time"
)

// Header line geometry: "2015-08-10 14:39:50.025182: SENDING".
const (
	// TimestampLayout is the Go layout of the fixed-width timestamp field.
	TimestampLayout = "2006-01-02 15:04:05.000000"

	// TimestampWidth is the width of the timestamp field.
	TimestampWidth = len(TimestampLayout)

	// directionOffset skips the timestamp and the ": " separator.
	directionOffset = TimestampWidth + 2
)

// Directions maps the literal header tokens to directions.
type Directions struct {
	Outgoing string
	Incoming string
}

// DefaultDirections returns the labels the sniffer writes by default.
func DefaultDirections() Directions {
	return Directions{
		Outgoing: LabelSending,
		Incoming: LabelReceiving,
	}
}

// Lookup returns the direction whose label equals token exactly.
func (d Directions) Lookup(token string) (Direction, bool) {
	switch token {
	case d.Outgoing:
		return Outgoing, true
	case d.Incoming:
		return Incoming, true
	default:
		return 0, false
	}
}

// Header is a classified header line.
type Header struct {
	Timestamp time.Time
	Direction Direction
	Label     string
}

// ParseTimestamp parses a timestamp field.
// Returns a *TimestampParseError if field does not match TimestampLayout.
func ParseTimestamp(field string) (time.Time, error) {
	ts, err := time.Parse(TimestampLayout, field)
	if err != nil {
		return time.Time{}, &TimestampParseError{Field: field, Err: err}
	}
	return ts, nil
}

// SplitHeader splits a header line into its timestamp field and direction
// token. Either may be empty on a short line.
func SplitHeader(line string) (field, token string) {
	field = line
	if len(field) > TimestampWidth {
		field = field[:TimestampWidth]
	}
	if len(line) > directionOffset {
		token = line[directionOffset:]
	}
	return field, token
}

// ParseHeader parses a line already classified as a header.
// Returns a *TimestampParseError or an *UnknownDirectionError on failure.
func ParseHeader(line string, dirs Directions) (Header, error) {
	field, token := SplitHeader(line)

	ts, err := ParseTimestamp(field)
	if err != nil {
		return Header{}, err
	}

	dir, ok := dirs.Lookup(token)
	if !ok || token == "" {
		return Header{}, &UnknownDirectionError{Token: token}
	}

	return Header{Timestamp: ts, Direction: dir, Label: token}, nil
}
