// Package parser reassembles sniffer capture logs into discrete messages.
package parser

import (
	"fmt"
	"time"
)

// Direction identifies which endpoint originated a message.
type Direction int

const (
	// Outgoing marks messages written by the SENDING tty.
	Outgoing Direction = iota

	// Incoming marks messages written by the RECEIVING tty.
	Incoming
)

// Default direction labels written by the sniffer.
const (
	LabelSending   = "SENDING"
	LabelReceiving = "RECEIVING"
)

func (d Direction) String() string {
	switch d {
	case Outgoing:
		return LabelSending
	case Incoming:
		return LabelReceiving
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// LogLine is a raw capture log line before classification.
type LogLine struct {
	// Content is the raw line text.
	Content string

	// Source is the file path this line came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int
}

// Message is one reconstructed transfer between the two endpoints.
type Message struct {
	Direction Direction

	// Label is the literal direction token from the header line.
	Label string

	// Timestamp is the header timestamp, microsecond precision, UTC.
	Timestamp time.Time

	// Payload is the concatenation of every data line following the header.
	Payload []byte

	// Source and LineNum locate the header line.
	Source  string
	LineNum int
}

// Counts tallies successfully classified header lines per direction.
type Counts struct {
	Incoming int
	Outgoing int
}

// Total returns the number of classified headers.
func (c Counts) Total() int {
	return c.Incoming + c.Outgoing
}

func (c *Counts) add(d Direction) {
	if d == Incoming {
		c.Incoming++
		return
	}
	c.Outgoing++
}

// Diagnostic describes a line that could not be used.
type Diagnostic struct {
	Source  string
	LineNum int

	// Line is the offending line with surrounding whitespace removed.
	Line string

	// Err is one of the error types declared in this package.
	Err error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: %v", d.Source, d.LineNum, d.Err)
}

// Result is the outcome of one Parse call.
type Result struct {
	// Messages are in file order.
	Messages []Message

	Counts      Counts
	Diagnostics []Diagnostic

	// LinesRead counts every line consumed, blank ones included.
	LinesRead int
}
