// Package analyzer derives timing information from reassembled messages.
package analyzer

import (
	"time"

	"github.com/ccollicutt/sniflog/pkg/parser"
)

// DefaultPauseThreshold is the gap above which two messages are considered
// separate exchanges.
const DefaultPauseThreshold = time.Second

// Entry is a message placed on the timeline.
type Entry struct {
	Message parser.Message

	// Gap is the time since the previous message. Only meaningful if HasGap.
	Gap    time.Duration
	HasGap bool

	// Pause is set when Gap exceeds the pause threshold.
	Pause bool
}

// GapSeconds returns the gap in seconds.
func (e Entry) GapSeconds() float64 {
	return e.Gap.Seconds()
}

// Stats summarizes a timeline.
type Stats struct {
	Messages int
	Pauses   int

	// BytesIn and BytesOut total the payload sizes per direction.
	BytesIn  int
	BytesOut int

	// First and Last are the earliest and latest message timestamps.
	First time.Time
	Last  time.Time
}

// Span returns the time covered by the timeline.
func (s Stats) Span() time.Duration {
	return s.Last.Sub(s.First)
}

// Timeline is the ordered message stream with gaps.
type Timeline struct {
	Entries        []Entry
	PauseThreshold time.Duration
	Stats          Stats
}

// BuildTimeline computes the gap between each message and its predecessor
// in file order. A gap strictly greater than pause marks a pause; negative
// gaps from clock steps never do.
func BuildTimeline(msgs []parser.Message, pause time.Duration) *Timeline {
	tl := &Timeline{
		Entries:        make([]Entry, 0, len(msgs)),
		PauseThreshold: pause,
	}

	for i, msg := range msgs {
		entry := Entry{Message: msg}

		if i > 0 {
			entry.Gap = msg.Timestamp.Sub(msgs[i-1].Timestamp)
			entry.HasGap = true
			if entry.Gap > pause {
				entry.Pause = true
				tl.Stats.Pauses++
			}
		}

		if msg.Direction == parser.Incoming {
			tl.Stats.BytesIn += len(msg.Payload)
		} else {
			tl.Stats.BytesOut += len(msg.Payload)
		}

		if tl.Stats.First.IsZero() || msg.Timestamp.Before(tl.Stats.First) {
			tl.Stats.First = msg.Timestamp
		}
		if msg.Timestamp.After(tl.Stats.Last) {
			tl.Stats.Last = msg.Timestamp
		}

		tl.Entries = append(tl.Entries, entry)
	}

	tl.Stats.Messages = len(tl.Entries)
	return tl
}
