package analyzer

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ccollicutt/sniflog/pkg/parser"
)

var baseTime = time.Date(2015, 8, 10, 14, 39, 50, 25182000, time.UTC)

func msgAt(offset time.Duration, dir parser.Direction, payload ...byte) parser.Message {
	return parser.Message{
		Direction: dir,
		Label:     dir.String(),
		Timestamp: baseTime.Add(offset),
		Payload:   payload,
	}
}

func TestBuildTimeline_NoPause(t *testing.T) {
	msgs := []parser.Message{
		msgAt(0, parser.Outgoing, 0x9E, 0x66, 0x1E, 0x06),
		msgAt(61999*time.Microsecond, parser.Incoming, 0x5B, 0x53),
	}

	tl := BuildTimeline(msgs, DefaultPauseThreshold)

	if len(tl.Entries) != 2 {
		t.Fatalf("Entries = %d, want 2", len(tl.Entries))
	}
	if tl.Entries[0].HasGap {
		t.Error("first entry should have no gap")
	}
	if !tl.Entries[1].HasGap {
		t.Fatal("second entry should have a gap")
	}
	if got := tl.Entries[1].GapSeconds(); got != 0.061999 {
		t.Errorf("GapSeconds() = %v, want 0.061999", got)
	}
	if tl.Entries[1].Pause {
		t.Error("gap below threshold marked as pause")
	}
	if tl.Stats.Pauses != 0 {
		t.Errorf("Pauses = %d, want 0", tl.Stats.Pauses)
	}
}

func TestBuildTimeline_PauseThreshold(t *testing.T) {
	tests := []struct {
		name      string
		gap       time.Duration
		threshold time.Duration
		wantPause bool
	}{
		{name: "above threshold", gap: 1500 * time.Millisecond, threshold: time.Second, wantPause: true},
		{name: "at threshold", gap: time.Second, threshold: time.Second, wantPause: false},
		{name: "just above threshold", gap: time.Second + time.Microsecond, threshold: time.Second, wantPause: true},
		{name: "below threshold", gap: 999 * time.Millisecond, threshold: time.Second, wantPause: false},
		{name: "custom threshold", gap: 300 * time.Millisecond, threshold: 200 * time.Millisecond, wantPause: true},
		{name: "clock stepped back", gap: -5 * time.Second, threshold: time.Second, wantPause: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := []parser.Message{
				msgAt(0, parser.Outgoing),
				msgAt(tt.gap, parser.Incoming),
			}
			tl := BuildTimeline(msgs, tt.threshold)
			if got := tl.Entries[1].Pause; got != tt.wantPause {
				t.Errorf("Pause = %v, want %v", got, tt.wantPause)
			}
			if tt.wantPause && tl.Stats.Pauses != 1 {
				t.Errorf("Pauses = %d, want 1", tl.Stats.Pauses)
			}
		})
	}
}

func TestBuildTimeline_Stats(t *testing.T) {
	msgs := []parser.Message{
		msgAt(0, parser.Outgoing, 1, 2, 3),
		msgAt(time.Second/2, parser.Incoming, 4),
		msgAt(3*time.Second, parser.Outgoing, 5, 6),
		msgAt(3*time.Second+time.Millisecond, parser.Incoming),
	}

	tl := BuildTimeline(msgs, DefaultPauseThreshold)

	if tl.Stats.Messages != 4 {
		t.Errorf("Messages = %d, want 4", tl.Stats.Messages)
	}
	if tl.Stats.BytesOut != 5 {
		t.Errorf("BytesOut = %d, want 5", tl.Stats.BytesOut)
	}
	if tl.Stats.BytesIn != 1 {
		t.Errorf("BytesIn = %d, want 1", tl.Stats.BytesIn)
	}
	if tl.Stats.Pauses != 1 {
		t.Errorf("Pauses = %d, want 1", tl.Stats.Pauses)
	}
	if got, want := tl.Stats.Span(), 3*time.Second+time.Millisecond; got != want {
		t.Errorf("Span() = %v, want %v", got, want)
	}
	if !tl.Entries[2].Pause {
		t.Error("third entry should follow a pause")
	}
}

func TestBuildTimeline_Empty(t *testing.T) {
	tl := BuildTimeline(nil, DefaultPauseThreshold)

	if len(tl.Entries) != 0 {
		t.Errorf("Entries = %d, want 0", len(tl.Entries))
	}
	if tl.Stats.Span() != 0 {
		t.Errorf("Span() = %v, want 0", tl.Stats.Span())
	}
}

func TestBuildTimeline_Entries(t *testing.T) {
	msgs := []parser.Message{
		msgAt(0, parser.Outgoing, 0x9E),
		msgAt(2*time.Second, parser.Incoming, 0x5B),
		msgAt(time.Second, parser.Outgoing),
	}

	tl := BuildTimeline(msgs, DefaultPauseThreshold)

	want := []Entry{
		{Message: msgs[0]},
		{Message: msgs[1], Gap: 2 * time.Second, HasGap: true, Pause: true},
		{Message: msgs[2], Gap: -time.Second, HasGap: true},
	}
	if diff := cmp.Diff(want, tl.Entries); diff != "" {
		t.Errorf("Entries mismatch (-want +got):\n%s", diff)
	}
}
