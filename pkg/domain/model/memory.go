package model

import (
	"strings"
	"time"
)

// TranscriptSegment is one chronological slice of a captured conversation.
// Segments are supplied by the capture device and never reordered; the
// caller's order is authoritative.
type TranscriptSegment struct {
	Text      string  `json:"text"`
	Speaker   string  `json:"speaker"`
	SpeakerID int     `json:"speaker_id"`
	IsUser    bool    `json:"is_user"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
}

// ActionItem is a follow-up extracted by the capture device
type ActionItem struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// StructuredSummary is the device-generated summary of a memory.
// The pipeline treats it as opaque except for Title, which is copied
// into the persisted record.
type StructuredSummary struct {
	Title       string       `json:"title"`
	Overview    string       `json:"overview"`
	Category    string       `json:"category"`
	ActionItems []ActionItem `json:"action_items"`
}

// Memory is one transcript-bearing unit submitted via webhook. It is a
// value received once per webhook call and never mutated by the pipeline.
type Memory struct {
	ID                 int64               `json:"id"`
	CreatedAt          time.Time           `json:"created_at"`
	StartedAt          time.Time           `json:"started_at"`
	FinishedAt         time.Time           `json:"finished_at"`
	TranscriptSegments []TranscriptSegment `json:"transcript_segments"`
	Structured         StructuredSummary   `json:"structured"`
	Discarded          bool                `json:"discarded"`
}

// NormalizedTranscript concatenates the transcript segments into one
// deterministic text blob, "{speaker}: {text}" per segment joined by
// newlines in segment order. Two memories with identical segment
// sequences always normalize to the same text, which makes the derived
// checksum the idempotency hook of the whole pipeline.
func (m *Memory) NormalizedTranscript() string {
	if len(m.TranscriptSegments) == 0 {
		return ""
	}

	lines := make([]string, len(m.TranscriptSegments))
	for i, seg := range m.TranscriptSegments {
		lines[i] = seg.Speaker + ": " + seg.Text
	}
	return strings.Join(lines, "\n")
}
