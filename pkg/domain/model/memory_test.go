package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
)

func TestNormalizedTranscript(t *testing.T) {
	t.Run("joins segments as speaker colon text lines", func(t *testing.T) {
		memory := &model.Memory{
			TranscriptSegments: []model.TranscriptSegment{
				{Speaker: "User", Text: "hi"},
				{Speaker: "Assistant", Text: "how can I help"},
			},
		}

		gt.Value(t, memory.NormalizedTranscript()).Equal("User: hi\nAssistant: how can I help")
	})

	t.Run("preserves caller segment order", func(t *testing.T) {
		memory := &model.Memory{
			TranscriptSegments: []model.TranscriptSegment{
				{Speaker: "B", Text: "second", Start: 5.0},
				{Speaker: "A", Text: "first", Start: 1.0},
			},
		}

		// Segment order is authoritative, timestamps are ignored
		gt.Value(t, memory.NormalizedTranscript()).Equal("B: second\nA: first")
	})

	t.Run("empty transcript yields empty string", func(t *testing.T) {
		memory := &model.Memory{}
		gt.Value(t, memory.NormalizedTranscript()).Equal("")
	})

	t.Run("keeps empty speaker and text fields literal", func(t *testing.T) {
		memory := &model.Memory{
			TranscriptSegments: []model.TranscriptSegment{
				{Speaker: "", Text: "orphan line"},
				{Speaker: "User", Text: ""},
			},
		}

		gt.Value(t, memory.NormalizedTranscript()).Equal(": orphan line\nUser: ")
	})

	t.Run("identical segments normalize identically", func(t *testing.T) {
		segments := []model.TranscriptSegment{
			{Speaker: "User", Text: "same thing", SpeakerID: 1, IsUser: true},
			{Speaker: "Peer", Text: "same reply", SpeakerID: 2},
		}
		m1 := &model.Memory{ID: 1, TranscriptSegments: segments}
		m2 := &model.Memory{ID: 2, TranscriptSegments: segments}

		gt.Value(t, m1.NormalizedTranscript()).Equal(m2.NormalizedTranscript())
	})
}
