package archive

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formationalMsg(ts, text string) Message {
	return Message{
		Timestamp: ts,
		Sender:    SenderAssistant,
		Text:      text,
		Provenance: &Provenance{
			Source:       SourceFormational,
			OriginalType: "journal",
			LegacyId:     1,
		},
	}
}

func TestMergeIntoEmpty(t *testing.T) {
	incoming := []Message{
		formationalMsg("2025-09-01T10:00:00Z", "first"),
		formationalMsg("2025-09-01T11:00:00Z", "second"),
	}

	merged, added := Merge(nil, "2025-09-01", incoming)

	require.NotNil(t, merged)
	assert.Equal(t, "2025-09-01", merged.Date)
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, merged.MessageCount)
	require.Len(t, merged.Messages, 2)
	assert.Equal(t, "first", merged.Messages[0].Text)
	assert.Equal(t, "second", merged.Messages[1].Text)
}

func TestMergeIdempotent(t *testing.T) {
	incoming := []Message{
		formationalMsg("2025-09-01T10:00:00Z", "alpha"),
		formationalMsg("2025-09-01T11:00:00Z", "beta"),
	}

	once, addedOnce := Merge(nil, "2025-09-01", incoming)
	twice, addedTwice := Merge(once, "2025-09-01", incoming)

	assert.Equal(t, 2, addedOnce)
	assert.Equal(t, 0, addedTwice)
	assert.Equal(t, once, twice)
}

func TestMergeCollapsesWithinBatch(t *testing.T) {
	msg := formationalMsg("2025-09-01T10:00:00Z", "repeated")
	merged, added := Merge(nil, "2025-09-01", []Message{msg, msg, msg})

	assert.Equal(t, 1, added)
	assert.Equal(t, 1, merged.MessageCount)
}

func TestMergePreservesExistingMessages(t *testing.T) {
	existing := &DayArchive{
		Date:         "2025-09-01",
		MessageCount: 2,
		Messages: []Message{
			{Timestamp: "2025-09-01T09:00:00Z", Sender: SenderUser, Text: "organic question"},
			{Timestamp: "2025-09-01T09:00:05Z", Sender: SenderAssistant, Text: "organic answer"},
		},
	}

	merged, added := Merge(existing, "2025-09-01", []Message{
		formationalMsg("2025-09-01T08:00:00Z", "earlier formational doc"),
	})

	assert.Equal(t, 1, added)
	require.Equal(t, 3, merged.MessageCount)

	// Sorted by timestamp: the formational doc lands first, organic entries
	// keep their relative order.
	assert.Equal(t, "earlier formational doc", merged.Messages[0].Text)
	assert.Equal(t, "organic question", merged.Messages[1].Text)
	assert.Equal(t, "organic answer", merged.Messages[2].Text)

	// Input archive untouched.
	assert.Len(t, existing.Messages, 2)
}

func TestMergeStableForEqualTimestamps(t *testing.T) {
	// Chunks of one document share a timestamp; their order must survive
	// the sort.
	chunks := make([]Message, 4)
	for i := range chunks {
		chunks[i] = Message{
			Timestamp: "2025-09-01T10:00:00Z",
			Sender:    SenderAssistant,
			Text:      strings.Repeat("x", i+1), // distinct dedup keys
			Provenance: &Provenance{
				Source:      SourceFormational,
				Chunked:     true,
				ChunkIndex:  i,
				TotalChunks: 4,
			},
		}
	}

	merged, _ := Merge(nil, "2025-09-01", chunks)

	require.Len(t, merged.Messages, 4)
	for i, msg := range merged.Messages {
		assert.Equal(t, i, msg.Provenance.ChunkIndex)
	}
}

func TestMergeDedupKeyUsesLeadingText(t *testing.T) {
	long := strings.Repeat("a", 150)
	differsLate := strings.Repeat("a", 120) + "tail"

	merged, added := Merge(nil, "2025-09-01", []Message{
		formationalMsg("2025-09-01T10:00:00Z", long),
		formationalMsg("2025-09-01T10:00:00Z", differsLate),
	})

	// Identical in the first 100 chars with the same timestamp and sender,
	// so the second collapses into the first.
	assert.Equal(t, 1, added)
	assert.Equal(t, long, merged.Messages[0].Text)
}

func TestMergeDistinguishesSenders(t *testing.T) {
	merged, added := Merge(nil, "2025-09-01", []Message{
		{Timestamp: "2025-09-01T10:00:00Z", Sender: SenderUser, Text: "same words"},
		{Timestamp: "2025-09-01T10:00:00Z", Sender: SenderAssistant, Text: "same words"},
	})

	assert.Equal(t, 2, added)
	assert.Equal(t, 2, merged.MessageCount)
}

func TestDedupKeyRuneSafety(t *testing.T) {
	// Multibyte text near the cutoff must not split a rune.
	msg := Message{
		Timestamp: "2025-09-01T10:00:00Z",
		Sender:    SenderAssistant,
		Text:      strings.Repeat("é", 120),
	}

	key := msg.DedupKey()
	assert.True(t, strings.HasSuffix(key, strings.Repeat("é", 100)))
}

func TestIsFormational(t *testing.T) {
	backfilled := formationalMsg("2025-09-01T10:00:00Z", "x")
	assert.True(t, backfilled.IsFormational())
	assert.False(t, (&Message{Sender: SenderUser, Text: "organic"}).IsFormational())
	assert.False(t, (&Message{Provenance: &Provenance{Source: "import"}}).IsFormational())
}
