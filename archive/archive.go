package archive

// Sender role tags used in archive messages.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// SourceFormational marks messages backfilled from the legacy store, so
// downstream ranking can treat them distinctly from organically captured
// conversation.
const SourceFormational = "formational"

// dedupKeyTextLen is how much leading text participates in a message's
// dedup key.
const dedupKeyTextLen = 100

// Provenance records where an archive message came from. Optional fields are
// only written for chunked or low-weight records; ChunkIndex is zero-based.
type Provenance struct {
	Source           string `json:"source"`
	OriginalType     string `json:"originalType,omitempty"`
	LegacyId         uint64 `json:"legacyId,omitempty"`
	Chunked          bool   `json:"chunked,omitempty"`
	ChunkIndex       int    `json:"chunkIndex,omitempty"`
	TotalChunks      int    `json:"totalChunks,omitempty"`
	LowWeightVariant bool   `json:"lowWeightVariant,omitempty"`
}

// Message is one entry in a per-date archive file.
type Message struct {
	Timestamp  string      `json:"timestamp"` // RFC3339
	Sender     string      `json:"sender"`
	Text       string      `json:"text"`
	Provenance *Provenance `json:"provenance,omitempty"`
}

// DedupKey returns the composite key used to detect already-present
// messages during merge: timestamp, sender, and the leading text.
func (m *Message) DedupKey() string {
	text := m.Text
	if runes := []rune(text); len(runes) > dedupKeyTextLen {
		text = string(runes[:dedupKeyTextLen])
	}
	return m.Timestamp + "_" + m.Sender + "_" + text
}

// IsFormational reports whether the message was backfilled from the legacy
// store.
func (m *Message) IsFormational() bool {
	return m.Provenance != nil && m.Provenance.Source == SourceFormational
}

// DayArchive is the per-date archive file: all messages for one calendar
// date, sorted by timestamp. Both the backfill and the regular day indexer
// append to these files, so mutations must go through Merge.
type DayArchive struct {
	Date         string    `json:"date"`
	MessageCount int       `json:"messageCount"`
	Messages     []Message `json:"messages"`
}

// NewDayArchive creates an empty archive for a date.
func NewDayArchive(date string) *DayArchive {
	return &DayArchive{Date: date, Messages: []Message{}}
}
