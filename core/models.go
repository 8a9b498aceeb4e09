package core

// Exchange is the destination system's unit of retrieval: one relational row,
// one vector-index entry, and (when lexical search is enabled) one full-text
// entry, all addressed by the same identifier.
type Exchange struct {
	Id           string
	Date         string // calendar date bucket, YYYY-MM-DD
	Seq          int64  // ordering key within the date
	UserText     string
	AgentText    string
	CombinedText string // the text that gets embedded and full-text indexed
	Metadata     string // opaque JSON, provenance for backfilled records
	CreatedAt    string // RFC3339
}

// WriteStatus reports the outcome of an index write.
type WriteStatus int

const (
	// WriteStatusInserted means the exchange was written for the first time.
	WriteStatusInserted WriteStatus = iota + 1
	// WriteStatusSkipped means the relational row already existed, so the
	// exchange was treated as already migrated.
	WriteStatusSkipped
)

// String returns a human-readable name for the status.
func (s WriteStatus) String() string {
	switch s {
	case WriteStatusInserted:
		return "inserted"
	case WriteStatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}
