package index

import "fmt"

// FormationalPrefix namespaces identifiers of backfilled exchanges.
const FormationalPrefix = "formational"

// Ordering key ranges. The regular day indexer numbers exchanges within a
// date upward from zero and stays below RegularSeqLimit; backfilled
// exchanges start at BackfillSeqBase so they sort after organic records on
// the same date and the two ranges never collide.
const (
	RegularSeqLimit = 100_000
	BackfillSeqBase = 1_000_000
)

// FormationalID builds the deterministic identifier for a backfilled
// exchange: namespace prefix, date, and the message's position within the
// date's archive. Re-running the backfill against an unchanged source
// regenerates the same identifiers.
func FormationalID(date string, position int) string {
	return fmt.Sprintf("%s_%s_%04d", FormationalPrefix, date, position)
}

// FormationalChunkID builds the identifier for one chunk of a backfilled
// document. The position already makes the id unique; the chunk suffix
// keeps chunk membership readable in the id itself.
func FormationalChunkID(date string, position, chunkIndex int) string {
	return fmt.Sprintf("%s_c%02d", FormationalID(date, position), chunkIndex)
}

// BackfillSeq maps an archive position to the backfill ordering key.
func BackfillSeq(position int) int64 {
	return BackfillSeqBase + int64(position)
}
