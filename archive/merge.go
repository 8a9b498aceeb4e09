package archive

import (
	"slices"
	"strings"
	"time"
)

// Merge folds incoming messages into the archive for a date without
// duplicating entries already present. A nil existing archive starts fresh.
// The result is a new archive; neither input is mutated.
//
// Messages are matched by DedupKey, and the key set is updated while
// merging so within-batch duplicates collapse too. After merging, messages
// are re-sorted by timestamp (stable, so same-timestamp entries such as
// chunks of one document keep their relative order) and MessageCount is
// recomputed. Applying the same incoming batch twice yields the same
// archive as applying it once.
func Merge(existing *DayArchive, date string, incoming []Message) (*DayArchive, int) {
	merged := NewDayArchive(date)
	if existing != nil {
		merged.Messages = slices.Clone(existing.Messages)
	}

	seen := make(map[string]struct{}, len(merged.Messages)+len(incoming))
	for i := range merged.Messages {
		seen[merged.Messages[i].DedupKey()] = struct{}{}
	}

	added := 0
	for _, msg := range incoming {
		key := msg.DedupKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged.Messages = append(merged.Messages, msg)
		added++
	}

	slices.SortStableFunc(merged.Messages, func(a, b Message) int {
		return compareTimestamps(a.Timestamp, b.Timestamp)
	})
	merged.MessageCount = len(merged.Messages)

	return merged, added
}

// compareTimestamps orders two archive timestamps. Timestamps the system
// writes are RFC3339 UTC and compare correctly as strings, but archive
// files are hand-editable, so parseable values are compared as instants
// first.
func compareTimestamps(a, b string) int {
	ta, errA := time.Parse(time.RFC3339, a)
	tb, errB := time.Parse(time.RFC3339, b)
	if errA == nil && errB == nil {
		return ta.Compare(tb)
	}
	return strings.Compare(a, b)
}
