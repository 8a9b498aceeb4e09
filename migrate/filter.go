package migrate

import (
	"strings"

	"github.com/poiesic/recollect/legacy"
)

// DefaultExcludedTypes lists the display types the filter stage drops
// unless overridden by configuration.
var DefaultExcludedTypes = []string{"system", "scratch"}

// lowWeightPrefix marks the subtype family whose records downstream
// ranking should discount.
const lowWeightPrefix = "arc_agi"

// unknownType classifies records with absent or malformed metadata.
const unknownType = "unknown"

// Document is a legacy record after type filtering: trimmed text plus the
// classification the downstream stages key on.
type Document struct {
	LegacyId    uint64
	Text        string
	DisplayType string
	LowWeight   bool
	CreatedAt   string
}

// FilterResult carries the documents surviving the filter stage and the
// per-stage counts for the final report.
type FilterResult struct {
	Documents  []Document
	Excluded   int
	EmptyText  int
	TypeCounts map[string]int
}

// FilterDocuments classifies legacy records and drops excluded types and
// empty bodies. The display type prefers the subtype over the type tag;
// absent or malformed metadata demotes the record to "unknown" rather than
// failing the run.
func FilterDocuments(records []*legacy.Document, excludedTypes []string) *FilterResult {
	excluded := make(map[string]struct{}, len(excludedTypes))
	for _, t := range excludedTypes {
		excluded[t] = struct{}{}
	}

	result := &FilterResult{
		Documents:  make([]Document, 0, len(records)),
		TypeCounts: make(map[string]int),
	}

	for _, record := range records {
		text := strings.TrimSpace(record.Text)
		if text == "" {
			result.EmptyText++
			continue
		}

		// Malformed metadata is a recoverable per-record condition.
		meta, _ := legacy.ParseMetadata(record.Meta)
		displayType := meta.Subtype
		if displayType == "" {
			displayType = meta.Type
		}
		if displayType == "" {
			displayType = unknownType
		}

		if _, drop := excluded[displayType]; drop {
			result.Excluded++
			continue
		}

		result.TypeCounts[displayType]++
		result.Documents = append(result.Documents, Document{
			LegacyId:    record.Id,
			Text:        text,
			DisplayType: displayType,
			LowWeight:   strings.HasPrefix(meta.Subtype, lowWeightPrefix),
			CreatedAt:   record.CreatedAt,
		})
	}

	return result
}
