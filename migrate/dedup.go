package migrate

// DedupResult carries the surviving documents and the duplicate count.
type DedupResult struct {
	Documents  []Document
	Duplicates int
}

// Dedup drops documents whose exact text was already seen, keeping the
// first occurrence in scan order. The key is the full trimmed text:
// near-duplicates can carry materially different type tags, so anything
// fuzzier would silently merge records that must stay distinct.
func Dedup(docs []Document) *DedupResult {
	seen := make(map[string]struct{}, len(docs))
	result := &DedupResult{
		Documents: make([]Document, 0, len(docs)),
	}

	for _, doc := range docs {
		if _, dup := seen[doc.Text]; dup {
			result.Duplicates++
			continue
		}
		seen[doc.Text] = struct{}{}
		result.Documents = append(result.Documents, doc)
	}

	return result
}
