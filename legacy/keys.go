package legacy

import "encoding/binary"

// Key prefixes for the legacy store layout
const (
	documentPrefix = "fdoc"
	documentIDSeq  = "fdocseq"
)

// makeDocumentKey generates a key for a document by id.
// Format: prefix:id with the id in BigEndian order so lexicographic
// iteration yields ascending ids.
func makeDocumentKey(id uint64) []byte {
	prefix := documentPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], id)
	return buf
}

// documentKeyRange returns the iteration prefix covering all documents.
func documentKeyRange() []byte {
	return []byte(documentPrefix + ":")
}
