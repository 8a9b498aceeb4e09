package legacy

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// Document is one record in the legacy store. Immutable input for the
// backfill: the pipeline reads documents and never writes them back.
type Document struct {
	Id        uint64
	Text      string
	Meta      string // opaque JSON written by the old tooling
	CreatedAt string // heterogeneous encodings, see migrate.ExtractDate
	Digest    uint64 // BLAKE2b-64 of Text, written at insert time
}

// Metadata is the parsed form of Document.Meta. The old tooling wrote a
// growing set of keys over the years; only the type tags matter here and
// unknown keys are ignored.
type Metadata struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
}

// ParseMetadata parses a document's raw metadata blob. Malformed JSON
// returns the zero Metadata together with the parse error so the caller can
// count the degradation; the zero value is always safe to use.
func ParseMetadata(raw string) (Metadata, error) {
	var meta Metadata
	if strings.TrimSpace(raw) == "" {
		return meta, nil
	}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return Metadata{}, fmt.Errorf("%w: %w", ErrMalformedMetadata, err)
	}
	return meta, nil
}

// ContentDigest computes the 64-bit BLAKE2b digest the old tooling stored
// alongside each document's text.
func ContentDigest(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// VerifyDigest reports whether a document's stored digest matches its text.
// A zero digest is treated as "not recorded" and passes.
func VerifyDigest(doc *Document) bool {
	if doc.Digest == 0 {
		return true
	}
	return doc.Digest == ContentDigest(doc.Text)
}
