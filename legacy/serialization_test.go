package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
	}{
		{
			name: "minimal document",
			doc: &Document{
				Id:        1,
				Text:      "Hello",
				CreatedAt: "2025-09-01T10:00:00Z",
			},
		},
		{
			name: "document with metadata",
			doc: &Document{
				Id:        42,
				Text:      "The sky is blue.",
				Meta:      `{"type":"journal","subtype":"arc_agi_attempt"}`,
				CreatedAt: "1696118400",
				Digest:    ContentDigest("The sky is blue."),
			},
		},
		{
			name: "max id",
			doc: &Document{
				Id:        18446744073709551615, // max uint64
				Text:      "edge",
				CreatedAt: "2025-01-01 08:30:00",
			},
		},
		{
			name: "multibyte text",
			doc: &Document{
				Id:        7,
				Text:      "naïve café — 日本語",
				Meta:      `{"type":"essay"}`,
				CreatedAt: "2024-06-15T12:00:00.000Z",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalDocument(tt.doc)
			require.NotEmpty(t, data)
			assert.Len(t, data, DocumentMUS.Size(*tt.doc))

			decoded, err := UnmarshalDocument(data)
			require.NoError(t, err)
			assert.Equal(t, tt.doc, decoded)
		})
	}
}

func TestUnmarshalDocument_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated after id", MarshalDocument(&Document{Id: 9, Text: "abc", CreatedAt: "x"})[:1]},
		{"garbage length", []byte{0x01, 0xff, 0xff, 0xff, 0xff, 0x7f}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalDocument(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestDocumentMUSSkip(t *testing.T) {
	doc := Document{Id: 3, Text: "skip me", Meta: `{"type":"note"}`, CreatedAt: "2025-02-02 02:02:02", Digest: 99}
	data := MarshalDocument(&doc)

	n, err := DocumentMUS.Skip(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
}

func TestContentDigest(t *testing.T) {
	d1 := ContentDigest("The sky is blue.")
	d2 := ContentDigest("The sky is blue.")
	d3 := ContentDigest("The sky is grey.")

	assert.Equal(t, d1, d2, "identical text must produce identical digests")
	assert.NotEqual(t, d1, d3)
	assert.NotZero(t, d1)
}

func TestVerifyDigest(t *testing.T) {
	doc := &Document{Text: "verify me", Digest: ContentDigest("verify me")}
	assert.True(t, VerifyDigest(doc))

	doc.Digest++
	assert.False(t, VerifyDigest(doc))

	// Zero digest means "not recorded" and passes.
	doc.Digest = 0
	assert.True(t, VerifyDigest(doc))
}

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantType    string
		wantSubtype string
		wantErr     bool
	}{
		{"type and subtype", `{"type":"journal","subtype":"arc_agi_attempt"}`, "journal", "arc_agi_attempt", false},
		{"type only", `{"type":"essay"}`, "essay", "", false},
		{"unknown keys ignored", `{"type":"note","revision":3,"author":"old-tool"}`, "note", "", false},
		{"empty blob", "", "", "", false},
		{"whitespace blob", "  \n ", "", "", false},
		{"malformed json", `{"type":`, "", "", true},
		{"not an object", `[1,2,3]`, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := ParseMetadata(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedMetadata)
				assert.Equal(t, Metadata{}, meta)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, meta.Type)
			assert.Equal(t, tt.wantSubtype, meta.Subtype)
		})
	}
}
