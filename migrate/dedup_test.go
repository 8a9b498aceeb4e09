package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedup_KeepsFirstOccurrence(t *testing.T) {
	docs := []Document{
		{LegacyId: 1, Text: "the same text", DisplayType: "journal"},
		{LegacyId: 2, Text: "different text", DisplayType: "journal"},
		{LegacyId: 3, Text: "the same text", DisplayType: "note"},
	}

	result := Dedup(docs)

	require.Len(t, result.Documents, 2)
	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, uint64(1), result.Documents[0].LegacyId, "first occurrence wins")
	assert.Equal(t, "journal", result.Documents[0].DisplayType,
		"the duplicate's type tag must not overwrite the survivor's")
	assert.Equal(t, uint64(2), result.Documents[1].LegacyId)
}

func TestDedup_ExactMatchOnly(t *testing.T) {
	docs := []Document{
		{LegacyId: 1, Text: "hello world"},
		{LegacyId: 2, Text: "hello world!"},
		{LegacyId: 3, Text: "Hello world"},
	}

	result := Dedup(docs)

	assert.Len(t, result.Documents, 3, "near-duplicates are distinct records")
	assert.Equal(t, 0, result.Duplicates)
}

func TestDedup_PreservesOrder(t *testing.T) {
	docs := []Document{
		{LegacyId: 5, Text: "e"},
		{LegacyId: 3, Text: "c"},
		{LegacyId: 4, Text: "d"},
		{LegacyId: 3, Text: "c"},
	}

	result := Dedup(docs)

	require.Len(t, result.Documents, 3)
	ids := []uint64{result.Documents[0].LegacyId, result.Documents[1].LegacyId, result.Documents[2].LegacyId}
	assert.Equal(t, []uint64{5, 3, 4}, ids, "scan order must be preserved")
	assert.Equal(t, 1, result.Duplicates)
}

func TestDedup_Empty(t *testing.T) {
	result := Dedup(nil)

	assert.Empty(t, result.Documents)
	assert.Equal(t, 0, result.Duplicates)
}
