package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormationalID(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		position int
		want     string
	}{
		{name: "zero padded", date: "2025-09-01", position: 1, want: "formational_2025-09-01_0001"},
		{name: "backfill range", date: "2025-09-01", position: 1000000, want: "formational_2025-09-01_1000000"},
		{name: "zero position", date: "2023-01-15", position: 0, want: "formational_2023-01-15_0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormationalID(tt.date, tt.position))
		})
	}
}

func TestFormationalChunkID(t *testing.T) {
	assert.Equal(t, "formational_2025-09-01_1000003_c00",
		FormationalChunkID("2025-09-01", 1000003, 0))
	assert.Equal(t, "formational_2025-09-01_1000003_c11",
		FormationalChunkID("2025-09-01", 1000003, 11))
}

func TestBackfillSeq(t *testing.T) {
	assert.Equal(t, int64(1000000), BackfillSeq(0))
	assert.Equal(t, int64(1000041), BackfillSeq(41))

	// Backfill ordering keys must sort after anything the regular day
	// indexer can produce.
	assert.Greater(t, int64(BackfillSeqBase), int64(RegularSeqLimit))
}

func TestIDDeterminism(t *testing.T) {
	a := FormationalChunkID("2025-09-01", 7, 2)
	b := FormationalChunkID("2025-09-01", 7, 2)
	assert.Equal(t, a, b)
}
