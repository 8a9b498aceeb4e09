package migrate

import (
	"fmt"
	"io"
	"maps"
	"slices"
)

// Report accumulates the counters surfaced in the final migration summary.
// Deliberate skips (filtered, duplicate, already migrated) are counted
// separately from records that errored, so an operator can judge whether a
// re-run is needed.
type Report struct {
	TotalRead      int
	Filtered       int // dropped by the type filter or for an empty body
	Duplicates     int
	FallbackDated  int
	ChunkedDocs    int
	TypeCounts     map[string]int
	DateCounts     map[string]int
	Indexed        int
	AlreadyPresent int
	Errors         int
	CorpusSize     int
	Vectors        int
	TextEntries    int
	DryRun         bool
}

// NewReport returns an empty report with initialized maps.
func NewReport() *Report {
	return &Report{
		TypeCounts: make(map[string]int),
		DateCounts: make(map[string]int),
	}
}

// Print writes the human-readable final summary.
func (r *Report) Print(w io.Writer) {
	if r.DryRun {
		fmt.Fprintln(w, "Migration summary (dry run, nothing written):")
	} else {
		fmt.Fprintln(w, "Migration summary:")
	}

	fmt.Fprintf(w, "  documents read:     %d\n", r.TotalRead)
	fmt.Fprintf(w, "  skipped by filter:  %d\n", r.Filtered)
	fmt.Fprintf(w, "  duplicates dropped: %d\n", r.Duplicates)
	if r.FallbackDated > 0 {
		fmt.Fprintf(w, "  fallback-dated:     %d\n", r.FallbackDated)
	}
	fmt.Fprintf(w, "  documents chunked:  %d\n", r.ChunkedDocs)

	if len(r.TypeCounts) > 0 {
		fmt.Fprintln(w, "  by type:")
		for _, name := range slices.Sorted(maps.Keys(r.TypeCounts)) {
			fmt.Fprintf(w, "    %s: %d\n", name, r.TypeCounts[name])
		}
	}

	if len(r.DateCounts) > 0 {
		if r.DryRun {
			fmt.Fprintln(w, "  would index by date:")
		} else {
			fmt.Fprintln(w, "  indexed by date:")
		}
		for _, date := range slices.Sorted(maps.Keys(r.DateCounts)) {
			fmt.Fprintf(w, "    %s: %d\n", date, r.DateCounts[date])
		}
	}

	if r.DryRun {
		return
	}

	fmt.Fprintf(w, "  indexed:            %d (already present: %d)\n", r.Indexed, r.AlreadyPresent)
	fmt.Fprintf(w, "  errors:             %d\n", r.Errors)
	fmt.Fprintf(w, "  destination corpus: %d exchanges, %d vectors, %d text entries\n",
		r.CorpusSize, r.Vectors, r.TextEntries)
}
