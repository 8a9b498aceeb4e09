package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/recollect/legacy"
)

// seedDoc is one legacy document waiting to be written.
type seedDoc struct {
	text      string
	meta      string
	createdAt string
}

// corpus covers everything the migration has to cope with: every timestamp
// encoding the old tooling ever produced, excluded types, low-weight puzzle
// variants, exact duplicates, a ruined timestamp, and one document long
// enough to be chunked.
var corpus = []seedDoc{
	{"Walked the river path before sunrise and watched the herons wake up one by one.", `{"type":"journal"}`, "2023-09-28T06:40:00Z"},
	{"The market had the first chestnuts of the season. Bought more than anyone needs.", `{"type":"journal"}`, "2023-09-28T11:15:00Z"},
	{"Finally fixed the squeaking stair. The trick was a single shim, not the whole tread.", `{"type":"journal"}`, "1695913200"},
	{"Rain all afternoon. Read two chapters and let the tea go cold twice.", `{"type":"journal"}`, "2023-09-28 19:30:00"},
	{"Check whether the library renews automatically or the card lapses in October.", `{"type":"note"}`, "2023-09-29T08:05:00Z"},
	{"Oven thermostat runs about fifteen degrees hot. Compensate or repair.", `{"type":"note"}`, "1695981600"},
	{"The neighbor's plum tree drops fruit over the fence. She says take all of it.", `{"type":"journal"}`, "2023-09-29T14:30:00Z"},
	{"Dreamt of a staircase that kept turning into a bookshelf whenever I looked down.", `{"type":"journal","subtype":"dream"}`, "2023-09-30 03:10:00"},
	{"Dreamt the house had an extra room that only existed on Thursdays.", `{"type":"journal","subtype":"dream"}`, "1696043400000"},
	{"A thought: most of what I call procrastination is just unscheduled thinking.", `{"type":"thought"}`, "2023-09-30T10:00:00"},
	{"A thought: the garden teaches patience faster than any book about patience.", `{"type":"thought"}`, "2023-09-30T17:45:00Z"},
	{"Dear M, the coast was colder than promised but the light made up for it.", `{"type":"letter"}`, "2023-09-30"},
	{"Started a sourdough starter again. Named it Herbert, same as the last three.", `{"type":"journal"}`, "2023-10-01T07:20:00Z"},
	{"The quick brown fox jumps over the lazy dog.", `{"type":"note"}`, "1696156800"},
	{"Swapped the summer tires early. The first frost always arrives mid-argument.", `{"type":"journal"}`, "2023-10-01 12:05:00"},
	{"Measured the bedroom for shelves. 212cm wall, 35cm depth works.", `{"type":"note"}`, "1696170300000"},
	{"The old clock chimed thirteen times and nobody in the house found it strange.", `{"type":"journal"}`, "2023-10-01T21:40:00Z"},
	{"Grid puzzle attempt: rotate the corner blocks, mirror the center row.", `{"type":"puzzle","subtype":"arc_agi"}`, "2023-10-02T09:00:00Z"},
	{"Grid puzzle attempt: the color mapping holds only when the shape count is odd.", `{"type":"puzzle","subtype":"arc_agi_v2"}`, "1696243200"},
	{"Grid puzzle attempt: symmetry along the diagonal, then flood fill from the corners.", `{"type":"puzzle","subtype":"arc_agi_v2"}`, "2023-10-02 10:55:00"},
	{"Soup recipe from the radio: leeks, white beans, far too much thyme, perfect.", `{"type":"note","subtype":"recipe"}`, "2023-10-02T13:30:00Z"},
	{"The hummingbird came back to the sage. Third day in a row, same hour.", `{"type":"journal"}`, "2023-10-02T18:10:00"},
	{"Walked the river path before sunrise and watched the herons wake up one by one.", `{"type":"journal"}`, "2023-10-02T20:00:00Z"},
	{"index rebuild pass 14 complete, 0 orphans, 3 compactions", `{"type":"system"}`, "2023-10-03T02:00:00Z"},
	{"checkpoint marker do not remove", `{"type":"system"}`, "1696300500"},
	{"asdf test test 123 delete later", `{"type":"scratch"}`, "2023-10-03T09:12:00Z"},
	{"Letter draft, unsent: some apologies improve with age and some just ferment.", `{"type":"letter"}`, "2023-10-03"},
	{"The persimmons are not ready. The persimmons are never ready.", `{"type":"journal"}`, "2023-10-03 15:45:00"},
	{fieldReport(), `{"type":"journal","subtype":"field_report"}`, "2023-10-03T16:20:00Z"},
	{"A thought: a shelf of unread books is an optimistic calendar.", `{"type":"thought"}`, "1696352700000"},
	{"Dreamt of teaching arithmetic to a patient crow. It carried the remainder.", `{"type":"journal","subtype":"dream"}`, "2023-10-04 04:20:00"},
	{"Borrowed the tall ladder. Gutters before the rain, not during, this year.", `{"type":"journal"}`, "2023-10-04T10:30:00Z"},
	{"The quick brown fox jumps over the lazy dog.", `{"type":"note"}`, "2023-10-04T11:00:00Z"},
	{"Phone the chimney sweep. The good one, not the one with the drone.", `{"type":"note"}`, "1696420800"},
	{"Soup again, deliberately. The pot knows the recipe better than I do now.", `{"type":"journal"}`, "2023-10-04T19:25:00"},
	{"Dear M, your map arrived folded into nine kinds of wrong. I framed it anyway.", `{"type":"letter"}`, "2023-10-04"},
	{"The first proper frost. The dahlias went from parade to surrender overnight.", `{"type":"journal"}`, "2023-10-05T07:50:00Z"},
	{"Seed catalog arrived. Ordered too much of everything except restraint.", `{"type":"journal"}`, "1696500300"},
	{"A thought: the difference between a ruin and a monument is mostly weeding.", `{"type":"thought"}`, "2023-10-05 13:15:00"},
	{"Backed up the photo archive to the second drive. The third drive is aspiration.", `{"type":"note"}`, "2023-10-05T16:40:00Z"},
	{"The cat has opinions about the new chair and has filed them in claw marks.", `{"type":"journal"}`, "2023-10-05T20:30:00"},
	{"Entry recovered from the damaged volume, date unreadable.", `{"type":"journal"}`, "not recorded"},
	{"Found a note in an old coat: buy lightbulbs, forgive T. Both still pending.", `{"type":"journal"}`, ""},
}

// fieldReport builds the one deliberately oversized document: a
// multi-paragraph survey long enough to cross the chunking threshold.
func fieldReport() string {
	sentences := []string{
		"The north meadow survey took most of the morning, and the notes from it run far longer than any reasonable entry should.",
		"Counted the fruit trees along the east boundary twice because the first count refused to match the planting record from spring.",
		"The stream has moved its inlet a full pace westward since August, and the bank on the far side is starting to undercut the willow.",
		"Soil samples from the four test squares went into labeled jars, though the labels will outlive my memory of the labeling scheme.",
	}

	paragraphs := make([]string, len(sentences))
	for i, s := range sentences {
		paragraphs[i] = strings.TrimSpace(strings.Repeat(s+" ", 12))
	}
	return strings.Join(paragraphs, "\n\n")
}

var (
	dbPath       = flag.String("db", "./legacy_db", "path to the legacy store directory")
	seedFileName = flag.String("src", "", "file of seed data, one document per line")
	workers      = flag.Int("workers", 4, "concurrent writer count")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// docsFromFile returns an iterator over documents read from a file, one per
// line, typed as journal entries with rotating timestamp encodings.
func docsFromFile(filename string) (iter.Seq[seedDoc], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(seedDoc) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		line := 0
		for scanner.Scan() {
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			doc := seedDoc{
				text:      text,
				meta:      `{"type":"journal"}`,
				createdAt: rotatingTimestamp(line),
			}
			line++
			if !yield(doc) {
				return
			}
		}
	}, nil
}

// rotatingTimestamp cycles through the encodings found in real stores so
// file-sourced corpora exercise the same parsing paths as the built-in one.
func rotatingTimestamp(i int) string {
	base := time.Date(2023, 10, 1, 9, 0, 0, 0, time.UTC).AddDate(0, 0, i/8)
	t := base.Add(time.Duration(i%8) * 17 * time.Minute)

	switch i % 5 {
	case 0:
		return t.Format(time.RFC3339)
	case 1:
		return strconv.FormatInt(t.Unix(), 10)
	case 2:
		return strconv.FormatInt(t.UnixMilli(), 10)
	case 3:
		return t.Format("2006-01-02 15:04:05")
	default:
		return t.Format("2006-01-02T15:04:05")
	}
}

// docsFromSlice returns an iterator over a slice of documents.
func docsFromSlice(docs []seedDoc) iter.Seq[seedDoc] {
	return func(yield func(seedDoc) bool) {
		for _, doc := range docs {
			if !yield(doc) {
				return
			}
		}
	}
}

// seedBatched writes documents through a worker pool in small batches.
func seedBatched(ctx context.Context, store *legacy.Store, source iter.Seq[seedDoc], batchSize, poolSize int) error {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	flush := func(batch []seedDoc) {
		docs := make([]*legacy.Document, len(batch))
		for i, d := range batch {
			docs[i] = &legacy.Document{Text: d.text, Meta: d.meta, CreatedAt: d.createdAt}
		}

		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if err := store.Add(ctx, docs...); err != nil {
				fail(err)
			}
		}); err != nil {
			wg.Done()
			fail(err)
		}
	}

	batch := make([]seedDoc, 0, batchSize)
	for doc := range source {
		batch = append(batch, doc)
		if len(batch) == batchSize {
			flush(batch)
			batch = make([]seedDoc, 0, batchSize)
		}
	}
	if len(batch) > 0 {
		flush(batch)
	}

	wg.Wait()
	return firstErr
}

func main() {
	store, err := legacy.OpenStore(*dbPath)
	if err != nil {
		panic(err)
	}
	defer store.Close()

	ctx := context.Background()

	// Determine source of seed data
	var source iter.Seq[seedDoc]
	if *seedFileName != "" {
		source, err = docsFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = docsFromSlice(corpus)
	}

	// Write in batches of 5
	if err := seedBatched(ctx, store, source, 5, *workers); err != nil {
		panic(err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Seeded %s with %d documents\n", *dbPath, count)
}
