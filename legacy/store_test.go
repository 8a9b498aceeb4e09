package legacy

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestStoreAddAndGet(t *testing.T) {
	store, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	doc := &Document{
		Text:      "Hello, world!",
		Meta:      `{"type":"journal"}`,
		CreatedAt: "2025-09-01T10:00:00Z",
	}

	if err := store.Add(ctx, doc); err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}

	if doc.Id == 0 {
		t.Fatal("Expected non-zero id")
	}
	if doc.Digest != ContentDigest("Hello, world!") {
		t.Fatal("Expected digest to be filled in on insert")
	}

	retrieved, err := store.Get(ctx, doc.Id)
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}
	if retrieved.Text != "Hello, world!" {
		t.Fatalf("Expected 'Hello, world!', got '%s'", retrieved.Text)
	}
	if retrieved.CreatedAt != "2025-09-01T10:00:00Z" {
		t.Fatalf("Unexpected created_at: %s", retrieved.CreatedAt)
	}
}

func TestStoreGetMissing(t *testing.T) {
	store, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	_, err = store.Get(context.Background(), 12345)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestStoreAddEmptyText(t *testing.T) {
	store, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	err = store.Add(context.Background(), &Document{Text: "   \n "})
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("Expected ErrEmptyDocument, got %v", err)
	}
}

func TestStoreForEachOrder(t *testing.T) {
	store, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	docs := []*Document{
		{Text: "first", CreatedAt: "2025-01-01T00:00:00Z"},
		{Text: "second", CreatedAt: "2025-01-02T00:00:00Z"},
		{Text: "third", CreatedAt: "2025-01-03T00:00:00Z"},
	}
	if err := store.Add(ctx, docs...); err != nil {
		t.Fatalf("Failed to add documents: %v", err)
	}

	var seen []uint64
	err = store.ForEach(ctx, func(doc *Document) error {
		seen = append(seen, doc.Id)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}

	if len(seen) != 3 {
		t.Fatalf("Expected 3 documents, got %d", len(seen))
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] <= seen[i-1] {
			t.Fatalf("Expected ascending id order, got %v", seen)
		}
	}
}

func TestStoreForEachCancellation(t *testing.T) {
	store, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Add(ctx, &Document{Text: "a"}, &Document{Text: "b"}); err != nil {
		t.Fatalf("Failed to add documents: %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()

	err = store.ForEach(canceled, func(doc *Document) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

func TestStoreCount(t *testing.T) {
	store, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("Expected empty store, got %d", count)
	}

	for _, text := range []string{"one", "two", "three", "four"} {
		if err := store.Add(ctx, &Document{Text: text}); err != nil {
			t.Fatalf("Failed to add document: %v", err)
		}
	}

	count, err = store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 4 {
		t.Fatalf("Expected 4 documents, got %d", count)
	}
}

func TestStoreReadOnly(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "legacy_db")

	// Populate a store on disk first.
	store, err := OpenStore(dir)
	if err != nil {
		t.Fatalf("Failed to open writable store: %v", err)
	}
	if err := store.Add(context.Background(), &Document{Text: "persisted"}); err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Failed to close store: %v", err)
	}

	// Reopen read-only.
	ro, err := OpenStore(dir, WithReadOnly())
	if err != nil {
		t.Fatalf("Failed to open read-only store: %v", err)
	}
	defer ro.Close()

	if err := ro.Add(context.Background(), &Document{Text: "rejected"}); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("Expected ErrReadOnly, got %v", err)
	}

	count, err := ro.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 document, got %d", count)
	}
}

func TestStoreReadOnlyMissingDir(t *testing.T) {
	_, err := OpenStore(filepath.Join(t.TempDir(), "nope"), WithReadOnly())
	if err == nil {
		t.Fatal("Expected error opening missing store read-only")
	}
}

func TestStoreInvalidOptionCombination(t *testing.T) {
	_, err := OpenStore("", WithInMemory(), WithReadOnly())
	if !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("Expected ErrInvalidOptions, got %v", err)
	}
}
