package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Store reads and writes per-date archive files under a single directory.
// Files are named <date>.json and kept human-inspectable: pretty-printed
// JSON, safe to hand-edit between runs.
type Store struct {
	dir string
}

// NewStore creates the archive directory if needed and returns a store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the file path for a date's archive.
func (s *Store) Path(date string) string {
	return filepath.Join(s.dir, date+".json")
}

// Load reads the archive for a date. Returns (nil, nil) when no archive
// exists, and a *CorruptError when the file exists but cannot be parsed.
func (s *Store) Load(date string) (*DayArchive, error) {
	if !isValidDate(date) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	data, err := os.ReadFile(s.Path(date))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &CorruptError{Date: date, Err: err}
	}

	var day DayArchive
	if err := json.Unmarshal(data, &day); err != nil {
		return nil, &CorruptError{Date: date, Err: err}
	}
	if day.Date == "" {
		day.Date = date
	}
	return &day, nil
}

// Save writes a date's archive atomically via a temp file and rename.
func (s *Store) Save(day *DayArchive) error {
	if !isValidDate(day.Date) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, day.Date)
	}

	data, err := json.MarshalIndent(day, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode archive for %s: %w", day.Date, err)
	}

	tmp, err := os.CreateTemp(s.dir, day.Date+".json.tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.Path(day.Date)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Dates lists the dates with an archive file, ascending.
func (s *Store) Dates() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var dates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		date, ok := strings.CutSuffix(name, ".json")
		if !ok || !isValidDate(date) {
			continue
		}
		dates = append(dates, date)
	}
	slices.Sort(dates)
	return dates, nil
}

func isValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
