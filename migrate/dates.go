package migrate

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// epochMillisThreshold disambiguates epoch seconds from milliseconds:
// values at or above it are treated as milliseconds.
const epochMillisThreshold = 1_000_000_000_000

// timestampLayouts are tried in order for non-numeric timestamps. Layouts
// without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a raw timestamp in any of the accepted encodings
// and returns a UTC time: ISO-8601, SQL-style datetime, Unix epoch in
// seconds or milliseconds, or a bare date (normalized to noon so it stays
// inside its calendar day in every zone).
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrUnparseableTimestamp)
	}

	if isAllDigits(raw) {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableTimestamp, raw)
		}
		if n >= epochMillisThreshold {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}

	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return NoonUTC(t), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableTimestamp, raw)
}

// ExtractDate buckets a raw timestamp into a calendar date and a
// normalized RFC3339 UTC timestamp. Unparseable or absent values land on
// the fallback date at noon; the returned flag reports that compromise so
// callers can surface it. The fallback date must already be validated as
// YYYY-MM-DD.
func ExtractDate(raw, fallbackDate string) (date, timestamp string, usedFallback bool) {
	t, err := ParseTimestamp(raw)
	if err != nil {
		return fallbackDate, fallbackDate + "T12:00:00Z", true
	}
	return t.Format("2006-01-02"), t.Format(time.RFC3339), false
}

// NoonUTC returns the middle of t's calendar day in UTC.
func NoonUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
}

// DatedDocument pairs a document with its archive date and normalized
// timestamp.
type DatedDocument struct {
	Document
	Date      string
	Timestamp string
}

// GroupByDate buckets documents by calendar date, normalizing each
// record's timestamp on the way. Returns the buckets plus how many
// records landed on the fallback date.
func GroupByDate(docs []Document, fallbackDate string) (map[string][]DatedDocument, int) {
	groups := make(map[string][]DatedDocument)
	fallbacks := 0

	for _, doc := range docs {
		date, timestamp, usedFallback := ExtractDate(doc.CreatedAt, fallbackDate)
		if usedFallback {
			fallbacks++
		}
		groups[date] = append(groups[date], DatedDocument{
			Document:  doc,
			Date:      date,
			Timestamp: timestamp,
		})
	}

	return groups, fallbacks
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
