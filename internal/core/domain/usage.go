package domain

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// Usage records the most recent access to a cache entry.
type Usage struct {
	Hostname  string
	Timestamp time.Time
}

// Entry is a listing record for one cache entry.
type Entry struct {
	ID        CacheKey
	Hostname  string
	Timestamp time.Time
}

// Status describes how the working environment relates to the cache.
type Status struct {
	Key        CacheKey
	Cached     bool
	Usage      *Usage
	EnvPresent bool
	InSync     bool
}

const (
	isoSeconds      = "2006-01-02T15:04:05-07:00"
	isoMicroseconds = "2006-01-02T15:04:05.000000-07:00"
)

// FormatTimestamp renders t the way Python's datetime.isoformat does for an aware datetime:
// microsecond precision, fraction omitted when zero, numeric UTC offset.
func FormatTimestamp(t time.Time) string {
	t = t.Truncate(time.Microsecond)
	if t.Nanosecond() == 0 {
		return t.Format(isoSeconds)
	}
	return t.Format(isoMicroseconds)
}

// ParseTimestamp parses an ISO-8601 timestamp as written into usage records.
// Timestamps without an offset are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
	}
	var firstErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// Encode serializes the usage record in the on-disk layout
// {"hostname": ..., "datetime": ...}.
func (u Usage) Encode() []byte {
	return encodeObject([]jsonField{
		{key: "hostname", value: u.Hostname},
		{key: "datetime", value: FormatTimestamp(u.Timestamp)},
	})
}

type usageRecord struct {
	Hostname *string `json:"hostname"`
	Datetime *string `json:"datetime"`
}

// ParseUsage decodes a usage record. Both keys are required.
func ParseUsage(data []byte) (Usage, error) {
	var rec usageRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return Usage{}, errors.Join(ErrUsageRecordInvalid, zerr.Wrap(err, "failed to decode usage record"))
	}
	if rec.Hostname == nil {
		return Usage{}, errors.Join(ErrUsageRecordInvalid, zerr.With(zerr.New("missing key"), "key", "hostname"))
	}
	if rec.Datetime == nil {
		return Usage{}, errors.Join(ErrUsageRecordInvalid, zerr.With(zerr.New("missing key"), "key", "datetime"))
	}

	ts, err := ParseTimestamp(*rec.Datetime)
	if err != nil {
		return Usage{}, errors.Join(ErrUsageRecordInvalid, zerr.With(zerr.Wrap(err, "failed to parse datetime"), "datetime", *rec.Datetime))
	}

	return Usage{Hostname: *rec.Hostname, Timestamp: ts}, nil
}

// SortEntries orders entries most recently used first.
// Entries with identical timestamps are ordered by ID so the result is deterministic.
func SortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
}
