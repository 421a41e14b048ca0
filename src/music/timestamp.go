package music

import (
	"encoding/json"
	"strings"
	"time"
)

// Layouts seen in archived likes/history payloads. RFC3339 covers the
// offset-bearing forms; the bare layouts are offset-less and read as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeTimestamp converts any of the timestamp representations the
// upstream uses (time.Time, epoch seconds as a number, ISO-8601 string) to a
// UTC instant. It never fails loudly: unusable input reports ok=false, which
// downstream means "timestamp unknown".
func NormalizeTimestamp(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val.UTC(), true
	case float64:
		return time.Unix(int64(val), 0).UTC(), true
	case int:
		return time.Unix(int64(val), 0).UTC(), true
	case int64:
		return time.Unix(val, 0).UTC(), true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return time.Unix(int64(f), 0).UTC(), true
	case string:
		return parseTimestampString(val)
	default:
		return time.Time{}, false
	}
}

func parseTimestampString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	// A trailing literal Z is the common spelling of +00:00.
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// rawTimestamp decodes a raw JSON timestamp value and normalizes it.
func rawTimestamp(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 {
		return time.Time{}, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return time.Time{}, false
	}
	return NormalizeTimestamp(v)
}

// LikedAt returns the instant the reference was liked, checking the two
// field spellings the likes payload has used over time.
func (r *TrackRef) LikedAt() (time.Time, bool) {
	if t, ok := rawTimestamp(r.Timestamp); ok {
		return t, true
	}
	return rawTimestamp(r.Added)
}

// PlayedAt returns the playback instant of a history entry, checking the
// candidate fields in preference order.
func (r *TrackRef) PlayedAt() (time.Time, bool) {
	if t, ok := rawTimestamp(r.Timestamp); ok {
		return t, true
	}
	if t, ok := rawTimestamp(r.PlayTS); ok {
		return t, true
	}
	return rawTimestamp(r.Played)
}
