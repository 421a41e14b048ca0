package music

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalizeTimestamp_Nil(t *testing.T) {
	if _, ok := NormalizeTimestamp(nil); ok {
		t.Error("expected nil to normalize to unknown")
	}
}

func TestNormalizeTimestamp_Time(t *testing.T) {
	in := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("MSK", 3*3600))
	out, ok := NormalizeTimestamp(in)
	if !ok {
		t.Fatal("expected time.Time to pass through")
	}
	if out.Location() != time.UTC {
		t.Errorf("expected UTC, got %v", out.Location())
	}
	if !out.Equal(in) {
		t.Errorf("instant changed: %v vs %v", out, in)
	}
}

func TestNormalizeTimestamp_EpochSeconds(t *testing.T) {
	out, ok := NormalizeTimestamp(float64(1700000000))
	if !ok {
		t.Fatal("expected epoch to normalize")
	}
	if out.Unix() != 1700000000 {
		t.Errorf("expected 1700000000, got %d", out.Unix())
	}
}

func TestNormalizeTimestamp_ISOWithZ(t *testing.T) {
	out, ok := NormalizeTimestamp("2024-03-01T12:00:00Z")
	if !ok {
		t.Fatal("expected Z-suffixed ISO string to parse")
	}
	want := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if !out.Equal(want) {
		t.Errorf("expected %v, got %v", want, out)
	}
}

func TestNormalizeTimestamp_ISOWithOffset(t *testing.T) {
	out, ok := NormalizeTimestamp("2024-03-01T15:00:00+03:00")
	if !ok {
		t.Fatal("expected offset ISO string to parse")
	}
	want := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if !out.Equal(want) {
		t.Errorf("expected %v, got %v", want, out)
	}
}

func TestNormalizeTimestamp_NaiveString(t *testing.T) {
	out, ok := NormalizeTimestamp("2024-03-01T12:00:00")
	if !ok {
		t.Fatal("expected offset-less string to be read as UTC")
	}
	want := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if !out.Equal(want) {
		t.Errorf("expected %v, got %v", want, out)
	}
}

// NormalizeTimestamp is a total function: junk input degrades to unknown,
// it never panics.
func TestNormalizeTimestamp_Junk(t *testing.T) {
	inputs := []any{
		"not a date", "", "2024-13-45", "++--", struct{}{}, []int{1, 2},
		map[string]string{"a": "b"}, true, 'x',
	}
	for _, in := range inputs {
		if _, ok := NormalizeTimestamp(in); ok {
			t.Errorf("expected %v (%T) to normalize to unknown", in, in)
		}
	}
}

func TestLikedAt_ChecksBothFields(t *testing.T) {
	ref := TrackRef{Added: json.RawMessage(`"2024-03-01T12:00:00Z"`)}
	ts, ok := ref.LikedAt()
	if !ok {
		t.Fatal("expected the added field to be used")
	}
	if ts.Year() != 2024 {
		t.Errorf("unexpected instant %v", ts)
	}

	ref = TrackRef{}
	if _, ok := ref.LikedAt(); ok {
		t.Error("expected unknown when no fields are set")
	}
}

func TestPlayedAt_FieldPreferenceOrder(t *testing.T) {
	ref := TrackRef{
		Timestamp: json.RawMessage(`"2024-03-01T12:00:00Z"`),
		PlayTS:    json.RawMessage(`1600000000`),
	}
	ts, ok := ref.PlayedAt()
	if !ok || ts.Year() != 2024 {
		t.Errorf("expected timestamp field to win, got %v ok=%v", ts, ok)
	}

	ref = TrackRef{Played: json.RawMessage(`1700000000`)}
	ts, ok = ref.PlayedAt()
	if !ok || ts.Unix() != 1700000000 {
		t.Errorf("expected played epoch, got %v ok=%v", ts, ok)
	}
}
