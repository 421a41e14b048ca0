package music

import (
	"encoding/json"
	"testing"
)

func TestTrackRefKey_BothIDs(t *testing.T) {
	ref := TrackRef{ID: "123", AlbumID: "456"}
	if got := ref.Key(); got != "123:456" {
		t.Errorf("expected 123:456, got %s", got)
	}
}

func TestTrackRefKey_AlternateSpellings(t *testing.T) {
	ref := TrackRef{TrackID: "123", AlbumIDAlt: "456"}
	if got := ref.Key(); got != "123:456" {
		t.Errorf("expected 123:456, got %s", got)
	}
}

func TestTrackRefKey_IDOnly(t *testing.T) {
	ref := TrackRef{ID: "123"}
	if got := ref.Key(); got != "123" {
		t.Errorf("expected 123, got %s", got)
	}
}

func TestTrackRefKey_NoIDs(t *testing.T) {
	ref := TrackRef{}
	if got := ref.Key(); got != "" {
		t.Errorf("expected empty key, got %s", got)
	}
}

func TestTrackRefKey_EmbeddedTrackFallback(t *testing.T) {
	ref := TrackRef{Track: &Track{ID: "77", Albums: []Album{{ID: "88"}}}}
	if got := ref.Key(); got != "77:88" {
		t.Errorf("expected 77:88, got %s", got)
	}
}

func TestRefFromKey_RoundTrips(t *testing.T) {
	for _, key := range []string{"123:456", "123"} {
		ref := RefFromKey(key)
		if got := ref.Key(); got != key {
			t.Errorf("round trip for %s gave %s", key, got)
		}
	}
}

func TestIDUnmarshal_AcceptsNumbersAndStrings(t *testing.T) {
	var ref TrackRef
	if err := json.Unmarshal([]byte(`{"id": 123, "albumId": "456"}`), &ref); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if ref.Key() != "123:456" {
		t.Errorf("expected 123:456, got %s", ref.Key())
	}
}

func TestTrackResolveGenre_PrefersOwnGenre(t *testing.T) {
	track := &Track{Genre: "rock", Albums: []Album{{Genre: "pop"}}}
	if got := track.ResolveGenre(); got != "rock" {
		t.Errorf("expected rock, got %s", got)
	}
}

func TestTrackResolveGenre_FallsBackToFirstAlbum(t *testing.T) {
	track := &Track{Albums: []Album{{}, {Genre: "jazz"}}}
	if got := track.ResolveGenre(); got != "jazz" {
		t.Errorf("expected jazz, got %s", got)
	}
}

func TestTrackDurationMillis(t *testing.T) {
	track := &Track{DurationMs: 215000}
	if got := track.DurationMillis(); got != 215000 {
		t.Errorf("expected 215000, got %d", got)
	}

	track = &Track{DurationSec: 215}
	if got := track.DurationMillis(); got != 215000 {
		t.Errorf("expected seconds fallback 215000, got %d", got)
	}

	track = &Track{}
	if got := track.DurationMillis(); got != 0 {
		t.Errorf("expected 0 for unknown duration, got %d", got)
	}
}

func TestTrackArtistNames_SkipsUnnamed(t *testing.T) {
	track := &Track{Artists: []Artist{{Name: "X"}, {}, {Name: "Y"}}}
	names := track.ArtistNames()
	if len(names) != 2 || names[0] != "X" || names[1] != "Y" {
		t.Errorf("unexpected names: %v", names)
	}
}
