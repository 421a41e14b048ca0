package stats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"yamubot/src/music"
)

func newTestAggregator(now time.Time) *Aggregator {
	enricher := NewEnricher()
	agg := NewAggregator(NewHistoryCollector(enricher), NewLibraryCollector(enricher))
	agg.now = func() time.Time { return now }
	return agg
}

func TestLikedTracksCount(t *testing.T) {
	client := &mockClient{likedTracksFunc: func() ([]music.TrackRef, error) {
		return []music.TrackRef{music.RefFromKey("1:10"), music.RefFromKey("2:20")}, nil
	}}
	agg := newTestAggregator(time.Now())

	count, err := agg.LikedTracksCount(context.Background(), client)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2, got %d", count)
	}
	if len(client.batchCalls) != 0 {
		t.Errorf("counting likes must not enrich, got %d batch calls", len(client.batchCalls))
	}
}

func TestRecentLikesCountExcludesUnknownTimestamps(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	client := &mockClient{likedTracksFunc: func() ([]music.TrackRef, error) {
		return []music.TrackRef{
			refWithTimestamp("1:10", "2026-08-20T00:00:00Z"), // inside the window
			refWithTimestamp("2:20", "2026-06-01T00:00:00Z"), // stale
			refWithTimestamp("3:30", ""),                     // unknown, not counted
		}, nil
	}}
	agg := newTestAggregator(now)

	count, err := agg.RecentLikesCount(context.Background(), client, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 recent like, got %d", count)
	}
}

func TestTopArtistsRanksByPlayCount(t *testing.T) {
	client := &mockClient{
		recentTracksFunc: func() (json.RawMessage, error) {
			return json.RawMessage(`{"tracks":[
				{"track":{"id":"1","artists":[{"name":"Kino"}]}},
				{"track":{"id":"2","artists":[{"name":"Kino"}]}},
				{"track":{"id":"3","artists":[{"name":"Molchat Doma"},{"name":"Kino"}]}},
				{"track":{"id":"4","artists":[{"name":"Molchat Doma"}]}},
				{"track":{"id":"5","artists":[{"name":"Shortparis"}]}}
			]}`), nil
		},
	}
	agg := newTestAggregator(time.Now())

	top, err := agg.TopArtists(context.Background(), client, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected top 2, got %d entries", len(top))
	}
	if top[0].Name != "Kino" || top[0].Count != 3 {
		t.Errorf("unexpected first entry %+v", top[0])
	}
	if top[1].Name != "Molchat Doma" || top[1].Count != 2 {
		t.Errorf("unexpected second entry %+v", top[1])
	}
}

func TestTopArtistsFromFallbackHistorySource(t *testing.T) {
	client := &mockClient{
		recentTracksFunc: func() (json.RawMessage, error) { return nil, errors.New("down") },
		radioHistoryFunc: func() (json.RawMessage, error) {
			return json.RawMessage(`[
				{"track":{"id":"1","artists":[{"name":"X"}]}},
				{"track":{"id":"2","artists":[{"name":"X"}]}},
				{"track":{"id":"3","artists":[{"name":"Y"}]}}
			]`), nil
		},
	}
	agg := newTestAggregator(time.Now())

	top, err := agg.TopArtists(context.Background(), client, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []NameCount{{Name: "X", Count: 2}, {Name: "Y", Count: 1}}
	if len(top) != 2 || top[0] != want[0] || top[1] != want[1] {
		t.Errorf("unexpected ranking %+v", top)
	}
}

func TestTopArtistsFallsBackToLikesWithoutHistory(t *testing.T) {
	client := &mockClient{
		recentTracksFunc: func() (json.RawMessage, error) { return nil, errors.New("down") },
		radioHistoryFunc: func() (json.RawMessage, error) { return nil, errors.New("down") },
		likedTracksFunc: func() ([]music.TrackRef, error) {
			return []music.TrackRef{music.RefFromKey("1:10"), music.RefFromKey("2:20")}, nil
		},
		tracksByIDsFunc: func(keys []string) ([]*music.Track, error) {
			return []*music.Track{
				trackFromKey("1:10", "Aquarium", "rock"),
				trackFromKey("2:20", "Aquarium", "rock"),
			}, nil
		},
	}
	agg := newTestAggregator(time.Now())

	top, err := agg.TopArtists(context.Background(), client, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 1 || top[0].Name != "Aquarium" || top[0].Count != 2 {
		t.Errorf("unexpected fallback ranking %+v", top)
	}
}

func TestTopGenresFromHistoryKeepsUnknownDropsStale(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	client := &mockClient{
		recentTracksFunc: func() (json.RawMessage, error) {
			return json.RawMessage(`{"tracks":[
				{"track":{"id":"1","genre":"rock"},"timestamp":"2026-08-15T00:00:00Z"},
				{"track":{"id":"2","genre":"jazz"}},
				{"track":{"id":"3","genre":"pop"},"timestamp":"2025-01-01T00:00:00Z"}
			]}`), nil
		},
	}
	agg := newTestAggregator(now)

	top, err := agg.TopGenresFromHistory(context.Background(), client, 10, 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := map[string]int{}
	for _, entry := range top {
		got[entry.Name] = entry.Count
	}
	if got["rock"] != 1 || got["jazz"] != 1 {
		t.Errorf("expected rock and jazz kept, got %v", got)
	}
	if _, stale := got["pop"]; stale {
		t.Errorf("stale play must be excluded, got %v", got)
	}
}

func TestTopGenresFromLibraryCombinesLikesAndPlaylists(t *testing.T) {
	client := &mockClient{
		accountUIDFunc: func() (int64, error) { return 42, nil },
		likedTracksFunc: func() ([]music.TrackRef, error) {
			return []music.TrackRef{music.RefFromKey("1:10")}, nil
		},
		playlistsFunc: func(uid int64) ([]music.Playlist, error) {
			return []music.Playlist{{
				Kind:   1001,
				Title:  "Driving",
				Tracks: []music.TrackRef{{Track: trackFromKey("2:20", "B", "metal")}},
			}}, nil
		},
		tracksByIDsFunc: func(keys []string) ([]*music.Track, error) {
			return []*music.Track{trackFromKey("1:10", "A", "metal")}, nil
		},
	}
	agg := newTestAggregator(time.Now())

	top, err := agg.TopGenresFromLibrary(context.Background(), client, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 1 || top[0].Name != "metal" || top[0].Count != 2 {
		t.Errorf("expected metal counted across likes and playlists, got %+v", top)
	}
}

func TestTopGenresFromLibraryAlbumFallback(t *testing.T) {
	client := &mockClient{
		likedTracksFunc: func() ([]music.TrackRef, error) {
			return []music.TrackRef{music.RefFromKey("1:10")}, nil
		},
		tracksByIDsFunc: func(keys []string) ([]*music.Track, error) {
			return []*music.Track{{
				ID:     "1",
				Albums: []music.Album{{ID: "10", Genre: "folk"}},
			}}, nil
		},
	}
	agg := newTestAggregator(time.Now())

	top, err := agg.TopGenresFromLibrary(context.Background(), client, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 1 || top[0].Name != "folk" {
		t.Errorf("expected album genre fallback, got %+v", top)
	}
}

func TestListeningMinutesWindows(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	client := &mockClient{
		recentTracksFunc: func() (json.RawMessage, error) {
			return json.RawMessage(`{"tracks":[
				{"track":{"id":"1","durationMs":180000},"timestamp":"2026-08-30T00:00:00Z"},
				{"track":{"id":"2","duration":240},"timestamp":"2026-08-10T00:00:00Z"},
				{"track":{"id":"3","durationMs":600000},"timestamp":"2026-01-01T00:00:00Z"},
				{"track":{"id":"4","durationMs":60000}}
			]}`), nil
		},
	}
	agg := newTestAggregator(now)

	week, err := agg.ListeningMinutes(context.Background(), client, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Track 1 (3 min) plus the unknown-timestamp track 4 (1 min).
	if week != 4 {
		t.Errorf("expected 4 minutes this week, got %d", week)
	}

	month, err := agg.ListeningMinutes(context.Background(), client, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Adds track 2, whose duration only came in seconds.
	if month != 8 {
		t.Errorf("expected 8 minutes this month, got %d", month)
	}
}

func TestCounterTiesRankByFirstEncounter(t *testing.T) {
	c := newCounter()
	for _, name := range []string{"b", "a", "b", "a", "c"} {
		c.Add(name)
	}
	top := c.Top(3)
	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	if top[0].Name != "b" || top[1].Name != "a" || top[2].Name != "c" {
		t.Errorf("unexpected tie order: %+v", top)
	}
}
