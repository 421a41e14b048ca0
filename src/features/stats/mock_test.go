package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"yamubot/src/music"
)

// mockClient implements the parts of music.Client the statistics engine
// touches. Unset calls panic through the embedded nil interface, which is
// exactly what we want: a test only wires what its code path may reach.
type mockClient struct {
	music.Client

	accountUIDFunc   func() (int64, error)
	likedTracksFunc  func() ([]music.TrackRef, error)
	playlistsFunc    func(uid int64) ([]music.Playlist, error)
	recentTracksFunc func() (json.RawMessage, error)
	radioHistoryFunc func() (json.RawMessage, error)
	tracksByIDsFunc  func(keys []string) ([]*music.Track, error)

	batchCalls [][]string
}

func (m *mockClient) AccountUID(ctx context.Context) (int64, error) {
	if m.accountUIDFunc != nil {
		return m.accountUIDFunc()
	}
	return 0, errors.New("no account")
}

func (m *mockClient) LikedTracks(ctx context.Context) ([]music.TrackRef, error) {
	return m.likedTracksFunc()
}

func (m *mockClient) Playlists(ctx context.Context, uid int64) ([]music.Playlist, error) {
	if m.playlistsFunc != nil {
		return m.playlistsFunc(uid)
	}
	return nil, errors.New("no playlists")
}

func (m *mockClient) RecentTracks(ctx context.Context) (json.RawMessage, error) {
	if m.recentTracksFunc != nil {
		return m.recentTracksFunc()
	}
	return nil, errors.New("recent tracks unavailable")
}

func (m *mockClient) RadioHistory(ctx context.Context) (json.RawMessage, error) {
	if m.radioHistoryFunc != nil {
		return m.radioHistoryFunc()
	}
	return nil, errors.New("radio history unavailable")
}

func (m *mockClient) TracksByIDs(ctx context.Context, keys []string) ([]*music.Track, error) {
	m.batchCalls = append(m.batchCalls, keys)
	if m.tracksByIDsFunc != nil {
		return m.tracksByIDsFunc(keys)
	}
	return nil, errors.New("batch fetch unavailable")
}

// resolveByKey is the default batch behavior for tests: hand back a track
// per requested key, built from the key itself.
func resolveByKey(keys []string) ([]*music.Track, error) {
	tracks := make([]*music.Track, 0, len(keys))
	for _, key := range keys {
		tracks = append(tracks, trackFromKey(key, "artist-"+key, "rock"))
	}
	return tracks, nil
}

func trackFromKey(key, artist, genre string) *music.Track {
	ref := music.RefFromKey(key)
	track := &music.Track{
		ID:    ref.ID,
		Title: "Track " + key,
		Genre: genre,
	}
	if artist != "" {
		track.Artists = []music.Artist{{Name: artist}}
	}
	if ref.AlbumID != "" {
		track.Albums = []music.Album{{ID: ref.AlbumID}}
	}
	return track
}

func refWithTimestamp(key, timestamp string) music.TrackRef {
	ref := music.RefFromKey(key)
	if timestamp != "" {
		ref.Timestamp = json.RawMessage(fmt.Sprintf("%q", timestamp))
	}
	return ref
}
