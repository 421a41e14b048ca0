package music

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotAuthorized is returned by a ClientProvider when the user has no
// stored token.
var ErrNotAuthorized = errors.New("user is not authorized")

// SearchResult is the outcome of a track search.
type SearchResult struct {
	Tracks []*Track
	Total  int
}

// Client is the capability surface the bot requires from the Yandex Music
// API. Every call may fail with a generic upstream error or return
// empty/absent data; callers are expected to degrade, not retry.
type Client interface {
	// AccountUID resolves the uid of the account behind the token.
	AccountUID(ctx context.Context) (int64, error)

	// LikedTracks returns the liked-track references, newest first.
	LikedTracks(ctx context.Context) ([]TrackRef, error)
	// LikedArtists returns the liked artists.
	LikedArtists(ctx context.Context) ([]LikedArtist, error)
	// LikedAlbums returns the liked albums.
	LikedAlbums(ctx context.Context) ([]LikedAlbum, error)
	// LikeTrack adds a track (by canonical key) to the likes.
	LikeTrack(ctx context.Context, key string) error

	// Playlists returns the playlists owned by uid, with track references.
	Playlists(ctx context.Context, uid int64) ([]Playlist, error)
	// CreatePlaylist creates an empty playlist and returns it.
	CreatePlaylist(ctx context.Context, uid int64, title string) (*Playlist, error)
	// InsertTrack appends a track (by canonical key) to a playlist.
	InsertTrack(ctx context.Context, uid int64, kind int, key string) error

	// RecentTracks and RadioHistory are the two playback-history variants.
	// Their response shapes differ between accounts and API revisions, so
	// the raw payload is returned for the caller to unwrap.
	RecentTracks(ctx context.Context) (json.RawMessage, error)
	RadioHistory(ctx context.Context) (json.RawMessage, error)

	// TracksByIDs batch-fetches full track objects for canonical keys.
	TracksByIDs(ctx context.Context, keys []string) ([]*Track, error)

	// SearchTracks searches tracks by free-text query.
	SearchTracks(ctx context.Context, query string) (*SearchResult, error)

	// Lyrics returns the lyrics text for a track key, possibly in LRC form.
	Lyrics(ctx context.Context, key string) (string, error)
}

// ClientProvider resolves a ready-to-use Client for a bot user, or fails
// when the user has no token or the token no longer opens a session.
type ClientProvider interface {
	Client(ctx context.Context, userID int64) (Client, error)
	// Invalidate drops any cached client for the user.
	Invalidate(userID int64)
}

// TokenStore persists the per-user access tokens.
type TokenStore interface {
	SetToken(ctx context.Context, userID int64, token string) error
	GetToken(ctx context.Context, userID int64) (string, error)
	HasToken(ctx context.Context, userID int64) (bool, error)
	RemoveToken(ctx context.Context, userID int64) error
}
