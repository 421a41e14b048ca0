package yandex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"yamubot/src/features/metrics"
	"yamubot/src/music"
)

const (
	accountStatusPath   = "/account/status"
	likedTracksPath     = "/users/%d/likes/tracks"
	likedArtistsPath    = "/users/%d/likes/artists"
	likedAlbumsPath     = "/users/%d/likes/albums"
	likeTracksAddPath   = "/users/%d/likes/tracks/add-multiple"
	playlistsListPath   = "/users/%d/playlists/list"
	playlistPath        = "/users/%d/playlists/%d"
	playlistCreatePath  = "/users/%d/playlists/create"
	playlistInsertPath  = "/users/%d/playlists/%d/change-relative"
	recentTracksPath    = "/users/%d/recent-tracks"
	radioHistoryPath    = "/rotor/history"
	tracksPath          = "/tracks"
	trackSupplementPath = "/tracks/%s/supplement"
	searchPath          = "/search"
)

// Client talks to the Yandex Music API with a user's OAuth token. It
// implements music.Client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string

	mu  sync.Mutex
	uid int64 // cached account uid, 0 until resolved
}

// NewClient creates a client for one token. No request is made until the
// first call; use AccountUID to validate the session.
func NewClient(httpClient *http.Client, baseURL, token string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

type apiError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *apiError       `json:"error"`
}

// do performs one API request and returns the raw "result" payload.
func (c *Client) do(ctx context.Context, operation, method, path string, query, form url.Values) (json.RawMessage, error) {
	raw, err := c.request(ctx, method, path, query, form)
	metrics.ObserveUpstream(operation, err)
	return raw, err
}

func (c *Client) request(ctx context.Context, method, path string, query, form url.Values) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if len(form) > 0 {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	if env.Error != nil {
		return nil, fmt.Errorf("api error from %s: %s: %s", path, env.Error.Name, env.Error.Message)
	}
	return env.Result, nil
}

// AccountUID resolves and caches the uid of the account behind the token.
func (c *Client) AccountUID(ctx context.Context) (int64, error) {
	c.mu.Lock()
	if c.uid != 0 {
		uid := c.uid
		c.mu.Unlock()
		return uid, nil
	}
	c.mu.Unlock()

	raw, err := c.do(ctx, "account_status", http.MethodGet, accountStatusPath, nil, nil)
	if err != nil {
		return 0, err
	}
	var status struct {
		Account struct {
			UID int64 `json:"uid"`
		} `json:"account"`
	}
	if err := json.Unmarshal(raw, &status); err != nil {
		return 0, fmt.Errorf("failed to decode account status: %w", err)
	}
	if status.Account.UID == 0 {
		return 0, fmt.Errorf("account status carries no uid")
	}

	c.mu.Lock()
	c.uid = status.Account.UID
	c.mu.Unlock()
	return status.Account.UID, nil
}

// LikedTracks returns the liked-track references of the account.
func (c *Client) LikedTracks(ctx context.Context) ([]music.TrackRef, error) {
	uid, err := c.AccountUID(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := c.do(ctx, "likes_tracks", http.MethodGet, fmt.Sprintf(likedTracksPath, uid), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeTrackRefs(raw)
}

// LikedArtists returns the liked artists of the account.
func (c *Client) LikedArtists(ctx context.Context) ([]music.LikedArtist, error) {
	uid, err := c.AccountUID(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := c.do(ctx, "likes_artists", http.MethodGet, fmt.Sprintf(likedArtistsPath, uid), nil, nil)
	if err != nil {
		return nil, err
	}
	var artists []music.LikedArtist
	if err := json.Unmarshal(raw, &artists); err != nil {
		return nil, fmt.Errorf("failed to decode liked artists: %w", err)
	}
	return artists, nil
}

// LikedAlbums returns the liked albums of the account.
func (c *Client) LikedAlbums(ctx context.Context) ([]music.LikedAlbum, error) {
	uid, err := c.AccountUID(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := c.do(ctx, "likes_albums", http.MethodGet, fmt.Sprintf(likedAlbumsPath, uid), nil, nil)
	if err != nil {
		return nil, err
	}
	var albums []music.LikedAlbum
	if err := json.Unmarshal(raw, &albums); err != nil {
		return nil, fmt.Errorf("failed to decode liked albums: %w", err)
	}
	return albums, nil
}

// LikeTrack adds a track to the account's likes.
func (c *Client) LikeTrack(ctx context.Context, key string) error {
	uid, err := c.AccountUID(ctx)
	if err != nil {
		return err
	}
	form := url.Values{"track-ids": {key}}
	_, err = c.do(ctx, "likes_tracks_add", http.MethodPost, fmt.Sprintf(likeTracksAddPath, uid), nil, form)
	return err
}

// Playlists returns the playlists owned by uid, including track references.
func (c *Client) Playlists(ctx context.Context, uid int64) ([]music.Playlist, error) {
	raw, err := c.do(ctx, "playlists_list", http.MethodGet, fmt.Sprintf(playlistsListPath, uid), nil, nil)
	if err != nil {
		return nil, err
	}
	var playlists []music.Playlist
	if err := json.Unmarshal(raw, &playlists); err != nil {
		return nil, fmt.Errorf("failed to decode playlists: %w", err)
	}
	// The list endpoint omits tracks; fetch each playlist's references.
	for i := range playlists {
		full, err := c.playlist(ctx, uid, playlists[i].Kind)
		if err != nil {
			continue // a single unreadable playlist should not hide the rest
		}
		playlists[i].Tracks = full.Tracks
	}
	return playlists, nil
}

func (c *Client) playlist(ctx context.Context, uid int64, kind int) (*music.Playlist, error) {
	raw, err := c.do(ctx, "playlist", http.MethodGet, fmt.Sprintf(playlistPath, uid, kind), nil, nil)
	if err != nil {
		return nil, err
	}
	var playlist music.Playlist
	if err := json.Unmarshal(raw, &playlist); err != nil {
		return nil, fmt.Errorf("failed to decode playlist %d: %w", kind, err)
	}
	return &playlist, nil
}

// CreatePlaylist creates an empty private playlist.
func (c *Client) CreatePlaylist(ctx context.Context, uid int64, title string) (*music.Playlist, error) {
	form := url.Values{
		"title":      {title},
		"visibility": {"private"},
	}
	raw, err := c.do(ctx, "playlist_create", http.MethodPost, fmt.Sprintf(playlistCreatePath, uid), nil, form)
	if err != nil {
		return nil, err
	}
	var playlist music.Playlist
	if err := json.Unmarshal(raw, &playlist); err != nil {
		return nil, fmt.Errorf("failed to decode created playlist: %w", err)
	}
	return &playlist, nil
}

// InsertTrack appends a track to the end of a playlist.
func (c *Client) InsertTrack(ctx context.Context, uid int64, kind int, key string) error {
	playlist, err := c.playlist(ctx, uid, kind)
	if err != nil {
		return err
	}
	trackID, albumID, _ := strings.Cut(key, ":")
	diff := fmt.Sprintf(
		`{"diff":{"op":"insert","at":%d,"tracks":[{"id":"%s","albumId":"%s"}]}}`,
		len(playlist.Tracks), trackID, albumID,
	)
	form := url.Values{
		"diff":     {diff},
		"revision": {"1"},
	}
	_, err = c.do(ctx, "playlist_insert", http.MethodPost, fmt.Sprintf(playlistInsertPath, uid, kind), nil, form)
	return err
}

// RecentTracks fetches the primary playback-history variant. The payload
// shape varies between accounts, so it is returned raw.
func (c *Client) RecentTracks(ctx context.Context) (json.RawMessage, error) {
	uid, err := c.AccountUID(ctx)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, "recent_tracks", http.MethodGet, fmt.Sprintf(recentTracksPath, uid), nil, nil)
}

// RadioHistory fetches the fallback playback-history variant.
func (c *Client) RadioHistory(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, "rotor_history", http.MethodGet, radioHistoryPath, nil, nil)
}

// TracksByIDs batch-fetches full track objects in a single request.
func (c *Client) TracksByIDs(ctx context.Context, keys []string) ([]*music.Track, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	form := url.Values{
		"track-ids":      {strings.Join(keys, ",")},
		"with-positions": {"false"},
	}
	raw, err := c.do(ctx, "tracks", http.MethodPost, tracksPath, nil, form)
	if err != nil {
		return nil, err
	}
	var tracks []*music.Track
	if err := json.Unmarshal(raw, &tracks); err != nil {
		return nil, fmt.Errorf("failed to decode tracks: %w", err)
	}
	return tracks, nil
}

// SearchTracks searches tracks by free-text query.
func (c *Client) SearchTracks(ctx context.Context, query string) (*music.SearchResult, error) {
	q := url.Values{
		"text": {query},
		"type": {"track"},
		"page": {"0"},
	}
	raw, err := c.do(ctx, "search", http.MethodGet, searchPath, q, nil)
	if err != nil {
		return nil, err
	}
	var result struct {
		Tracks struct {
			Total   int            `json:"total"`
			Results []*music.Track `json:"results"`
		} `json:"tracks"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode search result: %w", err)
	}
	return &music.SearchResult{Tracks: result.Tracks.Results, Total: result.Tracks.Total}, nil
}

// Lyrics returns the lyrics text for a track, or "" when the track has none.
func (c *Client) Lyrics(ctx context.Context, key string) (string, error) {
	trackID, _, _ := strings.Cut(key, ":")
	raw, err := c.do(ctx, "track_supplement", http.MethodGet, fmt.Sprintf(trackSupplementPath, trackID), nil, nil)
	if err != nil {
		return "", err
	}
	var supplement struct {
		Lyrics struct {
			FullLyrics string `json:"fullLyrics"`
			Lyrics     string `json:"lyrics"`
		} `json:"lyrics"`
	}
	if err := json.Unmarshal(raw, &supplement); err != nil {
		return "", fmt.Errorf("failed to decode track supplement: %w", err)
	}
	if supplement.Lyrics.FullLyrics != "" {
		return supplement.Lyrics.FullLyrics, nil
	}
	return supplement.Lyrics.Lyrics, nil
}

// decodeTrackRefs accepts both shapes the likes payload has used over time:
// an object wrapping the list in library.tracks, or the bare array.
func decodeTrackRefs(raw json.RawMessage) ([]music.TrackRef, error) {
	var wrapped struct {
		Library struct {
			Tracks []music.TrackRef `json:"tracks"`
		} `json:"library"`
		Tracks []music.TrackRef `json:"tracks"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if len(wrapped.Library.Tracks) > 0 {
			return wrapped.Library.Tracks, nil
		}
		if len(wrapped.Tracks) > 0 {
			return wrapped.Tracks, nil
		}
	}
	var refs []music.TrackRef
	if err := json.Unmarshal(raw, &refs); err == nil {
		return refs, nil
	}
	return nil, nil
}
