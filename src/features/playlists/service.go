package playlists

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"yamubot/src/features/search"
	"yamubot/src/music"
)

// Service manages the user's own playlists.
type Service struct {
	provider music.ClientProvider
	search   *search.Service
}

// NewService creates a new playlists service.
func NewService(provider music.ClientProvider, searchService *search.Service) *Service {
	return &Service{provider: provider, search: searchService}
}

// List returns the user's playlists. Upstream failure degrades to an empty
// list so the browse flow never errors at the user.
func (s *Service) List(ctx context.Context, userID int64) ([]music.Playlist, error) {
	client, err := s.provider.Client(ctx, userID)
	if err != nil {
		return nil, err
	}
	uid, err := client.AccountUID(ctx)
	if err != nil {
		slog.Warn("Account uid lookup failed", "userID", userID, "error", err)
		return nil, nil
	}
	playlists, err := client.Playlists(ctx, uid)
	if err != nil {
		slog.Warn("Playlists fetch failed", "uid", uid, "error", err)
		return nil, nil
	}
	return playlists, nil
}

// Open returns one playlist by kind, with its tracks resolved to full
// objects (at most limit of them).
func (s *Service) Open(ctx context.Context, userID int64, kind int, limit int) (*music.Playlist, []*music.Track, error) {
	playlists, err := s.List(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	for i := range playlists {
		if playlists[i].Kind != kind {
			continue
		}
		return &playlists[i], s.resolveTracks(ctx, userID, playlists[i].Tracks, limit), nil
	}
	return nil, nil, nil
}

// Create creates a new empty playlist.
func (s *Service) Create(ctx context.Context, userID int64, title string) (*music.Playlist, error) {
	client, err := s.provider.Client(ctx, userID)
	if err != nil {
		return nil, err
	}
	uid, err := client.AccountUID(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving account uid: %w", err)
	}
	return client.CreatePlaylist(ctx, uid, title)
}

// AddResult is the outcome of an AddTracks run.
type AddResult struct {
	Playlist *music.Playlist
	Added    []*music.Track
	Missed   []string
}

// AddTracks resolves each free-text name through soft find and appends the
// matches to the playlist with the given title, creating it when the user
// has no playlist by that title. Names that match nothing are reported
// back, not treated as errors.
func (s *Service) AddTracks(ctx context.Context, userID int64, title string, names []string) (*AddResult, error) {
	client, err := s.provider.Client(ctx, userID)
	if err != nil {
		return nil, err
	}
	uid, err := client.AccountUID(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving account uid: %w", err)
	}

	playlist, err := s.findOrCreate(ctx, client, uid, title)
	if err != nil {
		return nil, err
	}

	result := &AddResult{Playlist: playlist}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		track := s.search.SoftFind(ctx, client, name)
		if track == nil {
			result.Missed = append(result.Missed, name)
			continue
		}
		if err := client.InsertTrack(ctx, uid, playlist.Kind, track.Key()); err != nil {
			slog.Warn("Track insert failed", "playlist", playlist.Kind, "track", track.Key(), "error", err)
			result.Missed = append(result.Missed, name)
			continue
		}
		result.Added = append(result.Added, track)
	}
	return result, nil
}

// findOrCreate matches a playlist by case-insensitive title, creating one
// when nothing matches.
func (s *Service) findOrCreate(ctx context.Context, client music.Client, uid int64, title string) (*music.Playlist, error) {
	playlists, err := client.Playlists(ctx, uid)
	if err != nil {
		slog.Warn("Playlists fetch failed, creating fresh", "uid", uid, "error", err)
	}
	for i := range playlists {
		if strings.EqualFold(playlists[i].Title, title) {
			return &playlists[i], nil
		}
	}
	playlist, err := client.CreatePlaylist(ctx, uid, title)
	if err != nil {
		return nil, fmt.Errorf("creating playlist %q: %w", title, err)
	}
	return playlist, nil
}

func (s *Service) resolveTracks(ctx context.Context, userID int64, refs []music.TrackRef, limit int) []*music.Track {
	if limit > 0 && len(refs) > limit {
		refs = refs[:limit]
	}

	var tracks []*music.Track
	var keys []string
	for i := range refs {
		if refs[i].Track != nil {
			tracks = append(tracks, refs[i].Track)
			continue
		}
		if key := refs[i].Key(); key != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return tracks
	}

	client, err := s.provider.Client(ctx, userID)
	if err != nil {
		return tracks
	}
	fetched, err := client.TracksByIDs(ctx, keys)
	if err != nil {
		slog.Warn("Playlist track resolution failed", "count", len(keys), "error", err)
		return tracks
	}
	for _, t := range fetched {
		if t != nil {
			tracks = append(tracks, t)
		}
	}
	return tracks
}
