package likes

import (
	"context"
	"fmt"

	"yamubot/src/features/search"
	"yamubot/src/music"
)

// Service exposes the user's liked tracks, artists and albums, and lets
// them like new tracks by id or by name.
type Service struct {
	provider music.ClientProvider
	search   *search.Service
}

// NewService creates a new likes service.
func NewService(provider music.ClientProvider, searchService *search.Service) *Service {
	return &Service{provider: provider, search: searchService}
}

// Page is one liked track shown by the browser, with its position.
type Page struct {
	Track *music.Track
	Index int
	Total int
}

// LikedPage returns the liked track at index, wrapping around both ends so
// prev on the first track lands on the last one and vice versa.
func (s *Service) LikedPage(ctx context.Context, userID int64, index int) (*Page, error) {
	client, err := s.provider.Client(ctx, userID)
	if err != nil {
		return nil, err
	}
	refs, err := client.LikedTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching liked tracks: %w", err)
	}
	if len(refs) == 0 {
		return nil, nil
	}

	index = ((index % len(refs)) + len(refs)) % len(refs)
	key := refs[index].Key()
	if key == "" {
		return &Page{Index: index, Total: len(refs)}, nil
	}

	tracks, err := client.TracksByIDs(ctx, []string{key})
	if err != nil || len(tracks) == 0 || tracks[0] == nil {
		return &Page{Index: index, Total: len(refs)}, nil
	}
	return &Page{Track: tracks[0], Index: index, Total: len(refs)}, nil
}

// Like adds a track to the likes. The argument is a canonical key when it
// looks like one, otherwise a free-text name resolved through soft find.
func (s *Service) Like(ctx context.Context, userID int64, arg string) (*music.Track, error) {
	client, err := s.provider.Client(ctx, userID)
	if err != nil {
		return nil, err
	}

	var track *music.Track
	if isTrackKey(arg) {
		if tracks, err := client.TracksByIDs(ctx, []string{arg}); err == nil && len(tracks) > 0 {
			track = tracks[0]
		}
	} else {
		track = s.search.SoftFind(ctx, client, arg)
	}
	if track == nil {
		return nil, nil
	}

	if err := client.LikeTrack(ctx, track.Key()); err != nil {
		return nil, fmt.Errorf("liking track %s: %w", track.Key(), err)
	}
	return track, nil
}

// LikeByKey adds a track to the likes by its canonical key without any
// lookup. Used by the per-search-result like buttons.
func (s *Service) LikeByKey(ctx context.Context, userID int64, key string) error {
	client, err := s.provider.Client(ctx, userID)
	if err != nil {
		return err
	}
	return client.LikeTrack(ctx, key)
}

// LikedArtists returns the liked artists.
func (s *Service) LikedArtists(ctx context.Context, userID int64) ([]music.LikedArtist, error) {
	client, err := s.provider.Client(ctx, userID)
	if err != nil {
		return nil, err
	}
	return client.LikedArtists(ctx)
}

// LikedAlbums returns the liked albums.
func (s *Service) LikedAlbums(ctx context.Context, userID int64) ([]music.LikedAlbum, error) {
	client, err := s.provider.Client(ctx, userID)
	if err != nil {
		return nil, err
	}
	return client.LikedAlbums(ctx)
}

// isTrackKey reports whether arg looks like a canonical "id" or "id:album"
// identity rather than a track name.
func isTrackKey(arg string) bool {
	if arg == "" {
		return false
	}
	for _, r := range arg {
		if (r < '0' || r > '9') && r != ':' {
			return false
		}
	}
	return true
}
