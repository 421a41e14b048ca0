package stats

import (
	"context"
	"log/slog"

	"yamubot/src/music"
)

// LibraryCollector reads the user's library: liked tracks and the tracks of
// their owned playlists. The two paths fail independently.
type LibraryCollector struct {
	enricher *Enricher
}

// NewLibraryCollector creates a new LibraryCollector.
func NewLibraryCollector(enricher *Enricher) *LibraryCollector {
	return &LibraryCollector{enricher: enricher}
}

// LikedRefs returns the raw liked-track references. Counting them needs no
// enrichment.
func (l *LibraryCollector) LikedRefs(ctx context.Context, client music.Client) ([]music.TrackRef, error) {
	return client.LikedTracks(ctx)
}

// LikedTracks returns the liked tracks as full objects.
func (l *LibraryCollector) LikedTracks(ctx context.Context, client music.Client) ([]*music.Track, error) {
	refs, err := client.LikedTracks(ctx)
	if err != nil {
		return nil, err
	}
	return l.enricher.FetchFull(ctx, client, refs), nil
}

// PlaylistTracks returns the full tracks of every playlist the user owns.
// A failed uid lookup or playlists fetch is not an error: playlist tracks
// are simply omitted from the library view.
func (l *LibraryCollector) PlaylistTracks(ctx context.Context, client music.Client) []*music.Track {
	uid, err := client.AccountUID(ctx)
	if err != nil {
		slog.Warn("Account uid lookup failed, skipping playlist tracks", "error", err)
		return nil
	}
	playlists, err := client.Playlists(ctx, uid)
	if err != nil {
		slog.Warn("Playlists fetch failed, skipping playlist tracks", "uid", uid, "error", err)
		return nil
	}

	var tracks []*music.Track
	var missing []music.TrackRef
	for pi := range playlists {
		for ri := range playlists[pi].Tracks {
			ref := &playlists[pi].Tracks[ri]
			if ref.Track != nil {
				tracks = append(tracks, ref.Track)
				continue
			}
			missing = append(missing, *ref)
		}
	}
	// One combined batch across all playlists keeps the upstream call count
	// bounded regardless of how many playlists the account has.
	tracks = append(tracks, l.enricher.FetchFull(ctx, client, missing)...)
	return tracks
}
