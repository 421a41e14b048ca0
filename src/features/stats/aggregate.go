package stats

import (
	"context"
	"time"

	"yamubot/src/music"
)

// Aggregator computes the individual statistics views. Every method makes
// its own upstream reads so that a broken source only takes down the views
// that depend on it.
type Aggregator struct {
	history *HistoryCollector
	library *LibraryCollector

	now func() time.Time
}

// NewAggregator creates an aggregator over the given collectors.
func NewAggregator(history *HistoryCollector, library *LibraryCollector) *Aggregator {
	return &Aggregator{
		history: history,
		library: library,
		now:     time.Now,
	}
}

// LikedTracksCount returns the number of liked tracks.
func (a *Aggregator) LikedTracksCount(ctx context.Context, client music.Client) (int, error) {
	refs, err := a.library.LikedRefs(ctx, client)
	if err != nil {
		return 0, err
	}
	return len(refs), nil
}

// RecentLikesCount counts likes added within the trailing window. A like
// with an unknown timestamp is not assumed recent and does not count.
func (a *Aggregator) RecentLikesCount(ctx context.Context, client music.Client, days int) (int, error) {
	refs, err := a.library.LikedRefs(ctx, client)
	if err != nil {
		return 0, err
	}
	threshold := a.now().Add(-time.Duration(days) * 24 * time.Hour)
	count := 0
	for i := range refs {
		if likedAt, ok := refs[i].LikedAt(); ok && !likedAt.Before(threshold) {
			count++
		}
	}
	return count, nil
}

// TopArtists ranks artists by how often they appear in the playback
// history. Accounts without history fall back to the liked-tracks library.
func (a *Aggregator) TopArtists(ctx context.Context, client music.Client, limit int) ([]NameCount, error) {
	artists := newCounter()
	for _, entry := range a.history.Collect(ctx, client) {
		for _, name := range entry.Track.ArtistNames() {
			artists.Add(name)
		}
	}

	if artists.Empty() {
		liked, err := a.library.LikedTracks(ctx, client)
		if err != nil {
			return nil, err
		}
		for _, track := range liked {
			for _, name := range track.ArtistNames() {
				artists.Add(name)
			}
		}
	}
	return artists.Top(limit), nil
}

// TopGenresFromHistory ranks genres over the playback history of the
// trailing window. An entry with an unknown timestamp is kept: only a
// timestamp known to be stale excludes a play. This is deliberately the
// opposite of RecentLikesCount's treatment of unknown timestamps.
func (a *Aggregator) TopGenresFromHistory(ctx context.Context, client music.Client, limit, days int) ([]NameCount, error) {
	threshold := a.now().Add(-time.Duration(days) * 24 * time.Hour)
	genres := newCounter()
	for _, entry := range a.history.Collect(ctx, client) {
		if entry.HasTime && entry.PlayedAt.Before(threshold) {
			continue
		}
		genres.Add(entry.Track.ResolveGenre())
	}
	return genres.Top(limit), nil
}

// TopGenresFromLibrary ranks genres over the union of liked tracks and
// owned-playlist tracks, with no time filter.
func (a *Aggregator) TopGenresFromLibrary(ctx context.Context, client music.Client, limit int) ([]NameCount, error) {
	genres := newCounter()

	liked, err := a.library.LikedTracks(ctx, client)
	if err != nil {
		return nil, err
	}
	for _, track := range liked {
		genres.Add(track.ResolveGenre())
	}
	for _, track := range a.library.PlaylistTracks(ctx, client) {
		genres.Add(track.ResolveGenre())
	}
	return genres.Top(limit), nil
}

// ListeningMinutes sums track durations over history entries within the
// trailing window, in whole minutes. The unknown-timestamp rule matches
// TopGenresFromHistory: unknown is kept.
func (a *Aggregator) ListeningMinutes(ctx context.Context, client music.Client, days int) (int, error) {
	threshold := a.now().Add(-time.Duration(days) * 24 * time.Hour)
	var totalMs int64
	for _, entry := range a.history.Collect(ctx, client) {
		if entry.HasTime && entry.PlayedAt.Before(threshold) {
			continue
		}
		totalMs += entry.Track.DurationMillis()
	}
	return int(totalMs / 60000), nil
}
