package stats

import (
	"context"
	"log/slog"

	"yamubot/src/music"
)

// Enricher resolves track references to full track objects through the
// upstream batch endpoint. One call in, at most one upstream call out,
// however many references are supplied.
type Enricher struct{}

// NewEnricher creates a new Enricher.
func NewEnricher() *Enricher {
	return &Enricher{}
}

// FetchFull reduces the references to canonical keys (dropping the
// unidentifiable ones, preserving duplicates) and batch-fetches the full
// tracks. Upstream failure degrades to an empty result; a statistics run
// must survive an unreachable batch.
func (e *Enricher) FetchFull(ctx context.Context, client music.Client, refs []music.TrackRef) []*music.Track {
	keys := make([]string, 0, len(refs))
	for i := range refs {
		if key := refs[i].Key(); key != "" {
			keys = append(keys, key)
		}
	}
	return e.FetchByKeys(ctx, client, keys)
}

// FetchByKeys batch-fetches full tracks for canonical keys. Entries the
// upstream could not resolve (deleted tracks come back as nulls) are
// filtered out.
func (e *Enricher) FetchByKeys(ctx context.Context, client music.Client, keys []string) []*music.Track {
	if len(keys) == 0 {
		return nil
	}
	fetched, err := client.TracksByIDs(ctx, keys)
	if err != nil {
		slog.Error("Batch track fetch failed", "count", len(keys), "error", err)
		return nil
	}
	tracks := make([]*music.Track, 0, len(fetched))
	for _, t := range fetched {
		if t != nil {
			tracks = append(tracks, t)
		}
	}
	return tracks
}
