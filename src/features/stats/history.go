package stats

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"yamubot/src/music"
)

// Entry is one resolved playback-history record: a full track and a
// best-effort timestamp. HasTime=false means the playback instant is
// unknown, which window filters treat as recent enough.
type Entry struct {
	Track    *music.Track
	PlayedAt time.Time
	HasTime  bool
}

// HistoryCollector obtains recent playback history, trying the alternative
// upstream endpoints in a fixed preference order.
type HistoryCollector struct {
	enricher *Enricher
}

// NewHistoryCollector creates a new HistoryCollector.
func NewHistoryCollector(enricher *Enricher) *HistoryCollector {
	return &HistoryCollector{enricher: enricher}
}

// Collect returns the resolved history entries. An empty result is a
// legitimate outcome: some accounts and regions expose no history at all.
func (h *HistoryCollector) Collect(ctx context.Context, client music.Client) []Entry {
	items := h.recentItems(ctx, client)
	if len(items) == 0 {
		return nil
	}

	type pending struct {
		key     string
		at      time.Time
		hasTime bool
	}

	var entries []Entry
	var missing []pending
	for i := range items {
		at, hasTime := items[i].PlayedAt()
		if track := items[i].Track; track != nil {
			entries = append(entries, Entry{Track: track, PlayedAt: at, HasTime: hasTime})
			continue
		}
		if key := items[i].Key(); key != "" {
			missing = append(missing, pending{key: key, at: at, hasTime: hasTime})
		}
	}

	if len(missing) > 0 {
		keys := make([]string, len(missing))
		for i, p := range missing {
			keys[i] = p.key
		}
		// One combined batch for everything the items referenced by id only.
		// Results are matched back by identity, not position: the upstream
		// compacts unresolvable ids out of its response.
		byKey := indexByKey(h.enricher.FetchByKeys(ctx, client, keys))
		for _, p := range missing {
			track := byKey[p.key]
			if track == nil {
				if id, _, cut := strings.Cut(p.key, ":"); cut {
					track = byKey[id]
				}
			}
			if track == nil {
				continue // unresolvable reference, drop it
			}
			entries = append(entries, Entry{Track: track, PlayedAt: p.at, HasTime: p.hasTime})
		}
	}
	return entries
}

// recentItems tries the history sources in order and accepts the first one
// whose unwrapped item list is non-empty. A failing source never prevents
// trying the next.
func (h *HistoryCollector) recentItems(ctx context.Context, client music.Client) []music.TrackRef {
	sources := []struct {
		name string
		call func(context.Context) (json.RawMessage, error)
	}{
		{"recent_tracks", client.RecentTracks},
		{"rotor_history", client.RadioHistory},
	}
	for _, source := range sources {
		raw, err := source.call(ctx)
		if err != nil {
			slog.Warn("History source failed", "source", source.name, "error", err)
			continue
		}
		items := unwrapHistoryItems(raw)
		if len(items) > 0 {
			slog.Info("Playback history obtained", "source", source.name, "items", len(items))
			return items
		}
	}
	return nil
}

// unwrapHistoryItems accepts the payload shapes the history endpoints have
// produced: an object carrying the items under a tracks key, or the bare
// array. Anything else reads as empty.
func unwrapHistoryItems(raw json.RawMessage) []music.TrackRef {
	if len(raw) == 0 {
		return nil
	}
	var wrapped struct {
		Tracks []music.TrackRef `json:"tracks"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		return wrapped.Tracks
	}
	var items []music.TrackRef
	if err := json.Unmarshal(raw, &items); err == nil {
		return items
	}
	return nil
}

func indexByKey(tracks []*music.Track) map[string]*music.Track {
	byKey := make(map[string]*music.Track, len(tracks))
	for _, t := range tracks {
		if key := t.Key(); key != "" {
			if _, taken := byKey[key]; !taken {
				byKey[key] = t
			}
		}
		// Also index by bare id: a requested "id:album" key may come back
		// without album information.
		if id := string(t.ID); id != "" {
			if _, taken := byKey[id]; !taken {
				byKey[id] = t
			}
		}
	}
	return byKey
}
