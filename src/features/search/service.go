package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gosimple/unidecode"

	"yamubot/src/features/config"
	"yamubot/src/music"
)

// Service searches the upstream catalog for tracks.
type Service struct {
	provider music.ClientProvider
	cfg      *config.Manager
}

// NewService creates a new search service.
func NewService(provider music.ClientProvider, cfg *config.Manager) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Search runs the staged query attempts and returns the first non-empty
// result list, truncated to the configured limit.
func (s *Service) Search(ctx context.Context, userID int64, query string) ([]*music.Track, error) {
	client, err := s.provider.Client(ctx, userID)
	if err != nil {
		return nil, err
	}
	tracks := s.find(ctx, client, query)
	limit := s.cfg.Get().Search.ResultLimit
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

// SoftFind returns the best-matching track for a free-text name, or nil
// when nothing matches. Used by the likes and playlists features.
func (s *Service) SoftFind(ctx context.Context, client music.Client, name string) *music.Track {
	tracks := s.find(ctx, client, name)
	if len(tracks) == 0 {
		return nil
	}
	return tracks[0]
}

// find tries each candidate spelling of the query against the upstream
// until one of them matches.
func (s *Service) find(ctx context.Context, client music.Client, query string) []*music.Track {
	for _, candidate := range QueryCandidates(query) {
		result, err := client.SearchTracks(ctx, candidate)
		if err != nil {
			slog.Warn("Track search failed", "query", candidate, "error", err)
			continue
		}
		if result != nil && len(result.Tracks) > 0 {
			return result.Tracks
		}
	}
	return nil
}

// QueryCandidates produces the spellings to try, most specific first: the
// cleaned query, its transliteration, and for "artist - title" queries the
// title and artist halves on their own.
func QueryCandidates(query string) []string {
	cleaned := CleanQuery(query)
	if cleaned == "" {
		return nil
	}

	candidates := []string{cleaned}
	if ascii := strings.TrimSpace(unidecode.Unidecode(cleaned)); ascii != "" && ascii != cleaned {
		candidates = append(candidates, ascii)
	}
	if artist, title, ok := strings.Cut(cleaned, " - "); ok {
		artist = strings.TrimSpace(artist)
		title = strings.TrimSpace(title)
		if title != "" {
			candidates = append(candidates, title)
		}
		if artist != "" {
			candidates = append(candidates, artist)
		}
	}
	return candidates
}

// CleanQuery normalizes a free-text query: quotes stripped, the dash and
// en/em dash separators unified to " - ", whitespace collapsed.
func CleanQuery(query string) string {
	replacer := strings.NewReplacer(
		`"`, "", "«", "", "»", "", "“", "", "”", "",
		" – ", " - ", " — ", " - ", " − ", " - ",
	)
	cleaned := replacer.Replace(query)
	return strings.Join(strings.Fields(cleaned), " ")
}

// FormatTrack renders one track as a result line.
func FormatTrack(t *music.Track) string {
	artists := strings.Join(t.ArtistNames(), ", ")
	if artists == "" {
		return t.Title
	}
	return fmt.Sprintf("%s - %s", artists, t.Title)
}
