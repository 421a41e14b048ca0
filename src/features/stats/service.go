package stats

import (
	"context"
	"log/slog"
	"time"

	"yamubot/src/features/config"
	"yamubot/src/features/metrics"
	"yamubot/src/music"
)

// Minutes is listening time over the two fixed windows.
type Minutes struct {
	Week  int `json:"week"`
	Month int `json:"month"`
}

// Summary is one user's complete statistics. Every field is usable at its
// zero value, so a partially failed computation still renders.
type Summary struct {
	LikedCount           int         `json:"liked_count"`
	RecentLikes          int         `json:"recent_likes"`
	TopArtists           []NameCount `json:"top_artists"`
	TopGenresFromHistory []NameCount `json:"top_genres_from_history"`
	TopGenresFromLibrary []NameCount `json:"top_genres_from_library"`
	ListeningMinutes     Minutes     `json:"listening_minutes"`
}

// Service computes per-user statistics summaries.
type Service struct {
	provider   music.ClientProvider
	aggregator *Aggregator
	cfg        *config.Manager
}

// NewService creates the statistics service.
func NewService(provider music.ClientProvider, aggregator *Aggregator, cfg *config.Manager) *Service {
	return &Service{provider: provider, aggregator: aggregator, cfg: cfg}
}

// GetUserStatistics computes the summary for one user. A failure to obtain
// a client yields an empty summary; a failure inside one section leaves
// that section at its zero value and never disturbs the others.
func (s *Service) GetUserStatistics(ctx context.Context, userID int64) Summary {
	var summary Summary

	client, err := s.provider.Client(ctx, userID)
	if err != nil {
		slog.Warn("No usable client for statistics", "userID", userID, "error", err)
		return summary
	}

	knobs := s.cfg.Get().Stats

	s.section("liked_count", func() error {
		count, err := s.aggregator.LikedTracksCount(ctx, client)
		if err != nil {
			return err
		}
		summary.LikedCount = count
		return nil
	})
	s.section("recent_likes", func() error {
		count, err := s.aggregator.RecentLikesCount(ctx, client, knobs.RecentLikesDays)
		if err != nil {
			return err
		}
		summary.RecentLikes = count
		return nil
	})
	s.section("top_artists", func() error {
		top, err := s.aggregator.TopArtists(ctx, client, knobs.TopLimit)
		if err != nil {
			return err
		}
		summary.TopArtists = top
		return nil
	})
	s.section("top_genres_history", func() error {
		top, err := s.aggregator.TopGenresFromHistory(ctx, client, knobs.TopLimit, knobs.HistoryDays)
		if err != nil {
			return err
		}
		summary.TopGenresFromHistory = top
		return nil
	})
	s.section("top_genres_library", func() error {
		top, err := s.aggregator.TopGenresFromLibrary(ctx, client, knobs.TopLimit)
		if err != nil {
			return err
		}
		summary.TopGenresFromLibrary = top
		return nil
	})
	s.section("listening_minutes", func() error {
		week, err := s.aggregator.ListeningMinutes(ctx, client, 7)
		if err != nil {
			return err
		}
		month, err := s.aggregator.ListeningMinutes(ctx, client, 30)
		if err != nil {
			return err
		}
		summary.ListeningMinutes = Minutes{Week: week, Month: month}
		return nil
	})

	return summary
}

// section runs one sub-aggregation, timing it and absorbing its failure.
func (s *Service) section(name string, compute func() error) {
	start := time.Now()
	err := compute()
	metrics.StatsDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		slog.Warn("Statistics section failed", "section", name, "error", err)
	}
}
