package stats

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"yamubot/src/features/config"
	"yamubot/src/music"
)

type mockProvider struct {
	client music.Client
	err    error
}

func (p *mockProvider) Client(ctx context.Context, userID int64) (music.Client, error) {
	return p.client, p.err
}

func (p *mockProvider) Invalidate(userID int64) {}

func newTestService(provider music.ClientProvider, now time.Time) *Service {
	cfg := config.NewManager(&config.Config{
		Stats: config.Stats{TopLimit: 5, RecentLikesDays: 30, HistoryDays: 90},
	})
	return NewService(provider, newTestAggregator(now), cfg)
}

func TestGetUserStatisticsNoClientGivesEmptySummary(t *testing.T) {
	service := newTestService(&mockProvider{err: music.ErrNotAuthorized}, time.Now())

	summary := service.GetUserStatistics(context.Background(), 7)
	if !reflect.DeepEqual(summary, Summary{}) {
		t.Errorf("expected empty summary, got %+v", summary)
	}
}

func TestGetUserStatisticsSectionFailureIsIsolated(t *testing.T) {
	// Likes are broken, history works: the like-based sections stay at
	// their zero values while the history-based ones still compute.
	client := &mockClient{
		likedTracksFunc: func() ([]music.TrackRef, error) {
			return nil, errors.New("likes endpoint down")
		},
		recentTracksFunc: func() (json.RawMessage, error) {
			return json.RawMessage(`{"tracks":[
				{"track":{"id":"1","genre":"rock","durationMs":120000,"artists":[{"name":"Kino"}]}}
			]}`), nil
		},
	}
	service := newTestService(&mockProvider{client: client}, time.Now())

	summary := service.GetUserStatistics(context.Background(), 7)
	if summary.LikedCount != 0 || summary.RecentLikes != 0 {
		t.Errorf("like sections should be zero, got %+v", summary)
	}
	if len(summary.TopArtists) != 1 || summary.TopArtists[0].Name != "Kino" {
		t.Errorf("history section lost: %+v", summary.TopArtists)
	}
	if len(summary.TopGenresFromHistory) != 1 || summary.TopGenresFromHistory[0].Name != "rock" {
		t.Errorf("history genres lost: %+v", summary.TopGenresFromHistory)
	}
	if summary.ListeningMinutes.Week != 2 || summary.ListeningMinutes.Month != 2 {
		t.Errorf("unexpected listening minutes: %+v", summary.ListeningMinutes)
	}
}

func TestGetUserStatisticsFullSummary(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	client := &mockClient{
		accountUIDFunc: func() (int64, error) { return 42, nil },
		likedTracksFunc: func() ([]music.TrackRef, error) {
			return []music.TrackRef{
				refWithTimestamp("1:10", "2026-08-25T00:00:00Z"),
				refWithTimestamp("2:20", "2026-01-01T00:00:00Z"),
			}, nil
		},
		playlistsFunc: func(uid int64) ([]music.Playlist, error) {
			return nil, nil
		},
		recentTracksFunc: func() (json.RawMessage, error) {
			return json.RawMessage(`{"tracks":[
				{"track":{"id":"3","genre":"rock","durationMs":180000,"artists":[{"name":"Kino"}]},"timestamp":"2026-08-30T00:00:00Z"}
			]}`), nil
		},
		tracksByIDsFunc: resolveByKey,
	}
	service := newTestService(&mockProvider{client: client}, now)

	summary := service.GetUserStatistics(context.Background(), 7)
	if summary.LikedCount != 2 {
		t.Errorf("expected 2 liked tracks, got %d", summary.LikedCount)
	}
	if summary.RecentLikes != 1 {
		t.Errorf("expected 1 recent like, got %d", summary.RecentLikes)
	}
	if len(summary.TopArtists) != 1 || summary.TopArtists[0].Name != "Kino" {
		t.Errorf("unexpected top artists: %+v", summary.TopArtists)
	}
	if summary.ListeningMinutes.Week != 3 || summary.ListeningMinutes.Month != 3 {
		t.Errorf("unexpected minutes: %+v", summary.ListeningMinutes)
	}
}
