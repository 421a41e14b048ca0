package lyrics

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"yamubot/src/music"
)

// telegramMessageLimit keeps chunks safely below Telegram's 4096-char cap,
// leaving room for the title header.
const telegramMessageLimit = 3500

var lrcTimestamp = regexp.MustCompile(`\[\d{1,2}:\d{2}(?:[.:]\d{1,3})?\]`)

// Service fetches and normalizes track lyrics.
type Service struct {
	provider music.ClientProvider
}

// NewService creates a new lyrics service.
func NewService(provider music.ClientProvider) *Service {
	return &Service{provider: provider}
}

// Result is the lyrics of one track, ready to send.
type Result struct {
	Title  string
	Chunks []string
}

// Get fetches the lyrics for a canonical track key. A track without lyrics
// is not an error; it yields a nil result.
func (s *Service) Get(ctx context.Context, userID int64, key string) (*Result, error) {
	client, err := s.provider.Client(ctx, userID)
	if err != nil {
		return nil, err
	}

	title := key
	if tracks, err := client.TracksByIDs(ctx, []string{key}); err == nil && len(tracks) > 0 && tracks[0] != nil {
		track := tracks[0]
		if artists := strings.Join(track.ArtistNames(), ", "); artists != "" {
			title = fmt.Sprintf("%s - %s", artists, track.Title)
		} else if track.Title != "" {
			title = track.Title
		}
	}

	text, err := client.Lyrics(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetching lyrics for %s: %w", key, err)
	}
	text = StripLRC(text)
	if text == "" {
		return nil, nil
	}
	return &Result{Title: title, Chunks: Chunk(text, telegramMessageLimit)}, nil
}

// StripLRC removes LRC-style [mm:ss.xx] timing tags and trims the result.
// Synced lyrics come back as LRC, plain lyrics pass through untouched.
func StripLRC(text string) string {
	text = lrcTimestamp.ReplaceAllString(text, "")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Chunk splits text into pieces of at most limit characters, breaking on
// line boundaries when possible.
func Chunk(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var chunks []string
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n")
		if cut <= 0 {
			cut = limit
		}
		chunks = append(chunks, strings.TrimSpace(text[:cut]))
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
