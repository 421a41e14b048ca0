package auth

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"

	"yamubot/src/features/config"
	"yamubot/src/music"
)

const authorizeURL = "https://oauth.yandex.ru/authorize"

var tokenPattern = regexp.MustCompile(`access_token(?:=|%3D)([A-Za-z0-9._~%-]+)`)
var bareTokenPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{20,}$`)

// Service manages per-user access tokens and the OAuth web flow state.
type Service struct {
	store    music.TokenStore
	provider music.ClientProvider
	cfg      *config.Manager

	mu     sync.Mutex
	states map[string]int64 // state token -> telegram user id
}

// NewService creates a new auth service.
func NewService(store music.TokenStore, provider music.ClientProvider, cfg *config.Manager) *Service {
	return &Service{
		store:    store,
		provider: provider,
		cfg:      cfg,
		states:   make(map[string]int64),
	}
}

// AuthorizeURL builds the Yandex OAuth authorize URL for a user, recording
// a one-shot state token that the callback will hand back.
func (s *Service) AuthorizeURL(userID int64) string {
	state := uuid.NewString()
	s.mu.Lock()
	s.states[state] = userID
	s.mu.Unlock()

	query := url.Values{
		"response_type": {"token"},
		"client_id":     {s.cfg.Get().Auth.ClientID},
		"state":         {state},
	}
	return authorizeURL + "?" + query.Encode()
}

// ResolveState consumes a state token, returning the user it was issued
// for. A state can only be resolved once.
func (s *Service) ResolveState(state string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.states[state]
	if ok {
		delete(s.states, state)
	}
	return userID, ok
}

// SaveToken stores a token and drops any cached client built from the
// previous one.
func (s *Service) SaveToken(ctx context.Context, userID int64, token string) error {
	if token == "" {
		return fmt.Errorf("empty token")
	}
	if err := s.store.SetToken(ctx, userID, token); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	s.provider.Invalidate(userID)
	return nil
}

// Logout removes the stored token and invalidates the cached client.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	if err := s.store.RemoveToken(ctx, userID); err != nil {
		return fmt.Errorf("removing token: %w", err)
	}
	s.provider.Invalidate(userID)
	return nil
}

// IsAuthorized reports whether the user has a stored token.
func (s *Service) IsAuthorized(ctx context.Context, userID int64) bool {
	ok, err := s.store.HasToken(ctx, userID)
	return err == nil && ok
}

// ExtractToken pulls an access token out of whatever the user pasted: a
// full redirect URL, a fragment, an access_token=... pair (possibly
// percent-encoded), or the bare token itself. Returns "" when nothing
// token-shaped is found.
func ExtractToken(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if m := tokenPattern.FindStringSubmatch(input); m != nil {
		token := m[1]
		if decoded, err := url.QueryUnescape(token); err == nil {
			token = decoded
		}
		return token
	}
	if bareTokenPattern.MatchString(input) {
		return input
	}
	return ""
}
