package yandex

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"yamubot/src/music"
)

// Cache resolves clients for bot users and keeps them for connection reuse.
// It implements music.ClientProvider. Entries live for the process lifetime
// unless invalidated by re-auth or logout.
type Cache struct {
	httpClient *http.Client
	baseURL    string
	tokens     music.TokenStore

	mu      sync.RWMutex
	clients map[int64]*Client
}

// NewCache creates a client cache over the given token store.
func NewCache(httpClient *http.Client, baseURL string, tokens music.TokenStore) *Cache {
	return &Cache{
		httpClient: httpClient,
		baseURL:    baseURL,
		tokens:     tokens,
		clients:    make(map[int64]*Client),
	}
}

// Client returns a ready client for the user. A new client is validated with
// one account-status call before it is cached; a token that no longer opens
// a session surfaces as a construction error here.
func (c *Cache) Client(ctx context.Context, userID int64) (music.Client, error) {
	c.mu.RLock()
	cached, ok := c.clients[userID]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	token, err := c.tokens.GetToken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read token for user %d: %w", userID, err)
	}
	if token == "" {
		return nil, music.ErrNotAuthorized
	}

	client := NewClient(c.httpClient, c.baseURL, token)
	if _, err := client.AccountUID(ctx); err != nil {
		return nil, fmt.Errorf("failed to open session for user %d: %w", userID, err)
	}

	c.mu.Lock()
	c.clients[userID] = client
	c.mu.Unlock()
	slog.Info("Created Yandex Music client", "user", userID)
	return client, nil
}

// Invalidate drops any cached client for the user.
func (c *Cache) Invalidate(userID int64) {
	c.mu.Lock()
	delete(c.clients, userID)
	c.mu.Unlock()
}
