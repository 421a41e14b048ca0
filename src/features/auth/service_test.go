package auth

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"yamubot/src/features/config"
	"yamubot/src/music"
)

type memoryStore struct {
	tokens map[int64]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{tokens: make(map[int64]string)}
}

func (s *memoryStore) SetToken(ctx context.Context, userID int64, token string) error {
	s.tokens[userID] = token
	return nil
}

func (s *memoryStore) GetToken(ctx context.Context, userID int64) (string, error) {
	return s.tokens[userID], nil
}

func (s *memoryStore) HasToken(ctx context.Context, userID int64) (bool, error) {
	_, ok := s.tokens[userID]
	return ok, nil
}

func (s *memoryStore) RemoveToken(ctx context.Context, userID int64) error {
	delete(s.tokens, userID)
	return nil
}

type mockProvider struct {
	invalidated []int64
}

func (p *mockProvider) Client(ctx context.Context, userID int64) (music.Client, error) {
	return nil, music.ErrNotAuthorized
}

func (p *mockProvider) Invalidate(userID int64) {
	p.invalidated = append(p.invalidated, userID)
}

func newTestService() (*Service, *memoryStore, *mockProvider) {
	store := newMemoryStore()
	provider := &mockProvider{}
	cfg := config.NewManager(&config.Config{Auth: config.Auth{ClientID: "client123"}})
	return NewService(store, provider, cfg), store, provider
}

func TestExtractToken(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"full redirect url", "https://music.yandex.ru/#access_token=AQAAAAAtoken123&token_type=bearer", "AQAAAAAtoken123"},
		{"bare pair", "access_token=abc.def-ghi_jkl012345678", "abc.def-ghi_jkl012345678"},
		{"percent-encoded", "access_token%3DAQAAAAAtoken123", "AQAAAAAtoken123"},
		{"encoded padding", "access_token=AQAAAAAtoken%3D%3D&x=1", "AQAAAAAtoken=="},
		{"bare token", "y0_AgAAAAAtoken1234567890", "y0_AgAAAAAtoken1234567890"},
		{"short garbage", "hello", ""},
		{"sentence", "please link my account", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractToken(tc.in); got != tc.want {
				t.Errorf("ExtractToken(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestAuthorizeURLCarriesClientIDAndState(t *testing.T) {
	service, _, _ := newTestService()

	raw := service.AuthorizeURL(7)
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("bad url: %v", err)
	}
	if !strings.HasPrefix(raw, "https://oauth.yandex.ru/authorize?") {
		t.Errorf("unexpected url %s", raw)
	}
	query := parsed.Query()
	if query.Get("client_id") != "client123" {
		t.Errorf("client_id = %q", query.Get("client_id"))
	}
	if query.Get("response_type") != "token" {
		t.Errorf("response_type = %q", query.Get("response_type"))
	}

	userID, ok := service.ResolveState(query.Get("state"))
	if !ok || userID != 7 {
		t.Errorf("state resolves to (%d, %v)", userID, ok)
	}
}

func TestResolveStateIsOneShot(t *testing.T) {
	service, _, _ := newTestService()

	raw := service.AuthorizeURL(7)
	parsed, _ := url.Parse(raw)
	state := parsed.Query().Get("state")

	if _, ok := service.ResolveState(state); !ok {
		t.Fatal("first resolve must succeed")
	}
	if _, ok := service.ResolveState(state); ok {
		t.Error("second resolve must fail")
	}
}

func TestSaveTokenInvalidatesCachedClient(t *testing.T) {
	service, store, provider := newTestService()

	if err := service.SaveToken(context.Background(), 7, "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.tokens[7] != "tok" {
		t.Errorf("token not stored: %v", store.tokens)
	}
	if len(provider.invalidated) != 1 || provider.invalidated[0] != 7 {
		t.Errorf("cache not invalidated: %v", provider.invalidated)
	}
}

func TestSaveTokenRejectsEmpty(t *testing.T) {
	service, _, _ := newTestService()
	if err := service.SaveToken(context.Background(), 7, ""); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestLogoutRemovesTokenAndInvalidates(t *testing.T) {
	service, store, provider := newTestService()
	store.tokens[7] = "tok"

	if err := service.Logout(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.tokens[7]; ok {
		t.Error("token not removed")
	}
	if len(provider.invalidated) != 1 {
		t.Errorf("cache not invalidated: %v", provider.invalidated)
	}
	if service.IsAuthorized(context.Background(), 7) {
		t.Error("user still reads as authorized")
	}
}
