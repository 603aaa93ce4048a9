package huawei

import (
	"context"
	"sync"
)

// TokenStore holds the current access token of each client ID. Load returns
// a nil token and a nil error when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context, clientID string) (*AccessToken, error)
	Save(ctx context.Context, clientID string, token *AccessToken) error
}

// memoryStore is the default store: one token slot per client.
type memoryStore struct {
	mu    sync.Mutex
	token *AccessToken
}

func (s *memoryStore) Load(
	_ context.Context,
	_ string,
) (
	*AccessToken,
	error,
) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *memoryStore) Save(
	_ context.Context,
	_ string,
	token *AccessToken,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}
