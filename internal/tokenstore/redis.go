// Package tokenstore shares Huawei access tokens between gateway replicas.
package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BatuhanK/huawei-inapp/pkg/huawei"
)

const keyPrefix = "huawei-iap:token"

var ErrRedisUnavailable = errors.New("token store redis unavailable")

// Redis keeps one access token per client ID. Keys expire together with the
// token they hold.
type Redis struct {
	redis  redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{
		redis:  client,
		prefix: keyPrefix,
		now:    time.Now,
	}
}

func (s *Redis) key(clientID string) string {
	return s.prefix + ":" + clientID
}

// Load returns nil without error when no token is stored for clientID.
func (s *Redis) Load(
	ctx context.Context,
	clientID string,
) (
	*huawei.AccessToken,
	error,
) {
	data, err := s.redis.Get(ctx, s.key(clientID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	token := &huawei.AccessToken{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, fmt.Errorf("failed to decode token for '%s': %w", clientID, err)
	}
	return token, nil
}

func (s *Redis) Save(
	ctx context.Context,
	clientID string,
	token *huawei.AccessToken,
) error {
	ttl := token.Remaining(s.now())
	if ttl <= 0 {
		if err := s.redis.Del(ctx, s.key(clientID)).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		return nil
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token for '%s': %w", clientID, err)
	}

	if err := s.redis.Set(ctx, s.key(clientID), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

var _ huawei.TokenStore = (*Redis)(nil)
