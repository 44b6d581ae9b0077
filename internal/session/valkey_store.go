package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/reviewpulse/internal/clients"
	"github.com/valkey-io/valkey-go"
)

const keyPrefix = "session:"

type ValkeyStore struct {
	vc  *clients.ValkeyClient
	ttl time.Duration
}

var _ Store = (*ValkeyStore)(nil)

func NewValkeyStore(vc *clients.ValkeyClient, ttl time.Duration) *ValkeyStore {
	return &ValkeyStore{vc: vc, ttl: ttl}
}

func sessionKey(token string) string {
	return keyPrefix + token
}

func (s *ValkeyStore) Create(ctx context.Context, username string) (string, error) {
	token := newToken()
	key := sessionKey(token)

	responses := s.vc.DoMultiWithRetry(ctx, func(c valkey.Client) []valkey.Completed {
		return []valkey.Completed{
			c.B().Set().Key(key).Value(username).Build(),
			c.B().Expire().Key(key).Seconds(int64(s.ttl.Seconds())).Build(),
		}
	})
	for _, res := range responses {
		if err := res.Error(); err != nil {
			return "", fmt.Errorf("[SessionStore] failed to create session: %w", err)
		}
	}

	slog.Debug("[SessionStore] Session created",
		slog.String("username", username))
	return token, nil
}

func (s *ValkeyStore) Get(ctx context.Context, token string) (string, error) {
	res := s.vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Get().Key(sessionKey(token)).Build()
	})

	username, err := res.ToString()
	if valkey.IsValkeyNil(err) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("[SessionStore] failed to read session: %w", err)
	}
	return username, nil
}

func (s *ValkeyStore) Delete(ctx context.Context, token string) error {
	res := s.vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Del().Key(sessionKey(token)).Build()
	})
	if err := res.Error(); err != nil {
		return fmt.Errorf("[SessionStore] failed to delete session: %w", err)
	}
	return nil
}
