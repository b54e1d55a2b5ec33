package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgredis "github.com/dropshoplabs/dropshop-backend/pkg/redis"
)

// SnapshotStore persists cart snapshots keyed by session.
type SnapshotStore interface {
	Save(ctx context.Context, cart Cart) error
	Load(ctx context.Context, sessionID string) (Cart, bool, error)
	Delete(ctx context.Context, sessionID string) error
}

type redisKeyer interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

type redisSnapshotStore struct {
	client redisKeyer
	ttl    time.Duration
}

// NewSnapshotStore builds a Redis-backed snapshot store. Snapshots expire
// after ttl so abandoned carts age out on their own.
func NewSnapshotStore(client redisKeyer, ttl time.Duration) (SnapshotStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &redisSnapshotStore{client: client, ttl: ttl}, nil
}

func (s *redisSnapshotStore) Save(ctx context.Context, cart Cart) error {
	if cart.SessionID == "" {
		return fmt.Errorf("session id required")
	}
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	return s.client.Set(ctx, s.client.CartKey(cart.SessionID), payload, s.ttl)
}

func (s *redisSnapshotStore) Load(ctx context.Context, sessionID string) (Cart, bool, error) {
	if sessionID == "" {
		return Cart{}, false, fmt.Errorf("session id required")
	}
	raw, err := s.client.Get(ctx, s.client.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return New(sessionID), false, nil
		}
		return Cart{}, false, err
	}

	var snapshot Cart
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		// A corrupt snapshot is unrecoverable; treat it as absent.
		return New(sessionID), false, nil
	}
	snapshot.SessionID = sessionID
	return snapshot, true, nil
}

func (s *redisSnapshotStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session id required")
	}
	return s.client.Del(ctx, s.client.CartKey(sessionID))
}
