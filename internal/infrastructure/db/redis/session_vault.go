package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/filmstore/rental-system/internal/core/domain"
)

const defaultSlotKey = "session:current"

// SessionVault is the Redis-backed persistent identity slot: a single key
// holding the serialized current identity, or absent. Saves overwrite the
// slot wholesale and carry no TTL; the slot lives until logout clears it.
type SessionVault struct {
	client *redis.Client
	key    string
}

// NewSessionVault creates a vault on the default slot key.
func NewSessionVault(client *redis.Client) *SessionVault {
	return &SessionVault{client: client, key: defaultSlotKey}
}

// NewSessionVaultWithKey creates a vault on a custom slot key.
func NewSessionVaultWithKey(client *redis.Client, key string) *SessionVault {
	return &SessionVault{client: client, key: key}
}

func (v *SessionVault) Save(ctx context.Context, identity *domain.Identity) error {
	if identity == nil {
		return v.Clear(ctx)
	}
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	return v.client.Set(ctx, v.key, data, 0).Err()
}

// Load returns the stored identity. An empty slot yields
// domain.ErrNoStoredIdentity. An undecodable record is treated the same way:
// the slot is cleared and reported absent rather than propagated as a fault.
func (v *SessionVault) Load(ctx context.Context) (*domain.Identity, error) {
	data, err := v.client.Get(ctx, v.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNoStoredIdentity
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var identity domain.Identity
	if err := json.Unmarshal([]byte(data), &identity); err != nil {
		if derr := v.Clear(ctx); derr != nil {
			return nil, fmt.Errorf("clearing malformed slot: %w", derr)
		}
		return nil, domain.ErrNoStoredIdentity
	}
	return &identity, nil
}

func (v *SessionVault) Clear(ctx context.Context) error {
	return v.client.Del(ctx, v.key).Err()
}
