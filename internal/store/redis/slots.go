package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// Store keeps serialized collections in Redis, one string key per slot,
// plus a set indexing every slot ever written.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis slot store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Get returns the raw slot document
func (s *Store) Get(ctx context.Context, name string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, SlotKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get slot: %w", err)
	}
	return data, true, nil
}

// Put stores the slot document and indexes its name
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, SlotKey(name), data, 0)
	pipe.SAdd(ctx, AllSlotsKey(), name)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save slot: %w", err)
	}
	return nil
}

// Keys lists every indexed slot name
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, AllSlotsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get slot names: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Prune removes index entries whose slot key no longer exists
func (s *Store) Prune(ctx context.Context) (int, error) {
	names, err := s.client.SMembers(ctx, AllSlotsKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get slot names: %w", err)
	}
	if len(names) == 0 {
		return 0, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.IntCmd, len(names))
	for i, name := range names {
		cmds[i] = pipe.Exists(ctx, SlotKey(name))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to check slots: %w", err)
	}

	var stale []any
	for i, cmd := range cmds {
		if cmd.Val() == 0 {
			stale = append(stale, names[i])
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	if err := s.client.SRem(ctx, AllSlotsKey(), stale...).Err(); err != nil {
		return 0, fmt.Errorf("failed to prune slot index: %w", err)
	}
	return len(stale), nil
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
