package localstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// SnapshotKey is the Redis key holding the serialized cache snapshot.
const SnapshotKey = "openwall:cache:snapshot"

// RedisPersister stores cache snapshots in Redis, for deployments where the
// engine's host process is ephemeral but a Redis instance survives it.
type RedisPersister struct {
	client *redis.Client
}

// NewRedisPersister connects to Redis at addr, which may be a plain
// host:port or a redis:// URL.
func NewRedisPersister(ctx context.Context, addr string) (*RedisPersister, error) {
	var opts *redis.Options
	if parsed, err := redis.ParseURL(addr); err == nil {
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisPersister{client: client}, nil
}

// NewRedisPersisterWithClient wraps an existing client (tests).
func NewRedisPersisterWithClient(client *redis.Client) *RedisPersister {
	return &RedisPersister{client: client}
}

// Load reads the snapshot. A missing key returns (nil, nil).
func (p *RedisPersister) Load(ctx context.Context) (*Snapshot, error) {
	data, err := p.client.Get(ctx, SnapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Save writes the snapshot with no TTL; it lives until the next save.
func (p *RedisPersister) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return p.client.Set(ctx, SnapshotKey, data, 0).Err()
}

// Close releases the underlying client.
func (p *RedisPersister) Close() error {
	return p.client.Close()
}
