package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oddslab/gradebook/pkg/snapshot"
)

// Snapshot TTLs by game state. Live games change constantly; final
// games only need to outlive the settlement pass.
const (
	liveSnapshotTTL  = 30 * time.Second
	finalSnapshotTTL = 6 * time.Hour
)

// SnapshotCache keeps recent game snapshots in Redis so a settlement
// pass grading many bets on one game fetches it once.
type SnapshotCache struct {
	client *redis.Client
}

// NewSnapshotCache wraps a Redis client.
func NewSnapshotCache(client *redis.Client) *SnapshotCache {
	return &SnapshotCache{client: client}
}

func snapshotKey(gameID string) string {
	return fmt.Sprintf("snapshot:%s", gameID)
}

// Get returns the cached snapshot for a game, or nil on a miss.
func (c *SnapshotCache) Get(ctx context.Context, gameID string) (*snapshot.Game, error) {
	data, err := c.client.Get(ctx, snapshotKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var g snapshot.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return &g, nil
}

// Put stores a snapshot with a TTL matched to its status.
func (c *SnapshotCache) Put(ctx context.Context, g *snapshot.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	ttl := liveSnapshotTTL
	if g.Status == snapshot.StatusFinal {
		ttl = finalSnapshotTTL
	}
	return c.client.Set(ctx, snapshotKey(g.GameID), data, ttl).Err()
}
