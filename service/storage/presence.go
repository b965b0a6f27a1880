package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Presence tracks which users currently hold a live gateway connection.
// The value is the node id, the TTL bounds staleness if a node dies without
// cleaning up. A nil client disables presence entirely; the gateway must
// keep working without Redis.
type Presence struct {
	rdb  *redis.Client
	node string
	ttl  time.Duration
}

func NewPresence(rdb *redis.Client, node string, ttl time.Duration) *Presence {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Presence{rdb: rdb, node: node, ttl: ttl}
}

func presenceKey(user string) string { return "notes:presence:" + user }

// Online marks the user online and renews the TTL.
func (p *Presence) Online(ctx context.Context, user string) error {
	if p.rdb == nil {
		return nil
	}
	return p.rdb.Set(ctx, presenceKey(user), p.node, p.ttl).Err()
}

// Offline removes the user's presence key.
func (p *Presence) Offline(ctx context.Context, user string) error {
	if p.rdb == nil {
		return nil
	}
	return p.rdb.Del(ctx, presenceKey(user)).Err()
}

// Lookup reports whether the user is online and on which node.
func (p *Presence) Lookup(ctx context.Context, user string) (node string, online bool, err error) {
	if p.rdb == nil {
		return "", false, nil
	}
	val, err := p.rdb.Get(ctx, presenceKey(user)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
