package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/umarabbas75/fly-inn-app-sub004/internal/model"

	"github.com/redis/go-redis/v9"
)

// Cancellation policies are read on every booking-detail and refund-preview
// request but change rarely, so they get a medium TTL.
const policyTTL = 15 * time.Minute

const policyKeyPrefix = "flyinn:policy:id:"

// PolicyCache is a read-through cache for cancellation policies. A nil
// *PolicyCache is valid and behaves as a miss on every call, so callers
// never need to branch on whether Redis is configured.
type PolicyCache struct {
	rdb *redis.Client
}

func NewPolicyCache(rdb *redis.Client) *PolicyCache {
	if rdb == nil {
		return nil
	}
	return &PolicyCache{rdb: rdb}
}

// Get returns the cached policy, or (nil, false) on miss or any Redis error.
func (c *PolicyCache) Get(ctx context.Context, id uint) (*model.CancellationPolicy, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, policyKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var policy model.CancellationPolicy
	if err := json.Unmarshal(raw, &policy); err != nil {
		return nil, false
	}
	return &policy, true
}

// Set stores the policy. Failures are swallowed; the cache is best-effort.
func (c *PolicyCache) Set(ctx context.Context, policy *model.CancellationPolicy) {
	if c == nil || policy == nil {
		return
	}
	raw, err := json.Marshal(policy)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, policyKey(policy.ID), raw, policyTTL).Err()
}

// Invalidate drops the cached entry after a policy mutation.
func (c *PolicyCache) Invalidate(ctx context.Context, id uint) {
	if c == nil {
		return
	}
	_ = c.rdb.Del(ctx, policyKey(id)).Err()
}

func policyKey(id uint) string {
	return fmt.Sprintf("%s%d", policyKeyPrefix, id)
}

// Connect dials Redis and verifies the connection. Returns nil (no cache)
// when addr is empty so deployments without Redis keep working.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}
