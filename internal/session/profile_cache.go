package session

import (
	"context"
	"time"

	"azellar-portal/internal/domain/profile"
	"azellar-portal/internal/infrastructure/cache"

	"github.com/google/uuid"
)

type ProfileCache interface {
	Get(ctx context.Context, userID uuid.UUID) (profile.Profile, bool)
	Set(ctx context.Context, p profile.Profile)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

// RedisProfileCache keeps profiles under profile:<user_id>. Every failure is a miss.
type RedisProfileCache struct {
	rdb *cache.Redis
	ttl time.Duration
}

func NewRedisProfileCache(rdb *cache.Redis) *RedisProfileCache {
	return &RedisProfileCache{rdb: rdb, ttl: rdb.DefaultTTL()}
}

func ProfileKey(userID uuid.UUID) string {
	return "profile:" + userID.String()
}

func (c *RedisProfileCache) Get(ctx context.Context, userID uuid.UUID) (profile.Profile, bool) {
	var p profile.Profile
	hit, err := c.rdb.GetJSON(ctx, ProfileKey(userID), &p)
	if err != nil || !hit {
		return profile.Profile{}, false
	}
	return p, true
}

func (c *RedisProfileCache) Set(ctx context.Context, p profile.Profile) {
	_ = c.rdb.SetJSON(ctx, ProfileKey(p.UserID), p, c.ttl)
}

func (c *RedisProfileCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	_ = c.rdb.Delete(ctx, ProfileKey(userID))
}

type nopProfileCache struct{}

func (nopProfileCache) Get(context.Context, uuid.UUID) (profile.Profile, bool) {
	return profile.Profile{}, false
}

func (nopProfileCache) Set(context.Context, profile.Profile) {}

func (nopProfileCache) Invalidate(context.Context, uuid.UUID) {}
