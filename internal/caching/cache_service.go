package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"oona/internal/cart"
	"oona/internal/models"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "oona"

type CacheService interface {
	// Menu caching. Entries are keyed by a generation that InvalidateMenu
	// bumps, so a list loaded before an invalidation is never served after it.
	MenuVersion(ctx context.Context) (int64, error)
	GetMenuItems(ctx context.Context) ([]*models.MenuItem, error)
	SetMenuItems(ctx context.Context, version int64, items []*models.MenuItem, ttl time.Duration) error
	InvalidateMenu(ctx context.Context) error

	// Cart sessions
	GetCart(ctx context.Context, sessionID string) (*cart.Cart, error)
	SetCart(ctx context.Context, sessionID string, c *cart.Cart, ttl time.Duration) error
	DeleteCart(ctx context.Context, sessionID string) error

	// Staff sessions
	SetSession(ctx context.Context, session *models.Session, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	ResetRateLimit(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client redis.Cmdable
}

// NewRedisCacheService dials Redis. addr may carry a redis:// or rediss:// scheme.
func NewRedisCacheService(addr, password string, db int) (CacheService, *redis.Client) {
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Warnf("redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	} else {
		log.Debugf("redis connection established at %s", parsedAddr)
	}

	return NewCacheService(client), client
}

// NewCacheService wraps an existing client.
func NewCacheService(client redis.Cmdable) CacheService {
	return &redisCacheService{client: client}
}

func key(parts ...string) string {
	return keyPrefix + ":" + strings.Join(parts, ":")
}

func (r *redisCacheService) getJSON(ctx context.Context, k string, dst any) (bool, error) {
	data, err := r.client.Get(ctx, k).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // cache miss
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", k, err)
	}
	return true, nil
}

func (r *redisCacheService) setJSON(ctx context.Context, k string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, k, data, ttl).Err()
}

func menuKey(version int64) string {
	return key("menu", strconv.FormatInt(version, 10))
}

func (r *redisCacheService) MenuVersion(ctx context.Context) (int64, error) {
	version, err := r.client.Get(ctx, key("menu", "version")).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}

func (r *redisCacheService) GetMenuItems(ctx context.Context) ([]*models.MenuItem, error) {
	version, err := r.MenuVersion(ctx)
	if err != nil {
		return nil, err
	}
	var items []*models.MenuItem
	found, err := r.getJSON(ctx, menuKey(version), &items)
	if err != nil || !found {
		return nil, err
	}
	return items, nil
}

func (r *redisCacheService) SetMenuItems(ctx context.Context, version int64, items []*models.MenuItem, ttl time.Duration) error {
	return r.setJSON(ctx, menuKey(version), items, ttl)
}

// InvalidateMenu moves readers to a fresh generation; older entries expire on their own.
func (r *redisCacheService) InvalidateMenu(ctx context.Context) error {
	return r.client.Incr(ctx, key("menu", "version")).Err()
}

func (r *redisCacheService) GetCart(ctx context.Context, sessionID string) (*cart.Cart, error) {
	c := cart.New()
	found, err := r.getJSON(ctx, key("cart", sessionID), c)
	if err != nil || !found {
		return nil, err
	}
	return c, nil
}

func (r *redisCacheService) SetCart(ctx context.Context, sessionID string, c *cart.Cart, ttl time.Duration) error {
	return r.setJSON(ctx, key("cart", sessionID), c, ttl)
}

func (r *redisCacheService) DeleteCart(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, key("cart", sessionID)).Err()
}

func (r *redisCacheService) SetSession(ctx context.Context, session *models.Session, ttl time.Duration) error {
	return r.setJSON(ctx, key("session", session.ID), session, ttl)
}

func (r *redisCacheService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session := &models.Session{}
	found, err := r.getJSON(ctx, key("session", sessionID), session)
	if err != nil || !found {
		return nil, err
	}
	return session, nil
}

func (r *redisCacheService) DeleteSession(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, key("session", sessionID)).Err()
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, k string, limit int, window time.Duration) (bool, error) {
	cacheKey := key("ratelimit", k)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// A counter without expiry would lock the client out for good, so a
	// missing TTL is repaired on any later attempt too.
	if count == 1 {
		err = r.client.Expire(ctx, cacheKey, window).Err()
	} else if ttl, ttlErr := r.client.TTL(ctx, cacheKey).Result(); ttlErr == nil && ttl < 0 {
		err = r.client.Expire(ctx, cacheKey, window).Err()
	}
	if err != nil {
		return count > int64(limit), fmt.Errorf("set rate limit expiry: %w", err)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) ResetRateLimit(ctx context.Context, k string) error {
	return r.client.Del(ctx, key("ratelimit", k)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
