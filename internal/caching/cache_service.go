package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"canteenhub/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Menu item caching
	GetMenuItem(ctx context.Context, itemID uuid.UUID) (*models.MenuItem, error)
	SetMenuItem(ctx context.Context, item *models.MenuItem, ttl time.Duration) error
	DeleteMenuItem(ctx context.Context, itemID uuid.UUID) error

	// Session management: session token -> employee id binding
	SetSession(ctx context.Context, sessionID string, employeeID uuid.UUID, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (uuid.UUID, bool, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Session carts
	GetCart(ctx context.Context, sessionID string) (models.Cart, error)
	SetCart(ctx context.Context, sessionID string, cart models.Cart, ttl time.Duration) error
	ClearCart(ctx context.Context, sessionID string) error

	// Cache invalidation
	InvalidateMenuCache(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisClient builds the shared redis client. The address accepts
// redis://host:port as well as a bare host:port.
func NewRedisClient(addr, password string, db int) *redis.Client {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}
	return client
}

func NewRedisCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetMenuItem(ctx context.Context, itemID uuid.UUID) (*models.MenuItem, error) {
	key := fmt.Sprintf("canteen:menuitem:%s", itemID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var item models.MenuItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *redisCacheService) SetMenuItem(ctx context.Context, item *models.MenuItem, ttl time.Duration) error {
	key := fmt.Sprintf("canteen:menuitem:%s", item.ID.String())
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteMenuItem(ctx context.Context, itemID uuid.UUID) error {
	key := fmt.Sprintf("canteen:menuitem:%s", itemID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) SetSession(ctx context.Context, sessionID string, employeeID uuid.UUID, ttl time.Duration) error {
	key := fmt.Sprintf("canteen:session:%s", sessionID)
	return r.client.Set(ctx, key, employeeID.String(), ttl).Err()
}

func (r *redisCacheService) GetSession(ctx context.Context, sessionID string) (uuid.UUID, bool, error) {
	key := fmt.Sprintf("canteen:session:%s", sessionID)
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return uuid.Nil, false, nil // not bound
		}
		return uuid.Nil, false, err
	}
	employeeID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, err
	}
	return employeeID, true, nil
}

func (r *redisCacheService) DeleteSession(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf("canteen:session:%s", sessionID)
	return r.client.Del(ctx, key).Err()
}

// GetCart returns the session cart. A missing key is an empty cart, never an
// error, since carts expire with the session.
func (r *redisCacheService) GetCart(ctx context.Context, sessionID string) (models.Cart, error) {
	key := fmt.Sprintf("canteen:cart:%s", sessionID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return models.Cart{}, nil
		}
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *redisCacheService) SetCart(ctx context.Context, sessionID string, cart models.Cart, ttl time.Duration) error {
	key := fmt.Sprintf("canteen:cart:%s", sessionID)
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) ClearCart(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf("canteen:cart:%s", sessionID)
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) InvalidateMenuCache(ctx context.Context) error {
	keys, err := r.client.Keys(ctx, "canteen:menuitem:*").Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}
