package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CartStore is the interface the cart service depends on.
type CartStore interface {
	GetCart(ctx context.Context, sessionID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
}

// CartRepository persists per-session carts in Redis as JSON blobs with a TTL.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCartRepository creates a new CartRepository.
func NewCartRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *CartRepository) getKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

// GetCart loads the cart for a session. A missing key returns (nil, nil).
// Corrupt stored data is discarded and treated as an empty cart rather than
// surfaced as an error.
func (r *CartRepository) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	key := r.getKey(sessionID)
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		r.logger.Warn("Discarding corrupt cart data",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		_ = r.client.Del(ctx, key).Err()
		return nil, nil
	}
	return &cart, nil
}

// SaveCart writes the cart back with a fresh TTL.
func (r *CartRepository) SaveCart(ctx context.Context, cart *models.Cart) error {
	key := r.getKey(cart.SessionID)
	cart.UpdatedAt = time.Now()

	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

// DeleteCart removes the session's cart entirely.
func (r *CartRepository) DeleteCart(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.getKey(sessionID)).Err()
}
