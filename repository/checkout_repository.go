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

// CheckoutStore is the interface the checkout service depends on.
type CheckoutStore interface {
	GetSession(ctx context.Context, sessionID string) (*models.CheckoutSession, error)
	SaveSession(ctx context.Context, session *models.CheckoutSession) error
	DeleteSession(ctx context.Context, sessionID string) error
}

// CheckoutRepository persists the per-session checkout wizard state in Redis.
type CheckoutRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCheckoutRepository creates a new CheckoutRepository.
func NewCheckoutRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger) *CheckoutRepository {
	return &CheckoutRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *CheckoutRepository) getKey(sessionID string) string {
	return fmt.Sprintf("checkout:session:%s", sessionID)
}

// GetSession loads the checkout session. A missing key returns (nil, nil);
// corrupt data is discarded like the cart repository does.
func (r *CheckoutRepository) GetSession(ctx context.Context, sessionID string) (*models.CheckoutSession, error) {
	key := r.getKey(sessionID)
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session models.CheckoutSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		r.logger.Warn("Discarding corrupt checkout session",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		_ = r.client.Del(ctx, key).Err()
		return nil, nil
	}
	return &session, nil
}

// SaveSession writes the session back with a fresh TTL.
func (r *CheckoutRepository) SaveSession(ctx context.Context, session *models.CheckoutSession) error {
	key := r.getKey(session.SessionID)
	session.UpdatedAt = time.Now()

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

// DeleteSession removes the session state.
func (r *CheckoutRepository) DeleteSession(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.getKey(sessionID)).Err()
}
