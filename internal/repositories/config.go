package repositories

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/prankpay/prank-wallet/internal/logger"
	"github.com/prankpay/prank-wallet/internal/models"
)

// ConfigRepository persists prank configurations in Redis, one JSON
// value per session.
type ConfigRepository struct {
	client *redis.Client
}

// NewConfigRepository creates a new repository instance.
func NewConfigRepository(client *redis.Client) *ConfigRepository {
	return &ConfigRepository{client: client}
}

func configKey(sessionID uuid.UUID) string {
	return "prank:config:" + sessionID.String()
}

// Get returns the saved configuration for a session, or nil when none
// exists. A corrupt blob is dropped and reported as absent so callers
// fall back to defaults instead of failing.
func (r *ConfigRepository) Get(ctx context.Context, sessionID uuid.UUID) (*models.PrankConfig, error) {
	key := configKey(sessionID)

	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		logger.Log.Errorw("config blob read failed", "key", key, "error", err)
		return nil, err
	}

	var cfg models.PrankConfig
	if err := json.Unmarshal([]byte(val), &cfg); err != nil {
		logger.Log.Warnw("discarding corrupt config blob", "key", key, "error", err)
		return nil, nil
	}

	return &cfg, nil
}

// Save overwrites the saved configuration for a session.
func (r *ConfigRepository) Save(ctx context.Context, sessionID uuid.UUID, cfg models.PrankConfig) error {
	key := configKey(sessionID)

	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, 0).Err()
	logger.Log.Infow("config blob saved", "key", key, "error", err)
	return err
}
