package repositories

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/prankpay/prank-wallet/internal/logger"
	"github.com/prankpay/prank-wallet/internal/models"
)

// WalletRepository persists wallet blobs in Redis, one JSON value per
// session. It is the hosted analogue of the phone's local storage: a
// corrupt or missing value is reported as absent, never as an error the
// caller must surface.
type WalletRepository struct {
	client *redis.Client
}

// NewWalletRepository creates a new repository instance.
func NewWalletRepository(client *redis.Client) *WalletRepository {
	return &WalletRepository{client: client}
}

func walletKey(sessionID uuid.UUID) string {
	return "prank:wallet:" + sessionID.String()
}

// Get returns the persisted wallet for a session, or nil when no usable
// blob exists.
func (r *WalletRepository) Get(ctx context.Context, sessionID uuid.UUID) (*models.Wallet, error) {
	key := walletKey(sessionID)

	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		logger.Log.Errorw("wallet blob read failed", "key", key, "error", err)
		return nil, err
	}

	var wallet models.Wallet
	if err := json.Unmarshal([]byte(val), &wallet); err != nil {
		logger.Log.Warnw("discarding corrupt wallet blob", "key", key, "error", err)
		return nil, nil
	}

	logger.Log.Infow("wallet blob loaded", "key", key, "balance", wallet.Balance)
	return &wallet, nil
}

// Save overwrites the persisted wallet for a session.
func (r *WalletRepository) Save(ctx context.Context, sessionID uuid.UUID, wallet models.Wallet) error {
	key := walletKey(sessionID)

	data, err := json.Marshal(wallet)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, 0).Err()
	logger.Log.Infow("wallet blob saved", "key", key, "balance", wallet.Balance, "error", err)
	return err
}

// Delete removes the persisted wallet so the next load reseeds.
func (r *WalletRepository) Delete(ctx context.Context, sessionID uuid.UUID) error {
	key := walletKey(sessionID)
	err := r.client.Del(ctx, key).Err()
	logger.Log.Infow("wallet blob deleted", "key", key, "error", err)
	return err
}
