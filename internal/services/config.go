package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/prankpay/prank-wallet/internal/logger"
	"github.com/prankpay/prank-wallet/internal/models"
)

// ConfigStore persists prank configurations keyed by session.
type ConfigStore interface {
	Get(ctx context.Context, sessionID uuid.UUID) (*models.PrankConfig, error) // Returns nil when none saved
	Save(ctx context.Context, sessionID uuid.UUID, cfg models.PrankConfig) error
}

// WalletInvalidator clears the persisted wallet for a session.
type WalletInvalidator interface {
	Delete(ctx context.Context, sessionID uuid.UUID) error
}

// ConfigService reads and replaces the prank configuration for a
// session. Reads always succeed: missing or corrupt state degrades to
// the stock defaults.
type ConfigService struct {
	store   ConfigStore
	wallets WalletInvalidator
}

// NewConfigService creates a new ConfigService.
func NewConfigService(store ConfigStore, wallets WalletInvalidator) *ConfigService {
	return &ConfigService{store: store, wallets: wallets}
}

// Get returns the effective configuration for a session, merged over
// defaults so every field is usable.
func (s *ConfigService) Get(ctx context.Context, sessionID uuid.UUID) models.PrankConfig {
	if s.store == nil {
		return models.DefaultPrankConfig()
	}

	cfg, err := s.store.Get(ctx, sessionID)
	if err != nil {
		logger.Log.Warnw("config read failed, using defaults", "session_id", sessionID, "error", err)
		return models.DefaultPrankConfig()
	}
	if cfg == nil {
		return models.DefaultPrankConfig()
	}

	return mergeDefaults(*cfg)
}

// Save normalizes and stores a new configuration wholesale, then clears
// the persisted wallet so the next load reseeds from the new starting
// balance. It returns the normalized configuration.
func (s *ConfigService) Save(ctx context.Context, sessionID uuid.UUID, cfg models.PrankConfig) (models.PrankConfig, error) {
	norm := normalize(cfg)

	if err := s.store.Save(ctx, sessionID, norm); err != nil {
		logger.Log.Errorw("failed to save config", "session_id", sessionID, "error", err)
		return norm, err
	}

	if s.wallets != nil {
		if err := s.wallets.Delete(ctx, sessionID); err != nil {
			logger.Log.Errorw("failed to invalidate wallet after settings save",
				"session_id", sessionID, "error", err)
		}
	}

	logger.Log.Infow("config saved", "session_id", sessionID, "amount_mode", norm.AmountMode)
	return norm, nil
}

// normalize coerces user input to safe values: blank names get
// defaults, unknown modes become fixed, and negative or non-numeric
// amounts become zero. Invalid input is repaired, never rejected.
func normalize(cfg models.PrankConfig) models.PrankConfig {
	cfg.PranksterName = strings.TrimSpace(cfg.PranksterName)
	cfg.FriendName = strings.TrimSpace(cfg.FriendName)
	if cfg.PranksterName == "" {
		cfg.PranksterName = models.DefaultPranksterName
	}
	if cfg.FriendName == "" {
		cfg.FriendName = models.DefaultFriendName
	}

	if cfg.AmountMode != models.AmountModeRange {
		cfg.AmountMode = models.AmountModeFixed
	}

	cfg.FixedAmount = sanitizeAmount(cfg.FixedAmount)
	cfg.MinAmount = sanitizeAmount(cfg.MinAmount)
	cfg.MaxAmount = sanitizeAmount(cfg.MaxAmount)
	cfg.StartingBalance = sanitizeAmount(cfg.StartingBalance)

	return cfg
}

func sanitizeAmount(v *float64) *float64 {
	if v == nil {
		return nil
	}
	if !models.IsFinite(*v) || *v < 0 {
		return models.Float64Ptr(0)
	}
	return models.Float64Ptr(models.Round2(*v))
}

func mergeDefaults(cfg models.PrankConfig) models.PrankConfig {
	def := models.DefaultPrankConfig()
	if strings.TrimSpace(cfg.PranksterName) == "" {
		cfg.PranksterName = def.PranksterName
	}
	if strings.TrimSpace(cfg.FriendName) == "" {
		cfg.FriendName = def.FriendName
	}
	if cfg.AmountMode != models.AmountModeFixed && cfg.AmountMode != models.AmountModeRange {
		cfg.AmountMode = def.AmountMode
	}
	return cfg
}
