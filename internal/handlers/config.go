package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/prankpay/prank-wallet/internal/logger"
	"github.com/prankpay/prank-wallet/internal/models"
)

// ConfigGetter reads the effective configuration for a session.
type ConfigGetter interface {
	Get(ctx context.Context, sessionID uuid.UUID) models.PrankConfig
}

// ConfigSaver replaces the stored configuration for a session.
type ConfigSaver interface {
	Save(ctx context.Context, sessionID uuid.UUID, cfg models.PrankConfig) (models.PrankConfig, error)
}

// NewGetConfigHandler returns an HTTP handler for reading prank settings.
// @Summary Get prank settings
// @Description Returns the effective prank configuration for the session, merged over defaults.
// @Tags config
// @Produce json
// @Success 200 {object} models.PrankConfig "Effective configuration"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /config [get]
// @Security BearerAuth
func NewGetConfigHandler(
	configs ConfigGetter,
	tokenGetter Tokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
			return
		}

		cfg := configs.Get(ctx, claims.SessionID)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(cfg)
	}
}

// NewSaveConfigHandler returns an HTTP handler that replaces prank
// settings wholesale. Saving clears the persisted wallet and reseeds
// the live session's ledger so the new starting balance takes effect
// immediately.
// @Summary Save prank settings
// @Description Replaces the prank configuration and reseeds the wallet from the new starting balance.
// @Tags config
// @Accept json
// @Produce json
// @Success 200 {object} models.PrankConfig "Normalized stored configuration"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request payload"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /config [put]
// @Security BearerAuth
func NewSaveConfigHandler(
	configs ConfigSaver,
	sessions SessionGetter,
	tokenGetter Tokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
			return
		}

		var cfg models.PrankConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			logger.Log.Errorw("failed to decode config payload", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request payload"})
			return
		}

		norm, err := configs.Save(ctx, claims.SessionID, cfg)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal server error"})
			return
		}

		if session, ok := sessions.Get(claims.SessionID); ok {
			if err := session.Ledger.Reset(ctx, norm); err != nil {
				logger.Log.Errorw("failed to reseed wallet after settings save",
					"session_id", claims.SessionID, "error", err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(norm)
	}
}
