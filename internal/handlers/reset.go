package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/prankpay/prank-wallet/internal/logger"
	"github.com/prankpay/prank-wallet/internal/models"
)

// ResetResponse is returned after a wallet reset
// swagger:model ResetResponse
type ResetResponse struct {
	// Balance after reseeding
	Balance float64 `json:"balance"`

	// Reseeded transaction history, newest first
	Transactions []models.Transaction `json:"transactions"`
}

// NewResetHandler returns an HTTP handler that discards the wallet and
// reseeds it from the current configuration.
// @Summary Reset wallet
// @Description Clears the persisted wallet and reseeds the balance and sample history from the stored settings.
// @Tags wallet
// @Produce json
// @Success 200 {object} handlers.ResetResponse "Reseeded wallet"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Session not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /wallet/reset [post]
// @Security BearerAuth
func NewResetHandler(
	sessions SessionGetter,
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

		session, ok := sessions.Get(claims.SessionID)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Session not found"})
			return
		}

		cfg := configs.Get(ctx, claims.SessionID)
		if err := session.Ledger.Reset(ctx, cfg); err != nil {
			logger.Log.Errorw("failed to reset wallet", "session_id", claims.SessionID, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal server error"})
			return
		}

		wallet := session.Ledger.Snapshot()
		resp := ResetResponse{
			Balance:      wallet.Balance,
			Transactions: wallet.Transactions,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}
