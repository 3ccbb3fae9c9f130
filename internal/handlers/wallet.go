package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/prankpay/prank-wallet/internal/logger"
	"github.com/prankpay/prank-wallet/internal/models"
)

// WalletResponse is the live view of one wallet session
// swagger:model WalletResponse
type WalletResponse struct {
	// Current card balance
	Balance float64 `json:"balance"`

	// Engine phase: idle, pending, settling or settled
	Phase string `json:"phase"`

	// Amount locked in for the in-flight cycle, zero while idle
	PendingAmount float64 `json:"pending_amount,omitempty"`

	// Transaction history, newest first
	Transactions []models.Transaction `json:"transactions"`
}

// NewGetWalletHandler returns an HTTP handler for reading wallet state.
// @Summary Get wallet
// @Description Returns the current balance, engine phase and transaction history for the session.
// @Tags wallet
// @Produce json
// @Success 200 {object} handlers.WalletResponse "Wallet state"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Session not found"
// @Router /wallet [get]
// @Security BearerAuth
func NewGetWalletHandler(
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

		session, ok := sessions.Get(claims.SessionID)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Session not found"})
			return
		}

		wallet := session.Ledger.Snapshot()
		phase, pending := session.Engine.State()

		resp := WalletResponse{
			Balance:       wallet.Balance,
			Phase:         string(phase),
			PendingAmount: pending,
			Transactions:  wallet.Transactions,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}
