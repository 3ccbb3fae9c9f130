package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/prankpay/prank-wallet/internal/logger"
	"github.com/prankpay/prank-wallet/internal/models"
	"github.com/prankpay/prank-wallet/internal/services"
)

// SessionCreator starts a new wallet session.
type SessionCreator interface {
	Create(ctx context.Context) (*services.Session, error)
}

// SessionRemover tears a session down.
type SessionRemover interface {
	Teardown(id uuid.UUID) bool
}

// SessionTokener mints session tokens.
type SessionTokener interface {
	Generate(ctx context.Context, sessionID uuid.UUID) (string, error)
}

// CreateSessionResponse is returned when a wallet session is opened
// swagger:model CreateSessionResponse
type CreateSessionResponse struct {
	// Bearer token identifying the session
	Token string `json:"token"`

	// Session identifier
	SessionID string `json:"session_id"`

	// Initial card balance
	Balance float64 `json:"balance"`

	// Initial transaction history, newest first
	Transactions []models.Transaction `json:"transactions"`
}

// DeleteSessionResponse confirms a teardown
// swagger:model DeleteSessionResponse
type DeleteSessionResponse struct {
	// Success message
	// default: Session closed
	Message string `json:"message"`
}

// NewCreateSessionHandler returns an HTTP handler that opens a wallet session.
// @Summary Open wallet session
// @Description Creates a new prank wallet session, seeding or loading its wallet, and returns a bearer token for it.
// @Tags session
// @Produce json
// @Success 201 {object} handlers.CreateSessionResponse "Session created"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /session [post]
func NewCreateSessionHandler(
	svc SessionCreator,
	tokens SessionTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		session, err := svc.Create(ctx)
		if err != nil {
			logger.Log.Errorw("failed to create session", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal server error"})
			return
		}

		token, err := tokens.Generate(ctx, session.ID)
		if err != nil {
			logger.Log.Errorw("failed to generate session token", "session_id", session.ID, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal server error"})
			return
		}

		wallet := session.Ledger.Snapshot()
		resp := CreateSessionResponse{
			Token:        token,
			SessionID:    session.ID.String(),
			Balance:      wallet.Balance,
			Transactions: wallet.Transactions,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(resp)
	}
}

// NewDeleteSessionHandler returns an HTTP handler that tears a session down.
// @Summary Close wallet session
// @Description Cancels every scheduled prank transition and removes the session.
// @Tags session
// @Produce json
// @Success 200 {object} handlers.DeleteSessionResponse "Session closed"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Session not found"
// @Router /session [delete]
// @Security BearerAuth
func NewDeleteSessionHandler(
	svc SessionRemover,
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

		if !svc.Teardown(claims.SessionID) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Session not found"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(DeleteSessionResponse{Message: "Session closed"})
	}
}
