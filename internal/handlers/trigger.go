package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/prankpay/prank-wallet/internal/logger"
)

// TriggerResponse reports the engine state after a tap
// swagger:model TriggerResponse
type TriggerResponse struct {
	// Whether this tap started a new prank cycle
	Started bool `json:"started"`

	// Engine phase after the tap
	Phase string `json:"phase"`

	// Amount locked in for the in-flight cycle
	PendingAmount float64 `json:"pending_amount,omitempty"`
}

// NewTriggerHandler returns an HTTP handler for the card tap. Taps that
// arrive while a cycle is already in flight are answered with the
// current phase, never an error: at most one settlement results.
// @Summary Tap the card
// @Description Starts one prank cycle. Re-entrant taps are ignored.
// @Tags wallet
// @Produce json
// @Success 202 {object} handlers.TriggerResponse "Cycle started"
// @Success 200 {object} handlers.TriggerResponse "Tap ignored, cycle already in flight"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Session not found"
// @Router /wallet/trigger [post]
// @Security BearerAuth
func NewTriggerHandler(
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

		started := session.Engine.Trigger(ctx)
		phase, pending := session.Engine.State()

		resp := TriggerResponse{
			Started:       started,
			Phase:         string(phase),
			PendingAmount: pending,
		}

		w.Header().Set("Content-Type", "application/json")
		if started {
			w.WriteHeader(http.StatusAccepted)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(resp)
	}
}

// NewConfirmHandler returns an HTTP handler for the explicit
// confirmation signal, which short-circuits the pending delay.
// @Summary Confirm the pending transfer
// @Description Advances a pending cycle to settling immediately. A no-op outside the pending phase.
// @Tags wallet
// @Produce json
// @Success 200 {object} handlers.TriggerResponse "Engine state after confirmation"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Session not found"
// @Router /wallet/confirm [post]
// @Security BearerAuth
func NewConfirmHandler(
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

		confirmed := session.Engine.Confirm(ctx)
		phase, pending := session.Engine.State()

		resp := TriggerResponse{
			Started:       confirmed,
			Phase:         string(phase),
			PendingAmount: pending,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}
