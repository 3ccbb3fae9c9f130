package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/prankpay/prank-wallet/internal/logger"
	"github.com/prankpay/prank-wallet/internal/models"
)

// NewReceiptHandler returns an HTTP handler for the shareable receipt
// view. Every query parameter is optional: missing names fall back to
// the stored settings, then to generic labels, and a missing or bad
// amount renders as zero.
// @Summary Get receipt
// @Description Builds the receipt view for a settled transfer from query parameters, falling back to stored settings.
// @Tags receipt
// @Produce json
// @Param amount query number false "Transfer amount"
// @Param from query string false "Sender name"
// @Param to query string false "Recipient name"
// @Param direction query string false "Transfer direction: in, out or purchase"
// @Success 200 {object} models.Receipt "Receipt"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /receipt [get]
// @Security BearerAuth
func NewReceiptHandler(
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
		query := r.URL.Query()

		amount := 0.0
		if raw := query.Get("amount"); raw != "" {
			if parsed, err := strconv.ParseFloat(raw, 64); err == nil && models.IsFinite(parsed) && parsed >= 0 {
				amount = models.Round2(parsed)
			}
		}

		from := strings.TrimSpace(query.Get("from"))
		if from == "" {
			from = strings.TrimSpace(cfg.FriendName)
		}
		if from == "" {
			from = "Friend"
		}

		to := strings.TrimSpace(query.Get("to"))
		if to == "" {
			to = strings.TrimSpace(cfg.PranksterName)
		}
		if to == "" {
			to = "You"
		}

		direction := strings.ToLower(strings.TrimSpace(query.Get("direction")))
		switch direction {
		case "in", "out", "purchase":
		default:
			direction = "in"
		}

		receipt := models.Receipt{
			Amount:          amount,
			FormattedAmount: fmt.Sprintf("$%.2f", amount),
			From:            from,
			To:              to,
			Direction:       direction,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(receipt)
	}
}
