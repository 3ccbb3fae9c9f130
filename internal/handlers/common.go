package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/prankpay/prank-wallet/internal/jwt"
	"github.com/prankpay/prank-wallet/internal/services"
)

// Tokener defines the token methods handlers need to identify a session.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// SessionGetter resolves a live session by ID.
type SessionGetter interface {
	Get(id uuid.UUID) (*services.Session, bool)
}

// ErrorResponse represents a generic error payload
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: Unauthorized
	Error string `json:"error"`
}
