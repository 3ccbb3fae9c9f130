package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prankpay/prank-wallet/internal/logger"
	"github.com/prankpay/prank-wallet/internal/models"
)

// AuditRepository records settled prank transactions in Postgres. The
// write is fire-and-forget from the caller's point of view: failures are
// returned for logging but never roll back the in-memory ledger.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new repository instance.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// SaveSettlement inserts one settlement row.
func (r *AuditRepository) SaveSettlement(ctx context.Context, sessionID uuid.UUID, txn models.Transaction) error {
	query := `
		INSERT INTO prank_settlements (settlement_id, session_id, transaction_id, amount, direction, counterparty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New(), sessionID, txn.ID, txn.Amount, string(txn.Direction), txn.Title)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{sessionID, txn.ID, txn.Amount, txn.Direction, txn.Title},
		"error", err,
	)

	return err
}
