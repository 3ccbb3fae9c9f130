package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/prankpay/prank-wallet/internal/logger"
	"github.com/prankpay/prank-wallet/internal/models"
)

// WalletStore persists wallet blobs keyed by session.
type WalletStore interface {
	Get(ctx context.Context, sessionID uuid.UUID) (*models.Wallet, error)    // Returns nil when no usable blob exists
	Save(ctx context.Context, sessionID uuid.UUID, w models.Wallet) error    // Overwrites the persisted wallet
	Delete(ctx context.Context, sessionID uuid.UUID) error                   // Removes the persisted wallet
}

// SettlementAuditor records settled transactions durably.
type SettlementAuditor interface {
	SaveSettlement(ctx context.Context, sessionID uuid.UUID, txn models.Transaction) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// Ledger is the wallet state for one session: the displayed balance and
// the transaction history, newest first. The in-memory copy is
// authoritative; the store, the audit log and the event stream are all
// fire-and-forget, so a persistence failure never loses a settlement
// for the rest of the session.
//
// The timing engine is the only writer; presentation reads snapshots.
type Ledger struct {
	mu           sync.Mutex
	sessionID    uuid.UUID
	balance      float64
	transactions []models.Transaction

	store       WalletStore
	audit       SettlementAuditor
	kafkaWriter KafkaWriter
}

// NewLedger creates a Ledger for one session. Store, audit and Kafka
// writer may each be nil; the corresponding side effect is skipped.
func NewLedger(sessionID uuid.UUID, store WalletStore, audit SettlementAuditor, kafkaWriter KafkaWriter) *Ledger {
	return &Ledger{
		sessionID:   sessionID,
		store:       store,
		audit:       audit,
		kafkaWriter: kafkaWriter,
	}
}

// Load initializes the ledger. A persisted wallet is used verbatim; a
// missing or corrupt one is reseeded from the configured starting
// balance and the stock sample history.
func (l *Ledger) Load(ctx context.Context, cfg models.PrankConfig) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.store != nil {
		wallet, err := l.store.Get(ctx, l.sessionID)
		if err != nil {
			logger.Log.Warnw("wallet load failed, seeding fresh", "session_id", l.sessionID, "error", err)
		}
		if wallet != nil {
			l.balance = wallet.Balance
			l.transactions = wallet.Transactions
			return nil
		}
	}

	l.seedLocked(cfg)
	l.persistLocked(ctx)
	return nil
}

// Apply commits one settlement: creates the transaction, prepends it to
// the history, moves the balance, and fans out persistence, audit and
// the settlement event. It returns the created transaction for display.
func (l *Ledger) Apply(ctx context.Context, amt float64, direction models.Direction, counterparty string) (models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	name := strings.TrimSpace(counterparty)
	if name == "" {
		name = models.DefaultFriendName
	}

	txn := models.Transaction{
		ID:        uuid.NewString(),
		Title:     name,
		Subtitle:  subtitleFor(direction),
		Amount:    models.Round2(amt),
		Direction: direction,
		IsPrank:   true,
		CreatedAt: time.Now().Unix(),
	}

	if direction == models.DirectionOut {
		l.balance = models.Round2(l.balance - txn.Amount)
	} else {
		l.balance = models.Round2(l.balance + txn.Amount)
	}
	l.transactions = append([]models.Transaction{txn}, l.transactions...)

	l.persistLocked(ctx)

	if l.audit != nil {
		if err := l.audit.SaveSettlement(ctx, l.sessionID, txn); err != nil {
			logger.Log.Errorw("failed to audit settlement", "transaction_id", txn.ID, "error", err)
		}
	}

	l.publishSettlementLocked(ctx, txn)

	logger.Log.Infow("settlement applied",
		"session_id", l.sessionID, "transaction_id", txn.ID,
		"amount", txn.Amount, "direction", txn.Direction, "balance", l.balance)

	return txn, nil
}

// Reset clears the persisted wallet and reseeds from the configuration.
func (l *Ledger) Reset(ctx context.Context, cfg models.PrankConfig) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.store != nil {
		if err := l.store.Delete(ctx, l.sessionID); err != nil {
			logger.Log.Errorw("failed to clear persisted wallet", "session_id", l.sessionID, "error", err)
		}
	}

	l.seedLocked(cfg)
	l.persistLocked(ctx)
	return nil
}

// Snapshot returns a copy of the current wallet state.
func (l *Ledger) Snapshot() models.Wallet {
	l.mu.Lock()
	defer l.mu.Unlock()

	txns := make([]models.Transaction, len(l.transactions))
	copy(txns, l.transactions)
	return models.Wallet{Balance: l.balance, Transactions: txns}
}

func (l *Ledger) seedLocked(cfg models.PrankConfig) {
	balance := models.DefaultStartingBalance
	if cfg.StartingBalance != nil && models.IsFinite(*cfg.StartingBalance) && *cfg.StartingBalance >= 0 {
		balance = *cfg.StartingBalance
	}
	l.balance = models.Round2(balance)
	l.transactions = models.SampleTransactions()
}

func (l *Ledger) persistLocked(ctx context.Context) {
	if l.store == nil {
		return
	}
	wallet := models.Wallet{Balance: l.balance, Transactions: l.transactions}
	if err := l.store.Save(ctx, l.sessionID, wallet); err != nil {
		logger.Log.Errorw("failed to persist wallet, in-memory state stays authoritative",
			"session_id", l.sessionID, "error", err)
	}
}

// publishSettlementLocked publishes a settlement event to Kafka.
func (l *Ledger) publishSettlementLocked(ctx context.Context, txn models.Transaction) {
	if l.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping settlement event", "transaction_id", txn.ID)
		return
	}

	event := models.SettlementEvent{
		TransactionID: txn.ID,
		SessionID:     l.sessionID.String(),
		Amount:        txn.Amount,
		Direction:     string(txn.Direction),
		Counterparty:  txn.Title,
		Timestamp:     txn.CreatedAt,
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal settlement event", "transaction_id", txn.ID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(txn.ID),
		Value: data,
	}

	if err := l.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish settlement event", "transaction_id", txn.ID, "error", err)
	} else {
		logger.Log.Infow("settlement event published", "transaction_id", txn.ID, "amount", txn.Amount)
	}
}

func subtitleFor(direction models.Direction) string {
	if direction == models.DirectionOut {
		return "Sent • Just now"
	}
	return "Received • Just now"
}
