package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/prankpay/prank-wallet/internal/amount"
	"github.com/prankpay/prank-wallet/internal/engine"
	"github.com/prankpay/prank-wallet/internal/logger"
	"github.com/prankpay/prank-wallet/internal/models"
)

// Session bundles everything one wallet screen owns: the timing engine
// and the ledger it settles into. Engine phase state lives only here,
// so a new session always starts idle.
type Session struct {
	ID     uuid.UUID
	Engine *engine.Engine
	Ledger *Ledger
}

// SessionService owns the registry of live sessions and wires each new
// one together from the shared stores.
type SessionService struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	configs          *ConfigService
	wallets          WalletStore
	audit            SettlementAuditor
	settlementWriter KafkaWriter
	chimeWriter      KafkaWriter
	timings          engine.Timings
}

// NewSessionService creates a new SessionService. The settlement and
// chime writers publish to separate topics; either may be nil.
func NewSessionService(
	configs *ConfigService,
	wallets WalletStore,
	audit SettlementAuditor,
	settlementWriter KafkaWriter,
	chimeWriter KafkaWriter,
	timings engine.Timings,
) *SessionService {
	return &SessionService{
		sessions:         make(map[uuid.UUID]*Session),
		configs:          configs,
		wallets:          wallets,
		audit:            audit,
		settlementWriter: settlementWriter,
		chimeWriter:      chimeWriter,
		timings:          timings,
	}
}

// Create builds and registers a new session: loads (or seeds) its
// wallet and constructs its engine.
func (s *SessionService) Create(ctx context.Context) (*Session, error) {
	id := uuid.New()

	cfg := s.configs.Get(ctx, id)

	ledger := NewLedger(id, s.wallets, s.audit, s.settlementWriter)
	if err := ledger.Load(ctx, cfg); err != nil {
		return nil, err
	}

	configFn := func(ctx context.Context) models.PrankConfig {
		return s.configs.Get(ctx, id)
	}
	chime := NewChimeNotifier(id, s.chimeWriter)
	eng := engine.New(amount.New(), configFn, ledger, chime, s.timings)

	session := &Session{ID: id, Engine: eng, Ledger: ledger}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	logger.Log.Infow("session created", "session_id", id)
	return session, nil
}

// Get returns a live session by ID.
func (s *SessionService) Get(id uuid.UUID) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	return session, ok
}

// Teardown removes a session and closes its engine, cancelling every
// scheduled transition. It reports whether the session existed.
func (s *SessionService) Teardown(id uuid.UUID) bool {
	s.mu.Lock()
	session, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return false
	}

	session.Engine.Close()
	logger.Log.Infow("session torn down", "session_id", id)
	return true
}

// Close tears down every live session.
func (s *SessionService) Close() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for id, session := range s.sessions {
		sessions = append(sessions, session)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, session := range sessions {
		session.Engine.Close()
	}
}
