package engine

import (
	"context"
	"sync"
	"time"

	"github.com/prankpay/prank-wallet/internal/amount"
	"github.com/prankpay/prank-wallet/internal/logger"
	"github.com/prankpay/prank-wallet/internal/models"
)

// Phase is the display state of one prank cycle. Phase state is never
// persisted; a fresh engine always starts Idle.
type Phase string

const (
	PhaseIdle     Phase = "idle"     // no cycle in flight
	PhasePending  Phase = "pending"  // simulated verification delay
	PhaseSettling Phase = "settling" // about to chime and commit
	PhaseSettled  Phase = "settled"  // success dwell before returning to idle
)

// Settler commits a settled amount to the wallet ledger.
type Settler interface {
	Apply(ctx context.Context, amount float64, direction models.Direction, counterparty string) (models.Transaction, error)
}

// Chimer plays the confirmation sound cue for a settlement.
type Chimer interface {
	Play(ctx context.Context, amount float64) error
}

// ConfigFunc supplies the current prank configuration. It is called at
// trigger time so settings saved mid-session apply to the next cycle.
type ConfigFunc func(ctx context.Context) models.PrankConfig

// Timings are the delays between phase transitions.
type Timings struct {
	Pending  time.Duration // Pending -> Settling
	Settling time.Duration // Settling -> chime + commit
	Dwell    time.Duration // Settled -> Idle
}

// DefaultTimings matches the pacing of the phone overlay animation.
func DefaultTimings() Timings {
	return Timings{
		Pending:  1500 * time.Millisecond,
		Settling: time.Second,
		Dwell:    1600 * time.Millisecond,
	}
}

func (t Timings) normalized() Timings {
	d := DefaultTimings()
	if t.Pending <= 0 {
		t.Pending = d.Pending
	}
	if t.Settling <= 0 {
		t.Settling = d.Settling
	}
	if t.Dwell <= 0 {
		t.Dwell = d.Dwell
	}
	return t
}

// Engine drives one "send money" interaction from tap to settled
// transaction. It is single-flight: at most one cycle is in flight per
// session, and re-entrant triggers are ignored rather than queued.
//
// Every transition is driven by exactly one cancellable timer. All
// outstanding timers live in a single set so Close can cancel them
// atomically; a closed engine can never mutate the ledger again.
type Engine struct {
	mu      sync.Mutex
	phase   Phase
	pending float64
	cycle   uint64
	closed  bool
	timers  map[*time.Timer]struct{}

	ctx    context.Context
	cancel context.CancelFunc

	gen     *amount.Generator
	config  ConfigFunc
	ledger  Settler
	chime   Chimer
	timings Timings
}

// New creates an Engine for one wallet session.
func New(gen *amount.Generator, config ConfigFunc, ledger Settler, chime Chimer, timings Timings) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		phase:   PhaseIdle,
		timers:  make(map[*time.Timer]struct{}),
		ctx:     ctx,
		cancel:  cancel,
		gen:     gen,
		config:  config,
		ledger:  ledger,
		chime:   chime,
		timings: timings.normalized(),
	}
}

// Trigger starts one prank cycle. It reports whether a new cycle was
// started: calls made while a cycle is already in flight are ignored,
// so a burst of taps produces exactly one settlement.
func (e *Engine) Trigger(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.phase != PhaseIdle {
		logger.Log.Infow("trigger ignored", "phase", e.phase)
		return false
	}

	cfg := e.config(ctx)
	e.pending = e.gen.Generate(cfg)
	e.phase = PhasePending
	e.cycle++

	cycle := e.cycle
	e.scheduleLocked(e.timings.Pending, func() { e.beginSettling(cycle) })

	logger.Log.Infow("prank cycle started", "amount", e.pending, "cycle", cycle)
	return true
}

// Confirm short-circuits the Pending delay, advancing to Settling
// immediately. It is optional: without it the cycle advances on its own
// after the Pending timeout. Confirm reports whether it had any effect.
func (e *Engine) Confirm(ctx context.Context) bool {
	e.mu.Lock()
	if e.closed || e.phase != PhasePending {
		e.mu.Unlock()
		return false
	}
	e.stopTimersLocked()
	cycle := e.cycle
	e.mu.Unlock()

	e.beginSettling(cycle)
	return true
}

// State returns the current phase and the amount locked in for the
// in-flight cycle (zero while Idle).
func (e *Engine) State() (Phase, float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase, e.pending
}

// Close tears the engine down. Every scheduled transition is cancelled
// and no ledger mutation can fire afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.stopTimersLocked()
	e.cancel()
	e.phase = PhaseIdle
	e.pending = 0
}

func (e *Engine) beginSettling(cycle uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.cycle != cycle || e.phase != PhasePending {
		return
	}
	e.phase = PhaseSettling
	e.scheduleLocked(e.timings.Settling, func() { e.settle(cycle) })
}

func (e *Engine) settle(cycle uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.cycle != cycle || e.phase != PhaseSettling {
		return
	}

	// Cue first, commit second: consumers rely on hearing the chime
	// before the balance moves.
	if err := e.chime.Play(e.ctx, e.pending); err != nil {
		logger.Log.Warnw("chime failed, continuing without sound", "error", err)
	}

	cfg := e.config(e.ctx)
	txn, err := e.ledger.Apply(e.ctx, e.pending, models.DirectionIn, cfg.FriendName)
	if err != nil {
		logger.Log.Errorw("settlement failed to commit", "amount", e.pending, "error", err)
	} else {
		logger.Log.Infow("settlement committed", "transaction_id", txn.ID, "amount", txn.Amount)
	}

	e.phase = PhaseSettled
	e.scheduleLocked(e.timings.Dwell, func() { e.backToIdle(cycle) })
}

func (e *Engine) backToIdle(cycle uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.cycle != cycle || e.phase != PhaseSettled {
		return
	}
	e.phase = PhaseIdle
	e.pending = 0
}

// scheduleLocked arms one timer and tracks it until it fires or Close
// stops it. Callers must hold e.mu.
func (e *Engine) scheduleLocked(d time.Duration, fn func()) {
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		e.mu.Lock()
		delete(e.timers, t)
		e.mu.Unlock()
		fn()
	})
	e.timers[t] = struct{}{}
}

func (e *Engine) stopTimersLocked() {
	for t := range e.timers {
		t.Stop()
	}
	clear(e.timers)
}
