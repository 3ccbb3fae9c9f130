package amount

import (
	"math/rand"
	"time"

	"github.com/prankpay/prank-wallet/internal/models"
)

// Fallbacks used when a config is missing the values its mode needs.
const (
	fallbackFixed = 20.0
	fallbackMin   = 10.0
	fallbackMax   = 50.0
)

// Generator picks the transfer amount for one prank settlement. The
// random source is injected so range mode is deterministic in tests.
type Generator struct {
	randFloat func() float64 // returns values in [0, 1)
}

// New returns a Generator seeded from the wall clock.
func New() *Generator {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Generator{randFloat: r.Float64}
}

// NewWithSource returns a Generator backed by a caller-supplied source.
// The source must return values in [0, 1).
func NewWithSource(randFloat func() float64) *Generator {
	return &Generator{randFloat: randFloat}
}

// Generate returns the amount for one settlement. It never fails:
// missing or malformed bounds fall back to defaults, inverted range
// bounds are swapped, and the result is always a finite non-negative
// value rounded to two decimals.
func (g *Generator) Generate(cfg models.PrankConfig) float64 {
	switch cfg.AmountMode {
	case models.AmountModeRange:
		lo, hi := fallbackMin, fallbackMax
		if cfg.MinAmount != nil && models.IsFinite(*cfg.MinAmount) {
			lo = *cfg.MinAmount
		}
		if cfg.MaxAmount != nil && models.IsFinite(*cfg.MaxAmount) {
			hi = *cfg.MaxAmount
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		return clampNonNegative(models.Round2(lo + g.randFloat()*(hi-lo)))
	default:
		v := fallbackFixed
		if cfg.FixedAmount != nil && models.IsFinite(*cfg.FixedAmount) {
			v = *cfg.FixedAmount
		}
		return clampNonNegative(models.Round2(v))
	}
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
