package models

// AmountMode selects how the transfer amount is chosen for a settlement.
type AmountMode string

const (
	AmountModeFixed AmountMode = "fixed" // always use FixedAmount
	AmountModeRange AmountMode = "range" // draw uniformly between MinAmount and MaxAmount
)

// Defaults shown on a card before the user ever saves settings.
const (
	DefaultPranksterName   = "You"
	DefaultFriendName      = "Dorian"
	DefaultFixedAmount     = 27.43
	DefaultStartingBalance = 105.0
)

// PrankConfig holds the user-editable prank parameters for one session.
// It is replaced wholesale whenever the user saves settings and is
// read-only to the timing engine.
type PrankConfig struct {
	// PranksterName is the person "receiving" the money, usually the user.
	PranksterName string `json:"prankster_name"`

	// FriendName is the person the transfer pretends to come from.
	FriendName string `json:"friend_name"`

	// AmountMode selects the fixed or range amount policy.
	AmountMode AmountMode `json:"amount_mode"`

	// FixedAmount is the exact amount shown when AmountMode is fixed.
	FixedAmount *float64 `json:"fixed_amount,omitempty"`

	// MinAmount is the lower bound for random amounts in range mode.
	MinAmount *float64 `json:"min_amount,omitempty"`

	// MaxAmount is the upper bound for random amounts in range mode.
	MaxAmount *float64 `json:"max_amount,omitempty"`

	// StartingBalance seeds the card balance when no saved wallet exists.
	// Optional so configs saved by older clients keep working.
	StartingBalance *float64 `json:"starting_balance,omitempty"`
}

// DefaultPrankConfig returns the stock configuration used until the user
// saves their own settings, and as the fallback for corrupt saved blobs.
func DefaultPrankConfig() PrankConfig {
	fixed := DefaultFixedAmount
	starting := DefaultStartingBalance
	return PrankConfig{
		PranksterName:   DefaultPranksterName,
		FriendName:      DefaultFriendName,
		AmountMode:      AmountModeFixed,
		FixedAmount:     &fixed,
		StartingBalance: &starting,
	}
}

// Float64Ptr is a convenience for building configs with optional amounts.
func Float64Ptr(v float64) *float64 {
	return &v
}
