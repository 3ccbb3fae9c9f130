package models

// Receipt is the resolved payload for the full-screen payment receipt
// view. Every field already has its fallbacks applied.
type Receipt struct {
	Amount          float64 `json:"amount"`
	FormattedAmount string  `json:"formatted_amount"` // e.g. "$67.00"
	From            string  `json:"from"`
	To              string  `json:"to"`
	Direction       string  `json:"direction"` // in, out or purchase
}
