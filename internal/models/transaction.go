package models

// Direction indicates whether a transaction moves money into or out of
// the wallet.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Transaction is one row of the wallet history. Transactions are
// immutable once created.
type Transaction struct {
	ID        string    `json:"id"`         // Unique transaction identifier
	Title     string    `json:"title"`      // Counterparty or source shown in the list
	Subtitle  string    `json:"subtitle"`   // Secondary line, e.g. "Received • Just now"
	Amount    float64   `json:"amount"`     // Monetary value, always positive
	Direction Direction `json:"direction"`  // in or out
	IsPrank   bool      `json:"is_prank,omitempty"`
	CreatedAt int64     `json:"created_at"` // Unix timestamp, zero for seeded samples
}
