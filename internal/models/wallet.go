package models

// Wallet is the persisted card state: current balance plus the
// transaction history, newest first.
type Wallet struct {
	Balance      float64       `json:"balance"`
	Transactions []Transaction `json:"transactions"`
}

// SampleTransactions returns the fixed history shown on a freshly seeded
// card. Deterministic so a reset card always looks the same.
func SampleTransactions() []Transaction {
	return []Transaction{
		{
			ID:        "seed-1",
			Title:     "Debit Card",
			Subtitle:  "Added to Balance • 41 minutes ago",
			Amount:    207,
			Direction: DirectionIn,
		},
		{
			ID:        "seed-2",
			Title:     "Shanice",
			Subtitle:  "Sent • Wednesday",
			Amount:    38.24,
			Direction: DirectionOut,
		},
		{
			ID:        "seed-3",
			Title:     "+1 (914) 484-8324",
			Subtitle:  "Received • 11/24/20",
			Amount:    10,
			Direction: DirectionIn,
		},
	}
}
