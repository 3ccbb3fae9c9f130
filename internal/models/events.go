package models

// SettlementEvent is published to Kafka after every settlement commits
// to the ledger.
type SettlementEvent struct {
	TransactionID string  `json:"transaction_id"`
	SessionID     string  `json:"session_id"`
	Amount        float64 `json:"amount"`
	Direction     string  `json:"direction"`
	Counterparty  string  `json:"counterparty"`
	Timestamp     int64   `json:"timestamp"`
}

// ChimeEvent is the audio cue for a settlement. It is published before
// the ledger mutation so subscribed clients hear the sound as the
// balance changes.
type ChimeEvent struct {
	SessionID string  `json:"session_id"`
	Amount    float64 `json:"amount"`
	Timestamp int64   `json:"timestamp"`
}
