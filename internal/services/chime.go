package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/prankpay/prank-wallet/internal/logger"
	"github.com/prankpay/prank-wallet/internal/models"
)

// ChimeNotifier emits the confirmation-sound cue for a settlement. The
// presentation layer subscribes to the stream and plays the asset; a
// failed publish costs only the sound, never the settlement.
type ChimeNotifier struct {
	sessionID   uuid.UUID
	kafkaWriter KafkaWriter
}

// NewChimeNotifier creates a ChimeNotifier for one session.
func NewChimeNotifier(sessionID uuid.UUID, kafkaWriter KafkaWriter) *ChimeNotifier {
	return &ChimeNotifier{sessionID: sessionID, kafkaWriter: kafkaWriter}
}

// Play publishes one chime event. Errors are returned so the caller can
// log them; they must never abort the settlement.
func (c *ChimeNotifier) Play(ctx context.Context, amount float64) error {
	if c.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping chime", "session_id", c.sessionID)
		return nil
	}

	event := models.ChimeEvent{
		SessionID: c.sessionID.String(),
		Amount:    amount,
		Timestamp: time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return c.kafkaWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(c.sessionID.String()),
		Value: data,
	})
}
