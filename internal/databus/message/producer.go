package message

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/commhub/message-service/internal/config"
	"github.com/commhub/message-service/internal/model"
)

const (
	headerMessageID     = "message-id"
	headerCorrelationID = "correlation-id"
)

// Producer wraps lifecycle payloads into the versioned event envelope and
// publishes them keyed by conversation id.
type Producer struct {
	producer KafkaProducer
}

func NewProducer(producer KafkaProducer) *Producer {
	return &Producer{
		producer: producer,
	}
}

func (p *Producer) Publish(ctx context.Context, eventType string, payload model.EventPayload, partitionKey string) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	envelope := model.MessageEvent{
		Type:      eventType,
		Payload:   raw,
		Timestamp: time.Now().UTC(),
		Version:   model.EventSchemaVersion,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	headers := []kafka.Header{
		{Key: headerMessageID, Value: []byte(payload.PayloadID())},
		{Key: headerCorrelationID, Value: []byte(correlationID(ctx))},
	}

	if err := p.producer.Produce(ctx, []byte(partitionKey), data, headers...); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	return nil
}

// correlationID takes the request-scoped id when one is set and otherwise
// generates a fresh one, so consumer-side logs are always correlatable.
func correlationID(ctx context.Context) string {
	if id, ok := ctx.Value(config.KeyCorrelationID).(string); ok && id != "" {
		return id
	}

	return uuid.New().String()
}
