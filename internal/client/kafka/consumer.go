package kafka

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/commhub/message-service/internal/config"
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(cfg *config.Config, groupID string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Kafka.Brokers,
			GroupID:  groupID,
			Topic:    cfg.Kafka.Topic,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
	}
}

func (c *Consumer) Close() {
	_ = c.reader.Close()
}

// RegisterHandler consumes the topic in a background goroutine until the
// context is cancelled. The handler owns all per-message error handling; a
// read error is logged and consumption continues.
func (c *Consumer) RegisterHandler(ctx context.Context, handler func(ctx context.Context, value []byte)) {
	go func() {
		for {
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
					return
				}

				zerolog.Ctx(ctx).Error().Err(err).Msg("failed to read message")
				continue
			}

			handler(ctx, msg.Value)
		}
	}()
}
