//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package message

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/commhub/message-service/internal/model"
)

type KafkaProducer interface {
	Produce(ctx context.Context, key, value []byte, headers ...kafka.Header) error
}

type SearchIndex interface {
	IndexDocument(ctx context.Context, message *model.Message) error
	UpdateDocument(ctx context.Context, id string, fields map[string]interface{}) error
	DeleteDocument(ctx context.Context, id string) error
}
