//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package service

import (
	"context"
	"time"

	"github.com/commhub/message-service/internal/model"
)

type MessageRepo interface {
	Save(ctx context.Context, message *model.Message) error
	FindByID(ctx context.Context, id, tenantID string) (*model.Message, error)
	Update(ctx context.Context, message *model.Message) error
	Delete(ctx context.Context, id, tenantID string) error
	FindByConversation(ctx context.Context, conversationID, tenantID string, page model.PageParams) (*model.MessagePage, error)
}

// Cache is the generic key/value surface of the Redis client; Get reports an
// absent key as redis.ErrCacheMiss.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type SearchIndex interface {
	Search(ctx context.Context, conversationID, tenantID, term string, page, limit int) (*model.MessagePage, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload model.EventPayload, partitionKey string) error
}
