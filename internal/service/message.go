package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	redisclient "github.com/commhub/message-service/internal/client/redis"
	"github.com/commhub/message-service/internal/config"
	"github.com/commhub/message-service/internal/model"
	"github.com/commhub/message-service/internal/pkg/cachekey"
)

// ErrNoTenant fires when a service method runs outside a tenant-scoped
// request context.
var ErrNoTenant = errors.New("tenant is not set in context")

// MessageService owns the write pipeline: the store mutation is the only hard
// step; cache updates and event publication are best-effort and never change
// the outcome of an already committed write.
type MessageService struct {
	repo      MessageRepo
	cache     Cache
	publisher EventPublisher
}

func NewMessageService(repo MessageRepo, cache Cache, publisher EventPublisher) *MessageService {
	return &MessageService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
	}
}

func (s *MessageService) CreateMessage(ctx context.Context, conversationID, senderID, content string, metadata model.Metadata) (*model.Message, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	msg := model.NewMessage(conversationID, senderID, tenantID, content, metadata)

	if err := s.repo.Save(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	s.cacheMessage(ctx, msg)
	s.invalidateConversation(ctx, tenantID, conversationID)
	s.publish(ctx, model.MessageCreatedEvent, msg)

	return msg, nil
}

func (s *MessageService) GetMessageByID(ctx context.Context, id string) (*model.Message, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	key := cachekey.Message(tenantID, id)

	var cached model.Message
	if cacheHit(ctx, s.cache, key, &cached) {
		return &cached, nil
	}

	msg, err := s.repo.FindByID(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}

	s.cacheMessage(ctx, msg)

	return msg, nil
}

func (s *MessageService) UpdateMessage(ctx context.Context, id string, content *string, metadata model.Metadata) (*model.Message, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	msg, err := s.repo.FindByID(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}

	if content != nil {
		msg.SetContent(*content)
	}
	msg.MergeMetadata(metadata)

	if err := s.repo.Update(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to update message: %w", err)
	}

	s.cacheMessage(ctx, msg)
	s.invalidateConversation(ctx, tenantID, msg.ConversationID)
	s.publish(ctx, model.MessageUpdatedEvent, msg)

	return msg, nil
}

func (s *MessageService) DeleteMessage(ctx context.Context, id string) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}

	msg, err := s.repo.FindByID(ctx, id, tenantID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, tenantID); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	if err := s.cache.Delete(ctx,
		cachekey.Message(tenantID, id),
		cachekey.FirstConversationPage(tenantID, msg.ConversationID),
	); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to invalidate cache")
	}

	tombstone := model.DeletedPayload{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		TenantID:       tenantID,
	}
	if err := s.publisher.Publish(ctx, model.MessageDeletedEvent, tombstone, msg.ConversationID); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to publish message.deleted event")
	}

	return nil
}

func (s *MessageService) GetMessagesByConversation(ctx context.Context, conversationID string, page model.PageParams) (*model.MessagePage, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	page = page.Normalized()
	key := cachekey.ConversationPage(tenantID, conversationID, page)

	var cached model.MessagePage
	if cacheHit(ctx, s.cache, key, &cached) {
		return &cached, nil
	}

	result, err := s.repo.FindByConversation(ctx, conversationID, tenantID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation messages: %w", err)
	}

	if err := s.cache.Set(ctx, key, result, cachekey.PageTTL); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to cache conversation page")
	}

	return result, nil
}

// cacheMessage is a write-through set of the single-message key.
func (s *MessageService) cacheMessage(ctx context.Context, msg *model.Message) {
	key := cachekey.Message(msg.TenantID, msg.ID)
	if err := s.cache.Set(ctx, key, msg, cachekey.MessageTTL); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to cache message")
	}
}

// invalidateConversation drops only the default first page; other cached
// pages of the conversation expire via TTL.
func (s *MessageService) invalidateConversation(ctx context.Context, tenantID, conversationID string) {
	key := cachekey.FirstConversationPage(tenantID, conversationID)
	if err := s.cache.Delete(ctx, key); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to invalidate conversation page")
	}
}

func (s *MessageService) publish(ctx context.Context, eventType string, msg *model.Message) {
	if err := s.publisher.Publish(ctx, eventType, msg, msg.ConversationID); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("event_type", eventType).Msg("failed to publish event")
	}
}

// cacheHit reads and decodes a cached entry; every cache failure degrades to
// a miss.
func cacheHit(ctx context.Context, cache Cache, key string, out interface{}) bool {
	raw, err := cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redisclient.ErrCacheMiss) {
			zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("corrupted cache entry")
		return false
	}

	return true
}

func tenantFromContext(ctx context.Context) (string, error) {
	tenantID, ok := ctx.Value(config.KeyTenant).(string)
	if !ok || tenantID == "" {
		return "", ErrNoTenant
	}

	return tenantID, nil
}
