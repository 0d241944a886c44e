package message

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/commhub/message-service/internal/model"
)

// Handler mirrors message lifecycle events into the search index. Malformed
// payloads and indexing failures are logged and dropped so one bad event never
// stalls the partition.
type Handler struct {
	search SearchIndex
}

func NewHandler(search SearchIndex) *Handler {
	return &Handler{
		search: search,
	}
}

func (h *Handler) Handler(ctx context.Context, value []byte) {
	logger := zerolog.Ctx(ctx)

	if len(value) == 0 {
		logger.Warn().Msg("skipping empty event payload")
		return
	}

	var event model.MessageEvent
	if err := json.Unmarshal(value, &event); err != nil {
		logger.Warn().Err(err).Msg("skipping unparseable event")
		return
	}

	switch event.Type {
	case model.MessageCreatedEvent:
		h.indexMessage(ctx, event.Payload)
	case model.MessageUpdatedEvent:
		h.updateMessage(ctx, event.Payload)
	case model.MessageDeletedEvent:
		h.deleteMessage(ctx, event.Payload)
	default:
		logger.Warn().Str("event_type", event.Type).Msg("skipping unknown event type")
	}
}

func (h *Handler) indexMessage(ctx context.Context, payload json.RawMessage) {
	logger := zerolog.Ctx(ctx)

	var msg model.Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		logger.Warn().Err(err).Msg("skipping malformed created payload")
		return
	}

	if err := h.search.IndexDocument(ctx, &msg); err != nil {
		logger.Error().Err(err).Str("message_id", msg.ID).Msg("failed to index message")
	}
}

func (h *Handler) updateMessage(ctx context.Context, payload json.RawMessage) {
	logger := zerolog.Ctx(ctx)

	var msg model.Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		logger.Warn().Err(err).Msg("skipping malformed updated payload")
		return
	}

	fields := map[string]interface{}{
		"content":  msg.Content,
		"metadata": msg.Metadata,
	}

	if err := h.search.UpdateDocument(ctx, msg.ID, fields); err != nil {
		logger.Error().Err(err).Str("message_id", msg.ID).Msg("failed to update indexed message")
	}
}

func (h *Handler) deleteMessage(ctx context.Context, payload json.RawMessage) {
	logger := zerolog.Ctx(ctx)

	var tombstone model.DeletedPayload
	if err := json.Unmarshal(payload, &tombstone); err != nil {
		logger.Warn().Err(err).Msg("skipping malformed deleted payload")
		return
	}

	if err := h.search.DeleteDocument(ctx, tombstone.ID); err != nil {
		logger.Error().Err(err).Str("message_id", tombstone.ID).Msg("failed to delete indexed message")
	}
}
