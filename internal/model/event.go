package model

import (
	"encoding/json"
	"time"
)

const (
	MessageCreatedEvent = "message.created"
	MessageUpdatedEvent = "message.updated"
	MessageDeletedEvent = "message.deleted"

	EventSchemaVersion = "1"
)

// EventPayload is anything that can ride in a MessageEvent envelope.
type EventPayload interface {
	PayloadID() string
}

// MessageEvent is the envelope published to the message topic. The partition
// key is always the conversation id, so events of one conversation keep their
// publish order within a partition.
type MessageEvent struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
	Version   string          `json:"version"`
}

// DeletedPayload is the tombstone carried by message.deleted events; the full
// message is gone from the store at that point.
type DeletedPayload struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	TenantID       string `json:"tenantId"`
}

func (p DeletedPayload) PayloadID() string {
	return p.ID
}
