package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no message exists for the id/tenant pair.
var ErrNotFound = errors.New("message not found")

type Metadata map[string]interface{}

type MessageList []Message

type Message struct {
	ID             string    `bson:"_id" json:"id"`
	ConversationID string    `bson:"conversation_id" json:"conversationId"`
	SenderID       string    `bson:"sender_id" json:"senderId"`
	TenantID       string    `bson:"tenant_id" json:"tenantId"`
	Content        string    `bson:"content" json:"content"`
	Timestamp      time.Time `bson:"timestamp" json:"timestamp"`
	Metadata       Metadata  `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// NewMessage assigns the id and the creation timestamp; both are immutable
// afterwards, as are the conversation, sender and tenant fields.
func NewMessage(conversationID, senderID, tenantID, content string, metadata Metadata) *Message {
	return &Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		TenantID:       tenantID,
		Content:        content,
		Timestamp:      time.Now().UTC(),
		Metadata:       metadata,
	}
}

func (m *Message) SetContent(content string) {
	m.Content = content
}

// MergeMetadata is a shallow merge: keys present in patch overwrite existing
// keys, all other existing keys are kept.
func (m *Message) MergeMetadata(patch Metadata) {
	if len(patch) == 0 {
		return
	}

	if m.Metadata == nil {
		m.Metadata = make(Metadata, len(patch))
	}

	for k, v := range patch {
		m.Metadata[k] = v
	}
}

func (m *Message) PayloadID() string {
	return m.ID
}

type MessagePage struct {
	Messages MessageList
	Total    int64
}
