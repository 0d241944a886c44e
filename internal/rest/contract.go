//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package rest

import (
	"context"

	"github.com/commhub/message-service/internal/api"
	"github.com/commhub/message-service/internal/model"
)

type MessageService interface {
	CreateMessage(ctx context.Context, conversationID, senderID, content string, metadata model.Metadata) (*model.Message, error)
	GetMessageByID(ctx context.Context, id string) (*model.Message, error)
	UpdateMessage(ctx context.Context, id string, content *string, metadata model.Metadata) (*model.Message, error)
	DeleteMessage(ctx context.Context, id string) error
	GetMessagesByConversation(ctx context.Context, conversationID string, page model.PageParams) (*model.MessagePage, error)
}

type SearchService interface {
	SearchMessages(ctx context.Context, conversationID, term string, page, limit int) (*model.MessagePage, error)
}

type Validator interface {
	ValidateCreateMessage(req *api.CreateMessageRequest) error
	ValidateUpdateMessage(req *api.UpdateMessageRequest) error
}
