package validator

import (
	"fmt"
	"strings"

	"github.com/commhub/message-service/internal/api"
)

const maxContentLength = 4000

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateCreateMessage(req *api.CreateMessageRequest) error {
	if strings.TrimSpace(req.ConversationId) == "" {
		return fmt.Errorf("conversationId is required")
	}

	if strings.TrimSpace(req.SenderId) == "" {
		return fmt.Errorf("senderId is required")
	}

	if strings.TrimSpace(req.Content) == "" {
		return fmt.Errorf("content cannot be empty")
	}

	if len([]rune(req.Content)) > maxContentLength {
		return fmt.Errorf("content exceeds maximum length of %d characters", maxContentLength)
	}

	return nil
}

func (v *Validator) ValidateUpdateMessage(req *api.UpdateMessageRequest) error {
	if req.Content == nil && len(req.Metadata) == 0 {
		return fmt.Errorf("at least one of content or metadata is required")
	}

	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return fmt.Errorf("content cannot be empty")
		}

		if len([]rune(*req.Content)) > maxContentLength {
			return fmt.Errorf("content exceeds maximum length of %d characters", maxContentLength)
		}
	}

	return nil
}
