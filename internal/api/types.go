// Package api holds the request and response shapes of the HTTP surface.
package api

type CreateMessageRequest struct {
	ConversationId string                 `json:"conversationId"`
	SenderId       string                 `json:"senderId"`
	Content        string                 `json:"content"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

type UpdateMessageRequest struct {
	Content  *string                `json:"content,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type Message struct {
	Id             string                 `json:"id"`
	ConversationId string                 `json:"conversationId"`
	SenderId       string                 `json:"senderId"`
	TenantId       string                 `json:"tenantId"`
	Content        string                 `json:"content"`
	Timestamp      string                 `json:"timestamp"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

type MessageListResponse struct {
	Data       []Message  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type Error struct {
	Status        int    `json:"status"`
	Message       string `json:"message"`
	Error         string `json:"error"`
	Timestamp     string `json:"timestamp"`
	Path          string `json:"path"`
	CorrelationId string `json:"correlationId,omitempty"`
}
