// Package cachekey holds the Redis key scheme. Every key family is namespaced
// by tenant so cached entries can never leak across tenants.
package cachekey

import (
	"fmt"
	"strings"
	"time"

	"github.com/commhub/message-service/internal/model"
)

const (
	MessageTTL = time.Hour
	PageTTL    = 5 * time.Minute
)

func Message(tenantID, messageID string) string {
	return fmt.Sprintf("message:%s:%s", tenantID, messageID)
}

func ConversationPage(tenantID, conversationID string, page model.PageParams) string {
	return fmt.Sprintf("conversation-messages:%s:%s:%d:%d:%s:%s",
		tenantID, conversationID, page.Page, page.Limit, page.SortField, page.SortDirection)
}

// FirstConversationPage is the only conversation key deleted on mutation;
// other cached pages expire via TTL.
func FirstConversationPage(tenantID, conversationID string) string {
	return ConversationPage(tenantID, conversationID, model.PageParams{}.Normalized())
}

func Search(tenantID, conversationID, term string, page, limit int) string {
	return fmt.Sprintf("search:messages:%s:%s:%s:%d:%d",
		tenantID, conversationID, NormalizeTerm(term), page, limit)
}

// NormalizeTerm trims, lowercases and collapses internal whitespace runs so
// that equivalent queries share one cache entry.
func NormalizeTerm(term string) string {
	return strings.Join(strings.Fields(strings.ToLower(term)), " ")
}
