package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/commhub/message-service/internal/api"
	"github.com/commhub/message-service/internal/config"
	"github.com/commhub/message-service/internal/model"
)

type Handler struct {
	message   MessageService
	search    SearchService
	validator Validator
}

func New(message MessageService, search SearchService, validator Validator) *Handler {
	return &Handler{
		message:   message,
		search:    search,
		validator: validator,
	}
}

func (h *Handler) AttachRoutes(router chi.Router) {
	router.Post("/messages", h.CreateMessage)
	router.Get("/messages/{id}", h.GetMessage)
	router.Put("/messages/{id}", h.UpdateMessage)
	router.Delete("/messages/{id}", h.DeleteMessage)
	router.Get("/conversations/{conversationId}/messages", h.GetConversationMessages)
	router.Get("/conversations/{conversationId}/messages/search", h.SearchConversationMessages)
}

func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context()).With().Str("handler", "CreateMessage").Logger()

	var req api.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("failed to decode request")
		h.writeError(w, r, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.ValidateCreateMessage(&req); err != nil {
		logger.Warn().Err(err).Msg("message validation failed")
		h.writeError(w, r, fmt.Sprintf("message validation failed: %v", err), http.StatusBadRequest)
		return
	}

	msg, err := h.message.CreateMessage(r.Context(), req.ConversationId, req.SenderId, req.Content, req.Metadata)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create message")
		h.writeError(w, r, "failed to create message", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, toAPIMessage(msg), http.StatusCreated)
}

func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context()).With().Str("handler", "GetMessage").Logger()

	id := chi.URLParam(r, "id")

	msg, err := h.message.GetMessageByID(r.Context(), id)
	if errors.Is(err, model.ErrNotFound) {
		logger.Warn().Str("message_id", id).Msg("message not found")
		h.writeError(w, r, "message not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to get message")
		h.writeError(w, r, "failed to get message", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, toAPIMessage(msg), http.StatusOK)
}

func (h *Handler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context()).With().Str("handler", "UpdateMessage").Logger()

	id := chi.URLParam(r, "id")

	var req api.UpdateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("failed to decode request")
		h.writeError(w, r, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.ValidateUpdateMessage(&req); err != nil {
		logger.Warn().Err(err).Msg("update validation failed")
		h.writeError(w, r, fmt.Sprintf("update validation failed: %v", err), http.StatusBadRequest)
		return
	}

	msg, err := h.message.UpdateMessage(r.Context(), id, req.Content, req.Metadata)
	if errors.Is(err, model.ErrNotFound) {
		logger.Warn().Str("message_id", id).Msg("message not found")
		h.writeError(w, r, "message not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to update message")
		h.writeError(w, r, "failed to update message", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, toAPIMessage(msg), http.StatusOK)
}

func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context()).With().Str("handler", "DeleteMessage").Logger()

	id := chi.URLParam(r, "id")

	err := h.message.DeleteMessage(r.Context(), id)
	if errors.Is(err, model.ErrNotFound) {
		logger.Warn().Str("message_id", id).Msg("message not found")
		h.writeError(w, r, "message not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to delete message")
		h.writeError(w, r, "failed to delete message", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetConversationMessages(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context()).With().Str("handler", "GetConversationMessages").Logger()

	conversationID := chi.URLParam(r, "conversationId")

	page := model.PageParams{
		Page:          queryInt(r, "page", model.DefaultPage),
		Limit:         queryInt(r, "limit", model.DefaultLimit),
		SortField:     r.URL.Query().Get("sortField"),
		SortDirection: r.URL.Query().Get("sortDirection"),
	}.Normalized()

	result, err := h.message.GetMessagesByConversation(r.Context(), conversationID, page)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list conversation messages")
		h.writeError(w, r, "failed to list conversation messages", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, toListResponse(result, page.Page, page.Limit), http.StatusOK)
}

func (h *Handler) SearchConversationMessages(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context()).With().Str("handler", "SearchConversationMessages").Logger()

	conversationID := chi.URLParam(r, "conversationId")

	term := r.URL.Query().Get("q")
	if term == "" {
		logger.Warn().Msg("missing search term")
		h.writeError(w, r, "query parameter q is required", http.StatusBadRequest)
		return
	}

	page := queryInt(r, "page", model.DefaultPage)
	limit := queryInt(r, "limit", model.DefaultLimit)
	if page <= 0 {
		page = model.DefaultPage
	}
	if limit <= 0 {
		limit = model.DefaultLimit
	}

	result, err := h.search.SearchMessages(r.Context(), conversationID, term, page, limit)
	if err != nil {
		logger.Error().Err(err).Msg("failed to search messages")
		h.writeError(w, r, "failed to search messages", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, toListResponse(result, page, limit), http.StatusOK)
}

// ----------------------------- helpers -----------------------------

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return val
}

func toAPIMessage(msg *model.Message) api.Message {
	return api.Message{
		Id:             msg.ID,
		ConversationId: msg.ConversationID,
		SenderId:       msg.SenderID,
		TenantId:       msg.TenantID,
		Content:        msg.Content,
		Timestamp:      msg.Timestamp.Format(time.RFC3339),
		Metadata:       msg.Metadata,
	}
}

func toListResponse(result *model.MessagePage, page, limit int) api.MessageListResponse {
	data := make([]api.Message, len(result.Messages))
	for i, msg := range result.Messages {
		data[i] = toAPIMessage(&msg)
	}

	return api.MessageListResponse{
		Data: data,
		Pagination: api.Pagination{
			Page:       page,
			Limit:      limit,
			TotalItems: result.Total,
			TotalPages: model.TotalPages(result.Total, limit),
		},
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	correlationID, _ := r.Context().Value(config.KeyCorrelationID).(string)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(api.Error{
		Status:        statusCode,
		Message:       message,
		Error:         http.StatusText(statusCode),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Path:          r.URL.Path,
		CorrelationId: correlationID,
	})
}
