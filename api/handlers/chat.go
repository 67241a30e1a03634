package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/propertytek/chatflow/chat"
)

// ChatHandler serves conversational turns.
type ChatHandler struct {
	service *chat.Service
	logger  *zap.Logger
}

// NewChatHandler creates the chat handler.
func NewChatHandler(service *chat.Service, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  logger.With(zap.String("component", "chat_handler")),
	}
}

// HandleChat processes POST /chat.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "only POST is supported")
		return
	}

	var req chat.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.Query) == "" && req.ActionType == "" {
		WriteError(w, http.StatusBadRequest, "invalid_request", "query is required")
		return
	}

	resp, err := h.service.HandleTurn(r.Context(), req)
	if err != nil {
		h.logger.Error("chat turn failed",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		WriteError(w, http.StatusInternalServerError, "internal_error", "failed to process message")
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}
