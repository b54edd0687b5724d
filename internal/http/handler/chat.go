package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"brightdesk.app/chat/common/id"
	"brightdesk.app/chat/internal/http/dto"
	"brightdesk.app/chat/internal/service"
	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Converse handles one widget chat turn. A missing session_id starts a new
// session and the generated ID is returned in the response.
func (h *ChatHandler) Converse(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: message is required"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = strconv.FormatInt(id.New(), 10)
	}

	reply, err := h.chatService.Converse(ctx, sessionID, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message must not be empty"})
			return
		}
		slog.ErrorContext(ctx, "failed to process chat turn", "error", err, "session_id", sessionID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process message"})
		return
	}

	c.JSON(http.StatusOK, dto.ToChatResponse(reply))
}

// History returns the full message transcript for a session.
func (h *ChatHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID := c.Param("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	msgs, err := h.chatService.History(ctx, sessionID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load chat history", "error", err, "session_id", sessionID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, dto.ToHistoryResponse(sessionID, msgs))
}
