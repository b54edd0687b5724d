package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"brightdesk.app/chat/internal/http/dto"
	"brightdesk.app/chat/internal/service"
	"github.com/gin-gonic/gin"
)

type IntentHandler struct {
	intentService service.IntentService
}

func NewIntentHandler(intentService service.IntentService) *IntentHandler {
	return &IntentHandler{intentService: intentService}
}

// Predict runs intent analysis over a session's conversation.
func (h *IntentHandler) Predict(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID := c.Param("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	report, err := h.intentService.Predict(ctx, sessionID)
	if err != nil {
		if errors.Is(err, service.ErrNoConversation) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no conversation found for session"})
			return
		}
		slog.ErrorContext(ctx, "failed to predict intent", "error", err, "session_id", sessionID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to predict intent"})
		return
	}

	c.JSON(http.StatusOK, dto.ToIntentResponse(sessionID, report))
}
