package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"brightdesk.app/chat/internal/http/dto"
	"brightdesk.app/chat/internal/service"
	"brightdesk.app/chat/internal/store"
	"github.com/gin-gonic/gin"
)

type LeadHandler struct {
	leadService service.LeadService
}

func NewLeadHandler(leadService service.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// Submit upserts contact fields for a session outside the chat flow,
// e.g. from a contact form rendered next to the widget.
func (h *LeadHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SubmitLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: session_id is required"})
		return
	}

	lead, err := h.leadService.Submit(ctx, service.LeadSubmission{
		SessionID: req.SessionID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		var invalid service.ErrInvalidLeadField
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", invalid.Field)})
			return
		}
		slog.ErrorContext(ctx, "failed to submit lead", "error", err, "session_id", req.SessionID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit lead"})
		return
	}

	c.JSON(http.StatusOK, dto.ToLeadResponse(lead))
}

// Get returns the lead captured for a session.
func (h *LeadHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID := c.Param("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	lead, err := h.leadService.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to get lead", "error", err, "session_id", sessionID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get lead"})
		return
	}

	c.JSON(http.StatusOK, dto.ToLeadResponse(lead))
}

// List returns recently captured leads (admin only).
func (h *LeadHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	leadsList, err := h.leadService.List(ctx, 100)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list leads", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list leads"})
		return
	}

	c.JSON(http.StatusOK, dto.ToLeadListResponse(leadsList))
}
