package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"brightdesk.app/chat/internal/http/dto"
	"brightdesk.app/chat/internal/service"
	"github.com/gin-gonic/gin"
)

type IngestHandler struct {
	ingestService service.IngestService
}

func NewIngestHandler(ingestService service.IngestService) *IngestHandler {
	return &IngestHandler{ingestService: ingestService}
}

// Enqueue queues an indexing job for a website or a PDF document (admin
// only). The work itself runs in the worker; this returns immediately.
func (h *IngestHandler) Enqueue(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.URL == "" && req.PDFPath == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: url or pdf_path is required"})
		return
	}

	var (
		jobID string
		err   error
	)
	if req.URL != "" {
		jobID, err = h.ingestService.Enqueue(ctx, req.URL, req.MaxPages)
	} else {
		jobID, err = h.ingestService.EnqueuePDF(ctx, req.PDFPath)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSourceURL):
			c.JSON(http.StatusBadRequest, gin.H{"error": "url must be an absolute http(s) URL"})
		case errors.Is(err, service.ErrInvalidPDFPath):
			c.JSON(http.StatusBadRequest, gin.H{"error": "pdf_path must be an absolute path to a .pdf file"})
		default:
			slog.ErrorContext(ctx, "failed to enqueue ingest job", "error", err, "source_url", req.URL, "pdf_path", req.PDFPath)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue ingest job"})
		}
		return
	}

	c.JSON(http.StatusAccepted, dto.IngestResponse{JobID: jobID, Status: "queued"})
}
