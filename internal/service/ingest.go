package service

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"brightdesk.app/chat/common/id"
	"brightdesk.app/chat/common/logger"
	"brightdesk.app/chat/core/config"
	"brightdesk.app/chat/internal/queue"
)

// ErrInvalidSourceURL is returned when an ingestion request names a URL the
// crawler cannot start from.
var ErrInvalidSourceURL = fmt.Errorf("source URL must be absolute http(s)")

// ErrInvalidPDFPath is returned when a document ingestion request names a
// file the worker will not be able to open.
var ErrInvalidPDFPath = fmt.Errorf("pdf path must be an absolute .pdf file path")

// IngestService accepts site and document ingestion requests and hands them
// to the worker through the job stream.
type IngestService interface {
	Enqueue(ctx context.Context, sourceURL string, maxPages int) (string, error)
	EnqueuePDF(ctx context.Context, pdfPath string) (string, error)
}

type ingestService struct {
	producer queue.Producer
	cfg      config.IngestConfig
}

func NewIngestService(producer queue.Producer, cfg config.IngestConfig) IngestService {
	return &ingestService{
		producer: producer,
		cfg:      cfg,
	}
}

func (s *ingestService) Enqueue(ctx context.Context, sourceURL string, maxPages int) (string, error) {
	parsed, err := url.Parse(sourceURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", ErrInvalidSourceURL
	}

	if maxPages <= 0 || maxPages > s.cfg.MaxPages {
		maxPages = s.cfg.MaxPages
	}

	jobID := strconv.FormatInt(id.New(), 10)
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		JobID:     &jobID,
		SourceURL: &sourceURL,
		Component: "chat.service.ingest",
	})

	job := queue.IngestJob{
		JobID:     jobID,
		SourceURL: parsed.String(),
		MaxPages:  maxPages,
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		job.TraceID = sc.TraceID().String()
	}

	if err := s.producer.Enqueue(ctx, job); err != nil {
		return "", err
	}
	return jobID, nil
}

func (s *ingestService) EnqueuePDF(ctx context.Context, pdfPath string) (string, error) {
	if !filepath.IsAbs(pdfPath) || !strings.EqualFold(filepath.Ext(pdfPath), ".pdf") {
		return "", ErrInvalidPDFPath
	}

	jobID := strconv.FormatInt(id.New(), 10)
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		JobID:     &jobID,
		SourceURL: &pdfPath,
		Component: "chat.service.ingest",
	})

	job := queue.IngestJob{
		JobID:   jobID,
		PDFPath: pdfPath,
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		job.TraceID = sc.TraceID().String()
	}

	if err := s.producer.Enqueue(ctx, job); err != nil {
		return "", err
	}
	return jobID, nil
}
