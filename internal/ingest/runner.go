package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"brightdesk.app/chat/common/logger"
	"brightdesk.app/chat/internal/queue"
)

// Runner executes one ingestion job end to end: crawl the site, chunk and
// embed the text, and write it to the search index.
type Runner interface {
	Run(ctx context.Context, job queue.IngestJob) error
}

type runner struct {
	crawler Crawler
	indexer Indexer
}

func NewRunner(crawler Crawler, indexer Indexer) Runner {
	return &runner{
		crawler: crawler,
		indexer: indexer,
	}
}

func (r *runner) Run(ctx context.Context, job queue.IngestJob) error {
	source := job.Source()
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		JobID:     &job.JobID,
		SourceURL: &source,
		Component: "chat.ingest.runner",
	})

	pages, err := r.collect(ctx, job)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("no readable content at %s", job.Source())
	}

	chunks, err := r.indexer.IndexPages(ctx, pages)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "ingestion complete", "pages", len(pages), "chunks", chunks)
	return nil
}

func (r *runner) collect(ctx context.Context, job queue.IngestJob) ([]Page, error) {
	if job.PDFPath != "" {
		text, err := LoadPDF(job.PDFPath)
		if err != nil {
			return nil, fmt.Errorf("loading pdf %s: %w", job.PDFPath, err)
		}
		if text == "" {
			return nil, nil
		}
		return []Page{{URL: job.PDFPath, Title: filepath.Base(job.PDFPath), Text: text}}, nil
	}

	pages, err := r.crawler.Crawl(ctx, job.SourceURL, job.MaxPages)
	if err != nil {
		return nil, fmt.Errorf("crawling %s: %w", job.SourceURL, err)
	}
	return pages, nil
}
