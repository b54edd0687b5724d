package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

type Producer interface {
	Enqueue(ctx context.Context, job IngestJob) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	if stream == "" {
		stream = DefaultStream
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, job IngestJob) error {
	attempt := job.Attempt
	if attempt <= 0 {
		attempt = 1
	}

	fields := map[string]any{
		"job_id":    job.JobID,
		"max_pages": job.MaxPages,
		"attempt":   attempt,
	}
	if job.SourceURL != "" {
		fields["source_url"] = job.SourceURL
	}
	if job.PDFPath != "" {
		fields["pdf_path"] = job.PDFPath
	}
	if job.TraceID != "" {
		fields["trace_id"] = job.TraceID
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("enqueue ingest job: %w", err)
	}

	p.logger.InfoContext(ctx, "enqueued ingest job", "job_id", job.JobID, "source", job.Source(), "attempt", attempt)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}
