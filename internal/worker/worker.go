package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"brightdesk.app/chat/internal/ingest"
	"brightdesk.app/chat/internal/queue"
)

// Worker consumes ingestion jobs from the stream and runs them. Failed jobs
// are retried until the attempt budget is spent, then parked on the DLQ.
type Worker struct {
	consumer *queue.RedisConsumer
	runner   ingest.Runner

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer *queue.RedisConsumer, runner ingest.Runner) *Worker {
	return &Worker{
		consumer:  consumer,
		runner:    runner,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	slog.InfoContext(ctx, "ingest worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "ingest worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				// Brief backoff on error
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		if err := w.processMessageSafe(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "job failed",
				"error", err,
				"message_id", msg.ID,
				"job_id", msg.JobID,
				"attempt", msg.Attempt)
			w.handleFailedMessage(ctx, msg, err)
			continue
		}
		if err := w.consumer.Ack(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "acking completed job failed", "error", err, "message_id", msg.ID)
		}
	}

	return nil
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in job processing",
				"panic", r,
				"message_id", msg.ID,
				"job_id", msg.JobID)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	slog.InfoContext(ctx, "processing ingest job",
		"message_id", msg.ID,
		"job_id", msg.JobID,
		"source_url", msg.SourceURL,
		"attempt", msg.Attempt)

	return w.runner.Run(ctx, msg.Job())
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, procErr error) {
	if msg.Attempt >= w.consumer.MaxAttempts() {
		if err := w.consumer.SendDLQ(ctx, msg, procErr.Error()); err != nil {
			slog.ErrorContext(ctx, "sending job to DLQ failed", "error", err, "message_id", msg.ID)
		}
		return
	}
	if err := w.consumer.Requeue(ctx, msg, procErr.Error()); err != nil {
		slog.ErrorContext(ctx, "requeueing job failed", "error", err, "message_id", msg.ID)
	}
}
