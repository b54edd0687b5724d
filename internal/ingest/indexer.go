package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"brightdesk.app/chat/common/logger"
	"brightdesk.app/chat/internal/rag"
)

// embedBatchSize keeps embedding requests under provider input limits.
const embedBatchSize = 64

// Indexer embeds page chunks and writes them to the search index.
type Indexer interface {
	IndexPages(ctx context.Context, pages []Page) (int, error)
}

type indexer struct {
	embedder rag.Embedder
	index    rag.Index
	chunker  Chunker
}

func NewIndexer(embedder rag.Embedder, index rag.Index, chunker Chunker) Indexer {
	return &indexer{
		embedder: embedder,
		index:    index,
		chunker:  chunker,
	}
}

func (ix *indexer) IndexPages(ctx context.Context, pages []Page) (int, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "chat.ingest.indexer"})

	if err := ix.index.EnsureCollection(ctx, ix.embedder.Dimensions()); err != nil {
		return 0, err
	}

	total := 0
	for _, page := range pages {
		// Re-ingesting a page replaces its old chunks instead of piling
		// up stale copies.
		if err := ix.index.DropSource(ctx, page.URL); err != nil {
			slog.WarnContext(ctx, "dropping stale chunks failed", "source_url", page.URL, "error", err)
		}

		texts := ix.chunker.Split(page.Text)
		if len(texts) == 0 {
			continue
		}

		chunks := make([]rag.Chunk, len(texts))
		for i, text := range texts {
			chunks[i] = rag.Chunk{
				ID:        fmt.Sprintf("%s#%d", page.URL, i),
				Text:      text,
				SourceURL: page.URL,
				Title:     page.Title,
			}
		}

		for start := 0; start < len(chunks); start += embedBatchSize {
			end := start + embedBatchSize
			if end > len(chunks) {
				end = len(chunks)
			}
			batch := chunks[start:end]

			inputs := make([]string, len(batch))
			for i, chunk := range batch {
				inputs[i] = chunk.Text
			}
			vectors, err := ix.embedder.EmbedBatch(ctx, inputs)
			if err != nil {
				return total, fmt.Errorf("embedding chunks for %s: %w", page.URL, err)
			}
			for i := range batch {
				batch[i].Embedding = vectors[i]
			}
			if err := ix.index.UpsertChunks(ctx, batch); err != nil {
				return total, fmt.Errorf("indexing chunks for %s: %w", page.URL, err)
			}
			total += len(batch)
		}

		slog.InfoContext(ctx, "page indexed", "source_url", page.URL, "chunks", len(chunks))
	}

	return total, nil
}
