package rag

import (
	"context"
	"fmt"
	"log/slog"
)

// topK matches the similarity search depth the widget shipped with.
const topK = 4

// Retriever finds the site content most relevant to a question.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]Chunk, error)
}

type retriever struct {
	embedder Embedder
	index    Index
}

func NewRetriever(embedder Embedder, index Index) Retriever {
	return &retriever{
		embedder: embedder,
		index:    index,
	}
}

func (r *retriever) Retrieve(ctx context.Context, query string) ([]Chunk, error) {
	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	chunks, err := r.index.Search(ctx, vector, topK)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "retrieved context chunks", "count", len(chunks))
	return chunks, nil
}
