package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/typesense/typesense-go/v4/typesense"
	"github.com/typesense/typesense-go/v4/typesense/api"
	"github.com/typesense/typesense-go/v4/typesense/api/pointer"

	"brightdesk.app/chat/core/config"
)

// Index is the vector store for site content chunks.
type Index interface {
	// EnsureCollection creates the chunk collection if it does not exist.
	EnsureCollection(ctx context.Context, dims int) error
	// UpsertChunks writes embedded chunks, replacing any with the same ID.
	UpsertChunks(ctx context.Context, chunks []Chunk) error
	// Search returns the k chunks nearest to the query vector.
	Search(ctx context.Context, vector []float32, k int) ([]Chunk, error)
	// DropSource removes all chunks indexed from the given source URL.
	DropSource(ctx context.Context, sourceURL string) error
}

type typesenseIndex struct {
	client     *typesense.Client
	collection string
}

func NewTypesenseIndex(cfg config.TypesenseConfig) Index {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(10*time.Second),
	)
	return &typesenseIndex{
		client:     client,
		collection: cfg.Collection,
	}
}

func (i *typesenseIndex) EnsureCollection(ctx context.Context, dims int) error {
	if _, err := i.client.Collection(i.collection).Retrieve(ctx); err == nil {
		return nil
	}

	schema := &api.CollectionSchema{
		Name: i.collection,
		Fields: []api.Field{
			{Name: "text", Type: "string"},
			{Name: "source_url", Type: "string", Facet: pointer.True()},
			{Name: "title", Type: "string", Optional: pointer.True()},
			{Name: "embedding", Type: "float[]", NumDim: pointer.Int(dims)},
		},
	}

	if _, err := i.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("creating collection %s: %w", i.collection, err)
	}

	slog.InfoContext(ctx, "created search collection", "collection", i.collection, "dims", dims)
	return nil
}

func (i *typesenseIndex) UpsertChunks(ctx context.Context, chunks []Chunk) error {
	docs := i.client.Collection(i.collection).Documents()
	for _, chunk := range chunks {
		doc := map[string]any{
			"id":         chunk.ID,
			"text":       chunk.Text,
			"source_url": chunk.SourceURL,
			"title":      chunk.Title,
			"embedding":  chunk.Embedding,
		}
		if _, err := docs.Upsert(ctx, doc, &api.DocumentIndexParameters{}); err != nil {
			return fmt.Errorf("upserting chunk %s: %w", chunk.ID, err)
		}
	}
	return nil
}

func (i *typesenseIndex) Search(ctx context.Context, vector []float32, k int) ([]Chunk, error) {
	if k <= 0 {
		k = 4
	}

	searches := api.MultiSearchSearchesParameter{
		Searches: []api.MultiSearchCollectionParameters{
			{
				Collection:  pointer.String(i.collection),
				Q:           pointer.String("*"),
				VectorQuery: pointer.String(fmt.Sprintf("embedding:(%s, k:%d)", vectorLiteral(vector), k)),
			},
		},
	}

	res, err := i.client.MultiSearch.Perform(ctx, &api.MultiSearchParams{}, searches)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	if len(res.Results) == 0 || res.Results[0].Hits == nil {
		return nil, nil
	}

	hits := *res.Results[0].Hits
	chunks := make([]Chunk, 0, len(hits))
	for _, hit := range hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document
		chunks = append(chunks, Chunk{
			ID:        docString(doc, "id"),
			Text:      docString(doc, "text"),
			SourceURL: docString(doc, "source_url"),
			Title:     docString(doc, "title"),
		})
	}
	return chunks, nil
}

func (i *typesenseIndex) DropSource(ctx context.Context, sourceURL string) error {
	filter := fmt.Sprintf("source_url:=%s", sourceURL)
	params := &api.DeleteDocumentsParams{FilterBy: pointer.String(filter)}
	if _, err := i.client.Collection(i.collection).Documents().Delete(ctx, params); err != nil {
		return fmt.Errorf("dropping chunks for %s: %w", sourceURL, err)
	}
	return nil
}

func vectorLiteral(vector []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vector {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

func docString(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}
