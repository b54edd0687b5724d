package rag

// Chunk is one indexed slice of site content. Embedding is populated on
// write; search results carry it back empty.
type Chunk struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	SourceURL string    `json:"source_url"`
	Title     string    `json:"title,omitempty"`
	Embedding []float32 `json:"embedding,omitempty"`
}
