package ingest

import "strings"

// Chunker splits page text into overlapping windows sized for embedding.
// Splits prefer paragraph, then line, then word boundaries.
type Chunker struct {
	Size    int
	Overlap int
}

func NewChunker(size, overlap int) Chunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 5
	}
	return Chunker{Size: size, Overlap: overlap}
}

var separators = []string{"\n\n", "\n", " "}

func (c Chunker) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= c.Size {
		return []string{text}
	}
	return c.split(text, 0)
}

func (c Chunker) split(text string, sepIdx int) []string {
	if sepIdx >= len(separators) {
		return c.hardSplit(text)
	}

	parts := strings.Split(text, separators[sepIdx])
	var chunks []string
	var current string

	flush := func() {
		if trimmed := strings.TrimSpace(current); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
		// Carry the tail of the finished chunk forward so adjacent chunks
		// share context.
		if c.Overlap > 0 && len(current) > c.Overlap {
			current = current[len(current)-c.Overlap:]
		} else {
			current = ""
		}
	}

	for _, part := range parts {
		if len(part) > c.Size {
			flush()
			current = ""
			chunks = append(chunks, c.split(part, sepIdx+1)...)
			continue
		}

		candidate := part
		if current != "" {
			candidate = current + separators[sepIdx] + part
		}
		if len(candidate) > c.Size {
			flush()
			if current != "" {
				current = current + separators[sepIdx] + part
			} else {
				current = part
			}
			continue
		}
		current = candidate
	}

	if trimmed := strings.TrimSpace(current); trimmed != "" {
		chunks = append(chunks, trimmed)
	}
	return chunks
}

// hardSplit cuts text with no usable separators into fixed windows.
func (c Chunker) hardSplit(text string) []string {
	step := c.Size - c.Overlap
	if step <= 0 {
		step = c.Size
	}

	var chunks []string
	for start := 0; start < len(text); start += step {
		end := start + c.Size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
		if end == len(text) {
			break
		}
	}
	return chunks
}
