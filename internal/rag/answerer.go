package rag

import (
	"context"
	"fmt"
	"strings"

	"brightdesk.app/chat/common/llm"
	"brightdesk.app/chat/internal/model"
)

const answerSystemPrompt = `You are a helpful company assistant.
Answer ONLY using the provided website context and previous chats.
If the context and previous chats are insufficient, reply: "I don't know."
If the user is asking about earlier parts of the conversation, answer from the previous chats.
Keep answers concise and friendly, and suggest a related follow-up question the user might find engaging based on the context.`

// FallbackAnswer is returned when answer generation is unavailable or the
// context contains nothing relevant.
const FallbackAnswer = "I don't know."

// Answerer produces a grounded reply to a user question from retrieved site
// content and recent conversation history.
type Answerer interface {
	Answer(ctx context.Context, question string, history []model.Message) (string, error)
}

type answerer struct {
	client    llm.Client
	retriever Retriever
	maxTokens int
}

func NewAnswerer(client llm.Client, retriever Retriever, maxTokens int) Answerer {
	return &answerer{
		client:    client,
		retriever: retriever,
		maxTokens: maxTokens,
	}
}

func (a *answerer) Answer(ctx context.Context, question string, history []model.Message) (string, error) {
	chunks, err := a.retriever.Retrieve(ctx, question)
	if err != nil {
		return "", fmt.Errorf("retrieving context: %w", err)
	}

	prompt := buildAnswerPrompt(question, chunks, history)

	resp, err := a.client.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: answerSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}

	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		return FallbackAnswer, nil
	}
	return answer, nil
}

func buildAnswerPrompt(question string, chunks []Chunk, history []model.Message) string {
	var b strings.Builder

	b.WriteString("Context:\n")
	if len(chunks) == 0 {
		b.WriteString("(no relevant site content found)\n")
	}
	for _, chunk := range chunks {
		b.WriteString(chunk.Text)
		b.WriteString("\n---\n")
	}

	b.WriteString("\nPrevious Chats:\n")
	for _, msg := range history {
		b.WriteString(string(msg.Sender))
		b.WriteString(": ")
		b.WriteString(msg.Body)
		b.WriteByte('\n')
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
