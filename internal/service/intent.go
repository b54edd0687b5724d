package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"brightdesk.app/chat/common/llm"
	"brightdesk.app/chat/common/logger"
	"brightdesk.app/chat/internal/model"
	"brightdesk.app/chat/internal/store"
)

// ErrNoConversation is returned when intent analysis is requested for a
// session with no user messages.
var ErrNoConversation = fmt.Errorf("no user messages in session")

const intentSystemPrompt = `You are an advanced AI assistant specializing in user intent analysis for businesses.
Analyze the provided user chat messages and infer the user intent based only on the conversation, without assumptions.
Describe the user's interest in the company, the segments or services they care about, their actual requirement,
what they are looking for that the company does or does not appear to offer, and any notable behavioral signals.`

// IntentService produces a structured intent analysis of a session's
// conversation for the sales team.
type IntentService interface {
	Predict(ctx context.Context, sessionID string) (*model.IntentReport, error)
}

type intentService struct {
	messages store.MessageStore
	client   llm.Client
}

func NewIntentService(messages store.MessageStore, client llm.Client) IntentService {
	return &intentService{
		messages: messages,
		client:   client,
	}
}

func (s *intentService) Predict(ctx context.Context, sessionID string) (*model.IntentReport, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		SessionID: &sessionID,
		Component: "chat.service.intent",
	})

	msgs, err := s.messages.ListBySession(ctx, sessionID, 0)
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}

	var userLines []string
	for _, m := range msgs {
		if m.Sender != model.SenderUser {
			continue
		}
		if body := strings.TrimSpace(m.Body); body != "" {
			userLines = append(userLines, body)
		}
	}
	if len(userLines) == 0 {
		return nil, ErrNoConversation
	}

	resp, err := s.client.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: intentSystemPrompt},
			{Role: "user", Content: "User chat messages:\n" + strings.Join(userLines, "\n")},
		},
		ResponseSchema: llm.GenerateSchemaFrom(model.IntentReport{}),
		SchemaName:     "intent_report",
	})
	if err != nil {
		return nil, fmt.Errorf("analyzing intent: %w", err)
	}

	var report model.IntentReport
	if err := json.Unmarshal([]byte(resp.Content), &report); err != nil {
		return nil, fmt.Errorf("parsing intent report: %w", err)
	}
	return &report, nil
}
