package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"brightdesk.app/chat/common/id"
	"brightdesk.app/chat/common/logger"
	"brightdesk.app/chat/internal/leads"
	"brightdesk.app/chat/internal/model"
	"brightdesk.app/chat/internal/rag"
	"brightdesk.app/chat/internal/store"
)

// ErrEmptyMessage is returned when a chat turn arrives with no content.
var ErrEmptyMessage = fmt.Errorf("message must not be empty")

// ChatReply is the outcome of one chat turn.
type ChatReply struct {
	SessionID     string `json:"session_id"`
	Message       string `json:"message"`
	LeadFlow      bool   `json:"lead_flow"`
	LeadCompleted bool   `json:"lead_completed"`
}

// ChatService runs the full turn: persist the user message, offer it to the
// lead flow, and fall through to grounded document QA when the flow passes.
type ChatService interface {
	Converse(ctx context.Context, sessionID, message string) (*ChatReply, error)
	History(ctx context.Context, sessionID string) ([]model.Message, error)
}

type chatService struct {
	messages      store.MessageStore
	detector      leads.Detector
	flow          leads.Flow
	answerer      rag.Answerer
	historyWindow int32
}

func NewChatService(messages store.MessageStore, detector leads.Detector, flow leads.Flow, answerer rag.Answerer, historyWindow int) ChatService {
	if historyWindow <= 0 {
		historyWindow = 20
	}
	return &chatService{
		messages:      messages,
		detector:      detector,
		flow:          flow,
		answerer:      answerer,
		historyWindow: int32(historyWindow),
	}
}

func (s *chatService) Converse(ctx context.Context, sessionID, message string) (*ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		SessionID: &sessionID,
		Component: "chat.service.chat",
	})

	userMsg := &model.Message{
		ID:        id.New(),
		SessionID: sessionID,
		Sender:    model.SenderUser,
		Body:      message,
	}
	if err := s.messages.Append(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("recording user message: %w", err)
	}

	reply, leadFlow, leadCompleted := s.leadTurn(ctx, sessionID, message)
	if !leadFlow {
		reply = s.answerTurn(ctx, sessionID, message)
	}

	aiMsg := &model.Message{
		ID:        id.New(),
		SessionID: sessionID,
		Sender:    model.SenderAI,
		Body:      reply,
	}
	if err := s.messages.Append(ctx, aiMsg); err != nil {
		// The user still gets the reply; only the log entry is lost.
		slog.ErrorContext(ctx, "recording ai message failed", "error", err)
	}

	return &ChatReply{
		SessionID:     sessionID,
		Message:       reply,
		LeadFlow:      leadFlow,
		LeadCompleted: leadCompleted,
	}, nil
}

// leadTurn offers the message to the lead state machine. Lead machinery
// errors are logged and treated as fallthrough so a storage hiccup in lead
// capture never breaks the visitor's chat.
func (s *chatService) leadTurn(ctx context.Context, sessionID, message string) (reply string, handled, completed bool) {
	start, err := s.detector.ShouldStartLeadFlow(ctx, sessionID, message)
	if err != nil {
		slog.ErrorContext(ctx, "lead trigger detection failed", "error", err)
		return "", false, false
	}
	if !start {
		return "", false, false
	}

	res, err := s.flow.ProcessInput(ctx, sessionID, message)
	if err != nil {
		slog.ErrorContext(ctx, "lead flow failed", "error", err)
		return "", false, false
	}
	if !res.Handled {
		return "", false, false
	}
	return res.Message, true, res.LeadCompleted
}

func (s *chatService) answerTurn(ctx context.Context, sessionID, message string) string {
	history, err := s.messages.ListBySession(ctx, sessionID, s.historyWindow)
	if err != nil {
		slog.ErrorContext(ctx, "loading history failed", "error", err)
		history = nil
	}

	answer, err := s.answerer.Answer(ctx, message, history)
	if err != nil {
		slog.ErrorContext(ctx, "answer generation failed", "error", err)
		return rag.FallbackAnswer
	}
	return answer
}

func (s *chatService) History(ctx context.Context, sessionID string) ([]model.Message, error) {
	msgs, err := s.messages.ListBySession(ctx, sessionID, 0)
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}
	return msgs, nil
}
