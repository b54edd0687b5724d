package dto

import (
	"time"

	"brightdesk.app/chat/internal/model"
	"brightdesk.app/chat/internal/service"
)

type ChatRequest struct {
	SessionID string `json:"session_id" binding:"omitempty,max=128"`
	Message   string `json:"message" binding:"required,min=1,max=4000"`
}

type ChatResponse struct {
	SessionID     string `json:"session_id"`
	Message       string `json:"message"`
	LeadFlow      bool   `json:"lead_flow"`
	LeadCompleted bool   `json:"lead_completed"`
}

func ToChatResponse(reply *service.ChatReply) *ChatResponse {
	return &ChatResponse{
		SessionID:     reply.SessionID,
		Message:       reply.Message,
		LeadFlow:      reply.LeadFlow,
		LeadCompleted: reply.LeadCompleted,
	}
}

type MessageResponse struct {
	ID        int64     `json:"id,string"`
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type HistoryResponse struct {
	SessionID string            `json:"session_id"`
	Messages  []MessageResponse `json:"messages"`
}

func ToHistoryResponse(sessionID string, msgs []model.Message) *HistoryResponse {
	out := make([]MessageResponse, len(msgs))
	for i, m := range msgs {
		out[i] = MessageResponse{
			ID:        m.ID,
			Sender:    string(m.Sender),
			Message:   m.Body,
			CreatedAt: m.CreatedAt,
		}
	}
	return &HistoryResponse{SessionID: sessionID, Messages: out}
}
