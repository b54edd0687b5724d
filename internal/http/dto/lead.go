package dto

import (
	"time"

	"brightdesk.app/chat/internal/model"
)

type SubmitLeadRequest struct {
	SessionID string `json:"session_id" binding:"required,max=128"`
	Name      string `json:"name" binding:"omitempty,max=255"`
	Email     string `json:"email" binding:"omitempty,max=255"`
	Phone     string `json:"phone" binding:"omitempty,max=32"`
}

type LeadResponse struct {
	SessionID     string    `json:"session_id"`
	Name          *string   `json:"name,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	IntentSummary *string   `json:"intent_summary,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func ToLeadResponse(lead *model.Lead) *LeadResponse {
	return &LeadResponse{
		SessionID:     lead.SessionID,
		Name:          lead.Name,
		Email:         lead.Email,
		Phone:         lead.Phone,
		IntentSummary: lead.IntentSummary,
		CreatedAt:     lead.CreatedAt,
	}
}

type LeadListResponse struct {
	Leads []LeadResponse `json:"leads"`
}

func ToLeadListResponse(leadsList []model.Lead) *LeadListResponse {
	out := make([]LeadResponse, len(leadsList))
	for i := range leadsList {
		out[i] = *ToLeadResponse(&leadsList[i])
	}
	return &LeadListResponse{Leads: out}
}
