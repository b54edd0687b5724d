package dto

import "brightdesk.app/chat/internal/model"

type IntentResponse struct {
	SessionID          string   `json:"session_id"`
	UserInterest       string   `json:"user_interest"`
	Segments           []string `json:"segments"`
	ActualRequirement  string   `json:"actual_requirement"`
	UnmetNeeds         []string `json:"unmet_needs"`
	MetNeeds           []string `json:"met_needs"`
	AdditionalInsights []string `json:"additional_insights"`
}

func ToIntentResponse(sessionID string, report *model.IntentReport) *IntentResponse {
	return &IntentResponse{
		SessionID:          sessionID,
		UserInterest:       report.UserInterest,
		Segments:           report.Segments,
		ActualRequirement:  report.ActualRequirement,
		UnmetNeeds:         report.UnmetNeeds,
		MetNeeds:           report.MetNeeds,
		AdditionalInsights: report.AdditionalInsights,
	}
}
