package model

import (
	"fmt"
	"time"
)

// LeadStep is the lead-capture position for a conversation session.
// Steps advance monotonically except for the re-engagement edge from
// StepCompleted back to StepAskedName.
type LeadStep string

const (
	StepNone       LeadStep = "NONE"
	StepAskedName  LeadStep = "ASKED_NAME"
	StepAskedEmail LeadStep = "ASKED_EMAIL"
	StepAskedPhone LeadStep = "ASKED_PHONE"
	StepCompleted  LeadStep = "COMPLETED"
)

// ErrInvalidStep indicates a step value outside the closed set reached a
// transition call. This is a programming error in the caller, not user input.
type ErrInvalidStep struct {
	Step string
}

func (e ErrInvalidStep) Error() string {
	return fmt.Sprintf("invalid lead step: %q", e.Step)
}

// Valid reports whether s is a member of the closed step set.
func (s LeadStep) Valid() bool {
	switch s {
	case StepNone, StepAskedName, StepAskedEmail, StepAskedPhone, StepCompleted:
		return true
	}
	return false
}

// ParseLeadStep converts a persisted string into a LeadStep,
// rejecting anything outside the closed set.
func ParseLeadStep(s string) (LeadStep, error) {
	step := LeadStep(s)
	if !step.Valid() {
		return "", ErrInvalidStep{Step: s}
	}
	return step, nil
}

// Active reports whether the flow is mid-collection (a question is pending).
func (s LeadStep) Active() bool {
	switch s {
	case StepAskedName, StepAskedEmail, StepAskedPhone:
		return true
	}
	return false
}

// LeadState tracks the current capture step for a session.
type LeadState struct {
	SessionID   string    `json:"session_id"`
	CurrentStep LeadStep  `json:"current_step"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Lead is the sparse per-session contact record. Fields stay nil until
// collected; once set they are only ever replaced by a new valid value.
type Lead struct {
	SessionID     string    `json:"session_id"`
	Name          *string   `json:"name,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	IntentSummary *string   `json:"intent_summary,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// HasEmail reports whether a non-empty email is on record.
func (l *Lead) HasEmail() bool {
	return l != nil && l.Email != nil && *l.Email != ""
}

// HasPhone reports whether a non-empty phone is on record.
func (l *Lead) HasPhone() bool {
	return l != nil && l.Phone != nil && *l.Phone != ""
}

// HasIntentSummary reports whether an intent summary is on record.
func (l *Lead) HasIntentSummary() bool {
	return l != nil && l.IntentSummary != nil && *l.IntentSummary != ""
}
