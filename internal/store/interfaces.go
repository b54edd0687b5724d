package store

import (
	"context"
	"errors"

	"brightdesk.app/chat/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrStaleTransition is returned when a conditional step transition matched
// no row, meaning another request moved the session first.
var ErrStaleTransition = errors.New("stale lead state transition")

// LeadStateStore defines the contract for per-session lead state access.
type LeadStateStore interface {
	// GetOrCreate returns the state for the session, creating it at
	// StepNone on first reference.
	GetOrCreate(ctx context.Context, sessionID string) (*model.LeadState, error)
	// Transition performs a compare-and-swap on current_step so two
	// concurrent turns cannot both advance from the same step.
	Transition(ctx context.Context, sessionID string, from, to model.LeadStep) error
}

// LeadStore defines the contract for lead record access.
// Upserts are safe to call with partial field sets.
type LeadStore interface {
	GetBySession(ctx context.Context, sessionID string) (*model.Lead, error)
	// UpsertField writes one of name/email/phone/intent_summary, creating
	// the row if absent. A stored non-empty value is only ever replaced by
	// another non-empty value.
	UpsertField(ctx context.Context, sessionID string, field LeadField, value string) error
	// UpsertIntentIfAbsent writes intent_summary only when no summary is
	// stored yet (first-write-wins at trigger time).
	UpsertIntentIfAbsent(ctx context.Context, sessionID, summary string) error
	List(ctx context.Context, limit int32) ([]model.Lead, error)
}

// MessageStore defines the contract for the conversation log.
type MessageStore interface {
	Append(ctx context.Context, msg *model.Message) error
	// ListBySession returns the most recent messages, oldest first.
	// A limit of zero or less returns the entire conversation.
	ListBySession(ctx context.Context, sessionID string, limit int32) ([]model.Message, error)
	CountBySender(ctx context.Context, sessionID string, sender model.Sender) (int64, error)
}

// LeadField names the lead columns writable through UpsertField.
type LeadField string

const (
	FieldName          LeadField = "name"
	FieldEmail         LeadField = "email"
	FieldPhone         LeadField = "phone"
	FieldIntentSummary LeadField = "intent_summary"
)

// Valid reports whether f is a writable lead field.
func (f LeadField) Valid() bool {
	switch f {
	case FieldName, FieldEmail, FieldPhone, FieldIntentSummary:
		return true
	}
	return false
}
