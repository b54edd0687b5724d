package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"brightdesk.app/chat/common/logger"
	"brightdesk.app/chat/internal/leads"
	"brightdesk.app/chat/internal/model"
	"brightdesk.app/chat/internal/store"
)

// ErrInvalidLeadField reports which submitted contact field failed
// validation.
type ErrInvalidLeadField struct {
	Field string
}

func (e ErrInvalidLeadField) Error() string {
	return fmt.Sprintf("invalid lead field: %s", e.Field)
}

// LeadSubmission is a complete contact form submitted outside the
// conversational flow.
type LeadSubmission struct {
	SessionID string
	Name      string
	Email     string
	Phone     string
}

// LeadService exposes collected leads to the admin API and accepts direct
// form submissions from the widget.
type LeadService interface {
	Get(ctx context.Context, sessionID string) (*model.Lead, error)
	List(ctx context.Context, limit int32) ([]model.Lead, error)
	Submit(ctx context.Context, sub LeadSubmission) (*model.Lead, error)
}

type leadService struct {
	leadStore  store.LeadStore
	stateStore store.LeadStateStore
	summarizer leads.Summarizer
	exporter   leads.Exporter
}

func NewLeadService(leadStore store.LeadStore, stateStore store.LeadStateStore, summarizer leads.Summarizer, exporter leads.Exporter) LeadService {
	return &leadService{
		leadStore:  leadStore,
		stateStore: stateStore,
		summarizer: summarizer,
		exporter:   exporter,
	}
}

func (s *leadService) Get(ctx context.Context, sessionID string) (*model.Lead, error) {
	return s.leadStore.GetBySession(ctx, sessionID)
}

func (s *leadService) List(ctx context.Context, limit int32) ([]model.Lead, error) {
	return s.leadStore.List(ctx, limit)
}

func (s *leadService) Submit(ctx context.Context, sub LeadSubmission) (*model.Lead, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		SessionID: &sub.SessionID,
		Component: "chat.service.lead",
	})

	name := strings.TrimSpace(sub.Name)
	if name != "" && !leads.IsValidName(name) {
		return nil, ErrInvalidLeadField{Field: "name"}
	}
	email := strings.TrimSpace(sub.Email)
	if email != "" && !leads.IsValidEmail(email) {
		return nil, ErrInvalidLeadField{Field: "email"}
	}
	var phone string
	if strings.TrimSpace(sub.Phone) != "" {
		normalized, err := leads.NormalizeIndianPhone(sub.Phone)
		if err != nil {
			return nil, ErrInvalidLeadField{Field: "phone"}
		}
		phone = normalized
	}
	if name == "" && email == "" && phone == "" {
		return nil, ErrInvalidLeadField{Field: "contact"}
	}

	fields := map[store.LeadField]string{
		store.FieldName:  name,
		store.FieldEmail: email,
		store.FieldPhone: phone,
	}
	for field, value := range fields {
		if value == "" {
			continue
		}
		if err := s.leadStore.UpsertField(ctx, sub.SessionID, field, value); err != nil {
			return nil, fmt.Errorf("storing %s: %w", field, err)
		}
	}

	lead, err := s.leadStore.GetBySession(ctx, sub.SessionID)
	if err != nil {
		return nil, fmt.Errorf("reading lead: %w", err)
	}

	// A form with full contact details closes the session's capture flow
	// the same way a conversational completion would.
	if lead.HasEmail() && lead.HasPhone() {
		s.closeFlow(ctx, sub.SessionID, lead)
	}

	return lead, nil
}

func (s *leadService) closeFlow(ctx context.Context, sessionID string, lead *model.Lead) {
	state, err := s.stateStore.GetOrCreate(ctx, sessionID)
	if err != nil {
		slog.ErrorContext(ctx, "reading lead state failed", "error", err)
		return
	}
	if state.CurrentStep != model.StepCompleted {
		if err := s.stateStore.Transition(ctx, sessionID, state.CurrentStep, model.StepCompleted); err != nil {
			if !errors.Is(err, store.ErrStaleTransition) {
				slog.ErrorContext(ctx, "completing lead state failed", "error", err)
			}
			return
		}
	}

	if err := s.summarizer.RefreshFromConversation(ctx, sessionID); err != nil {
		slog.ErrorContext(ctx, "intent summary refresh failed", "error", err)
	}
	if err := s.exporter.AppendLead(ctx, lead); err != nil {
		slog.ErrorContext(ctx, "lead export failed", "error", err)
	}
}
