package leads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"brightdesk.app/chat/internal/model"
	"brightdesk.app/chat/internal/store"
)

// Exporter pushes a completed lead to an external sink. Failures are
// non-fatal to the chat turn; the lead is already durably stored.
type Exporter interface {
	AppendLead(ctx context.Context, lead *model.Lead) error
}

// Result is the outcome of running one user message through the lead flow.
// When Handled is false the caller should fall through to normal chat.
type Result struct {
	Handled       bool
	Message       string
	LeadCompleted bool
}

// Flow is the lead collection state machine. Each user message is offered to
// it first; it either consumes the turn with a collection prompt or lets the
// message fall through to document QA.
type Flow interface {
	ProcessInput(ctx context.Context, sessionID, message string) (Result, error)
}

type flow struct {
	states     store.LeadStateStore
	leads      store.LeadStore
	summarizer Summarizer
	exporter   Exporter
}

func NewFlow(states store.LeadStateStore, leads store.LeadStore, summarizer Summarizer, exporter Exporter) Flow {
	return &flow{
		states:     states,
		leads:      leads,
		summarizer: summarizer,
		exporter:   exporter,
	}
}

func (f *flow) ProcessInput(ctx context.Context, sessionID, message string) (Result, error) {
	state, err := f.states.GetOrCreate(ctx, sessionID)
	if err != nil {
		return Result{}, fmt.Errorf("reading lead state: %w", err)
	}

	fields := ExtractContactFields(message)

	// Opportunistic capture runs regardless of state so a user answering
	// the name prompt with "john@x.com, 9876543210, my name is John" still
	// has email and phone recorded.
	if fields.Email != "" {
		if err := f.leads.UpsertField(ctx, sessionID, store.FieldEmail, fields.Email); err != nil {
			return Result{}, fmt.Errorf("storing email: %w", err)
		}
	}
	if fields.Phone != "" {
		if err := f.leads.UpsertField(ctx, sessionID, store.FieldPhone, fields.Phone); err != nil {
			return Result{}, fmt.Errorf("storing phone: %w", err)
		}
	}

	switch state.CurrentStep {
	case model.StepAskedName:
		return f.handleAskedName(ctx, sessionID, message, fields)
	case model.StepAskedEmail:
		return f.handleAskedEmail(ctx, sessionID, message, fields)
	case model.StepAskedPhone:
		return f.handleAskedPhone(ctx, sessionID, message, fields)
	default:
		// NONE or COMPLETED without a re-trigger; the flow is inactive.
		return Result{Handled: false}, nil
	}
}

func (f *flow) handleAskedName(ctx context.Context, sessionID, message string, fields ContactFields) (Result, error) {
	name := ExtractNameCandidate(message)

	// Pure chit-chat with nothing extractable falls through so the user
	// isn't nagged with a repeated name prompt for saying "thanks".
	if name == "" && fields.Email == "" && fields.Phone == "" && IsCasualMessage(message) {
		return Result{Handled: false}, nil
	}

	if name != "" {
		if err := f.leads.UpsertField(ctx, sessionID, store.FieldName, name); err != nil {
			return Result{}, fmt.Errorf("storing name: %w", err)
		}

		// Decide the next step from the whole lead record, not just this
		// message; earlier opportunistic captures count.
		lead, err := f.leads.GetBySession(ctx, sessionID)
		if err != nil {
			return Result{}, fmt.Errorf("reading lead: %w", err)
		}

		switch {
		case lead.HasEmail() && lead.HasPhone():
			return f.complete(ctx, sessionID, model.StepAskedName, lead)
		case lead.HasEmail():
			if err := f.advance(ctx, sessionID, model.StepAskedName, model.StepAskedPhone); err != nil {
				return Result{}, err
			}
			return Result{Handled: true, Message: fmt.Sprintf("Thanks, %s! Could you also share your phone number?", name)}, nil
		default:
			if err := f.advance(ctx, sessionID, model.StepAskedName, model.StepAskedEmail); err != nil {
				return Result{}, err
			}
			return Result{Handled: true, Message: fmt.Sprintf("Thanks, %s! Could you share your email address?", name)}, nil
		}
	}

	switch {
	case fields.Email != "" && fields.Phone != "":
		return Result{Handled: true, Message: "Thanks for sharing your contact details! May I know your name, please?"}, nil
	case fields.Email != "":
		return Result{Handled: true, Message: "Got your email! May I know your name, please?"}, nil
	case fields.Phone != "":
		return Result{Handled: true, Message: "Got your phone number! May I know your name, please?"}, nil
	default:
		return Result{Handled: true, Message: "May I know your name, please?"}, nil
	}
}

func (f *flow) handleAskedEmail(ctx context.Context, sessionID, message string, fields ContactFields) (Result, error) {
	if fields.Email != "" {
		lead, err := f.leads.GetBySession(ctx, sessionID)
		if err != nil {
			return Result{}, fmt.Errorf("reading lead: %w", err)
		}
		if lead.HasPhone() {
			return f.complete(ctx, sessionID, model.StepAskedEmail, lead)
		}
		if err := f.advance(ctx, sessionID, model.StepAskedEmail, model.StepAskedPhone); err != nil {
			return Result{}, err
		}
		return Result{Handled: true, Message: "Could you also share your phone number?"}, nil
	}

	// User skipped ahead with a phone number; it's stored, email is still
	// the missing piece.
	if fields.Phone != "" {
		return Result{Handled: true, Message: "Got your phone number! Could you share your email address?"}, nil
	}

	if IsCasualMessage(message) {
		return Result{Handled: false}, nil
	}

	return Result{Handled: true, Message: "That doesn't seem like a valid email address. Could you re-enter it?"}, nil
}

func (f *flow) handleAskedPhone(ctx context.Context, sessionID, message string, fields ContactFields) (Result, error) {
	if fields.Phone != "" {
		lead, err := f.leads.GetBySession(ctx, sessionID)
		if err != nil {
			return Result{}, fmt.Errorf("reading lead: %w", err)
		}
		return f.complete(ctx, sessionID, model.StepAskedPhone, lead)
	}

	if IsCasualMessage(message) {
		return Result{Handled: false}, nil
	}

	return Result{Handled: true, Message: "That doesn't look like a valid phone number. Please enter a valid 10-digit Indian phone number."}, nil
}

// complete moves the session into COMPLETED, refreshes the intent summary
// from the whole conversation, and attempts a single best-effort export.
func (f *flow) complete(ctx context.Context, sessionID string, from model.LeadStep, lead *model.Lead) (Result, error) {
	if err := f.states.Transition(ctx, sessionID, from, model.StepCompleted); err != nil {
		if errors.Is(err, store.ErrStaleTransition) {
			// Lost a race with a concurrent turn that already completed
			// the lead; it owns the summary refresh and export.
			slog.WarnContext(ctx, "lead completion raced", "session_id", sessionID, "from", from)
			return Result{Handled: true, Message: thankYouMessage(lead)}, nil
		}
		return Result{}, fmt.Errorf("completing lead: %w", err)
	}

	if err := f.summarizer.RefreshFromConversation(ctx, sessionID); err != nil {
		slog.ErrorContext(ctx, "intent summary refresh failed", "session_id", sessionID, "error", err)
	}

	exported, err := f.leads.GetBySession(ctx, sessionID)
	if err != nil {
		slog.ErrorContext(ctx, "reading lead for export failed", "session_id", sessionID, "error", err)
		exported = lead
	}
	if err := f.exporter.AppendLead(ctx, exported); err != nil {
		// The lead is durably stored; export failure never fails the turn.
		slog.ErrorContext(ctx, "lead export failed", "session_id", sessionID, "error", err)
	}

	slog.InfoContext(ctx, "lead completed", "session_id", sessionID)
	return Result{Handled: true, Message: thankYouMessage(exported), LeadCompleted: true}, nil
}

// advance applies a mid-flow transition, tolerating a lost race with a
// concurrent turn that already moved the session forward.
func (f *flow) advance(ctx context.Context, sessionID string, from, to model.LeadStep) error {
	err := f.states.Transition(ctx, sessionID, from, to)
	if errors.Is(err, store.ErrStaleTransition) {
		slog.WarnContext(ctx, "lead transition raced", "session_id", sessionID, "from", from, "to", to)
		return nil
	}
	if err != nil {
		return fmt.Errorf("advancing lead flow: %w", err)
	}
	return nil
}

func thankYouMessage(lead *model.Lead) string {
	if lead != nil && lead.Name != nil && *lead.Name != "" {
		return fmt.Sprintf("Thank you, %s! Our team will reach out to you shortly.", *lead.Name)
	}
	return "Thank you! Our team will reach out to you shortly."
}
