package leads

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"brightdesk.app/chat/internal/model"
	"brightdesk.app/chat/internal/store"
)

// LeadSignals are buying-interest keywords. Any occurrence in a message is
// an explicit topical trigger for lead capture.
var LeadSignals = []string{
	"price", "pricing", "cost",
	"demo", "trial",
	"contact", "call", "email",
	"consult", "consultation",
	"services", "partnership",
}

// sustainedInterestSummary seeds the intent summary when the proactive
// trigger fires with no explicit signal to quote.
const sustainedInterestSummary = "User showed sustained interest after multiple messages"

// DetectLeadSignal reports whether any buying-interest keyword occurs as a
// case-insensitive substring of the message.
func DetectLeadSignal(message string) bool {
	msg := strings.ToLower(message)
	for _, keyword := range LeadSignals {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}

// DetectOpportunisticContact reports whether the entire trimmed message is
// itself a contact value (email or Indian phone). Substrings don't count;
// the user must be handing over exactly the contact detail.
func DetectOpportunisticContact(message string) bool {
	text := strings.TrimSpace(message)
	return IsValidEmail(text) || IsValidIndianPhone(text)
}

// Detector decides whether lead collection should begin or restart for a
// session, based on three classes of buying signal: contact info offered
// spontaneously, explicit topical interest, and sustained engagement.
type Detector interface {
	ShouldStartLeadFlow(ctx context.Context, sessionID, message string) (bool, error)
}

type detector struct {
	states     store.LeadStateStore
	messages   store.MessageStore
	summarizer Summarizer

	// proactiveTurns is the user-message count at which the engagement
	// trigger fires without any explicit signal.
	proactiveTurns int64
}

func NewDetector(states store.LeadStateStore, messages store.MessageStore, summarizer Summarizer, proactiveTurns int) Detector {
	if proactiveTurns <= 0 {
		proactiveTurns = 4
	}
	return &detector{
		states:         states,
		messages:       messages,
		summarizer:     summarizer,
		proactiveTurns: int64(proactiveTurns),
	}
}

func (d *detector) ShouldStartLeadFlow(ctx context.Context, sessionID, message string) (bool, error) {
	state, err := d.states.GetOrCreate(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("reading lead state: %w", err)
	}

	// Flow already active; no new trigger needed and nothing is mutated.
	if state.CurrentStep.Active() {
		slog.DebugContext(ctx, "lead flow already active", "step", state.CurrentStep)
		return true, nil
	}

	// A completed lead re-enters collection only on a strong signal. The
	// original intent summary is preserved; only the step resets.
	if state.CurrentStep == model.StepCompleted {
		if DetectOpportunisticContact(message) || DetectLeadSignal(message) {
			if err := d.states.Transition(ctx, sessionID, model.StepCompleted, model.StepAskedName); err != nil {
				return false, fmt.Errorf("re-engaging completed lead: %w", err)
			}
			slog.InfoContext(ctx, "completed lead re-engaged")
			return true, nil
		}
		return false, nil
	}

	// 1. Opportunistic: the user dropped an email/phone unprompted.
	if DetectOpportunisticContact(message) {
		if err := d.begin(ctx, sessionID, message); err != nil {
			return false, err
		}
		slog.InfoContext(ctx, "lead flow started", "trigger", "opportunistic")
		return true, nil
	}

	// 2. Explicit intent: a buying-signal keyword.
	if DetectLeadSignal(message) {
		if err := d.begin(ctx, sessionID, message); err != nil {
			return false, err
		}
		slog.InfoContext(ctx, "lead flow started", "trigger", "keyword")
		return true, nil
	}

	// 3. Proactive: sustained engagement without an explicit signal.
	turns, err := d.messages.CountBySender(ctx, sessionID, model.SenderUser)
	if err != nil {
		return false, fmt.Errorf("counting user messages: %w", err)
	}
	if turns >= d.proactiveTurns {
		if err := d.begin(ctx, sessionID, sustainedInterestSummary); err != nil {
			return false, err
		}
		slog.InfoContext(ctx, "lead flow started", "trigger", "proactive", "user_turns", turns)
		return true, nil
	}

	return false, nil
}

// begin flips the session into ASKED_NAME and seeds the intent summary from
// the trigger context.
func (d *detector) begin(ctx context.Context, sessionID, triggerContext string) error {
	if err := d.states.Transition(ctx, sessionID, model.StepNone, model.StepAskedName); err != nil {
		return fmt.Errorf("starting lead flow: %w", err)
	}
	if err := d.summarizer.StoreIntentSummary(ctx, sessionID, triggerContext); err != nil {
		return fmt.Errorf("seeding intent summary: %w", err)
	}
	return nil
}
