package leads

import (
	"context"
	"fmt"
	"strings"

	"brightdesk.app/chat/internal/model"
	"brightdesk.app/chat/internal/store"
)

const (
	defaultSummaryMaxLen    = 500
	defaultLatestNeedMaxLen = 120
	maxTopics               = 5
)

// Summarizer builds a human-readable synopsis of a session's conversation
// for the lead record.
type Summarizer interface {
	// ConversationSummary digests the session's user messages into a
	// single-line summary. Returns "" when the user has said nothing yet.
	ConversationSummary(ctx context.Context, sessionID string) (string, error)

	// StoreIntentSummary records the trigger context as the lead's intent
	// summary. First write wins; later calls for the same session are
	// no-ops so the original trigger context is preserved.
	StoreIntentSummary(ctx context.Context, sessionID, triggerMessage string) error

	// RefreshFromConversation overwrites the intent summary with a fresh
	// digest of the whole conversation. No-op when the user has said
	// nothing yet.
	RefreshFromConversation(ctx context.Context, sessionID string) error
}

type summarizer struct {
	messages store.MessageStore
	leads    store.LeadStore

	maxLen        int
	latestNeedLen int
}

func NewSummarizer(messages store.MessageStore, leads store.LeadStore, maxLen, latestNeedLen int) Summarizer {
	if maxLen <= 0 {
		maxLen = defaultSummaryMaxLen
	}
	if latestNeedLen <= 0 {
		latestNeedLen = defaultLatestNeedMaxLen
	}
	return &summarizer{
		messages:      messages,
		leads:         leads,
		maxLen:        maxLen,
		latestNeedLen: latestNeedLen,
	}
}

func (s *summarizer) ConversationSummary(ctx context.Context, sessionID string) (string, error) {
	msgs, err := s.messages.ListBySession(ctx, sessionID, 0)
	if err != nil {
		return "", fmt.Errorf("loading conversation: %w", err)
	}

	var userMsgs []string
	for _, m := range msgs {
		if m.Sender != model.SenderUser {
			continue
		}
		if body := strings.TrimSpace(m.Body); body != "" {
			userMsgs = append(userMsgs, body)
		}
	}
	if len(userMsgs) == 0 {
		return "", nil
	}

	parts := []string{"User intent: " + detectTopics(userMsgs)}
	parts = append(parts, fmt.Sprintf("Engagement: %d messages", len(userMsgs)))

	questions := 0
	contactShared := false
	for _, m := range userMsgs {
		if strings.Contains(m, "?") {
			questions++
		}
		if DetectOpportunisticContact(m) {
			contactShared = true
		}
	}
	if questions > 0 {
		parts = append(parts, fmt.Sprintf("Questions asked: %d", questions))
	}
	if contactShared {
		parts = append(parts, "Contact info shared")
	}

	latest := truncate(userMsgs[len(userMsgs)-1], s.latestNeedLen)
	parts = append(parts, "Latest need: "+latest)

	return truncate(strings.Join(parts, " | "), s.maxLen), nil
}

func (s *summarizer) StoreIntentSummary(ctx context.Context, sessionID, triggerMessage string) error {
	convo, err := s.ConversationSummary(ctx, sessionID)
	if err != nil {
		return err
	}

	summary := "Trigger: " + strings.TrimSpace(triggerMessage)
	if convo != "" {
		summary += " | " + convo
	}
	summary = truncate(summary, s.maxLen)

	if err := s.leads.UpsertIntentIfAbsent(ctx, sessionID, summary); err != nil {
		return fmt.Errorf("storing intent summary: %w", err)
	}
	return nil
}

func (s *summarizer) RefreshFromConversation(ctx context.Context, sessionID string) error {
	convo, err := s.ConversationSummary(ctx, sessionID)
	if err != nil {
		return err
	}
	if convo == "" {
		return nil
	}
	if err := s.leads.UpsertField(ctx, sessionID, store.FieldIntentSummary, convo); err != nil {
		return fmt.Errorf("refreshing intent summary: %w", err)
	}
	return nil
}

// detectTopics scans the whole conversation for buying-signal keywords and
// names up to five of them, falling back to a generic description.
func detectTopics(userMsgs []string) string {
	all := strings.ToLower(strings.Join(userMsgs, " "))
	var topics []string
	for _, keyword := range LeadSignals {
		if strings.Contains(all, keyword) {
			topics = append(topics, keyword)
			if len(topics) == maxTopics {
				break
			}
		}
	}
	if len(topics) == 0 {
		return "seeking information and support"
	}
	return "interested in " + strings.Join(topics, ", ")
}

// truncate cuts s to at most max runes, marking the cut with an ellipsis and
// preserving the beginning of the text.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
