package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within
// a context. Fields flow through context enrichment so business context
// (session_id, lead_step, etc.) shows up in every log statement without
// threading it through call sites.
type LogFields struct {
	SessionID *string // Conversation session ID
	LeadStep  *string // Current lead-capture step for the session
	JobID     *string // Redis stream message ID for ingestion jobs
	SourceURL *string // Document source being ingested
	Component string  // Component name (e.g., "chat.leads.flow")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking
// precedence. Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.SessionID != nil {
		result.SessionID = next.SessionID
	}
	if next.LeadStep != nil {
		result.LeadStep = next.LeadStep
	}
	if next.JobID != nil {
		result.JobID = next.JobID
	}
	if next.SourceURL != nil {
		result.SourceURL = next.SourceURL
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}
