package export

import (
	"context"
	"log/slog"

	"brightdesk.app/chat/internal/model"
)

type nopExporter struct{}

// NewNopExporter is used when no sheet is configured; leads stay in Postgres
// and the completion turn proceeds normally.
func NewNopExporter() LeadExporter {
	return nopExporter{}
}

func (nopExporter) AppendLead(ctx context.Context, lead *model.Lead) error {
	if lead != nil {
		slog.InfoContext(ctx, "lead export skipped, no sink configured", "session_id", lead.SessionID)
	}
	return nil
}
