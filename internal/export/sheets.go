package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"brightdesk.app/chat/core/config"
	"brightdesk.app/chat/internal/model"
)

// LeadExporter pushes completed leads to an external CRM sink.
type LeadExporter interface {
	AppendLead(ctx context.Context, lead *model.Lead) error
}

type sheetsExporter struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsExporter appends leads as rows to a Google Sheet using a service
// account.
func NewSheetsExporter(ctx context.Context, cfg config.SheetsConfig) (LeadExporter, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	sheetName := cfg.SheetName
	if sheetName == "" {
		sheetName = "Leads"
	}

	return &sheetsExporter{
		service:       svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func (e *sheetsExporter) AppendLead(ctx context.Context, lead *model.Lead) error {
	if lead == nil {
		return fmt.Errorf("nil lead")
	}

	row := []interface{}{
		lead.SessionID,
		deref(lead.Name),
		deref(lead.Email),
		deref(lead.Phone),
		deref(lead.IntentSummary),
		time.Now().UTC().Format(time.RFC3339),
	}

	valueRange := &sheets.ValueRange{Values: [][]interface{}{row}}
	_, err := e.service.Spreadsheets.Values.
		Append(e.spreadsheetID, e.sheetName+"!A:F", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("appending lead row: %w", err)
	}

	slog.InfoContext(ctx, "lead exported to sheet", "session_id", lead.SessionID)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
