package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"brightdesk.app/chat/internal/model"
)

type leadStore struct {
	q Querier
}

func newLeadStore(q Querier) LeadStore {
	return &leadStore{q: q}
}

func (s *leadStore) GetBySession(ctx context.Context, sessionID string) (*model.Lead, error) {
	var (
		lead      model.Lead
		createdAt time.Time
	)
	err := s.q.QueryRow(ctx, `
		SELECT session_id, name, email, phone, intent_summary, created_at
		FROM leads
		WHERE session_id = $1`,
		sessionID,
	).Scan(&lead.SessionID, &lead.Name, &lead.Email, &lead.Phone, &lead.IntentSummary, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	lead.CreatedAt = createdAt
	return &lead, nil
}

func (s *leadStore) UpsertField(ctx context.Context, sessionID string, field LeadField, value string) error {
	if !field.Valid() {
		return fmt.Errorf("invalid lead field: %q", field)
	}
	// A stored value is never overwritten with an empty one.
	if value == "" {
		return nil
	}

	// The field name comes from the closed LeadField set, never from input.
	query := fmt.Sprintf(`
		INSERT INTO leads (session_id, %[1]s, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (session_id) DO UPDATE SET %[1]s = EXCLUDED.%[1]s`,
		string(field),
	)

	if _, err := s.q.Exec(ctx, query, sessionID, value); err != nil {
		return fmt.Errorf("upserting lead %s: %w", field, err)
	}
	return nil
}

func (s *leadStore) UpsertIntentIfAbsent(ctx context.Context, sessionID, summary string) error {
	if summary == "" {
		return nil
	}

	_, err := s.q.Exec(ctx, `
		INSERT INTO leads (session_id, intent_summary, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (session_id) DO UPDATE SET intent_summary = EXCLUDED.intent_summary
		WHERE leads.intent_summary IS NULL OR leads.intent_summary = ''`,
		sessionID, summary,
	)
	if err != nil {
		return fmt.Errorf("seeding intent summary: %w", err)
	}
	return nil
}

func (s *leadStore) List(ctx context.Context, limit int32) ([]model.Lead, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.q.Query(ctx, `
		SELECT session_id, name, email, phone, intent_summary, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var lead model.Lead
		if err := rows.Scan(&lead.SessionID, &lead.Name, &lead.Email, &lead.Phone, &lead.IntentSummary, &lead.CreatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}
