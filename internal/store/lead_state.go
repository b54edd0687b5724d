package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"brightdesk.app/chat/internal/model"
)

type leadStateStore struct {
	q Querier
}

func newLeadStateStore(q Querier) LeadStateStore {
	return &leadStateStore{q: q}
}

func (s *leadStateStore) GetOrCreate(ctx context.Context, sessionID string) (*model.LeadState, error) {
	// Insert-if-absent first so concurrent first references converge on one row.
	_, err := s.q.Exec(ctx, `
		INSERT INTO lead_states (session_id, current_step, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (session_id) DO NOTHING`,
		sessionID, string(model.StepNone),
	)
	if err != nil {
		return nil, fmt.Errorf("creating lead state: %w", err)
	}

	var (
		step      string
		updatedAt time.Time
	)
	err = s.q.QueryRow(ctx, `
		SELECT current_step, updated_at
		FROM lead_states
		WHERE session_id = $1`,
		sessionID,
	).Scan(&step, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	parsed, err := model.ParseLeadStep(step)
	if err != nil {
		return nil, err
	}

	return &model.LeadState{
		SessionID:   sessionID,
		CurrentStep: parsed,
		UpdatedAt:   updatedAt,
	}, nil
}

func (s *leadStateStore) Transition(ctx context.Context, sessionID string, from, to model.LeadStep) error {
	if !from.Valid() {
		return model.ErrInvalidStep{Step: string(from)}
	}
	if !to.Valid() {
		return model.ErrInvalidStep{Step: string(to)}
	}

	tag, err := s.q.Exec(ctx, `
		UPDATE lead_states
		SET current_step = $1, updated_at = now()
		WHERE session_id = $2 AND current_step = $3`,
		string(to), sessionID, string(from),
	)
	if err != nil {
		return fmt.Errorf("transitioning lead state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleTransition
	}
	return nil
}
