package store

import (
	"context"
	"fmt"

	"brightdesk.app/chat/internal/model"
)

type messageStore struct {
	q Querier
}

func newMessageStore(q Querier) MessageStore {
	return &messageStore{q: q}
}

func (s *messageStore) Append(ctx context.Context, msg *model.Message) error {
	err := s.q.QueryRow(ctx, `
		INSERT INTO messages (id, session_id, sender, message, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING created_at`,
		msg.ID, msg.SessionID, string(msg.Sender), msg.Body,
	).Scan(&msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("appending message: %w", err)
	}
	return nil
}

func (s *messageStore) ListBySession(ctx context.Context, sessionID string, limit int32) ([]model.Message, error) {
	if limit < 0 {
		limit = 0
	}

	// Newest window, returned oldest first so prompts read chronologically.
	// A zero limit returns the whole conversation (LIMIT NULL is unbounded).
	rows, err := s.q.Query(ctx, `
		SELECT id, session_id, sender, message, created_at
		FROM (
			SELECT id, session_id, sender, message, created_at
			FROM messages
			WHERE session_id = $1
			ORDER BY id DESC
			LIMIT NULLIF($2, 0)
		) recent
		ORDER BY id ASC`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var (
			msg    model.Message
			sender string
		)
		if err := rows.Scan(&msg.ID, &msg.SessionID, &sender, &msg.Body, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.Sender = model.Sender(sender)
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func (s *messageStore) CountBySender(ctx context.Context, sessionID string, sender model.Sender) (int64, error) {
	var count int64
	err := s.q.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM messages
		WHERE session_id = $1 AND sender = $2`,
		sessionID, string(sender),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting messages: %w", err)
	}
	return count, nil
}
