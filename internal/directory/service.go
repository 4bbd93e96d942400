// Package directory owns cross-session metadata: the listing of sessions,
// their titles, and activity timestamps. The chat actor core notifies it of
// activity but never owns these records.
package directory

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	apperrors "vectorchat/internal/errors"
	"vectorchat/internal/model"
)

// titleRuneLimit bounds a title derived from a first message.
const titleRuneLimit = 40

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// DefaultTitle derives a session title: a cleaned, truncated first message
// plus a short timestamp, or a plain "Chat <timestamp>" when no message is
// available.
func DefaultTitle(firstMessage string, now time.Time) string {
	stamp := now.Format("01/02 15:04")
	cleaned := strings.Join(strings.Fields(firstMessage), " ")
	if cleaned == "" {
		return "Chat " + stamp
	}
	runes := []rune(cleaned)
	if len(runes) > titleRuneLimit {
		cleaned = string(runes[:titleRuneLimit-3]) + "..."
	}
	return cleaned + " • " + stamp
}

// Register creates the directory record for a session, or refreshes its title
// and activity if it already exists.
func (s *Service) Register(ctx context.Context, sessionID, title string) (*model.Session, error) {
	now := time.Now().UTC()
	query := `
		INSERT INTO sessions (id, title, created_at, last_active_at, message_count)
		VALUES (?, ?, ?, ?, 0)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, last_active_at = excluded.last_active_at
	`
	if _, err := s.db.ExecContext(ctx, query, sessionID, title, now, now); err != nil {
		return nil, fmt.Errorf("could not register session: %w", err)
	}
	return s.Get(ctx, sessionID)
}

func (s *Service) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	query := "SELECT id, title, created_at, last_active_at, message_count FROM sessions WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, sessionID)

	var sess model.Session
	err := row.Scan(&sess.ID, &sess.Title, &sess.CreatedAt, &sess.LastActiveAt, &sess.MessageCount)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
		}
		return nil, err
	}
	return &sess, nil
}

// List returns all sessions, most recently active first.
func (s *Service) List(ctx context.Context) ([]*model.Session, error) {
	query := "SELECT id, title, created_at, last_active_at, message_count FROM sessions ORDER BY last_active_at DESC"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		var sess model.Session
		if err := rows.Scan(&sess.ID, &sess.Title, &sess.CreatedAt, &sess.LastActiveAt, &sess.MessageCount); err != nil {
			return nil, err
		}
		sessions = append(sessions, &sess)
	}
	return sessions, rows.Err()
}

// Rename updates a session's title.
func (s *Service) Rename(ctx context.Context, sessionID, newTitle string) error {
	if strings.TrimSpace(newTitle) == "" {
		return fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidation)
	}
	res, err := s.db.ExecContext(ctx, "UPDATE sessions SET title = ? WHERE id = ?", newTitle, sessionID)
	if err != nil {
		return err
	}
	return s.requireRow(res, sessionID)
}

// Delete removes a session from the directory.
func (s *Service) Delete(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return err
	}
	return s.requireRow(res, sessionID)
}

// Count reports how many sessions exist.
func (s *Service) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&count)
	return count, err
}

// ClearAll removes every session and returns how many were deleted.
func (s *Service) ClearAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Touch bumps a session's activity timestamp and message count after a
// completed turn. Missing rows are ignored: the directory only tracks
// sessions that were explicitly registered.
func (s *Service) Touch(ctx context.Context, sessionID string, newMessages int) error {
	query := "UPDATE sessions SET last_active_at = ?, message_count = message_count + ? WHERE id = ?"
	_, err := s.db.ExecContext(ctx, query, time.Now().UTC(), newMessages, sessionID)
	return err
}

func (s *Service) requireRow(res sql.Result, sessionID string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
	}
	return nil
}
