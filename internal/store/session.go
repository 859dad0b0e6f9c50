package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/pathways/internal/model"
)

// DefaultSessionTTL is used when CreateSession is given a zero TTL.
const DefaultSessionTTL = 24 * time.Hour

// CreateSession starts an empty assessment session that expires after ttl.
func (s *Store) CreateSession(ttl time.Duration) (*model.SessionState, error) {
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}
	now := time.Now().UTC()
	sess := &model.SessionState{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	_, err := s.db.Exec(
		`INSERT INTO assessment_sessions (id, answers, code, created_at, updated_at, expires_at)
		 VALUES (?, '', '', ?, ?, ?)`,
		sess.ID, sess.CreatedAt, sess.UpdatedAt, sess.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	slog.Debug("created assessment session", "session_id", sess.ID, "expires_at", sess.ExpiresAt)
	return sess, nil
}

// GetSession returns the session for id, or nil if it is unknown or expired.
func (s *Store) GetSession(id string) (*model.SessionState, error) {
	var (
		sess    model.SessionState
		answers string
		code    string
	)
	err := s.db.QueryRow(
		`SELECT id, answers, code, created_at, updated_at, expires_at
		 FROM assessment_sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &answers, &code, &sess.CreatedAt, &sess.UpdatedAt, &sess.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if time.Now().After(sess.ExpiresAt) {
		_ = s.DeleteSession(id)
		return nil, nil
	}
	sess.Answers = decodeAnswers(answers)
	sess.Code = model.Code(code)
	return &sess, nil
}

// SaveAnswers replaces the session's answers, clears any stored code and
// extends the expiry by ttl.
func (s *Store) SaveAnswers(id string, answers []model.Category, ttl time.Duration) error {
	return s.update(id,
		`UPDATE assessment_sessions SET answers = ?, code = '', updated_at = ?, expires_at = ? WHERE id = ?`,
		encodeAnswers(answers), ttl)
}

// SaveCode stores the last computed code for the session and extends the expiry by ttl.
func (s *Store) SaveCode(id string, code model.Code, ttl time.Duration) error {
	return s.update(id,
		`UPDATE assessment_sessions SET code = ?, updated_at = ?, expires_at = ? WHERE id = ?`,
		string(code), ttl)
}

func (s *Store) update(id, query, value string, ttl time.Duration) error {
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}
	now := time.Now().UTC()
	res, err := s.db.Exec(query, value, now, now.Add(ttl), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("session %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

// DeleteSession removes a session.
func (s *Store) DeleteSession(id string) error {
	_, err := s.db.Exec(`DELETE FROM assessment_sessions WHERE id = ?`, id)
	return err
}

// CleanupExpiredSessions removes all expired sessions and returns how many were removed.
func (s *Store) CleanupExpiredSessions() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM assessment_sessions WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// RunJanitor removes expired sessions every interval until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := s.CleanupExpiredSessions()
			if err != nil {
				slog.Error("session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("removed expired sessions", "count", n)
			}
		}
	}
}

// ListSessions returns all sessions, most recently updated first.
func (s *Store) ListSessions() ([]model.SessionState, error) {
	rows, err := s.db.Query(
		`SELECT id, answers, code, created_at, updated_at, expires_at
		 FROM assessment_sessions ORDER BY updated_at DESC, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sessions []model.SessionState
	for rows.Next() {
		var (
			sess    model.SessionState
			answers string
			code    string
		)
		if err := rows.Scan(&sess.ID, &answers, &code, &sess.CreatedAt, &sess.UpdatedAt, &sess.ExpiresAt); err != nil {
			return nil, err
		}
		sess.Answers = decodeAnswers(answers)
		sess.Code = model.Code(code)
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// SessionCount returns the number of stored sessions, expired or not.
func (s *Store) SessionCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM assessment_sessions`).Scan(&count)
	return count, err
}

// CodeDistribution counts sessions per computed code, most common first.
func (s *Store) CodeDistribution() ([]model.CodeCount, error) {
	rows, err := s.db.Query(
		`SELECT code, COUNT(*) AS n FROM assessment_sessions
		 WHERE code != '' GROUP BY code ORDER BY n DESC, code`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.CodeCount
	for rows.Next() {
		var cc model.CodeCount
		if err := rows.Scan(&cc.Code, &cc.Count); err != nil {
			return nil, err
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}

func encodeAnswers(answers []model.Category) string {
	var sb strings.Builder
	for _, a := range answers {
		sb.WriteString(string(a))
	}
	return sb.String()
}

func decodeAnswers(s string) []model.Category {
	if s == "" {
		return nil
	}
	out := make([]model.Category, 0, len(s))
	for _, r := range s {
		out = append(out, model.Category(string(r)))
	}
	return out
}
