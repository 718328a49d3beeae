package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested session does not exist.
var ErrNotFound = errors.New("session not found")

// ListSessions returns sessions in seq order, newest last. A non-empty
// designName filters to one design.
func (s *Store) ListSessions(ctx context.Context, designName string) ([]Session, error) {
	query := `
		SELECT seq, design_name, design_hash, report, error_count, created_at
		FROM sessions
		ORDER BY seq ASC
	`
	args := []any{}
	if designName != "" {
		query = `
			SELECT seq, design_name, design_hash, report, error_count, created_at
			FROM sessions
			WHERE design_name = ?
			ORDER BY seq ASC
		`
		args = append(args, designName)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.Seq, &sess.DesignName, &sess.DesignHash, &sess.Report, &sess.ErrorCount, &sess.CreatedAt); err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// GetSession fetches one session by seq.
func (s *Store) GetSession(ctx context.Context, seq int64) (*Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx, `
		SELECT seq, design_name, design_hash, report, error_count, created_at
		FROM sessions
		WHERE seq = ?
	`, seq).Scan(&sess.Seq, &sess.DesignName, &sess.DesignHash, &sess.Report, &sess.ErrorCount, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &sess, nil
}

// MoveSnapshots returns a session's move captures in seq order.
func (s *Store) MoveSnapshots(ctx context.Context, sessionSeq int64) ([]MoveSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, session_seq, token_id, snapshot
		FROM move_snapshots
		WHERE session_seq = ?
		ORDER BY seq ASC
	`, sessionSeq)
	if err != nil {
		return nil, fmt.Errorf("move snapshots: %w", err)
	}
	defer rows.Close()

	var out []MoveSnapshot
	for rows.Next() {
		var snap MoveSnapshot
		if err := rows.Scan(&snap.Seq, &snap.SessionSeq, &snap.TokenID, &snap.Snapshot); err != nil {
			return nil, fmt.Errorf("move snapshots: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}
