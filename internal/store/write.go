package store

import (
	"context"
	"fmt"
)

// Session is one recorded validation run.
type Session struct {
	Seq        int64  `json:"seq"`
	DesignName string `json:"design_name"`
	DesignHash string `json:"design_hash"`

	// Report is the canonical-JSON serialization of the schema error list.
	Report     string `json:"report"`
	ErrorCount int    `json:"error_count"`
	CreatedAt  string `json:"created_at"`
}

// MoveSnapshot is one recorded ValidMoveSet capture.
type MoveSnapshot struct {
	Seq        int64  `json:"seq"`
	SessionSeq int64  `json:"session_seq"`
	TokenID    string `json:"token_id"`

	// Snapshot is the canonical-JSON serialization of the move set.
	Snapshot string `json:"snapshot"`
}

// SaveSession appends a validation run and returns its seq.
func (s *Store) SaveSession(ctx context.Context, designName, designHash, report string, errorCount int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (design_name, design_hash, report, error_count)
		VALUES (?, ?, ?, ?)
	`, designName, designHash, report, errorCount)
	if err != nil {
		return 0, fmt.Errorf("save session: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save session: %w", err)
	}
	return seq, nil
}

// SaveMoveSnapshot appends a ValidMoveSet capture under a session.
func (s *Store) SaveMoveSnapshot(ctx context.Context, sessionSeq int64, tokenID, snapshot string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO move_snapshots (session_seq, token_id, snapshot)
		VALUES (?, ?, ?)
	`, sessionSeq, tokenID, snapshot)
	if err != nil {
		return fmt.Errorf("save move snapshot: %w", err)
	}
	return nil
}
