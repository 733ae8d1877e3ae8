package database

import (
	"context"
	"database/sql"
	"time"
)

// SyncRecord is one update attempt as seen by the updater
type SyncRecord struct {
	ID        int       `json:"id"`
	DraftKey  string    `json:"draft_key"`
	Action    string    `json:"action"`
	Succeeded bool      `json:"succeeded"`
	ErrorCode string    `json:"error_code,omitempty"`
	Message   string    `json:"message,omitempty"`
	Remapped  int       `json:"remapped"`
	CreatedAt time.Time `json:"created_at"`
}

// SyncRepo appends and lists update attempts
type SyncRepo struct {
	db *sql.DB
}

// Record appends rec and returns it with its ID set
func (r *SyncRepo) Record(ctx context.Context, rec SyncRecord) (*SyncRecord, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO sync_log (draft_key, action, succeeded, error_code, message, remapped, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.DraftKey, rec.Action, rec.Succeeded, rec.ErrorCode, rec.Message, rec.Remapped, rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	rec.ID = int(id)
	return &rec, nil
}

// Recent returns up to limit records for draftKey, newest first
func (r *SyncRepo) Recent(ctx context.Context, draftKey string, limit int) ([]*SyncRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, draft_key, action, succeeded, error_code, message, remapped, created_at
		 FROM sync_log WHERE draft_key = ? ORDER BY id DESC LIMIT ?`,
		draftKey, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*SyncRecord
	for rows.Next() {
		rec := &SyncRecord{}
		if err := rows.Scan(&rec.ID, &rec.DraftKey, &rec.Action, &rec.Succeeded,
			&rec.ErrorCode, &rec.Message, &rec.Remapped, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
