package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/thenoetrevino/labelschema/internal/schema"
)

// ErrDraftNotFound is returned when no draft exists for a key
var ErrDraftNotFound = errors.New("draft not found")

// DraftRepo stores the latest schema state per draft key
type DraftRepo struct {
	db *sql.DB
}

// Draft is a saved schema state
type Draft struct {
	Key     string
	State   schema.State
	SavedAt time.Time
}

// Save upserts the state for key
func (r *DraftRepo) Save(ctx context.Context, key string, state schema.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO drafts (draft_key, state, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(draft_key) DO UPDATE SET state = excluded.state, saved_at = excluded.saved_at`,
		key, string(data), time.Now().UTC(),
	)
	return err
}

// Load returns the draft for key, or ErrDraftNotFound
func (r *DraftRepo) Load(ctx context.Context, key string) (*Draft, error) {
	var (
		raw     string
		savedAt time.Time
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT state, saved_at FROM drafts WHERE draft_key = ?`, key,
	).Scan(&raw, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}

	var state schema.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("failed to decode draft %q: %w", key, err)
	}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("draft %q: %w", key, err)
	}

	return &Draft{Key: key, State: state, SavedAt: savedAt}, nil
}

// Delete removes the draft for key. Deleting a missing draft is not an error.
func (r *DraftRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE draft_key = ?`, key)
	return err
}
