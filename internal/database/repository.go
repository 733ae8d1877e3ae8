package database

import (
	"context"
	"database/sql"

	"github.com/thenoetrevino/labelschema/internal/schema"
)

// DataStore is everything the editor needs from local storage
type DataStore interface {
	SaveDraft(ctx context.Context, key string, state schema.State) error
	LoadDraft(ctx context.Context, key string) (*Draft, error)
	DeleteDraft(ctx context.Context, key string) error
	RecordSync(ctx context.Context, rec SyncRecord) (*SyncRecord, error)
	RecentSyncs(ctx context.Context, draftKey string, limit int) ([]*SyncRecord, error)
}

// Compile-time verification that *Repository implements DataStore
var _ DataStore = (*Repository)(nil)

// Repository composes the domain repositories over one connection.
type Repository struct {
	*DraftRepo
	*SyncRepo
	db *sql.DB
}

// NewRepository wraps db
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DraftRepo: &DraftRepo{db: db},
		SyncRepo:  &SyncRepo{db: db},
		db:        db,
	}
}

func (r *Repository) SaveDraft(ctx context.Context, key string, state schema.State) error {
	return r.DraftRepo.Save(ctx, key, state)
}

func (r *Repository) LoadDraft(ctx context.Context, key string) (*Draft, error) {
	return r.DraftRepo.Load(ctx, key)
}

func (r *Repository) DeleteDraft(ctx context.Context, key string) error {
	return r.DraftRepo.Delete(ctx, key)
}

func (r *Repository) RecordSync(ctx context.Context, rec SyncRecord) (*SyncRecord, error) {
	return r.SyncRepo.Record(ctx, rec)
}

func (r *Repository) RecentSyncs(ctx context.Context, draftKey string, limit int) ([]*SyncRecord, error) {
	return r.SyncRepo.Recent(ctx, draftKey, limit)
}

// Close closes the underlying connection
func (r *Repository) Close() error {
	return r.db.Close()
}
