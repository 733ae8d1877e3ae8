package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/labelschema/internal/models"
	"github.com/thenoetrevino/labelschema/internal/schema"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// setupTestRepo creates an in-memory database and runs migrations
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := InitDB(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	repo := NewRepository(db)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sampleState() schema.State {
	return schema.State{
		ColourSchemes: []*models.ColourScheme{
			{ID: models.AssignedID(1), Active: true, Name: "natural", HumanName: "Natural"},
		},
		Groups: []*models.LabelClassGroup{
			{
				ID: models.PlaceholderID("g-1"), Active: true, GroupName: "Animals",
				GroupClasses: []*models.LabelClass{
					{
						ID: models.AssignedID(7), Active: false, Name: "cat", HumanName: "Cat",
						Colours: models.ColourMap{"natural": {HTML: "#112233"}, "default": {HTML: "#808080"}},
					},
				},
			},
		},
	}
}

// ============================================================================
// Drafts
// ============================================================================

func TestDraft_SaveAndLoad(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveDraft(ctx, "http://example/update", sampleState()))

	draft, err := repo.LoadDraft(ctx, "http://example/update")
	require.NoError(t, err)

	assert.Equal(t, sampleState(), draft.State)
	assert.False(t, draft.SavedAt.IsZero())
}

func TestDraft_SaveOverwrites(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveDraft(ctx, "k", sampleState()))
	require.NoError(t, repo.SaveDraft(ctx, "k", schema.State{
		ColourSchemes: []*models.ColourScheme{},
		Groups:        []*models.LabelClassGroup{},
	}))

	draft, err := repo.LoadDraft(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, draft.State.Groups)
}

func TestDraft_Missing(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	_, err := repo.LoadDraft(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestDraft_LoadRejectsNullEntries(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveDraft(ctx, "schemes", schema.State{
		ColourSchemes: []*models.ColourScheme{nil},
		Groups:        []*models.LabelClassGroup{},
	}))
	require.NoError(t, repo.SaveDraft(ctx, "groups", schema.State{
		ColourSchemes: []*models.ColourScheme{},
		Groups:        []*models.LabelClassGroup{nil},
	}))

	_, err := repo.LoadDraft(ctx, "schemes")
	assert.ErrorIs(t, err, schema.ErrNullEntry)

	_, err = repo.LoadDraft(ctx, "groups")
	assert.ErrorIs(t, err, schema.ErrNullEntry)
}

func TestDraft_Delete(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveDraft(ctx, "k", sampleState()))
	require.NoError(t, repo.DeleteDraft(ctx, "k"))
	require.NoError(t, repo.DeleteDraft(ctx, "k"))

	_, err := repo.LoadDraft(ctx, "k")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestDraft_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "drafts.db")
	ctx := context.Background()

	db, err := InitDB(ctx, path)
	require.NoError(t, err)
	require.NoError(t, NewRepository(db).SaveDraft(ctx, "k", sampleState()))
	require.NoError(t, db.Close())

	db, err = InitDB(ctx, path)
	require.NoError(t, err)
	repo := NewRepository(db)
	defer repo.Close()

	draft, err := repo.LoadDraft(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "Animals", draft.State.Groups[0].GroupName)
}

// ============================================================================
// Sync log
// ============================================================================

func TestSyncLog_RecordAndRecent(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	ctx := context.Background()

	first, err := repo.RecordSync(ctx, SyncRecord{DraftKey: "k", Action: models.ActionUpdateColourSchemes, Succeeded: true, Remapped: 2})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	_, err = repo.RecordSync(ctx, SyncRecord{DraftKey: "k", Action: models.ActionUpdateLabelClassGroups, ErrorCode: "rejected", Message: "status failed"})
	require.NoError(t, err)
	_, err = repo.RecordSync(ctx, SyncRecord{DraftKey: "other", Action: models.ActionUpdateColourSchemes, Succeeded: true})
	require.NoError(t, err)

	recent, err := repo.RecentSyncs(ctx, "k", 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	assert.Equal(t, models.ActionUpdateLabelClassGroups, recent[0].Action)
	assert.False(t, recent[0].Succeeded)
	assert.Equal(t, "rejected", recent[0].ErrorCode)
	assert.True(t, recent[1].Succeeded)
	assert.Equal(t, 2, recent[1].Remapped)
}

func TestSyncLog_Limit(t *testing.T) {
	t.Parallel()

	repo := setupTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.RecordSync(ctx, SyncRecord{DraftKey: "k", Action: models.ActionUpdateColourSchemes, Succeeded: true})
		require.NoError(t, err)
	}

	recent, err := repo.RecentSyncs(ctx, "k", 3)
	require.NoError(t, err)
	assert.Len(t, recent, 3)
}
