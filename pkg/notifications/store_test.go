package notifications

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byrencheema/tappy/pkg/db"
	"github.com/byrencheema/tappy/pkg/db/migrations"
	skilltypes "github.com/byrencheema/tappy/pkg/types/skills"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	sqlDB, err := db.Open(ctx, filepath.Join(t.TempDir(), "tappy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.RunMigrations(ctx, sqlDB, migrations.All()))
	return sqlDB
}

func sample(createdAt time.Time) *Notification {
	return &Notification{
		ID:          uuid.NewString(),
		NoteExcerpt: "need to find ML engineer roles in Austin",
		SkillID:     "tech-job-search",
		SkillName:   "Tech Job Search",
		Title:       "💼 Found 3 jobs",
		Message:     "1. Backend Engineer at Initech",
		ActionLabel: "Browse Results",
		Status:      skilltypes.FormattedNeedsConfirmation,
		Links: []skilltypes.Link{
			{Label: "Posting", URL: "https://example.com/job/1", Kind: "job"},
		},
		CreatedAt: createdAt,
	}
}

func TestStoreCreateAndGet(t *testing.T) {
	store := NewStore(testDB(t))
	ctx := context.Background()

	want := sample(time.Now().UTC().Truncate(time.Second))
	require.NoError(t, store.Create(ctx, want))

	got, err := store.Get(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Status, got.Status)
	assert.Equal(t, want.Links, got.Links)
	assert.False(t, got.Read)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
}

func TestStoreGetMissing(t *testing.T) {
	store := NewStore(testDB(t))

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreListNewestFirst(t *testing.T) {
	store := NewStore(testDB(t))
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	oldest := sample(base.Add(-2 * time.Hour))
	middle := sample(base.Add(-time.Hour))
	newest := sample(base)
	for _, n := range []*Notification{oldest, middle, newest} {
		require.NoError(t, store.Create(ctx, n))
	}

	list, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, newest.ID, list[0].ID)
	assert.Equal(t, oldest.ID, list[2].ID)

	list, err = store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestStoreMarkReadAndCount(t *testing.T) {
	store := NewStore(testDB(t))
	ctx := context.Background()

	first := sample(time.Now().UTC())
	second := sample(time.Now().UTC())
	require.NoError(t, store.Create(ctx, first))
	require.NoError(t, store.Create(ctx, second))

	count, err := store.CountUnread(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.MarkRead(ctx, first.ID))

	got, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, got.Read)

	count, err = store.CountUnread(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.ErrorIs(t, store.MarkRead(ctx, "missing"), ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(testDB(t))
	ctx := context.Background()

	n := sample(time.Now().UTC())
	require.NoError(t, store.Create(ctx, n))
	require.NoError(t, store.Delete(ctx, n.ID))

	_, err := store.Get(ctx, n.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, n.ID), ErrNotFound)
}

func TestStoreEmptyLinksRoundTrip(t *testing.T) {
	store := NewStore(testDB(t))
	ctx := context.Background()

	n := sample(time.Now().UTC())
	n.Links = nil
	require.NoError(t, store.Create(ctx, n))

	got, err := store.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Links)
}
