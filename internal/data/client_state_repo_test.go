package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/lexdesk/internal/testutil"
	"github.com/target/lexdesk/internal/testutil/storetest"
)

func TestClientStateRepo_Contract(t *testing.T) {
	db := testutil.SetupAutoDB(t)
	t.Cleanup(func() { _ = db.Close() })

	storetest.Run(t, NewClientStateRepo(db))
}

func TestClientStateRepo_PurgeIdle(t *testing.T) {
	db := testutil.SetupAutoDB(t)
	t.Cleanup(func() { _ = db.Close() })
	repo := NewClientStateRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "stale", map[string]string{"auth_token": "a", "user": "{}"}))
	require.NoError(t, repo.Set(ctx, "fresh", map[string]string{"theme": "dark"}))
	_, err := db.ExecContext(ctx,
		`UPDATE client_state SET updated_at = now() - interval '2 days' WHERE client_id = 'stale'`)
	require.NoError(t, err)

	n, err := repo.PurgeIdle(ctx, time.Now().Add(-24*time.Hour), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.PurgeIdle(ctx, time.Now().Add(-24*time.Hour), 100)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := repo.Get(ctx, "stale", "auth_token", "user")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = repo.Get(ctx, "fresh", "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", got["theme"])
}

func TestClientStateRepo_RequiresClientID(t *testing.T) {
	repo := NewClientStateRepo(nil)
	ctx := context.Background()

	_, err := repo.Get(ctx, "", "theme")
	require.ErrorIs(t, err, ErrClientIDRequired)
	require.ErrorIs(t, repo.Set(ctx, "", map[string]string{"theme": "dark"}), ErrClientIDRequired)
	require.NoError(t, repo.Delete(ctx, "", "theme"))
}
